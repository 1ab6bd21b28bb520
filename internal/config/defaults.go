package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultOutputDir            = "./webm"
	defaultLogDir               = "~/.local/share/tg-webm-converter/logs"
	defaultFFmpegBinary         = "ffmpeg"
	defaultFFprobeBinary        = "ffprobe"
	defaultFFmpegTimeoutSeconds = 300
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultHistoryEnabled       = true
	defaultHistoryDatabaseName  = "history.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		FFmpeg: FFmpeg{
			Binary:         defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
			TimeoutSeconds: defaultFFmpegTimeoutSeconds,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
			Path:    defaultHistoryPath(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultHistoryPath() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "tg-webm-converter", defaultHistoryDatabaseName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/share/tg-webm-converter/" + defaultHistoryDatabaseName
	}
	return filepath.Join(home, ".local", "share", "tg-webm-converter", defaultHistoryDatabaseName)
}
