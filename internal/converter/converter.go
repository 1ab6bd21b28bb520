package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/7591yj/tg-webm-converter/internal/logging"
	"github.com/7591yj/tg-webm-converter/internal/media/ffprobe"
	"github.com/7591yj/tg-webm-converter/internal/services/ffmpeg"
)

// Telegram's published limits for WebM sticker sets.
const (
	// StickerMaxBytes is the upper bound for a video sticker file.
	StickerMaxBytes = 256 * 1024
	// IconMaxBytes is the upper bound for a sticker-set icon file.
	IconMaxBytes = 32 * 1024
	// StickerSide is the exact length of a sticker's longer side.
	StickerSide = 512
	// IconSide is the exact width and height of a sticker-set icon.
	IconSide = 100
	// MaxDurationSeconds caps animated inputs.
	MaxDurationSeconds = 3
)

// crfLadder holds the VP9 quality steps tried in order until the encoded
// output fits the byte limit. Higher CRF means smaller output.
var crfLadder = []int{32, 40, 48, 56, 63}

// test hook
var inspect = ffprobe.Inspect

// Kind distinguishes sticker and icon conversions.
type Kind string

const (
	KindSticker Kind = "sticker"
	KindIcon    Kind = "icon"
)

// Result describes a finished conversion.
type Result struct {
	Kind        Kind
	SourcePath  string
	OutputPath  string
	OutputBytes int64
	Passes      int
	Elapsed     time.Duration
}

// Converter turns images into Telegram-compatible WebM files.
type Converter struct {
	outputDir     string
	ffmpeg        ffmpeg.Client
	ffprobeBinary string
	logger        *slog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithFFmpeg overrides the ffmpeg client.
func WithFFmpeg(client ffmpeg.Client) Option {
	return func(c *Converter) {
		if client != nil {
			c.ffmpeg = client
		}
	}
}

// WithFFprobeBinary overrides the ffprobe binary name.
func WithFFprobeBinary(binary string) Option {
	return func(c *Converter) {
		if strings.TrimSpace(binary) != "" {
			c.ffprobeBinary = binary
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a Converter and creates the output directory.
func New(outputDir string, opts ...Option) (*Converter, error) {
	outputDir = strings.TrimSpace(outputDir)
	if outputDir == "" {
		return nil, errors.New("converter: output directory required")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("converter: create output directory: %w", err)
	}

	c := &Converter{
		outputDir:     outputDir,
		ffmpeg:        ffmpeg.NewCLI(),
		ffprobeBinary: "ffprobe",
		logger:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "converter")
	return c, nil
}

// OutputDir returns the directory converted files are written to.
func (c *Converter) OutputDir() string {
	return c.outputDir
}

// ConvertToSticker converts the input into a WebM video sticker: the longer
// side scaled to exactly 512, VP9, no audio, at most 3 seconds and 256 KiB.
func (c *Converter) ConvertToSticker(ctx context.Context, path string) (Result, error) {
	if err := checkInput(path); err != nil {
		return Result{}, err
	}

	probed, err := inspect(ctx, c.ffprobeBinary, path)
	if err != nil {
		return Result{}, fmt.Errorf("inspect %s: %w", path, err)
	}
	width, height, err := probed.Dimensions()
	if err != nil {
		return Result{}, fmt.Errorf("inspect %s: %w", path, err)
	}

	// Scale the longer side to 512; the other side stays proportional and
	// even, as VP9 prefers.
	filter := "scale=-2:" + strconv.Itoa(StickerSide)
	if width >= height {
		filter = "scale=" + strconv.Itoa(StickerSide) + ":-2"
	}

	animated := probed.IsAnimated()
	if duration := probed.DurationSeconds(); animated && duration > MaxDurationSeconds {
		c.logger.Debug("trimming animated input",
			"source", filepath.Base(path),
			"duration_seconds", duration,
			"source_bytes", probed.SizeBytes(),
		)
	}

	return c.encode(ctx, KindSticker, path, filter, StickerMaxBytes, animated)
}

// ConvertToIcon converts the input into a 100x100 WebM sticker-set icon of at
// most 32 KiB. Inputs keep their aspect ratio and are padded with
// transparency.
func (c *Converter) ConvertToIcon(ctx context.Context, path string) (Result, error) {
	if err := checkInput(path); err != nil {
		return Result{}, err
	}

	probed, err := inspect(ctx, c.ffprobeBinary, path)
	if err != nil {
		return Result{}, fmt.Errorf("inspect %s: %w", path, err)
	}

	side := strconv.Itoa(IconSide)
	filter := "scale=" + side + ":" + side + ":force_original_aspect_ratio=decrease," +
		"pad=" + side + ":" + side + ":(ow-iw)/2:(oh-ih)/2:color=0x00000000"

	return c.encode(ctx, KindIcon, path, filter, IconMaxBytes, probed.IsAnimated())
}

// encode runs ffmpeg with a rising CRF until the output fits maxBytes.
// Animated inputs get the duration cap; a still image is a single frame and
// needs none.
func (c *Converter) encode(ctx context.Context, kind Kind, path, filter string, maxBytes int64, animated bool) (Result, error) {
	outputPath := c.outputPathFor(path)
	started := time.Now()

	for pass, crf := range crfLadder {
		args := []string{
			"-i", path,
			"-vf", filter,
			"-c:v", "libvpx-vp9",
			"-pix_fmt", "yuva420p",
			"-an",
		}
		if animated {
			args = append(args, "-t", strconv.Itoa(MaxDurationSeconds))
		}
		args = append(args,
			"-b:v", "0",
			"-crf", strconv.Itoa(crf),
			outputPath,
		)
		if err := c.ffmpeg.Run(ctx, args); err != nil {
			_ = os.Remove(outputPath)
			return Result{}, err
		}

		info, err := os.Stat(outputPath)
		if err != nil {
			return Result{}, fmt.Errorf("stat output %s: %w", outputPath, err)
		}
		if info.Size() <= maxBytes {
			result := Result{
				Kind:        kind,
				SourcePath:  path,
				OutputPath:  outputPath,
				OutputBytes: info.Size(),
				Passes:      pass + 1,
				Elapsed:     time.Since(started),
			}
			c.logger.Info("converted",
				"kind", string(kind),
				"source", filepath.Base(path),
				"output", filepath.Base(outputPath),
				"bytes", info.Size(),
				"passes", result.Passes,
			)
			return result, nil
		}
		c.logger.Debug("output over limit, retrying",
			"kind", string(kind),
			"source", filepath.Base(path),
			"bytes", info.Size(),
			"limit", maxBytes,
			"crf", crf,
		)
	}

	_ = os.Remove(outputPath)
	return Result{}, fmt.Errorf("convert %s: output exceeds %d bytes at maximum compression", filepath.Base(path), maxBytes)
}

// outputPathFor derives the .webm output path from the input name. The stem
// is NFC-normalized so names composed on macOS stay stable.
func (c *Converter) outputPathFor(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return filepath.Join(c.outputDir, norm.NFC.String(stem)+".webm")
}

func checkInput(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("input path required")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file %s does not exist", path)
		}
		return fmt.Errorf("inspect input %s: %w", path, err)
	}
	return nil
}
