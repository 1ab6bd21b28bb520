package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/ffmpeg"))
	if cli.Binary() != "/opt/ffmpeg" {
		t.Fatalf("expected binary override to be applied, got %q", cli.Binary())
	}
}

func TestRunRequiresArguments(t *testing.T) {
	cli := NewCLI()
	if err := cli.Run(context.Background(), nil); err == nil {
		t.Fatal("expected error when no arguments are given")
	}
}

func TestRunNotFound(t *testing.T) {
	t.Setenv("PATH", "")
	cli := NewCLI(WithBinary("definitely-not-ffmpeg"))

	err := cli.Run(context.Background(), []string{"-version"})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !strings.Contains(err.Error(), "ffmpeg not found") {
		t.Fatalf("expected not-found error, got: %v", err)
	}
}

func TestRunPrependsGlobalFlags(t *testing.T) {
	var capturedArgs []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		capturedArgs = append([]string(nil), args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE=success")
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})

	cli := NewCLI()
	if err := cli.Run(context.Background(), []string{"-i", "in.png", "out.webm"}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(capturedArgs) < 2 || capturedArgs[0] != "-hide_banner" || capturedArgs[1] != "-y" {
		t.Fatalf("expected global flags to be prepended, got %v", capturedArgs)
	}
	if capturedArgs[len(capturedArgs)-1] != "out.webm" {
		t.Fatalf("expected caller arguments to be preserved, got %v", capturedArgs)
	}
}

func TestRunFailureIncludesOutputTail(t *testing.T) {
	setHelperCommand(t, "failure")

	cli := NewCLI()
	err := cli.Run(context.Background(), []string{"-i", "broken.png", "out.webm"})
	if err == nil {
		t.Fatal("expected encode failure error")
	}
	if !strings.Contains(err.Error(), "Conversion failed!") {
		t.Fatalf("expected stderr tail in error, got: %v", err)
	}
}

func TestRunFailurePersistsLog(t *testing.T) {
	setHelperCommand(t, "failure")

	logDir := filepath.Join(t.TempDir(), "logs")
	cli := NewCLI(WithLogDir(logDir))
	err := cli.Run(context.Background(), []string{"-i", "broken.png", "out.webm"})
	if err == nil {
		t.Fatal("expected encode failure error")
	}

	entries, globErr := filepath.Glob(filepath.Join(logDir, "ffmpeg-*.log"))
	if globErr != nil {
		t.Fatalf("glob log dir: %v", globErr)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one failure log, got %v", entries)
	}
	data, readErr := os.ReadFile(entries[0])
	if readErr != nil {
		t.Fatalf("read failure log: %v", readErr)
	}
	if !strings.Contains(string(data), "Conversion failed!") {
		t.Fatalf("unexpected log contents: %q", string(data))
	}
	if !strings.Contains(err.Error(), entries[0]) {
		t.Fatalf("expected error to reference log path, got: %v", err)
	}
}

func TestRunSuccessWritesNoLog(t *testing.T) {
	setHelperCommand(t, "success")

	logDir := filepath.Join(t.TempDir(), "logs")
	cli := NewCLI(WithLogDir(logDir))
	if err := cli.Run(context.Background(), []string{"-i", "in.png", "out.webm"}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	entries, err := filepath.Glob(filepath.Join(logDir, "ffmpeg-*.log"))
	if err != nil {
		t.Fatalf("glob log dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no logs on success, got %v", entries)
	}
}

func setHelperCommand(t *testing.T, mode string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", fmt.Sprintf("FFMPEG_HELPER_MODE=%s", mode))
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("FFMPEG_HELPER_MODE") {
	case "success":
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "frame=    1 fps=0.0 q=0.0 size=       0KiB")
		fmt.Fprintln(os.Stderr, "Conversion failed!")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}
