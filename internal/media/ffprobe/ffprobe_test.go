package ffprobe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
)

func TestInspectParsesDimensions(t *testing.T) {
	setHelperCommand(t, "image")

	result, err := Inspect(context.Background(), "ffprobe", "cat.png")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}

	width, height, err := result.Dimensions()
	if err != nil {
		t.Fatalf("Dimensions returned error: %v", err)
	}
	if width != 1024 || height != 768 {
		t.Fatalf("unexpected dimensions: %dx%d", width, height)
	}
	if result.IsAnimated() {
		t.Fatal("expected still image to not be animated")
	}
}

func TestInspectAnimatedInput(t *testing.T) {
	setHelperCommand(t, "animated")

	result, err := Inspect(context.Background(), "ffprobe", "dance.gif")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if !result.IsAnimated() {
		t.Fatal("expected animated input to report multiple frames")
	}
	if result.DurationSeconds() != 4.2 {
		t.Fatalf("unexpected duration: %f", result.DurationSeconds())
	}
}

func TestInspectFailure(t *testing.T) {
	setHelperCommand(t, "failure")

	if _, err := Inspect(context.Background(), "ffprobe", "broken.jpg"); err == nil {
		t.Fatal("expected inspect error")
	}
}

func TestInspectEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestDimensionsNoVideoStream(t *testing.T) {
	if _, _, err := (Result{}).Dimensions(); err == nil {
		t.Fatal("expected error when no video stream exists")
	}
}

func setHelperCommand(t *testing.T, mode string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", fmt.Sprintf("FFPROBE_HELPER_MODE=%s", mode))
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

	switch os.Getenv("FFPROBE_HELPER_MODE") {
	case "image":
		fmt.Println(`{"streams":[{"index":0,"codec_name":"png","codec_type":"video","width":1024,"height":768,"nb_frames":"1"}],"format":{"filename":"cat.png","nb_streams":1,"format_name":"png_pipe"}}`)
		os.Exit(0)
	case "animated":
		fmt.Println(`{"streams":[{"index":0,"codec_name":"gif","codec_type":"video","width":480,"height":480,"nb_frames":"42"}],"format":{"filename":"dance.gif","nb_streams":1,"duration":"4.2","format_name":"gif"}}`)
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "broken.jpg: Invalid data found when processing input")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}
