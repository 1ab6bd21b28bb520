package deps

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\necho \"present version 1.0\"\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(context.Background(), reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Version != "present version 1.0" {
		t.Fatalf("unexpected version: %q", results[0].Version)
	}

	if results[1].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatal("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
}

func TestCheckBinariesEmptyCommand(t *testing.T) {
	results := CheckBinaries(context.Background(), []Requirement{{Name: "Blank"}})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Available {
		t.Fatal("expected unavailable status for empty command")
	}
	if results[0].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %q", results[0].Detail)
	}
}

func TestProbeReturnsFirstLine(t *testing.T) {
	setProbeHelper(t, "multiline")

	version, err := Probe(context.Background(), "ffmpeg")
	if err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if version != "ffmpeg version 7.1 Copyright (c) 2000-2024" {
		t.Fatalf("unexpected version line: %q", version)
	}
}

func TestProbeEmptyOutput(t *testing.T) {
	setProbeHelper(t, "empty")

	if _, err := Probe(context.Background(), "ffmpeg"); err == nil {
		t.Fatal("expected error for empty version output")
	}
}

func TestProbeEmptyBinary(t *testing.T) {
	if _, err := Probe(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty binary name")
	}
}

func setProbeHelper(t *testing.T, mode string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", fmt.Sprintf("DEPS_HELPER_MODE=%s", mode))
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

	switch os.Getenv("DEPS_HELPER_MODE") {
	case "multiline":
		fmt.Println("ffmpeg version 7.1 Copyright (c) 2000-2024")
		fmt.Println("built with gcc 14.2.0")
		os.Exit(0)
	case "empty":
		fmt.Println(strings.TrimSpace(""))
		os.Exit(0)
	default:
		os.Exit(0)
	}
}
