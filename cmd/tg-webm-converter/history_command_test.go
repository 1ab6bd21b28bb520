package main

import (
	"context"
	"testing"
	"time"

	"github.com/7591yj/tg-webm-converter/internal/config"
	"github.com/7591yj/tg-webm-converter/internal/history"
)

func TestHistoryCommandEmpty(t *testing.T) {
	setupCLITestEnv(t)

	out, err := runCLI(t, []string{"history"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No conversions recorded yet")
}

func TestHistoryCommandListsEntries(t *testing.T) {
	setupCLITestEnv(t)

	cfg := config.Default()
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	entry := history.Entry{
		Kind:        "sticker",
		SourcePath:  "/tmp/cat.png",
		OutputPath:  "/tmp/webm/cat.webm",
		OutputBytes: 120 * 1024,
		Status:      history.StatusSuccess,
		Elapsed:     2 * time.Second,
	}
	if _, err := store.Record(context.Background(), entry); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	out, err := runCLI(t, []string{"history"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "cat.png")
	requireContains(t, out, "cat.webm")
	requireContains(t, out, "sticker")
}
