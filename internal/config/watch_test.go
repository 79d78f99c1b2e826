package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchSeedReportsValidChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	initial := []byte("container: guides\nentries:\n  - id: guides\n    title: Guides\n    type: folder\n")
	if err := os.WriteFile(path, initial, 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Seed, 8)
	if err := WatchSeed(ctx, path, func(seed Seed) { changes <- seed }); err != nil {
		t.Fatalf("watch seed: %v", err)
	}

	if err := os.WriteFile(path, []byte("container: [\n"), 0o644); err != nil {
		t.Fatalf("write invalid seed: %v", err)
	}
	updated := []byte("container: guides\nentries:\n  - id: guides\n    title: Guides\n    type: folder\n  - id: faq\n    title: FAQ\n")
	if err := os.WriteFile(path, updated, 0o644); err != nil {
		t.Fatalf("write updated seed: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case seed := <-changes:
			if len(seed.Entries) == 2 {
				return
			}
		case <-deadline:
			t.Fatal("expected the updated seed to be reported")
		}
	}
}

func TestWatchSeedWithoutPathIsNoop(t *testing.T) {
	if err := WatchSeed(context.Background(), "  ", func(Seed) { t.Fatal("unexpected callback") }); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
