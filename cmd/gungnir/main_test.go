package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/gungnir/config"
	"github.com/lixenwraith/gungnir/network"
)

func TestRunSnapshotWritesPNG(t *testing.T) {
	cfg := network.DefaultConfig()
	cfg.Seed = 7
	out := filepath.Join(t.TempDir(), "net.png")

	if err := runSnapshot(cfg, out, 10, 160, 90); err != nil {
		t.Fatalf("runSnapshot: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 90 {
		t.Errorf("snapshot size = %dx%d, want 160x90", b.Dx(), b.Dy())
	}
}

func TestRunSnapshotRejectsZeroArea(t *testing.T) {
	out := filepath.Join(t.TempDir(), "net.png")
	if err := runSnapshot(network.DefaultConfig(), out, 1, 0, 90); err == nil {
		t.Error("zero-width snapshot accepted")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("failed snapshot left a file behind")
	}
}

func TestApplyFlagsOnlyExplicit(t *testing.T) {
	cfg := config.Default()
	cfg.Network.NodeCount = 44

	// Nothing set on the command line: config wins
	applyFlags(cfg)
	if cfg.Network.NodeCount != 44 {
		t.Errorf("unset flag overrode config: %d", cfg.Network.NodeCount)
	}
}
