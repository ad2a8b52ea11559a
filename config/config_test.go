package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	tomlContent := `
[engine]
fps = 60
turbo = true

[stage]
width = 640
height = 480
sprite-fencing = false

[clones]
limit = 50
`
	if err := os.WriteFile(filepath.Join(dir, "scratch.toml"), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.Engine.FPS != 60 {
		t.Errorf("fps = %v, want 60", c.Engine.FPS)
	}
	if !c.Engine.Turbo {
		t.Error("turbo = false, want true")
	}
	if c.Stage.Width != 640 || c.Stage.Height != 480 {
		t.Errorf("stage = %dx%d, want 640x480", c.Stage.Width, c.Stage.Height)
	}
	if c.Stage.SpriteFencing {
		t.Error("sprite fencing = true, want false")
	}
	if c.Clones.Limit != 50 {
		t.Errorf("clone limit = %d, want 50", c.Clones.Limit)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "scratch.toml"), []byte("[engine]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.Engine.FPS != 30 {
		t.Errorf("default fps = %v, want 30", c.Engine.FPS)
	}
	if c.Stage.Width != 480 || c.Stage.Height != 360 {
		t.Errorf("default stage = %dx%d, want 480x360", c.Stage.Width, c.Stage.Height)
	}
	if !c.Stage.SpriteFencing {
		t.Error("default sprite fencing = false, want true")
	}
	if c.Clones.Limit != 300 {
		t.Errorf("default clone limit = %d, want 300", c.Clones.Limit)
	}
}

func TestFindAndLoad(t *testing.T) {
	dir := t.TempDir()
	subDir := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "scratch.toml"), []byte("[engine]\nfps = 120\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(subDir)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if c == nil {
		t.Fatal("FindAndLoad returned nil")
	}
	if c.Engine.FPS != 120 {
		t.Errorf("fps = %v, want 120", c.Engine.FPS)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	c, err := FindAndLoad(dir)
	if err != nil {
		t.Fatalf("FindAndLoad error: %v", err)
	}
	if c != nil {
		t.Error("expected nil config when no scratch.toml exists")
	}
}
