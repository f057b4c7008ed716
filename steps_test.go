package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClean_RemovesArtifacts(t *testing.T) {
	root := t.TempDir()
	cfg := defaultConfig()
	cfg.DistDir = filepath.Join(root, "dist")
	cfg.ReleaseDir = filepath.Join(root, "release")
	cfg.Package.ZipName = filepath.Join(root, "TrayApp.zip")

	for _, dir := range []string{cfg.DistDir, cfg.ReleaseDir} {
		if err := os.MkdirAll(filepath.Join(dir, "inner"), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(cfg.Package.ZipName, []byte("zip"), 0644); err != nil {
		t.Fatalf("write zip: %v", err)
	}

	s := &stepContext{cfg: cfg}
	if err := s.clean(); err != nil {
		t.Fatalf("clean error: %v", err)
	}

	for _, path := range []string{cfg.DistDir, cfg.ReleaseDir, cfg.Package.ZipName} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s still exists after clean", path)
		}
	}
}

func TestClean_NothingToRemove(t *testing.T) {
	root := t.TempDir()
	cfg := defaultConfig()
	cfg.DistDir = filepath.Join(root, "dist")
	cfg.ReleaseDir = filepath.Join(root, "release")
	cfg.Package.ZipName = filepath.Join(root, "TrayApp.zip")

	s := &stepContext{cfg: cfg}
	if err := s.clean(); err != nil {
		t.Errorf("clean on empty tree = %v, want nil", err)
	}
}

func TestBuild_NoCommandConfigured(t *testing.T) {
	cfg := defaultConfig()
	cfg.DistDir = t.TempDir()

	s := &stepContext{cfg: cfg}
	if err := s.build(); err == nil {
		t.Error("build without command = nil error, want error")
	}
}

func TestInstaller_MissingExecutable(t *testing.T) {
	cfg := defaultConfig()
	cfg.DistDir = t.TempDir()
	cfg.Installer.Command = []string{"true"}

	s := &stepContext{cfg: cfg}
	if err := s.installer(); err == nil {
		t.Error("installer without built exe = nil error, want error")
	}
}

func TestIconStep_WritesFile(t *testing.T) {
	cfg := defaultConfig()
	cfg.Icon.Output = filepath.Join(t.TempDir(), "icon.ico")

	s := &stepContext{cfg: cfg}
	if err := s.icon(); err != nil {
		t.Fatalf("icon step error: %v", err)
	}
	if _, err := os.Stat(cfg.Icon.Output); err != nil {
		t.Errorf("icon file missing: %v", err)
	}
}
