package main

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"
)

func TestZipDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0644); err != nil {
		t.Fatalf("write a.txt: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatalf("mkdir sub: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("beta"), 0644); err != nil {
		t.Fatalf("write b.txt: %v", err)
	}

	zipPath := filepath.Join(t.TempDir(), "out.zip")
	if err := zipDir(zipPath, dir); err != nil {
		t.Fatalf("zipDir error: %v", err)
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer zr.Close()

	got := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", f.Name, err)
		}
		got[f.Name] = string(data)
	}
	if got["a.txt"] != "alpha" {
		t.Errorf("a.txt = %q, want %q", got["a.txt"], "alpha")
	}
	if got["sub/b.txt"] != "beta" {
		t.Errorf("sub/b.txt = %q, want %q", got["sub/b.txt"], "beta")
	}
}

func TestCompressXZ_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.bin")
	payload := bytes.Repeat([]byte("trayforge"), 1000)
	if err := os.WriteFile(src, payload, 0644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	dst := filepath.Join(dir, "app.bin.xz")
	if err := compressXZ(src, dst); err != nil {
		t.Fatalf("compressXZ error: %v", err)
	}

	f, err := os.Open(dst)
	if err != nil {
		t.Fatalf("open compressed: %v", err)
	}
	defer f.Close()
	r, err := xz.NewReader(f)
	if err != nil {
		t.Fatalf("xz reader: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("decompressed %d bytes differ from original %d bytes", len(got), len(payload))
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	if err := os.WriteFile(src, []byte("payload"), 0644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	dst := filepath.Join(dir, "nested", "dst.txt")
	if err := copyFile(src, dst); err != nil {
		t.Fatalf("copyFile error: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("dst = %q, want %q", data, "payload")
	}
}

func TestUpdateArtifactName(t *testing.T) {
	got := updateArtifactName("TrayApp.exe")
	if !strings.HasPrefix(got, "TrayApp-") {
		t.Errorf("artifact %q should start with TrayApp-", got)
	}
	if !strings.HasSuffix(got, ".exe.xz") {
		t.Errorf("artifact %q should end with .exe.xz", got)
	}
	if !strings.Contains(got, runtime.GOOS) || !strings.Contains(got, runtime.GOARCH) {
		t.Errorf("artifact %q should contain %s and %s", got, runtime.GOOS, runtime.GOARCH)
	}

	got = updateArtifactName("trayapp")
	if strings.Contains(got, ".exe") {
		t.Errorf("artifact %q should not contain .exe for a bare binary", got)
	}
	if !strings.HasSuffix(got, ".xz") {
		t.Errorf("artifact %q should end with .xz", got)
	}

	// The self-update download URL is built from the same function, so
	// the name must match what the package step publishes byte for byte.
	want := fmt.Sprintf("trayforge-%s-%s.xz", runtime.GOOS, runtime.GOARCH)
	if runtime.GOOS == "windows" {
		want = fmt.Sprintf("trayforge-%s-%s.exe.xz", runtime.GOOS, runtime.GOARCH)
	}
	exeName := "trayforge"
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}
	if got := updateArtifactName(exeName); got != want {
		t.Errorf("updateArtifactName(%q) = %q, want %q", exeName, got, want)
	}
}

func TestPackageRelease(t *testing.T) {
	root := t.TempDir()

	cfg := defaultConfig()
	cfg.DistDir = filepath.Join(root, "dist")
	cfg.ReleaseDir = filepath.Join(root, "release")
	cfg.Package.ZipName = filepath.Join(root, "TrayApp.zip")
	readme := filepath.Join(root, "README.md")
	cfg.Package.Docs = []string{readme, filepath.Join(root, "MISSING.md")}

	if err := os.MkdirAll(cfg.DistDir, 0755); err != nil {
		t.Fatalf("mkdir dist: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.DistDir, cfg.InstallerName), []byte("installer"), 0644); err != nil {
		t.Fatalf("write installer: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.DistDir, cfg.ExeName), []byte("exe"), 0644); err != nil {
		t.Fatalf("write exe: %v", err)
	}
	if err := os.WriteFile(readme, []byte("# readme"), 0644); err != nil {
		t.Fatalf("write readme: %v", err)
	}

	if err := packageRelease(cfg); err != nil {
		t.Fatalf("packageRelease error: %v", err)
	}

	if _, err := os.Stat(cfg.Package.ZipName); err != nil {
		t.Errorf("release zip missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.ReleaseDir, cfg.InstallerName)); err != nil {
		t.Errorf("installer copy missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.ReleaseDir, "README.md")); err != nil {
		t.Errorf("README copy missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.ReleaseDir, updateArtifactName(cfg.ExeName))); err != nil {
		t.Errorf("update artifact missing: %v", err)
	}
}

func TestPackageRelease_MissingInstaller(t *testing.T) {
	root := t.TempDir()
	cfg := defaultConfig()
	cfg.DistDir = filepath.Join(root, "dist")
	cfg.ReleaseDir = filepath.Join(root, "release")
	cfg.Package.ZipName = filepath.Join(root, "TrayApp.zip")

	if err := packageRelease(cfg); err == nil {
		t.Error("packageRelease without installer = nil error, want error")
	}
}
