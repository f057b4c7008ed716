package main

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ulikunitz/xz"
)

// copyFile copies src to dst, creating parent directories.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create dir for %s: %w", dst, err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}

// zipDir writes the contents of dir into a zip archive at zipPath.
// Entry names are relative to dir, with forward slashes.
func zipDir(zipPath, dir string) error {
	f, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", zipPath, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(w, in)
		return err
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("zip %s: %w", dir, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", zipPath, err)
	}
	return nil
}

// compressXZ writes an xz-compressed copy of src at dst.
func compressXZ(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	w, err := xz.NewWriter(out)
	if err != nil {
		return fmt.Errorf("xz writer: %w", err)
	}
	if _, err := io.Copy(w, in); err != nil {
		return fmt.Errorf("compress %s: %w", src, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", dst, err)
	}
	return out.Close()
}

// updateArtifactName returns the per-platform name of the xz update
// artifact for the configured executable, e.g. "TrayApp-windows-amd64.exe.xz".
func updateArtifactName(exeName string) string {
	base := strings.TrimSuffix(exeName, ".exe")
	ext := ""
	if strings.HasSuffix(exeName, ".exe") {
		ext = ".exe"
	}
	return fmt.Sprintf("%s-%s-%s%s.xz", base, runtime.GOOS, runtime.GOARCH, ext)
}

// packageRelease assembles the release directory, zips it, and produces
// the xz update artifact from the bare executable.
func packageRelease(cfg Config) error {
	log.Println("Creating release package...")

	if err := os.RemoveAll(cfg.ReleaseDir); err != nil {
		return fmt.Errorf("remove %s: %w", cfg.ReleaseDir, err)
	}
	if err := os.MkdirAll(cfg.ReleaseDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", cfg.ReleaseDir, err)
	}

	installer := filepath.Join(cfg.DistDir, cfg.InstallerName)
	if _, err := os.Stat(installer); err != nil {
		return fmt.Errorf("installer not found at %s, run installer first", installer)
	}
	if err := copyFile(installer, filepath.Join(cfg.ReleaseDir, cfg.InstallerName)); err != nil {
		return err
	}

	for _, doc := range cfg.Package.Docs {
		if _, err := os.Stat(doc); err != nil {
			continue
		}
		if err := copyFile(doc, filepath.Join(cfg.ReleaseDir, filepath.Base(doc))); err != nil {
			return err
		}
	}

	if err := zipDir(cfg.Package.ZipName, cfg.ReleaseDir); err != nil {
		return err
	}
	log.Printf("Release package created: %s", cfg.Package.ZipName)

	// The bare executable, xz-compressed, feeds in-place self-updates.
	exe := filepath.Join(cfg.DistDir, cfg.ExeName)
	if _, err := os.Stat(exe); err == nil {
		artifact := filepath.Join(cfg.ReleaseDir, updateArtifactName(cfg.ExeName))
		if err := compressXZ(exe, artifact); err != nil {
			return err
		}
		log.Printf("Update artifact created: %s", artifact)
	}

	return nil
}
