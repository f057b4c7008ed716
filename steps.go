package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
)

// Spec files edited in place before packaging, mirroring the layout the
// packaging tool expects.
const (
	versionInfoPath       = "spec/version_info.txt"
	appManifestPath       = "spec/app.manifest"
	installerManifestPath = "spec/installer.manifest"
)

// stepContext carries the config and per-invocation parameters through
// the build steps.
type stepContext struct {
	cfg          Config
	appVersion   string
	appUAC       string
	installerUAC string
}

// icon generates the application icon file.
func (s *stepContext) icon() error {
	log.Printf("Generating %s icon %s", s.cfg.Icon.Style, s.cfg.Icon.Output)
	if err := writeIcon(s.cfg.Icon); err != nil {
		return err
	}
	log.Printf("Icon written to %s", s.cfg.Icon.Output)
	return nil
}

// clean removes build artifacts.
func (s *stepContext) clean() error {
	targets := []string{"build", s.cfg.DistDir, s.cfg.ReleaseDir}
	for _, dir := range targets {
		if dir == "" {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove %s: %w", dir, err)
		}
	}
	if s.cfg.Package.ZipName != "" {
		if err := os.Remove(s.cfg.Package.ZipName); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", s.cfg.Package.ZipName, err)
		}
	}
	log.Println("Clean completed")
	return nil
}

// build stamps version/manifest files and runs the application packaging
// command, then signs the result when a certificate is configured.
func (s *stepContext) build() error {
	if s.appVersion != "" {
		if err := updateVersionInfo(versionInfoPath, s.appVersion); err != nil {
			return err
		}
		log.Printf("Stamped version %s into %s", s.appVersion, versionInfoPath)
	}
	if s.appUAC != "" {
		if err := updateManifest(appManifestPath, s.cfg.AppName, s.appUAC); err != nil {
			return err
		}
	}

	if len(s.cfg.Build.Command) == 0 {
		return fmt.Errorf("no build.command configured")
	}
	log.Printf("Building %s...", s.cfg.AppName)
	if err := runCommand(s.cfg.Build.Command); err != nil {
		return fmt.Errorf("build command: %w", err)
	}

	exe := filepath.Join(s.cfg.DistDir, s.cfg.ExeName)
	if _, err := os.Stat(exe); err != nil {
		return fmt.Errorf("expected executable not found at %s", exe)
	}
	log.Printf("Application build complete: %s", exe)

	return signExecutable(s.cfg.Sign, exe)
}

// installer runs the installer packaging command and signs the result.
func (s *stepContext) installer() error {
	exe := filepath.Join(s.cfg.DistDir, s.cfg.ExeName)
	if _, err := os.Stat(exe); err != nil {
		return fmt.Errorf("application executable not found at %s, run build first", exe)
	}

	if s.installerUAC != "" {
		if err := updateManifest(installerManifestPath, s.cfg.AppName, s.installerUAC); err != nil {
			return err
		}
	}

	if len(s.cfg.Installer.Command) == 0 {
		return fmt.Errorf("no installer.command configured")
	}
	log.Println("Building installer...")
	if err := runCommand(s.cfg.Installer.Command); err != nil {
		return fmt.Errorf("installer command: %w", err)
	}

	installer := filepath.Join(s.cfg.DistDir, s.cfg.InstallerName)
	if _, err := os.Stat(installer); err != nil {
		return fmt.Errorf("installer not found at expected location %s", installer)
	}
	log.Printf("Installer created at %s", installer)

	return signExecutable(s.cfg.Sign, installer)
}

// pack assembles the release zip and the xz update artifact.
func (s *stepContext) pack() error {
	return packageRelease(s.cfg)
}

// all runs the full pipeline; the first failing step aborts.
func (s *stepContext) all() error {
	type step struct {
		name string
		run  func() error
	}
	for _, st := range []step{
		{"clean", s.clean},
		{"icon", s.icon},
		{"build", s.build},
		{"installer", s.installer},
		{"package", s.pack},
	} {
		if err := st.run(); err != nil {
			return fmt.Errorf("%s: %w", st.name, err)
		}
	}
	return nil
}

// runCommand runs an external command, streaming its output.
func runCommand(argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
