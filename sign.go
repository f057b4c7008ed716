package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
)

// signArgs builds the signtool argument list for exe. The password may be
// empty, in which case no /p option is emitted.
func signArgs(cfg SignConfig, password, exe string) []string {
	args := []string{
		"sign",
		"/f", cfg.Certificate,
		"/fd", "SHA256",
		"/tr", cfg.TimestampURL,
		"/td", "SHA256",
	}
	if password != "" {
		args = append(args, "/p", password)
	}
	return append(args, exe)
}

// signExecutable signs exe with signtool when a certificate is configured.
// The certificate password comes from TRAYFORGE_SIGN_PASS.
func signExecutable(cfg SignConfig, exe string) error {
	if cfg.Certificate == "" {
		return nil
	}
	if _, err := os.Stat(exe); err != nil {
		return fmt.Errorf("executable not found at %s", exe)
	}

	log.Printf("Signing %s", exe)
	args := signArgs(cfg, os.Getenv("TRAYFORGE_SIGN_PASS"), exe)
	out, err := exec.Command("signtool", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("signtool: %w: %s", err, out)
	}
	log.Printf("Successfully signed %s", exe)
	return nil
}
