package main

import (
	"reflect"
	"testing"
)

func TestSignArgs(t *testing.T) {
	cfg := SignConfig{Certificate: "cert.pfx", TimestampURL: "http://timestamp.digicert.com"}
	got := signArgs(cfg, "", `dist\App.exe`)
	want := []string{
		"sign",
		"/f", "cert.pfx",
		"/fd", "SHA256",
		"/tr", "http://timestamp.digicert.com",
		"/td", "SHA256",
		`dist\App.exe`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("signArgs = %v, want %v", got, want)
	}
}

func TestSignArgs_WithPassword(t *testing.T) {
	cfg := SignConfig{Certificate: "cert.pfx", TimestampURL: "http://timestamp.digicert.com"}
	got := signArgs(cfg, "hunter2", "App.exe")
	want := []string{
		"sign",
		"/f", "cert.pfx",
		"/fd", "SHA256",
		"/tr", "http://timestamp.digicert.com",
		"/td", "SHA256",
		"/p", "hunter2",
		"App.exe",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("signArgs = %v, want %v", got, want)
	}
}

func TestSignExecutable_NoCertificateIsNoop(t *testing.T) {
	if err := signExecutable(SignConfig{}, "does-not-exist.exe"); err != nil {
		t.Errorf("signExecutable without certificate = %v, want nil", err)
	}
}

func TestSignExecutable_MissingExe(t *testing.T) {
	cfg := SignConfig{Certificate: "cert.pfx", TimestampURL: "http://timestamp.digicert.com"}
	if err := signExecutable(cfg, "does-not-exist.exe"); err == nil {
		t.Error("signExecutable on missing exe = nil error, want error")
	}
}
