package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Patterns for the version fields of a PyInstaller-style version-info file.
var (
	fileVersRe    = regexp.MustCompile(`filevers=\(\d+, \d+, \d+, \d+\)`)
	prodVersRe    = regexp.MustCompile(`prodvers=\(\d+, \d+, \d+, \d+\)`)
	fileVersStrRe = regexp.MustCompile(`u'FileVersion', u'\d+\.\d+\.\d+'`)
	prodVersStrRe = regexp.MustCompile(`u'ProductVersion', u'\d+\.\d+\.\d+'`)
	execLevelRe   = regexp.MustCompile(`<requestedExecutionLevel level="[^"]*"`)
)

// versionTuple pads an x.y.z version to four comma-separated components.
func versionTuple(version string) string {
	parts := strings.Split(version, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return strings.Join(parts[:3], ", ") + ", 0"
}

// substituteVersionInfo rewrites all version fields in content.
func substituteVersionInfo(content, version string) string {
	tuple := versionTuple(version)
	content = fileVersRe.ReplaceAllString(content, fmt.Sprintf("filevers=(%s)", tuple))
	content = prodVersRe.ReplaceAllString(content, fmt.Sprintf("prodvers=(%s)", tuple))
	content = fileVersStrRe.ReplaceAllString(content, fmt.Sprintf("u'FileVersion', u'%s'", version))
	content = prodVersStrRe.ReplaceAllString(content, fmt.Sprintf("u'ProductVersion', u'%s'", version))
	return content
}

// updateVersionInfo rewrites the version fields of the file at path.
func updateVersionInfo(path, version string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read version info %s: %w", path, err)
	}
	updated := substituteVersionInfo(string(data), version)
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		return fmt.Errorf("write version info %s: %w", path, err)
	}
	return nil
}

// substituteUACLevel rewrites the requestedExecutionLevel of a manifest.
func substituteUACLevel(content, level string) string {
	return execLevelRe.ReplaceAllString(content,
		fmt.Sprintf(`<requestedExecutionLevel level="%s"`, level))
}

// updateManifest sets the UAC level in the manifest at path, creating a
// default manifest when the file does not exist.
func updateManifest(path, appName, level string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return createDefaultManifest(path, appName, level)
		}
		return fmt.Errorf("read manifest %s: %w", path, err)
	}
	updated := substituteUACLevel(string(data), level)
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}

// defaultManifest renders a Windows application manifest with the given
// identity name and UAC level. The supportedOS GUIDs cover Vista through
// Windows 10/11.
func defaultManifest(appName, level string) string {
	identity := strings.ReplaceAll(appName, " ", "")
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<assembly xmlns="urn:schemas-microsoft-com:asm.v1" manifestVersion="1.0">
  <assemblyIdentity type="win32" name="%s" version="1.0.0.0" processorArchitecture="*"/>
  <trustInfo xmlns="urn:schemas-microsoft-com:asm.v3">
    <security>
      <requestedPrivileges>
        <requestedExecutionLevel level="%s" uiAccess="false"/>
      </requestedPrivileges>
    </security>
  </trustInfo>
  <compatibility xmlns="urn:schemas-microsoft-com:compatibility.v1">
    <application>
      <supportedOS Id="{e2011457-1546-43c5-a5fe-008deee3d3f0}"/>
      <supportedOS Id="{35138b9a-5d96-4fbd-8e2d-a2440225f93a}"/>
      <supportedOS Id="{4a2f28e3-53b9-4441-ba9c-d69d4a4a6e38}"/>
      <supportedOS Id="{1f676c76-80e1-4239-95bb-83d0f6d0da78}"/>
      <supportedOS Id="{8e0f7a12-bfb3-4fe8-b9a5-48fd50a15a9a}"/>
    </application>
  </compatibility>
  <application xmlns="urn:schemas-microsoft-com:asm.v3">
    <windowsSettings>
      <longPathAware xmlns="http://schemas.microsoft.com/SMI/2016/WindowsSettings">true</longPathAware>
    </windowsSettings>
  </application>
</assembly>
`, identity, level)
}

// createDefaultManifest writes a fresh manifest at path.
func createDefaultManifest(path, appName, level string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(defaultManifest(appName, level)), 0644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}
