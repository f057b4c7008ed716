package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/trayforge/trayforge/internal/ico"
)

// Config holds the project build configuration, loaded from trayforge.json
// in the project directory.
type Config struct {
	AppName       string        `json:"app_name"`
	ExeName       string        `json:"exe_name"`
	InstallerName string        `json:"installer_name"`
	DistDir       string        `json:"dist_dir"`
	ReleaseDir    string        `json:"release_dir"`
	Icon          IconConfig    `json:"icon"`
	Build         StepConfig    `json:"build"`
	Installer     StepConfig    `json:"installer"`
	Sign          SignConfig    `json:"sign"`
	Package       PackageConfig `json:"package"`
}

// IconConfig controls icon generation.
type IconConfig struct {
	Output     string  `json:"output"`      // path of the generated .ico
	Style      string  `json:"style"`       // solid or badge
	Size       int     `json:"size"`        // edge length in pixels
	Fill       string  `json:"fill"`        // "r,g,b" fill color
	Label      string  `json:"label"`       // badge text, first rune is drawn
	FontSize   float64 `json:"font_size"`   // badge label size
	MaskBitmap bool    `json:"mask_bitmap"` // emit the 1bpp AND mask
	Source     string  `json:"source"`      // optional image whose dimensions to adopt
}

// StepConfig is an external command invoked for a build step.
type StepConfig struct {
	Command []string `json:"command"`
}

// SignConfig controls signtool invocation. The certificate password is
// never stored in the config file; it comes from TRAYFORGE_SIGN_PASS.
type SignConfig struct {
	Certificate  string `json:"certificate"`
	TimestampURL string `json:"timestamp_url"`
}

// PackageConfig controls release assembly.
type PackageConfig struct {
	ZipName string   `json:"zip_name"`
	Docs    []string `json:"docs"`
}

const defaultConfigPath = "trayforge.json"

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		AppName:       "TrayApp",
		ExeName:       "TrayApp.exe",
		InstallerName: "TrayApp Setup.exe",
		DistDir:       "dist",
		ReleaseDir:    "release",
		Icon: IconConfig{
			Output:   filepath.Join("assets", "icon.ico"),
			Style:    "solid",
			Size:     ico.DefaultSize,
			Fill:     formatFill(ico.DefaultFill),
			Label:    "T",
			FontSize: 34,
		},
		Sign: SignConfig{
			TimestampURL: "http://timestamp.digicert.com",
		},
		Package: PackageConfig{
			ZipName: "TrayApp.zip",
			Docs:    []string{"README.md", "LICENSE", "CHANGELOG.md"},
		},
	}
}

// ValidIconStyle reports whether name is a supported icon style.
func ValidIconStyle(name string) bool {
	switch name {
	case "solid", "badge":
		return true
	}
	return false
}

// parseFill parses an "r,g,b" color string with components 0-255.
func parseFill(s string) (ico.RGB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return ico.RGB{}, fmt.Errorf("fill %q: want \"r,g,b\"", s)
	}
	var c [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return ico.RGB{}, fmt.Errorf("fill %q: component %q out of range", s, p)
		}
		c[i] = uint8(v)
	}
	return ico.RGB{R: c[0], G: c[1], B: c[2]}, nil
}

// formatFill renders a color back to the "r,g,b" config form.
func formatFill(c ico.RGB) string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// loadConfig loads config from path. A missing file yields the defaults;
// invalid fields are logged and replaced with defaults.
func loadConfig(path string) Config {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("No %s found, using defaults (run 'trayforge init' to create one)", path)
			return cfg
		}
		log.Printf("Failed to read config %s: %v", path, err)
		return cfg
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("Failed to parse config %s: %v", path, err)
		return defaultConfig()
	}

	defaults := defaultConfig()
	if cfg.Icon.Size <= 0 {
		log.Printf("Invalid icon.size %d in config, using default %d", cfg.Icon.Size, defaults.Icon.Size)
		cfg.Icon.Size = defaults.Icon.Size
	}
	if cfg.Icon.FontSize <= 0 {
		log.Printf("Invalid icon.font_size %v in config, using default %v", cfg.Icon.FontSize, defaults.Icon.FontSize)
		cfg.Icon.FontSize = defaults.Icon.FontSize
	}
	if cfg.Icon.Style == "" || !ValidIconStyle(cfg.Icon.Style) {
		if cfg.Icon.Style != "" {
			log.Printf("Unknown icon.style %q in config, using default %q", cfg.Icon.Style, defaults.Icon.Style)
		}
		cfg.Icon.Style = defaults.Icon.Style
	}
	if _, err := parseFill(cfg.Icon.Fill); err != nil {
		if cfg.Icon.Fill != "" {
			log.Printf("Invalid icon.fill %q in config, using default %q", cfg.Icon.Fill, defaults.Icon.Fill)
		}
		cfg.Icon.Fill = defaults.Icon.Fill
	}
	if cfg.Icon.Output == "" {
		cfg.Icon.Output = defaults.Icon.Output
	}
	if cfg.AppName == "" {
		cfg.AppName = defaults.AppName
	}
	if cfg.ExeName == "" {
		cfg.ExeName = defaults.ExeName
	}
	if cfg.DistDir == "" {
		cfg.DistDir = defaults.DistDir
	}
	if cfg.ReleaseDir == "" {
		cfg.ReleaseDir = defaults.ReleaseDir
	}
	if cfg.Package.ZipName == "" {
		cfg.Package.ZipName = defaults.Package.ZipName
	}
	if cfg.Sign.TimestampURL == "" {
		cfg.Sign.TimestampURL = defaults.Sign.TimestampURL
	}

	return cfg
}

// saveConfig writes config to path.
func saveConfig(cfg Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// fillColor returns the parsed icon fill, falling back to the default.
func (c IconConfig) fillColor() ico.RGB {
	fill, err := parseFill(c.Fill)
	if err != nil {
		return ico.DefaultFill
	}
	return fill
}
