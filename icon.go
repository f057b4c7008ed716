package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"

	"github.com/trayforge/trayforge/internal/ico"
)

// iconSize resolves the icon edge length. When a source image is
// configured its nominal dimensions win, so the generated icon matches
// whatever artwork the project already ships.
func iconSize(cfg IconConfig) int {
	if cfg.Source == "" {
		return cfg.Size
	}
	src := ico.Inspect(cfg.Source)
	if src.Width != src.Height {
		// Icons are square; take the larger edge.
		if src.Width > src.Height {
			return src.Width
		}
		return src.Height
	}
	return src.Width
}

// iconBytes renders the configured icon and returns it as ICO data.
func iconBytes(cfg IconConfig) ([]byte, error) {
	size := iconSize(cfg)
	fill := cfg.fillColor()

	switch cfg.Style {
	case "badge":
		img := renderBadge(size, fill, cfg.Label, cfg.FontSize)
		pngData, err := encodePNG(img)
		if err != nil {
			return nil, fmt.Errorf("encode badge png: %w", err)
		}
		return ico.WrapPNG(pngData, size, size), nil
	default: // solid
		b, err := ico.New(size, size, fill)
		if err != nil {
			return nil, fmt.Errorf("create bitmap: %w", err)
		}
		return b.EncodeICO(ico.EncodeOptions{MaskBitmap: cfg.MaskBitmap}), nil
	}
}

// iconImage renders the configured icon as an in-memory image, for
// consumers that want pixels rather than an ICO container.
func iconImage(cfg IconConfig) image.Image {
	size := iconSize(cfg)
	fill := cfg.fillColor()
	if cfg.Style == "badge" {
		return renderBadge(size, fill, cfg.Label, cfg.FontSize)
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	uniform := image.NewUniform(color.RGBA{fill.R, fill.G, fill.B, 255})
	draw.Draw(img, img.Bounds(), uniform, image.Point{}, draw.Src)
	return img
}

// writeIcon generates the icon file at cfg.Output.
func writeIcon(cfg IconConfig) error {
	data, err := iconBytes(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(cfg.Output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", cfg.Output, err)
	}
	return nil
}

// renderBadge draws a rounded tile in the fill color with the first rune
// of label centered in white.
func renderBadge(size int, fill ico.RGB, label string, fontSize float64) image.Image {
	dc := gg.NewContext(size, size)
	dc.SetColor(color.RGBA{0, 0, 0, 0})
	dc.Clear()

	radius := float64(size) / 8
	dc.SetColor(color.RGBA{fill.R, fill.G, fill.B, 255})
	dc.DrawRoundedRectangle(0, 0, float64(size), float64(size), radius)
	dc.Fill()

	text := badgeText(label)
	if text == "" {
		return dc.Image()
	}

	// Scale the face with the icon so small sizes stay legible.
	scaled := fontSize * float64(size) / float64(ico.DefaultSize)
	face, err := loadFontFace(scaled)
	if err != nil {
		return dc.Image()
	}
	dc.SetFontFace(face)

	center := float64(size) / 2
	w, h := dc.MeasureString(text)

	// Shadow
	dc.SetColor(color.RGBA{0, 0, 0, 255})
	dc.DrawString(text, center-w/2+1, center+h/2+1)

	// Foreground
	dc.SetColor(color.RGBA{255, 255, 255, 255})
	dc.DrawString(text, center-w/2, center+h/2)

	return dc.Image()
}

// badgeText returns the first rune of label, or "" if label is empty.
func badgeText(label string) string {
	for _, r := range label {
		return string(r)
	}
	return ""
}

// loadFontFace loads the embedded Go Bold font at the given size.
func loadFontFace(size float64) (font.Face, error) {
	fnt, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return face, nil
}

// encodePNG encodes an image as PNG bytes.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
