//go:build !windows

package main

// trayIconBytes encodes the preview icon as PNG bytes for systray.
// Non-Windows trays decode icon data as PNG; an ICO container would be
// dropped as an unknown format.
func trayIconBytes(cfg IconConfig) ([]byte, error) {
	return encodePNG(iconImage(cfg))
}
