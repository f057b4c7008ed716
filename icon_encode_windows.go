//go:build windows

package main

// trayIconBytes encodes the preview icon as ICO for Windows systray.
// Windows LoadImage requires ICO format.
func trayIconBytes(cfg IconConfig) ([]byte, error) {
	return iconBytes(cfg)
}
