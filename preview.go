package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"

	"fyne.io/systray"
)

// preview shows the configured icon in the system tray so it can be
// checked on the actual desktop before packaging.
type preview struct {
	cfg  Config
	quit chan struct{} // closed on shutdown

	mInfo       *systray.MenuItem
	mRegenerate *systray.MenuItem
	mQuit       *systray.MenuItem
}

// runPreview blocks until the tray exits.
func runPreview(cfg Config) {
	p := &preview{cfg: cfg, quit: make(chan struct{})}

	// Handle interrupt for clean shutdown (SIGINT on all platforms,
	// SIGTERM on Unix).
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	notifyExtraSignals(sigCh)
	go func() {
		<-sigCh
		log.Println("Signal received, shutting down...")
		p.shutdown()
	}()

	systray.Run(p.onReady, p.onExit)
}

func (p *preview) shutdown() {
	select {
	case <-p.quit:
		// already closed
	default:
		close(p.quit)
	}
	systray.Quit()
}

// onReady is called by systray when the tray is ready.
func (p *preview) onReady() {
	systray.SetTitle("")
	systray.SetTooltip(p.cfg.AppName + " icon preview")

	p.mInfo = systray.AddMenuItem("", "Current icon settings")
	p.mInfo.Disable()
	systray.AddSeparator()
	p.mRegenerate = systray.AddMenuItem("Regenerate", "Re-render the icon from config")
	p.mQuit = systray.AddMenuItem("Quit", "Quit the preview")

	p.refresh()
	go p.eventLoop()
}

// onExit is called when the systray is shutting down.
func (p *preview) onExit() {
	select {
	case <-p.quit:
	default:
		close(p.quit)
	}
}

// eventLoop handles menu item clicks.
func (p *preview) eventLoop() {
	for {
		select {
		case <-p.quit:
			return
		case <-p.mRegenerate.ClickedCh:
			p.cfg = loadConfig(defaultConfigPath)
			p.refresh()
		case <-p.mQuit.ClickedCh:
			p.shutdown()
			return
		}
	}
}

// refresh re-renders the icon and updates the tray.
func (p *preview) refresh() {
	data, err := trayIconBytes(p.cfg.Icon)
	if err != nil {
		log.Printf("Icon render error: %v", err)
		return
	}
	systray.SetIcon(data)
	p.mInfo.SetTitle(previewLabel(p.cfg.Icon))
}

// previewLabel summarizes the icon settings for the info menu item.
func previewLabel(cfg IconConfig) string {
	return fmt.Sprintf("%s %dx%d %s", cfg.Style, iconSize(cfg), iconSize(cfg), cfg.Fill)
}
