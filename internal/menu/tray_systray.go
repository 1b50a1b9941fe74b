//go:build cgo || windows
// +build cgo windows

package menu

import (
	"context"
	"log"
	"sync"

	"github.com/getlantern/systray"

	"github.com/example/iconbridge/internal/logging"
)

type systrayController struct {
	open    func(path string) error
	refresh func()

	mu       sync.Mutex
	entries  []trayEntry
	lastIcon string
}

type trayEntry struct {
	item   *systray.MenuItem
	cancel context.CancelFunc
}

func newTrayController(open func(path string) error, refresh func()) trayController {
	return &systrayController{open: open, refresh: refresh}
}

func (c *systrayController) Run(ctx context.Context, updates <-chan UpdatePayload) error {
	done := make(chan struct{})

	go systray.Run(func() {
		if icon := cloneDefaultIcon(); icon != nil {
			setTrayIcon(icon)
		}
		systray.SetTitle("")
		systray.SetTooltip("iconbridge")

		refresh := systray.AddMenuItem("Refresh", "Reload launchers")
		quit := systray.AddMenuItem("Quit iconbridge", "Exit the application")
		systray.AddSeparator()
		go func() {
			for {
				select {
				case <-ctx.Done():
					systray.Quit()
					return
				case <-refresh.ClickedCh:
					if c.refresh != nil {
						c.refresh()
					}
				case <-quit.ClickedCh:
					systray.Quit()
					return
				}
			}
		}()

		go c.listen(ctx, updates)
	}, func() {
		c.shutdown()
		close(done)
	})

	select {
	case <-ctx.Done():
		systray.Quit()
		<-done
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (c *systrayController) listen(ctx context.Context, updates <-chan UpdatePayload) {
	for {
		select {
		case <-ctx.Done():
			systray.Quit()
			return
		case update, ok := <-updates:
			if !ok {
				systray.Quit()
				return
			}
			c.render(ctx, update)
		}
	}
}

func (c *systrayController) render(ctx context.Context, update UpdatePayload) {
	c.mu.Lock()
	old := c.entries
	c.entries = nil
	iconDigest := hashBytes(update.Icon)
	iconChanged := iconDigest != "" && iconDigest != c.lastIcon
	if iconChanged {
		c.lastIcon = iconDigest
	}
	c.mu.Unlock()

	if iconChanged {
		setTrayIcon(update.Icon)
	}

	for _, entry := range old {
		entry.cancel()
		entry.item.Hide()
	}

	entries := make([]trayEntry, 0, len(update.Entries))
	for _, e := range update.Entries {
		entries = append(entries, c.addEntry(ctx, e))
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
}

func (c *systrayController) addEntry(ctx context.Context, e Entry) trayEntry {
	mi := systray.AddMenuItem(e.Label, e.Path)
	if len(e.Icon) > 0 {
		mi.SetIcon(e.Icon)
	}
	ctxItem, cancel := context.WithCancel(ctx)
	if e.Disabled {
		mi.Disable()
		go drainClicks(ctxItem, mi.ClickedCh)
		return trayEntry{item: mi, cancel: cancel}
	}

	go func(ch <-chan struct{}, label, path string) {
		for {
			select {
			case <-ctxItem.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				logging.Debugf("launching %s (%s)", label, path)
				go func() {
					if err := c.open(path); err != nil {
						log.Printf("launch %s: %v", label, err)
					}
				}()
			}
		}
	}(mi.ClickedCh, e.Label, e.Path)
	return trayEntry{item: mi, cancel: cancel}
}

func drainClicks(ctx context.Context, ch <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
		}
	}
}

func (c *systrayController) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entry := range c.entries {
		entry.cancel()
	}
	c.entries = nil
}
