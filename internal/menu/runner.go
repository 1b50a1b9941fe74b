package menu

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/example/iconbridge/internal/config"
	"github.com/example/iconbridge/internal/icon"
	"github.com/example/iconbridge/internal/logging"
)

const defaultRefreshInterval = 30 * time.Second

// Icons is the part of icon.Service the tray needs.
type Icons interface {
	FileIcon(ctx context.Context, path string) string
	ApplicationIcon(ctx context.Context) icon.Info
}

type trayController interface {
	Run(ctx context.Context, updates <-chan UpdatePayload) error
}

// Entry is one launcher as shown in the tray.
type Entry struct {
	ID       string
	Label    string
	Path     string
	Icon     []byte
	Disabled bool
}

// UpdatePayload carries a complete tray state: the launcher entries and the
// tray icon itself.
type UpdatePayload struct {
	Entries []Entry
	Icon    []byte
}

// Runner keeps the tray menu in sync with the configured launchers.
type Runner struct {
	refreshInterval time.Duration
	icons           Icons
	load            func() (*config.Config, error)

	mu         sync.RWMutex
	lastItems  []Entry
	lastDigest string
	trayIcon   []byte

	tray            trayController
	updates         chan UpdatePayload
	refreshRequests chan struct{}
}

// NewRunner constructs a Runner that reads launchers from disk and opens
// them with open when clicked.
func NewRunner(icons Icons, open func(path string) error) *Runner {
	r := &Runner{
		refreshInterval: defaultRefreshInterval,
		icons:           icons,
		load:            config.Load,
		refreshRequests: make(chan struct{}, 1),
		updates:         make(chan UpdatePayload, 1),
	}
	r.tray = newTrayController(open, r.requestRefresh)
	return r
}

// Start runs the tray and periodically reloads the launcher list. It blocks
// until the provided context is canceled or the tray exits.
func (r *Runner) Start(ctx context.Context) error {
	logging.Debugf("tray runner initialising with refresh interval %s", r.refreshInterval)

	r.trayIcon = normalizedIcon(applicationIcon(ctx, r.icons))

	var trayErr <-chan error
	if r.tray != nil {
		ch := make(chan error, 1)
		trayErr = ch
		go func() {
			ch <- r.tray.Run(ctx, r.updates)
		}()
	}
	defer close(r.updates)

	if err := r.syncOnce(ctx); err != nil {
		log.Printf("initial launcher sync failed: %v", err)
	}
	log.Printf("iconbridge tray loaded %d launchers", len(r.LatestItems()))

	ticker := time.NewTicker(r.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("iconbridge tray stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := r.syncOnce(ctx); err != nil {
				log.Printf("tray refresh failed: %v", err)
			}
		case <-r.refreshRequests:
			logging.Debugf("manual refresh requested")
			if err := r.syncOnce(ctx); err != nil {
				log.Printf("manual tray refresh failed: %v", err)
			}
		case err := <-trayErr:
			return err
		}
	}
}

// LatestItems returns the most recently published entries.
func (r *Runner) LatestItems() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.lastItems))
	copy(out, r.lastItems)
	return out
}

func (r *Runner) syncOnce(ctx context.Context) error {
	cfg, err := r.load()
	if err != nil {
		// Keep showing the last good menu.
		return err
	}
	logging.Debugf("loaded %d launchers from configuration", len(cfg.Launchers))

	entries := buildEntries(ctx, r.icons, cfg.Launchers)
	if len(entries) == 0 {
		entries = placeholderEntries()
	}
	r.setTrayState(entries)
	return nil
}

func (r *Runner) setTrayState(entries []Entry) {
	digest := hashItems(entries)

	r.mu.Lock()
	if digest != "" && digest == r.lastDigest {
		r.mu.Unlock()
		return
	}
	r.lastItems = make([]Entry, len(entries))
	copy(r.lastItems, entries)
	r.lastDigest = digest
	r.mu.Unlock()

	logging.Debugf("published tray state with %d entries (digest=%s)", len(entries), digest)
	r.publish(entries)
}

func (r *Runner) requestRefresh() {
	select {
	case r.refreshRequests <- struct{}{}:
	default:
	}
}

// publish replaces any update the tray has not consumed yet.
func (r *Runner) publish(entries []Entry) {
	payload := make([]Entry, len(entries))
	copy(payload, entries)

	update := UpdatePayload{
		Entries: payload,
		Icon:    cloneIcon(r.trayIcon),
	}

	select {
	case r.updates <- update:
	default:
		select {
		case <-r.updates:
		default:
		}
		select {
		case r.updates <- update:
		default:
		}
	}
}

func hashItems(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return ""
	}

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func hashBytes(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
