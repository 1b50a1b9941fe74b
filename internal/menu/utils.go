package menu

import (
	"context"
	"encoding/base64"
	"sort"
	"strings"

	"github.com/example/iconbridge/internal/config"
	"github.com/example/iconbridge/internal/icon"
	"github.com/example/iconbridge/internal/logging"
)

// sortLaunchers orders launchers by Order, then ID, without touching the input.
func sortLaunchers(launchers []config.Launcher) []config.Launcher {
	sorted := make([]config.Launcher, len(launchers))
	copy(sorted, launchers)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order == sorted[j].Order {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// buildEntries turns launchers into tray entries with their file icons.
func buildEntries(ctx context.Context, icons Icons, launchers []config.Launcher) []Entry {
	sorted := sortLaunchers(launchers)
	entries := make([]Entry, 0, len(sorted))
	for _, l := range sorted {
		entry := Entry{ID: l.ID, Label: l.Label, Path: l.Path}
		if icons != nil {
			entry.Icon = platformNormalizeIcon(pngFromDataURI(icons.FileIcon(ctx, l.Path)))
		}
		entries = append(entries, entry)
	}
	return entries
}

// pngFromDataURI extracts the PNG bytes from an icon data URI.
func pngFromDataURI(uri string) []byte {
	encoded, ok := strings.CutPrefix(uri, icon.MIMEPrefix(icon.FormatPNG))
	if !ok || encoded == "" {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		logging.Debugf("discarding malformed icon data URI: %v", err)
		return nil
	}
	return data
}

func applicationIcon(ctx context.Context, icons Icons) []byte {
	if icons == nil {
		return nil
	}
	_, data, err := icon.Payload(icons.ApplicationIcon(ctx))
	if err != nil {
		logging.Debugf("application icon unavailable: %v", err)
		return nil
	}
	return data
}
