package icon

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/example/iconbridge/internal/logging"
)

// See https://specifications.freedesktop.org/icon-theme-spec/icon-theme-spec-latest.html
var (
	// Exported roots of sandboxed installs. Sessions usually list them in
	// XDG_DATA_DIRS already; duplicates are dropped.
	extraDataDirs = []string{
		"/var/lib/flatpak/exports/share",
		"/var/lib/snapd/desktop",
	}

	pixmapLocations = []string{
		"/usr/share/pixmaps",
	}

	// Largest first; the result is scaled down to Size anyway.
	xdgIconPaths = []string{
		"icons/hicolor/512x512/apps",
		"icons/hicolor/256x256/apps",
		"icons/hicolor/192x192/apps",
		"icons/hicolor/128x128/apps",
		"icons/hicolor/96x96/apps",
		"icons/hicolor/72x72/apps",
		"icons/hicolor/64x64/apps",
		"icons/hicolor/48x48/apps",
		"icons/hicolor/32x32/apps",
		"icons/hicolor/scalable/apps",
	}

	iconExtensions = []string{".png", ".svg", ".ico"}
)

// desktopEntry holds the keys of a [Desktop Entry] group that matter here.
type desktopEntry struct {
	Name string
	Icon string
	Exec string
	Type string
}

func parseDesktopEntry(r io.Reader) (desktopEntry, error) {
	var entry desktopEntry
	inEntry := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inEntry = line == "[Desktop Entry]"
			continue
		}
		if !inEntry {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Name":
			entry.Name = strings.TrimSpace(value)
		case "Icon":
			entry.Icon = strings.TrimSpace(value)
		case "Exec":
			entry.Exec = strings.TrimSpace(value)
		case "Type":
			entry.Type = strings.TrimSpace(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return desktopEntry{}, fmt.Errorf("read desktop entry: %w", err)
	}
	return entry, nil
}

func readDesktopEntry(path string) (desktopEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return desktopEntry{}, err
	}
	defer f.Close()
	return parseDesktopEntry(f)
}

// execProgram returns the program named by an Exec value, skipping an env
// prefix and its assignments.
func execProgram(exec string) string {
	fields := strings.Fields(exec)
	for i := 0; i < len(fields); i++ {
		field := strings.Trim(fields[i], `"'`)
		if i == 0 && filepath.Base(field) == "env" {
			continue
		}
		if strings.Contains(field, "=") && !strings.ContainsAny(field, `/\`) {
			continue
		}
		return field
	}
	return ""
}

// iconSearch locates desktop entries and theme icons on disk.
type iconSearch struct {
	applicationDirs []string
	pixmapDirs      []string
	themeRoots      []string
	themePaths      []string
}

// defaultIconSearch builds the search roots from the XDG base directories:
// the user data home first, then every entry of XDG_DATA_DIRS.
func defaultIconSearch() iconSearch {
	roots := dedupe(append(append([]string{xdg.DataHome}, xdg.DataDirs...), extraDataDirs...))

	apps := append([]string(nil), xdg.ApplicationDirs...)
	return iconSearch{
		applicationDirs: dedupe(append(apps, joinAll(extraDataDirs, "applications")...)),
		pixmapDirs:      dedupe(append(joinAll(roots, "pixmaps"), pixmapLocations...)),
		themeRoots:      roots,
		themePaths:      xdgIconPaths,
	}
}

func joinAll(dirs []string, elem string) []string {
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		out = append(out, filepath.Join(dir, elem))
	}
	return out
}

func dedupe(dirs []string) []string {
	seen := make(map[string]bool, len(dirs))
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		dir = filepath.Clean(dir)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		out = append(out, dir)
	}
	return out
}

// findIcon resolves an Icon= value, which is either an absolute file or a
// theme icon name.
func (s iconSearch) findIcon(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if filepath.IsAbs(name) {
		return name, fileExists(name)
	}

	candidates := []string{name}
	if !hasIconExtension(name) {
		candidates = candidates[:0]
		for _, ext := range iconExtensions {
			candidates = append(candidates, name+ext)
		}
	}

	for _, root := range s.themeRoots {
		for _, sub := range s.themePaths {
			for _, file := range candidates {
				if p := filepath.Join(root, sub, file); fileExists(p) {
					return p, true
				}
			}
		}
	}
	for _, dir := range s.pixmapDirs {
		for _, file := range candidates {
			if p := filepath.Join(dir, file); fileExists(p) {
				return p, true
			}
		}
	}
	return "", false
}

// entryForExecutable finds the installed desktop entry that launches exe.
func (s iconSearch) entryForExecutable(ctx context.Context, exe string) (string, bool) {
	base := filepath.Base(exe)
	for _, dir := range s.applicationDirs {
		matches, err := filepath.Glob(filepath.Join(dir, "*.desktop"))
		if err != nil {
			continue
		}
		for _, candidate := range matches {
			if ctx.Err() != nil {
				return "", false
			}
			entry, err := readDesktopEntry(candidate)
			if err != nil {
				continue
			}
			program := execProgram(entry.Exec)
			if program == "" {
				continue
			}
			if program == exe || (!strings.ContainsRune(program, '/') && program == base) {
				return candidate, true
			}
		}
	}
	return "", false
}

// desktopSource reads icons through freedesktop desktop-file associations.
type desktopSource struct {
	search iconSearch
}

func newDesktopSource(search iconSearch) desktopSource {
	return desktopSource{search: search}
}

func (s desktopSource) Icon(ctx context.Context, path string) (Info, error) {
	entryPath := path
	if !strings.EqualFold(filepath.Ext(path), ".desktop") {
		found, ok := s.search.entryForExecutable(ctx, path)
		if !ok {
			return Info{}, fmt.Errorf("%w: no desktop entry launches %s", ErrNoIconFound, path)
		}
		entryPath = found
	}

	entry, err := readDesktopEntry(entryPath)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrNoIconFound, err)
	}
	iconPath, ok := s.search.findIcon(entry.Icon)
	if !ok {
		return Info{}, fmt.Errorf("%w: icon %q of %s is not installed", ErrNoIconFound, entry.Icon, entryPath)
	}
	logging.Debugf("desktop entry %s uses icon %s", entryPath, iconPath)

	data, err := os.ReadFile(iconPath)
	if err != nil {
		return Info{}, fmt.Errorf("read icon: %w", err)
	}
	img, err := decodeImage(data, iconPath)
	if err != nil {
		return Info{}, err
	}
	return normalize(img)
}

func hasIconExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range iconExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
