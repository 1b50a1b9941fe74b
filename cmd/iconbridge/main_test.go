package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/example/iconbridge/internal/config"
	"github.com/example/iconbridge/internal/icon"
)

type fakeBackend struct {
	uri    string
	info   icon.Info
	target string
	found  bool
	opened []string
	err    error
}

func (f *fakeBackend) FileIcon(context.Context, string) (string, error) { return f.uri, f.err }

func (f *fakeBackend) ApplicationIcon(context.Context) (icon.Info, error) { return f.info, f.err }

func (f *fakeBackend) ShortcutTarget(context.Context, string) (string, bool, error) {
	return f.target, f.found, f.err
}

func (f *fakeBackend) Open(_ context.Context, path string) error {
	f.opened = append(f.opened, path)
	return f.err
}

func (f *fakeBackend) Greet(_ context.Context, name string) (string, error) {
	return "Hello, " + name + "! You've been greeted from Go!", f.err
}

func newTestCLI(b backend) (*cli, *bytes.Buffer) {
	var out bytes.Buffer
	return &cli{out: &out, backend: b}, &out
}

func TestParseGlobalFlagsIgnoresBuildXWithSeparateValue(t *testing.T) {
	args := []string{"icon", "-X", "internal/config.CompiledSecret=value", "--debug", `C:\app.exe`}
	filtered, debug, remote, err := parseGlobalFlags(args)
	if err != nil {
		t.Fatalf("parseGlobalFlags returned error: %v", err)
	}
	if !debug {
		t.Fatalf("expected debug flag to be enabled")
	}
	if remote {
		t.Fatalf("remote flag should not be set")
	}
	if len(filtered) != 2 || filtered[0] != "icon" || filtered[1] != `C:\app.exe` {
		t.Fatalf("unexpected filtered args: %#v", filtered)
	}
}

func TestParseGlobalFlagsIgnoresBuildXInline(t *testing.T) {
	args := []string{"greet", "-Xinternal/config.CompiledSecret=value", "-Remote=true", "Ada"}
	filtered, debug, remote, err := parseGlobalFlags(args)
	if err != nil {
		t.Fatalf("parseGlobalFlags returned error: %v", err)
	}
	if debug {
		t.Fatalf("debug flag should not be set")
	}
	if !remote {
		t.Fatalf("remote flag should be set")
	}
	if len(filtered) != 2 || filtered[0] != "greet" || filtered[1] != "Ada" {
		t.Fatalf("unexpected filtered args: %#v", filtered)
	}
}

func TestParseGlobalFlagsKeepsCommandFlags(t *testing.T) {
	args := []string{"add", "--label=Editor", "--path", "/usr/bin/editor", "--console", "--debug=false"}
	filtered, debug, _, err := parseGlobalFlags(args)
	if err != nil {
		t.Fatalf("parseGlobalFlags returned error: %v", err)
	}
	if debug {
		t.Fatalf("--debug=false enabled debugging")
	}
	want := []string{"add", "--label=Editor", "--path", "/usr/bin/editor"}
	if strings.Join(filtered, " ") != strings.Join(want, " ") {
		t.Fatalf("unexpected filtered args: %#v", filtered)
	}
}

func TestParseGlobalFlagsRejectsBadBool(t *testing.T) {
	if _, _, _, err := parseGlobalFlags([]string{"--debug=maybe"}); err == nil {
		t.Fatalf("expected error for invalid boolean")
	}
}

func TestHandleIcon(t *testing.T) {
	c, out := newTestCLI(&fakeBackend{uri: "data:image/png;base64,AAAA"})
	if err := c.handle(context.Background(), []string{"icon", `C:\app.exe`}); err != nil {
		t.Fatalf("icon: %v", err)
	}
	if out.String() != "data:image/png;base64,AAAA\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	c, out = newTestCLI(&fakeBackend{})
	if err := c.handle(context.Background(), []string{"icon", "/missing"}); err != nil {
		t.Fatalf("missing icon must not fail: %v", err)
	}
	if out.String() != "\n" {
		t.Fatalf("expected empty line, got %q", out.String())
	}

	if err := c.handle(context.Background(), []string{"icon"}); err == nil {
		t.Fatalf("expected usage error without a path")
	}
}

func TestHandleTarget(t *testing.T) {
	c, out := newTestCLI(&fakeBackend{target: `C:\app.exe`, found: true})
	if err := c.handle(context.Background(), []string{"target", `C:\a.lnk`}); err != nil {
		t.Fatalf("target: %v", err)
	}
	if strings.TrimSpace(out.String()) != `C:\app.exe` {
		t.Fatalf("unexpected output %q", out.String())
	}

	c, _ = newTestCLI(&fakeBackend{})
	if err := c.handle(context.Background(), []string{"target", `C:\a.lnk`}); err == nil {
		t.Fatalf("expected error for unresolved shortcut")
	}
}

func TestHandleOpenAndGreet(t *testing.T) {
	b := &fakeBackend{}
	c, out := newTestCLI(b)

	if err := c.handle(context.Background(), []string{"--open", `C:\app.exe`}); err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(b.opened) != 1 || b.opened[0] != `C:\app.exe` {
		t.Fatalf("unexpected opened paths %v", b.opened)
	}

	if err := c.handle(context.Background(), []string{"greet", "Ada", "Lovelace"}); err != nil {
		t.Fatalf("greet: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "Hello, Ada Lovelace! You've been greeted from Go!" {
		t.Fatalf("unexpected greeting %q", got)
	}

	failing := &fakeBackend{err: errors.New("failed to open software: ShellExecute failed with code 2")}
	c, _ = newTestCLI(failing)
	if err := c.handle(context.Background(), []string{"open", "missing"}); err == nil {
		t.Fatalf("expected launch error to propagate")
	}
}

func TestHandleAppIconWritesPNG(t *testing.T) {
	info := icon.Info{
		Width:  icon.Size,
		Height: icon.Size,
		Data:   make([]byte, icon.Size*icon.Size*4),
		Format: icon.FormatRGBA,
	}
	c, out := newTestCLI(&fakeBackend{info: info})
	dest := filepath.Join(t.TempDir(), "app.png")

	if err := c.handle(context.Background(), []string{"app-icon", "--out", dest}); err != nil {
		t.Fatalf("app-icon: %v", err)
	}
	if !strings.Contains(out.String(), "32x32 rgba (4096 bytes)") {
		t.Fatalf("unexpected output %q", out.String())
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("output is not png: %v", err)
	}

	c, out = newTestCLI(&fakeBackend{})
	if err := c.handle(context.Background(), []string{"app-icon"}); err != nil {
		t.Fatalf("app-icon without icon: %v", err)
	}
	if !strings.Contains(out.String(), "No application icon") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestLauncherCommands(t *testing.T) {
	t.Setenv("ICONBRIDGE_CONFIG_PATH", filepath.Join(t.TempDir(), "config.json"))
	c, out := newTestCLI(&fakeBackend{})

	if err := c.handle(context.Background(), []string{"list"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), "No launchers configured") {
		t.Fatalf("unexpected output %q", out.String())
	}

	if err := c.handle(context.Background(), []string{"add", "--path", "/usr/bin/editor"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.handle(context.Background(), []string{"add"}); err == nil {
		t.Fatalf("expected add without --path to fail")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Launchers) != 1 || cfg.Launchers[0].Label != "editor" {
		t.Fatalf("unexpected launchers %+v", cfg.Launchers)
	}
	id := cfg.Launchers[0].ID

	out.Reset()
	if err := c.handle(context.Background(), []string{"list"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), id) || !strings.Contains(out.String(), "/usr/bin/editor") {
		t.Fatalf("list output misses the launcher: %q", out.String())
	}

	if err := c.handle(context.Background(), []string{"remove"}); err == nil {
		t.Fatalf("expected remove without --id to fail")
	}
	if err := c.handle(context.Background(), []string{"remove", "--id", "nope"}); !errors.Is(err, config.ErrLauncherNotFound) {
		t.Fatalf("expected ErrLauncherNotFound, got %v", err)
	}
	if err := c.handle(context.Background(), []string{"remove", "--id", id}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	cfg, _ = config.Load()
	if len(cfg.Launchers) != 0 {
		t.Fatalf("launcher was not removed: %+v", cfg.Launchers)
	}
}

func TestHandleUnknownCommand(t *testing.T) {
	c, _ := newTestCLI(&fakeBackend{})
	if err := c.handle(context.Background(), []string{"menu"}); err == nil {
		t.Fatalf("expected unknown command error")
	}
	if err := c.handle(context.Background(), nil); err == nil {
		t.Fatalf("expected error without a command")
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		value string
		max   int
		want  string
	}{
		{"short", 20, "short"},
		{"a very long launcher label", 10, "a very ..."},
		{"abcdef", 3, "abc"},
		{"Éditeur de café", 10, "Éditeur..."},
		{"日本語のエディタ", 5, "日本..."},
		{"日本語", 3, "日本語"},
		{"日本語です", 2, "日本"},
	}
	for _, tc := range cases {
		got := truncate(tc.value, tc.max)
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8 %q", tc.value, tc.max, got)
		}
		if got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.value, tc.max, got, tc.want)
		}
	}
}
