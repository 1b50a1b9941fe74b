package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/example/iconbridge/internal/config"
	"github.com/example/iconbridge/internal/icon"
	"github.com/example/iconbridge/internal/launch"
	"github.com/example/iconbridge/internal/logging"
	"github.com/example/iconbridge/internal/menu"
	"github.com/example/iconbridge/internal/service"
)

func main() {
	log.SetFlags(0)

	args, debug, remote, err := parseGlobalFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}
	if debug || settings.Debug {
		logging.EnableDebug()
		logging.Debugf("debug logging enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(args) == 0 {
		args = []string{"tray"}
	}

	icons := icon.NewPlatformService(settings.ResolverTimeout)
	cli := &cli{out: os.Stdout, backend: localBackend{icons: icons}}
	if remote {
		cli.backend = remoteBackend{client: service.NewClient(settings)}
	}

	switch normalizeCommand(args[0]) {
	case "serve":
		err = runService(ctx, settings, icons)
	case "tray":
		err = menu.NewRunner(icons, launch.Open).Start(ctx)
	default:
		err = cli.handle(ctx, args)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("%v", err)
	}
}

func runService(ctx context.Context, settings config.Settings, icons *icon.Service) error {
	srv, err := service.New(settings, icons)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

// parseGlobalFlags strips the flags understood by every command. Linker
// -X arguments that leak into the command line are ignored.
func parseGlobalFlags(args []string) ([]string, bool, bool, error) {
	filtered := make([]string, 0, len(args))
	var debug, remote bool

	for i := 0; i < len(args); i++ {
		raw := strings.TrimSpace(args[i])
		if raw == "" {
			continue
		}
		if raw == "-X" || raw == "--X" {
			i++
			continue
		}
		if strings.HasPrefix(raw, "-X") {
			continue
		}

		name, value, hasValue := strings.Cut(strings.TrimLeft(raw, "-"), "=")
		if !strings.HasPrefix(raw, "-") {
			filtered = append(filtered, args[i])
			continue
		}

		var target *bool
		switch strings.ToLower(name) {
		case "debug":
			target = &debug
		case "remote":
			target = &remote
		case "console":
			// Consumed by the Windows console check.
			continue
		default:
			filtered = append(filtered, args[i])
			continue
		}

		if !hasValue {
			*target = true
			continue
		}
		enabled, err := parseBool(value)
		if err != nil {
			return nil, false, false, fmt.Errorf("invalid value for --%s: %w", name, err)
		}
		*target = enabled
	}

	return filtered, debug, remote, nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "t", "true", "yes", "on":
		return true, nil
	case "0", "f", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", value)
	}
}

type cli struct {
	out     io.Writer
	backend backend
}

func (c *cli) handle(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("no command provided")
	}

	switch normalizeCommand(args[0]) {
	case "icon":
		return c.handleIcon(ctx, args[1:])
	case "app-icon":
		return c.handleAppIcon(ctx, args[1:])
	case "target":
		return c.handleTarget(ctx, args[1:])
	case "open":
		return c.handleOpen(ctx, args[1:])
	case "greet":
		return c.handleGreet(ctx, args[1:])
	case "add":
		return c.handleAdd(args[1:])
	case "remove":
		return c.handleRemove(args[1:])
	case "list":
		return c.handleList()
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func normalizeCommand(arg string) string {
	trimmed := strings.TrimLeft(arg, "-/")
	return strings.ToLower(trimmed)
}

func requirePath(name string, args []string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("usage: %s <path>", name)
	}
	return args[0], nil
}

func (c *cli) handleIcon(ctx context.Context, args []string) error {
	path, err := requirePath("icon", args)
	if err != nil {
		return err
	}
	uri, err := c.backend.FileIcon(ctx, path)
	if err != nil {
		return err
	}
	if uri == "" {
		logging.Debugf("no icon available for %s", path)
	}
	fmt.Fprintln(c.out, uri)
	return nil
}

func (c *cli) handleAppIcon(ctx context.Context, args []string) error {
	fs := newFlagSet("app-icon", c.out)
	out := fs.String("out", "", "write the icon as PNG to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	info, err := c.backend.ApplicationIcon(ctx)
	if err != nil {
		return err
	}
	if info.Empty() {
		fmt.Fprintln(c.out, "No application icon available")
		return nil
	}
	fmt.Fprintf(c.out, "%dx%d %s (%d bytes)\n", info.Width, info.Height, info.Format, len(info.Data))

	if *out == "" {
		return nil
	}
	_, data, err := icon.Payload(info)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	fmt.Fprintf(c.out, "Wrote %s\n", *out)
	return nil
}

func (c *cli) handleTarget(ctx context.Context, args []string) error {
	path, err := requirePath("target", args)
	if err != nil {
		return err
	}
	target, ok, err := c.backend.ShortcutTarget(ctx, path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no shortcut target for %s", path)
	}
	fmt.Fprintln(c.out, target)
	return nil
}

func (c *cli) handleOpen(ctx context.Context, args []string) error {
	path, err := requirePath("open", args)
	if err != nil {
		return err
	}
	return c.backend.Open(ctx, path)
}

func (c *cli) handleGreet(ctx context.Context, args []string) error {
	name := strings.Join(args, " ")
	message, err := c.backend.Greet(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, message)
	return nil
}

func (c *cli) handleAdd(args []string) error {
	fs := newFlagSet("add", c.out)
	label := fs.String("label", "", "display label (defaults to the file name)")
	path := fs.String("path", "", "file or application to launch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	item, err := cfg.AddLauncher(*label, *path)
	if err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Added launcher %s (%s)\n", item.ID, item.Label)
	return nil
}

func (c *cli) handleRemove(args []string) error {
	fs := newFlagSet("remove", c.out)
	id := fs.String("id", "", "identifier of the launcher to remove")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("missing --id for remove")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RemoveLauncher(*id); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Removed launcher %s\n", *id)
	return nil
}

func (c *cli) handleList() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if len(cfg.Launchers) == 0 {
		fmt.Fprintln(c.out, "No launchers configured")
		return nil
	}

	sort.SliceStable(cfg.Launchers, func(i, j int) bool {
		return cfg.Launchers[i].Order < cfg.Launchers[j].Order
	})

	fmt.Fprintf(c.out, "%-38s %-20s %s\n", "ID", "Label", "Path")
	for _, item := range cfg.Launchers {
		fmt.Fprintf(c.out, "%-38s %-20s %s\n", item.ID, truncate(item.Label, 20), item.Path)
	}
	return nil
}

// truncate shortens value to at most max runes.
func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}
