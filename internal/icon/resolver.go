package icon

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/example/iconbridge/internal/logging"
)

// Resolver maps a shortcut file to the path it points at.
type Resolver interface {
	Resolve(ctx context.Context, path string) (string, bool)
}

// NopResolver never resolves anything. It backs platforms without shortcut files.
type NopResolver struct{}

// Resolve always reports that no target exists.
func (NopResolver) Resolve(context.Context, string) (string, bool) {
	return "", false
}

// shortcutEnv carries the shortcut path into the PowerShell process so the
// path is never parsed as script text.
const shortcutEnv = "ICONBRIDGE_LNK"

// shortcutScript prints the target of the shortcut named by shortcutEnv as
// UTF-8 regardless of the console code page.
const shortcutScript = "[Console]::OutputEncoding=[Text.Encoding]::UTF8;" +
	"(New-Object -COM WScript.Shell).CreateShortcut($env:" + shortcutEnv + ").TargetPath"

type runFunc func(ctx context.Context, env []string, name string, args ...string) ([]byte, error)

// ShellResolver reads a shortcut target through the WScript.Shell automation
// object exposed to PowerShell.
type ShellResolver struct {
	// Timeout bounds the PowerShell process. Zero means no limit.
	Timeout time.Duration

	run runFunc
}

// NewShellResolver builds a ShellResolver that spawns powershell from PATH.
func NewShellResolver(timeout time.Duration) *ShellResolver {
	return &ShellResolver{Timeout: timeout, run: commandOutput}
}

// Resolve returns the shortcut target, or false when PowerShell cannot be
// started, fails, times out, or prints nothing.
func (r *ShellResolver) Resolve(ctx context.Context, path string) (string, bool) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	run := r.run
	if run == nil {
		run = commandOutput
	}

	out, err := run(ctx, []string{shortcutEnv + "=" + path}, "powershell",
		"-NoProfile",
		"-NonInteractive",
		"-WindowStyle", "Hidden",
		"-Command", shortcutScript,
	)
	if err != nil {
		logging.Debugf("shortcut resolution for %s failed: %v", path, err)
		return "", false
	}

	target := strings.TrimSpace(string(out))
	if target == "" {
		logging.Debugf("shortcut %s has no target", path)
		return "", false
	}
	return target, true
}

func commandOutput(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)
	prepareCommand(cmd)
	return cmd.Output()
}
