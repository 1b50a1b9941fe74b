package icon

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestShellResolverResolve(t *testing.T) {
	cases := []struct {
		name   string
		out    string
		err    error
		want   string
		wantOK bool
	}{
		{"target", "C:\\Program Files\\App\\app.exe\r\n", nil, `C:\Program Files\App\app.exe`, true},
		{"utf-8 target", "C:\\Users\\Zoë\\app.exe\r\n", nil, `C:\Users\Zoë\app.exe`, true},
		{"blank output", "  \r\n", nil, "", false},
		{"empty output", "", nil, "", false},
		{"process failure", "", errors.New("exit status 1"), "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &ShellResolver{run: func(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
				return []byte(tc.out), tc.err
			}}

			got, ok := r.Resolve(context.Background(), `C:\Users\me\Desktop\App.lnk`)
			if got != tc.want || ok != tc.wantOK {
				t.Fatalf("Resolve = (%q, %v), want (%q, %v)", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestShellResolverInvokesPowerShell(t *testing.T) {
	var gotName string
	var gotArgs []string
	r := &ShellResolver{run: func(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
		gotName, gotArgs = name, args
		return []byte("C:\\x.exe"), nil
	}}

	r.Resolve(context.Background(), `C:\Users\me\App.lnk`)

	if gotName != "powershell" {
		t.Fatalf("expected powershell, got %q", gotName)
	}
	if len(gotArgs) < 2 || gotArgs[len(gotArgs)-2] != "-Command" {
		t.Fatalf("expected -Command as the penultimate argument, got %v", gotArgs)
	}
	script := gotArgs[len(gotArgs)-1]
	if !strings.HasPrefix(script, "[Console]::OutputEncoding=[Text.Encoding]::UTF8;") {
		t.Fatalf("script does not force UTF-8 output: %s", script)
	}
	if !strings.HasSuffix(script, "CreateShortcut($env:ICONBRIDGE_LNK).TargetPath") {
		t.Fatalf("script does not read the path from the environment: %s", script)
	}
}

func TestShellResolverKeepsPathOutOfScript(t *testing.T) {
	paths := map[string]string{
		"ascii apostrophe":        `C:\Users\O'Brien\App.lnk`,
		"right single quote":      "C:\\Users\\O\u2019Brien\\App.lnk",
		"left single quote":       "C:\\Users\\\u2018quoted\u2019.lnk",
		"low and reversed quotes": "C:\\\u201aodd\u201b.lnk",
		"injected command":        "C:\\Users\\x\u2019;Start-Process calc;\u2019.lnk",
		"non-ascii path":          `C:\Users\Zoë\Bureau\Café.lnk`,
	}

	for name, path := range paths {
		t.Run(name, func(t *testing.T) {
			var gotEnv, gotArgs []string
			r := &ShellResolver{run: func(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
				gotEnv, gotArgs = env, args
				return []byte("C:\\x.exe"), nil
			}}

			if _, ok := r.Resolve(context.Background(), path); !ok {
				t.Fatalf("expected resolution to succeed")
			}
			if len(gotEnv) != 1 || gotEnv[0] != "ICONBRIDGE_LNK="+path {
				t.Fatalf("path not passed through the environment: %q", gotEnv)
			}
			for _, arg := range gotArgs {
				if strings.Contains(arg, path) {
					t.Fatalf("path leaked into the command line: %q", arg)
				}
			}
		})
	}
}

func TestShellResolverAppliesTimeout(t *testing.T) {
	r := &ShellResolver{
		Timeout: 50 * time.Millisecond,
		run: func(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
			deadline, ok := ctx.Deadline()
			if !ok {
				t.Fatalf("expected a deadline on the resolver context")
			}
			if time.Until(deadline) > 50*time.Millisecond {
				t.Fatalf("deadline too far away: %v", time.Until(deadline))
			}
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	start := time.Now()
	if _, ok := r.Resolve(context.Background(), `C:\slow.lnk`); ok {
		t.Fatalf("expected timed out resolution to fail")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("resolution did not honour the timeout, took %v", elapsed)
	}
}

func TestShellResolverWithoutTimeoutHasNoDeadline(t *testing.T) {
	r := &ShellResolver{run: func(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
		if _, ok := ctx.Deadline(); ok {
			t.Fatalf("unexpected deadline")
		}
		return []byte("C:\\x.exe"), nil
	}}
	if _, ok := r.Resolve(context.Background(), `C:\a.lnk`); !ok {
		t.Fatalf("expected resolution to succeed")
	}
}

func TestNopResolver(t *testing.T) {
	if target, ok := (NopResolver{}).Resolve(context.Background(), "/tmp/a.lnk"); ok || target != "" {
		t.Fatalf("NopResolver resolved %q", target)
	}
}
