package launch

import (
	"errors"
	"testing"
)

func TestCheckStatus(t *testing.T) {
	cases := []struct {
		code    int
		wantErr bool
	}{
		{0, true},
		{2, true},
		{31, true},
		{32, true},
		{33, false},
		{42, false},
	}

	for _, tc := range cases {
		err := checkStatus(tc.code)
		if (err != nil) != tc.wantErr {
			t.Fatalf("checkStatus(%d) error = %v, wantErr %v", tc.code, err, tc.wantErr)
		}
		if err == nil {
			continue
		}
		var launchErr *Error
		if !errors.As(err, &launchErr) || launchErr.Code != tc.code {
			t.Fatalf("checkStatus(%d) returned %#v", tc.code, err)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Code: 2}
	if got, want := err.Error(), "failed to open software: ShellExecute failed with code 2"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	for _, path := range []string{"", "   "} {
		if err := Open(path); !errors.Is(err, ErrEmptyPath) {
			t.Fatalf("Open(%q) = %v, want ErrEmptyPath", path, err)
		}
	}
}

func TestStartDetachedReportsMissingProgram(t *testing.T) {
	if err := startDetached("iconbridge-definitely-not-installed"); err == nil {
		t.Fatalf("expected error for missing program")
	}
}
