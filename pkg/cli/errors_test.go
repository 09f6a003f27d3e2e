package cli

import (
	"errors"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("export.storage_path", "storage_path is required")

	expected := "config error in export.storage_path: storage_path is required"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandError(t *testing.T) {
	underlying := errors.New("bundle failed")
	err := NewCommandError("export", underlying)

	if err.Error() != "command export failed: bundle failed" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is() should see the wrapped error")
	}
}

func TestExitError(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{name: "with message", err: NewExitError(2, "%d entities have unclassified attributes", 3), want: "3 entities have unclassified attributes"},
		{name: "code only", err: &ExitError{Code: 1}, want: "exit status 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}

			var exitErr *ExitError
			if !errors.As(NewCommandError("audit", tt.err), &exitErr) || exitErr.Code != tt.err.Code {
				t.Errorf("errors.As() did not find the exit code")
			}
		})
	}
}
