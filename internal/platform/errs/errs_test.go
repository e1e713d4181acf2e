package errs

import (
	"errors"
	"testing"
)

var errRefused = errors.New("connection refused")

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{name: "message only", err: &AppError{Message: "bad input"}, want: "bad input"},
		{name: "with cause", err: &AppError{Message: "unreachable", Cause: errRefused}, want: "unreachable: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := &AppError{Kind: Unreachable, Message: "down", Cause: errRefused}
	if !errors.Is(err, errRefused) {
		t.Error("errors.Is(err, errRefused) = false, want true")
	}
}

func TestKind_String(t *testing.T) {
	tests := map[Kind]string{
		Unknown:       "unknown",
		InvalidInput:  "invalid_input",
		Unreachable:   "unreachable",
		Timeout:       "timeout",
		ParsingFailed: "parsing_failed",
		Cancelled:     "cancelled",
		Kind(42):      "unknown",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
