package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFoundNode, "node %s does not exist", "n1")

	if err.Code != ErrCodeNotFoundNode {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNotFoundNode)
	}
	if err.Message != "node n1 does not exist" {
		t.Errorf("Message = %q", err.Message)
	}
	if !strings.Contains(err.Error(), "NOT_FOUND_NODE") {
		t.Errorf("Error() = %q, want code prefix", err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeStorageWrite, cause, "save snapshot for %s", "scene-1")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"Match", New(ErrCodeDanglingReference, "bad edge"), ErrCodeDanglingReference, true},
		{"Mismatch", New(ErrCodeDanglingReference, "bad edge"), ErrCodeNotFoundNode, false},
		{"Wrapped", fmt.Errorf("outer: %w", New(ErrCodeInvalidPayload, "no marker")), ErrCodeInvalidPayload, true},
		{"Plain", stderrors.New("plain"), ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeSnapshotMismatch, "stale")); got != ErrCodeSnapshotMismatch {
		t.Errorf("GetCode = %v", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidKind, "unknown kind %q", "hexagon")
	if got := UserMessage(err); got != `unknown kind "hexagon"` {
		t.Errorf("UserMessage = %q", got)
	}

	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
