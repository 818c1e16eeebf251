package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesKindThroughWrapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"validation direct", NewValidation("op", "bad", nil), ErrValidation, true},
		{"not found wrapped", fmt.Errorf("wrap: %w", NewNotFound("catalog.Resolve", "hotel x")), ErrNotFound, true},
		{"invalid state", NewInvalidState("drafts.Save", "clean", ErrNothingToSave), ErrInvalidState, true},
		{"stale overwrite", NewStaleOverwrite("catalog.Replace", 1, 2), ErrStaleOverwrite, true},
		{"db", NewDB("events.Append", "insert", errors.New("locked")), ErrDB, true},
		{"kind mismatch", NewNotFound("op", "x"), ErrValidation, false},
		{"nil error", nil, ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.target); got != tt.want {
				t.Errorf("Is(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestInvalidStateUnwrapsReason(t *testing.T) {
	err := NewInvalidState("drafts.Open", "dirty", ErrUnsavedChanges)
	if !errors.Is(err, ErrUnsavedChanges) {
		t.Fatalf("expected reason to be reachable via errors.Is, got %v", err)
	}
	if errors.Is(err, ErrNoSession) {
		t.Fatalf("unexpected reason match")
	}
}

func TestFieldValidationMessage(t *testing.T) {
	err := NewFieldValidation("drafts.SetField", "name", "must be a string")
	want := "validation: drafts.SetField: name: must be a string"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
