package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_NonNil(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrValidation,
		ErrInvalidTransition,
		ErrPreconditionNotMet,
		ErrForbidden,
	}
	for _, err := range sentinels {
		if err == nil {
			t.Fatal("sentinel must not be nil")
		}
	}
}

func TestSentinelErrors_Messages(t *testing.T) {
	if ErrNotFound.Error() != "not found" {
		t.Fatalf("unexpected message: %q", ErrNotFound.Error())
	}
	if ErrInvalidTransition.Error() != "invalid status transition" {
		t.Fatalf("unexpected message: %q", ErrInvalidTransition.Error())
	}
	if ErrPreconditionNotMet.Error() != "precondition not met" {
		t.Fatalf("unexpected message: %q", ErrPreconditionNotMet.Error())
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("get item: %w", ErrNotFound)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatal("errors.Is must match wrapped ErrNotFound")
	}

	wrapped2 := fmt.Errorf("%w: %w", ErrValidation, errors.New("name too long"))
	if !errors.Is(wrapped2, ErrValidation) {
		t.Fatal("errors.Is must match double-wrapped ErrValidation")
	}
}
