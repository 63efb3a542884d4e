package commonerrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestWithCausePreservesIdentity(t *testing.T) {
	cause := fmt.Errorf("duplicate key value violates unique constraint")
	wrapped := ErrUsernameAlreadyExists.WithCause(cause)

	if !errors.Is(wrapped, ErrUsernameAlreadyExists) {
		t.Error("expected wrapped error to match its sentinel")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("expected wrapped error to unwrap to its cause")
	}
	if wrapped.Kind() != KindConflict {
		t.Errorf("expected kind %s, got %s", KindConflict, wrapped.Kind())
	}
}

func TestDistinctSentinelsDoNotMatch(t *testing.T) {
	if errors.Is(ErrUserNotFound, ErrMessageNotFound) {
		t.Error("expected different codes not to match")
	}
}

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation sentinel", ErrEmptyMessageBody, KindValidation},
		{"state sentinel", ErrMessageAlreadyRead, KindState},
		{"consistency sentinel", ErrBrokenParticipantLink, KindConsistency},
		{"wrapped sentinel", fmt.Errorf("outer: %w", ErrMessageNotFound), KindNotFound},
		{"plain error", errors.New("boom"), KindInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Errorf("KindOf() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestAsDomainError(t *testing.T) {
	de, ok := AsDomainError(fmt.Errorf("outer: %w", ErrMessageAlreadyRead))
	if !ok {
		t.Fatal("expected a domain error")
	}
	if de.Code() != "MESSAGE_ALREADY_READ" {
		t.Errorf("unexpected code %s", de.Code())
	}

	if _, ok := AsDomainError(errors.New("boom")); ok {
		t.Error("expected plain error not to be a domain error")
	}
}
