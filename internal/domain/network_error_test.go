package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNetworkError_IsMatchesKind(t *testing.T) {
	err := NewNetworkError(KindServerError, 503, errors.New("boom"))

	if !errors.Is(err, ErrServerError) {
		t.Error("expected server error to match ErrServerError")
	}
	if errors.Is(err, ErrNoInternet) {
		t.Error("server error should not match ErrNoInternet")
	}

	wrapped := fmt.Errorf("loading coins: %w", err)
	if !errors.Is(wrapped, ErrServerError) {
		t.Error("expected wrapped error to match ErrServerError")
	}
}

func TestNetworkError_UnwrapKeepsCause(t *testing.T) {
	err := NewNetworkError(KindUnknown, 0, context.Canceled)
	if !errors.Is(err, context.Canceled) {
		t.Error("expected cause to be reachable through errors.Is")
	}
}

func TestNetworkError_Error(t *testing.T) {
	tests := []struct {
		err  *NetworkError
		want string
	}{
		{NewNetworkError(KindNoInternet, 0, nil), "NO_INTERNET"},
		{NewNetworkError(KindServerError, 500, nil), "SERVER_ERROR (status 500)"},
		{NewNetworkError(KindSerialization, 200, errors.New("bad json")), "SERIALIZATION (status 200): bad json"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestAsNetworkError(t *testing.T) {
	if AsNetworkError(nil) != nil {
		t.Error("nil error should stay nil")
	}

	plain := AsNetworkError(errors.New("plain"))
	if plain.Kind != KindUnknown {
		t.Errorf("plain error kind = %s, want UNKNOWN", plain.Kind)
	}

	orig := NewNetworkError(KindRequestTimeout, 408, nil)
	if got := AsNetworkError(fmt.Errorf("ctx: %w", orig)); got != orig {
		t.Error("expected the wrapped NetworkError to be returned as-is")
	}
}
