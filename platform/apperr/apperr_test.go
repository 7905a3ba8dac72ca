package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestGetKindUnwrapsChain(t *testing.T) {
	base := NotFound("product not found")
	wrapped := fmt.Errorf("resolve product: %w", base)
	double := fmt.Errorf("enrich: %w", wrapped)

	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"direct", base, KindNotFound},
		{"wrapped once", wrapped, KindNotFound},
		{"wrapped twice", double, KindNotFound},
		{"plain error", errors.New("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GetKind(tc.err); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsMatchesWrappedKind(t *testing.T) {
	err := fmt.Errorf("op: %w", Conflict("duplicate"))
	if !Is(err, KindConflict) {
		t.Error("expected wrapped conflict to match")
	}
	if Is(err, KindNotFound) {
		t.Error("must not match a different kind")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := New(tc.kind, "x").HTTPStatus(); got != tc.want {
			t.Errorf("kind %v: got %d, want %d", tc.kind, got, tc.want)
		}
	}
}
