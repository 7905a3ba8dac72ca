package pipeline

import (
	"errors"
	"testing"
)

func TestDone(t *testing.T) {
	r := Done()
	if !r.Success || r.Err != nil || r.Retryable {
		t.Errorf("Done() = %+v", r)
	}
}

func TestFail(t *testing.T) {
	cause := errors.New("exa timeout")

	r := Fail(cause, true)
	if r.Success {
		t.Error("Fail must not report success")
	}
	if !errors.Is(r.Err, cause) {
		t.Errorf("Fail err = %v, want %v", r.Err, cause)
	}
	if !r.Retryable {
		t.Error("expected retryable failure")
	}

	if Fail(cause, false).Retryable {
		t.Error("expected non-retryable failure")
	}
}
