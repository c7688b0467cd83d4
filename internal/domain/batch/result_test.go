package batch

import (
	"errors"
	"testing"
)

func TestNewOK(t *testing.T) {
	r := NewOK("e63f9a7c")
	if r.ID() != "e63f9a7c" {
		t.Errorf("ID() = %q", r.ID())
	}
	if r.Status() != StatusOK {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusOK)
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

func TestNewError(t *testing.T) {
	err := errors.New("something failed")
	r := NewError("a1b2c3d4", err)
	if r.ID() != "a1b2c3d4" {
		t.Errorf("ID() = %q", r.ID())
	}
	if r.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusError)
	}
	if !errors.Is(r.Err(), err) {
		t.Errorf("Err() = %v, want %v", r.Err(), err)
	}
}

func TestStatusConstants(t *testing.T) {
	if StatusOK != "ok" {
		t.Errorf("StatusOK = %q", StatusOK)
	}
	if StatusError != "error" {
		t.Errorf("StatusError = %q", StatusError)
	}
}

func TestCountAndErrors(t *testing.T) {
	results := []Result{
		NewOK("a"),
		NewError("b", errors.New("dimension mismatch")),
		NewOK("c"),
	}
	ok, failed := Count(results)
	if ok != 2 || failed != 1 {
		t.Errorf("Count() = %d, %d", ok, failed)
	}
	errs := Errors(results)
	if len(errs) != 1 || errs[0].ID() != "b" {
		t.Errorf("Errors() = %v", errs)
	}
	if ok, failed := Count(nil); ok != 0 || failed != 0 {
		t.Errorf("Count(nil) = %d, %d", ok, failed)
	}
}
