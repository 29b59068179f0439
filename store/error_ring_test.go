package store

import (
	"errors"
	"testing"
)

func TestErrorRing_NilSafe(t *testing.T) {
	var r *errorRing
	r.push(errors.New("dropped"))
	if r.all() != nil {
		t.Error("expected nil from nil ring")
	}
}

func TestErrorRing_NonPositiveSize(t *testing.T) {
	if newErrorRing(0) != nil {
		t.Error("expected nil ring for size 0")
	}
	if newErrorRing(-2) != nil {
		t.Error("expected nil ring for negative size")
	}
}

func TestErrorRing_EmptyReturnsNil(t *testing.T) {
	if errs := newErrorRing(2).all(); errs != nil {
		t.Errorf("expected nil, got %v", errs)
	}
}

func TestErrorRing_PartiallyFilled(t *testing.T) {
	r := newErrorRing(3)
	r.push(errors.New("a"))
	r.push(errors.New("b"))

	errs := r.all()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}
	if errs[0].Error() != "a" || errs[1].Error() != "b" {
		t.Errorf("expected [a b], got %v", errs)
	}
}

func TestErrorRing_OverwritesOldest(t *testing.T) {
	r := newErrorRing(2)
	for _, msg := range []string{"a", "b", "c"} {
		r.push(errors.New(msg))
	}

	errs := r.all()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}
	if errs[0].Error() != "b" || errs[1].Error() != "c" {
		t.Errorf("expected [b c], got %v", errs)
	}
}
