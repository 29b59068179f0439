package flip

import (
	"slices"
	"testing"
)

func appendMutator(v string) Mutator[[]string] {
	return func(s []string) []string {
		next := slices.Clone(s)
		return append(next, v)
	}
}

func TestApplyMutations_AppliesInOrder(t *testing.T) {
	m := ApplyMutations(appendMutator("a"), appendMutator("b"), appendMutator("c"))

	got := m(nil)
	want := []string{"a", "b", "c"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestApplyMutations_MatchesNestedApplication(t *testing.T) {
	double := func(n int) int { return n * 2 }
	inc := func(n int) int { return n + 1 }
	square := func(n int) int { return n * n }

	m := ApplyMutations[int](double, inc, square)

	for _, s := range []int{-3, 0, 1, 7} {
		want := square(inc(double(s)))
		if got := m(s); got != want {
			t.Errorf("state %d: expected %d, got %d", s, want, got)
		}
	}
}

func TestApplyMutations_EmptyIsIdentity(t *testing.T) {
	m := ApplyMutations[int]()
	for _, s := range []int{-1, 0, 42} {
		if got := m(s); got != s {
			t.Errorf("expected %d, got %d", s, got)
		}
	}
}

func TestApplyMutations_DoesNotModifyInput(t *testing.T) {
	input := []string{"x"}
	_ = ApplyMutations(appendMutator("y"))(input)

	if len(input) != 1 || input[0] != "x" {
		t.Errorf("expected input untouched, got %v", input)
	}
}

func TestApplyMutations_PanicPropagates(t *testing.T) {
	m := ApplyMutations[int](
		func(n int) int { return n + 1 },
		func(int) int { panic("boom") },
	)

	defer func() {
		r := recover()
		if r != "boom" {
			t.Errorf("expected panic 'boom', got %v", r)
		}
	}()
	m(0)
	t.Fatal("expected panic")
}
