package proposal

import (
	"reflect"
	"testing"
)

func idsOf(p *Pool) []string {
	return p.IDs()
}

func TestPoolOrderPreserved(t *testing.T) {
	a := New("a", Other)
	b := New("b", Other)
	c := New("c", Other)

	pool := NewPool(b, a, c)
	if got, want := idsOf(pool), []string{"b", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestPoolIntersectPreservesLeftOrder(t *testing.T) {
	a := New("a", Other)
	b := New("b", Other)
	c := New("c", Other)

	left := NewPool(c, b, a)
	right := NewPool(a, c)

	got := left.Intersect(right)
	if want := []string{"c", "a"}; !reflect.DeepEqual(idsOf(got), want) {
		t.Fatalf("intersect = %v, want %v", idsOf(got), want)
	}
}

func TestPoolDifference(t *testing.T) {
	a := New("a", Other)
	b := New("b", Other)

	left := NewPool(a, b)
	right := NewPool(a)

	got := left.Difference(right)
	if want := []string{"b"}; !reflect.DeepEqual(idsOf(got), want) {
		t.Fatalf("difference = %v, want %v", idsOf(got), want)
	}
}

func TestSelfIncompatibleByConstruction(t *testing.T) {
	a := New("a", Other)
	if !a.Incompatible.Contains(a) {
		t.Fatalf("expected a to be self-incompatible")
	}
	if a.Incompatible.Len() != 1 {
		t.Fatalf("expected a single entry, got %d", a.Incompatible.Len())
	}
}

func TestStepRemovesChosenProposal(t *testing.T) {
	a := New("a", Other)
	b := New("b", Other)
	MakeIncompatible(a, b)

	pool := NewPool(a, b)
	remaining := pool.Difference(a.Incompatible)
	if remaining.Contains(a) {
		t.Fatalf("a should have been removed by its own incompatibility set")
	}
	if remaining.Contains(b) {
		t.Fatalf("b should have been removed, a and b are mutually incompatible")
	}
}

func TestValidateCatchesDanglingNeighbor(t *testing.T) {
	a := New("a", Other)
	b := New("b", Other)
	a.AddNeighbor(&Proposal{ID: "ghost", Kind: Other, Incompatible: NewPool(), Neighbors: NewPool()})
	// NewPool drops the repeated a, so the dangling neighbor is the only
	// violation left in the pool.
	pool := NewPool(a, b, a)

	err := Validate(pool)
	if err == nil {
		t.Fatalf("expected validation error for dangling neighbor")
	}
}
