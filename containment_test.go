package sexp

import (
	"context"
	"testing"
)

func TestContainsStructural(t *testing.T) {
	container, err := Parse("(a (b c) (d (e f)))")
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		needle string
		want   bool
	}{
		{"a", true},
		{"(b c)", true},
		{"(e f)", true},
		{"(b c d)", false},
		{"(a b)", false},
		{"z", false},
	}
	for _, c := range cases {
		needle, err := Parse(c.needle)
		if err != nil {
			t.Fatal(err)
		}
		got, err := Contains(context.Background(), container, needle)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Fatalf("Contains(container, %q) = %v, want %v", c.needle, got, c.want)
		}
	}
}

func TestContainsKeyBased(t *testing.T) {
	container, err := Parse("(user (id 100) (name alice))")
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		needle string
		want   bool
	}{
		{"(user (id 100))", true},
		{"(user (name alice))", true},
		{"(user (id 100) (name alice))", true},
		{"(user (id 200))", false},
		{"(other (id 100))", false},
	}
	for _, c := range cases {
		needle, err := Parse(c.needle)
		if err != nil {
			t.Fatal(err)
		}
		got, err := ContainsKey(context.Background(), container, needle)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Fatalf("ContainsKey(container, %q) = %v, want %v", c.needle, got, c.want)
		}
	}
}

func TestContainsKeyTailIsOrderInsensitive(t *testing.T) {
	container, err := Parse("(point (y 2) (x 1))")
	if err != nil {
		t.Fatal(err)
	}
	needle, err := Parse("(point (x 1) (y 2))")
	if err != nil {
		t.Fatal(err)
	}
	got, err := ContainsKey(context.Background(), container, needle)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Fatalf("ContainsKey should match tails regardless of order")
	}
}

func TestContainsFindsListAtAnyDepth(t *testing.T) {
	// (a) sits two lists below the root of (((a) b) c); Contains must walk
	// past the non-matching intermediate lists to find it.
	outer, err := Parse("(((a) b) c)")
	if err != nil {
		t.Fatal(err)
	}
	needle, err := Parse("(a)")
	if err != nil {
		t.Fatal(err)
	}
	got, err := Contains(context.Background(), outer, needle)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Fatalf("(a) should be found nested at any depth")
	}
}

func TestContainsRespectsCancellation(t *testing.T) {
	container, err := Parse("(a b c d)")
	if err != nil {
		t.Fatal(err)
	}
	needle, err := Parse("a")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Contains(ctx, container, needle); err == nil {
		t.Fatalf("expected cancellation error")
	}
}
