package sexp

import (
	"math"
	"testing"
)

func TestSmallIntBoundary(t *testing.T) {
	for _, v := range []int64{-16, -1, 0, 15} {
		n := integerNode(v)
		val, err := compile(n)
		if err != nil {
			t.Fatal(err)
		}
		got, err := val.IntegerValue()
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatalf("IntegerValue() = %d, want %d", got, v)
		}
		blob := encodeIntegerElement(v)
		if tagKind(blob[0]) != ekSmallInt {
			t.Fatalf("expected small-int encoding for %d", v)
		}
	}
	for _, v := range []int64{16, -17, 1000} {
		blob := encodeIntegerElement(v)
		if tagKind(blob[0]) != ekInt {
			t.Fatalf("expected wide-int encoding for %d", v)
		}
	}
}

func TestShortStringBoundary(t *testing.T) {
	short := make([]byte, shortStringMax)
	long := make([]byte, shortStringMax+1)
	for i := range short {
		short[i] = 'a'
	}
	for i := range long {
		long[i] = 'a'
	}
	if tagKind(encodeStringElement(short)[0]) != ekShortString {
		t.Fatalf("expected short-string encoding at boundary")
	}
	if tagKind(encodeStringElement(long)[0]) != ekLongString {
		t.Fatalf("expected long-string encoding past boundary")
	}
}

func TestListFormatBoundary(t *testing.T) {
	mk := func(n int) *astNode {
		children := make([]*astNode, n)
		for i := range children {
			children[i] = integerNode(int64(i))
		}
		return &astNode{Kind: astList, Children: children}
	}
	small, err := compile(mk(SmallListMax))
	if err != nil {
		t.Fatal(err)
	}
	r, err := small.reader()
	if err != nil {
		t.Fatal(err)
	}
	h, err := r.listHeaderAt(rootOffset)
	if err != nil {
		t.Fatal(err)
	}
	if !h.small {
		t.Fatalf("expected small list format at count == SmallListMax")
	}

	large, err := compile(mk(SmallListMax + 1))
	if err != nil {
		t.Fatal(err)
	}
	r2, err := large.reader()
	if err != nil {
		t.Fatal(err)
	}
	h2, err := r2.listHeaderAt(rootOffset)
	if err != nil {
		t.Fatal(err)
	}
	if h2.small {
		t.Fatalf("expected large list format past SmallListMax")
	}
}

func TestFloatNegativeZeroNormalized(t *testing.T) {
	v, err := compile(floatNode(0))
	if err != nil {
		t.Fatal(err)
	}
	negZero, err := compile(floatNode(negativeZero()))
	if err != nil {
		t.Fatal(err)
	}
	eq, err := Equal(v, negZero)
	if err != nil {
		t.Fatal(err)
	}
	if !eq {
		t.Fatalf("0.0 and -0.0 should compare equal")
	}
	h1, err := Hash(v)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := Hash(negZero)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Fatalf("0.0 and -0.0 should hash equal")
	}
}

func negativeZero() float64 {
	return math.Copysign(0, -1)
}
