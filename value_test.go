package sexp

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilValueSingleton(t *testing.T) {
	a := NilValue()
	b := NilValue()
	if !a.IsNil() {
		t.Fatalf("NilValue() should report IsNil")
	}
	eq, err := Equal(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if !eq {
		t.Fatalf("two NilValue() calls should be equal")
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	v, err := Parse(`(a "b c" 42 3.5)`)
	if err != nil {
		t.Fatal(err)
	}
	bytes, err := v.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	var v2 Value
	if err := v2.UnmarshalBinary(bytes); err != nil {
		t.Fatal(err)
	}
	eq, err := Equal(v, v2)
	if err != nil {
		t.Fatal(err)
	}
	if !eq {
		t.Fatalf("round trip through Marshal/Unmarshal should be equal")
	}
}

// TestBuilderMarshalRoundTripFuzz builds random flat lists of strings and
// integers through the programmatic builder and checks every one survives
// MarshalBinary/UnmarshalBinary unchanged under Equal.
func TestBuilderMarshalRoundTripFuzz(t *testing.T) {
	const N = 50
	fz := fuzz.New().NilChance(0).NumElements(1, 8)
	for i := 0; i < N; i++ {
		var words []string
		var nums []int32
		fz.Fuzz(&words)
		fz.Fuzz(&nums)

		children := make([]Value, 0, len(words)+len(nums))
		for _, w := range words {
			children = append(children, Str(w))
		}
		for _, n := range nums {
			children = append(children, Int(int64(n)))
		}
		v := List(children...)

		data, err := v.MarshalBinary()
		require.NoError(t, err)
		var v2 Value
		require.NoError(t, v2.UnmarshalBinary(data))

		eq, err := Equal(v, v2)
		require.NoError(t, err)
		assert.True(t, eq, "round trip %d changed value", i)
	}
}

func TestUnmarshalRejectsCorruptData(t *testing.T) {
	var v Value
	if err := v.UnmarshalBinary([]byte{FormatVersion + 1, 0x00}); err == nil {
		t.Fatalf("expected error for a version newer than supported")
	}
}

func TestTypePredicates(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		isList bool
		isAtom bool
	}{
		{"list", "(a b)", true, false},
		{"symbol", "a", false, true},
		{"integer", "1", false, true},
		{"nil literal", "nil", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.isList, v.IsList(), "IsList(%q)", tt.text)
			assert.Equal(t, tt.isAtom, v.IsAtom(), "IsAtom(%q)", tt.text)
		})
	}
}
