package sexp

import "testing"

func TestParseAtoms(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind Kind
	}{
		{"nil keyword", "nil", KindNil},
		{"empty list", "()", KindNil},
		{"symbol", "abc-def", KindSymbol},
		{"positive integer", "1023", KindInteger},
		{"negative integer", "-7", KindInteger},
		{"float", "3.14", KindFloat},
		{"float exponent", "1e10", KindFloat},
		{"string", `"abc\ndef\t\"123\""`, KindString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.text, err)
			}
			k, err := v.TypeOf()
			if err != nil {
				t.Fatalf("TypeOf: %v", err)
			}
			if k != tt.kind {
				t.Fatalf("TypeOf() = %v, want %v", k, tt.kind)
			}
		})
	}
}

func TestParseEmptyListIsNil(t *testing.T) {
	a, err := Parse("()")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse("nil")
	if err != nil {
		t.Fatal(err)
	}
	eq, err := Equal(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if !eq {
		t.Fatalf("() and nil should be equal")
	}
}

func TestParseList(t *testing.T) {
	v, err := Parse(`(test-exp abc 1023 "a\tb")`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	n, err := Length(v)
	if err != nil {
		t.Fatalf("Length: %v", err)
	}
	if n != 4 {
		t.Fatalf("Length() = %d, want 4", n)
	}
}

func TestParseComment(t *testing.T) {
	v, err := Parse("(a b) ; trailing comment\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !v.IsList() {
		t.Fatalf("expected a list")
	}
}

func TestParseTrailingGarbageErrors(t *testing.T) {
	if _, err := Parse("(a b) c"); err == nil {
		t.Fatalf("expected error for trailing data")
	}
}

func TestParseUnterminatedListErrors(t *testing.T) {
	if _, err := Parse("(a b"); err == nil {
		t.Fatalf("expected error for unterminated list")
	}
}

func TestParseDepthLimit(t *testing.T) {
	text := ""
	for i := 0; i < MaxDepth+10; i++ {
		text += "("
	}
	text += "1"
	for i := 0; i < MaxDepth+10; i++ {
		text += ")"
	}
	if _, err := Parse(text); err == nil {
		t.Fatalf("expected depth-limit error")
	}
}

func TestPrintRoundTrip(t *testing.T) {
	texts := []string{
		"nil",
		"abc-def",
		"1023",
		"-7",
		"3.14",
		"2.0",
		`"abc\ndef\t\"123\""`,
		"(a b c)",
		"(a (b c) d)",
	}
	for _, text := range texts {
		v, err := Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q): %v", text, err)
		}
		printed, err := Print(v)
		if err != nil {
			t.Fatalf("Print: %v", err)
		}
		v2, err := Parse(printed)
		if err != nil {
			t.Fatalf("re-Parse(%q): %v", printed, err)
		}
		eq, err := Equal(v, v2)
		if err != nil {
			t.Fatalf("Equal: %v", err)
		}
		if !eq {
			t.Fatalf("round trip mismatch: %q -> %q", text, printed)
		}
	}
}
