package sexpindex

import (
	"context"
	"testing"

	"github.com/alttpo/sexp-index"
)

func mustParse(t *testing.T, text string) sexp.Value {
	t.Helper()
	v, err := sexp.Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	return v
}

func TestExtractValueKeysAtom(t *testing.T) {
	v := mustParse(t, "42")
	keys, err := ExtractValueKeys(context.Background(), v)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 {
		t.Fatalf("expected exactly one key for an atom, got %d", len(keys))
	}
}

func TestExtractValueKeysPairAndListHead(t *testing.T) {
	pair := mustParse(t, "(user alice)")
	keys, err := ExtractValueKeys(context.Background(), pair)
	if err != nil {
		t.Fatal(err)
	}
	// pair key + 2 atom keys (user, alice)
	if len(keys) != 3 {
		t.Fatalf("expected 3 keys for a 2-element symbol-headed list, got %d", len(keys))
	}

	triple := mustParse(t, "(user alice 30)")
	keys2, err := ExtractValueKeys(context.Background(), triple)
	if err != nil {
		t.Fatal(err)
	}
	// list-head key + 3 atom keys
	if len(keys2) != 4 {
		t.Fatalf("expected 4 keys for a 3-element list, got %d", len(keys2))
	}
}

func TestExtractQueryKeysKeyBasedOmitsPairKeys(t *testing.T) {
	pair := mustParse(t, "(user alice)")
	structural, err := ExtractQueryKeys(context.Background(), pair, StrategyStructural)
	if err != nil {
		t.Fatal(err)
	}
	keyBased, err := ExtractQueryKeys(context.Background(), pair, StrategyKeyBased)
	if err != nil {
		t.Fatal(err)
	}
	if len(keyBased) >= len(structural) {
		t.Fatalf("key-based extraction should omit the pair key present in structural extraction")
	}
}

func TestExtractQueryKeysContainedByRequiresFullScan(t *testing.T) {
	v := mustParse(t, "(a b)")
	_, err := ExtractQueryKeys(context.Background(), v, StrategyContainedBy)
	if err != ErrFullScanRequired {
		t.Fatalf("expected ErrFullScanRequired, got %v", err)
	}
}

func TestIndexInsertAndQuery(t *testing.T) {
	ix := NewIndex()
	docs := []string{
		"(user (id 100) (name alice))",
		"(user (id 200) (name bob))",
		"(order (id 100) (total 50))",
	}
	for i, text := range docs {
		if err := ix.Insert(context.Background(), uint64(i), mustParse(t, text)); err != nil {
			t.Fatal(err)
		}
	}

	query := mustParse(t, "(user (id 100))")
	matches, err := ix.Query(context.Background(), StrategyKeyBased, query)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0] != 0 {
		t.Fatalf("expected exactly doc 0 to match, got %v", matches)
	}
}

func TestConsistentRequiresAllKeys(t *testing.T) {
	posting := map[uint32]struct{}{1: {}, 2: {}}
	if !Consistent([]uint32{1, 2}, posting) {
		t.Fatalf("expected Consistent when all keys present")
	}
	if Consistent([]uint32{1, 3}, posting) {
		t.Fatalf("expected inconsistent when a key is missing")
	}
}

func TestTriconsistentSingleAtomShortCircuits(t *testing.T) {
	posting := map[uint32]struct{}{7: {}}
	if got := Triconsistent([]uint32{7}, true, posting); got != TriTrue {
		t.Fatalf("Triconsistent = %v, want TriTrue", got)
	}
	if got := Triconsistent([]uint32{7, 8}, false, posting); got != TriFalse {
		t.Fatalf("Triconsistent = %v, want TriFalse (key 8 absent)", got)
	}
}
