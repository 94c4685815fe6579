package sexpindex

import (
	"context"

	"github.com/google/btree"

	"github.com/alttpo/sexp-index"
)

// posting is one btree item: a key and the set of document IDs whose
// extracted keys include it.
type posting struct {
	key  uint32
	docs map[uint64]struct{}
}

func (p *posting) Less(than btree.Item) bool {
	return p.key < than.(*posting).key
}

// Index is a minimal in-memory GIN-style inverted index over sexp.Value
// documents: an ordered posting-list store (spec §4.8) keyed by the
// integer keys of component 10, plus the original documents so Query can
// perform the mandatory full recheck itself.
type Index struct {
	tree *btree.BTree
	docs map[uint64]sexp.Value
	opts []ExtractOption
}

// NewIndex builds an empty index. opts apply to the value-side key
// extraction of every subsequent Insert; Query's query-side extraction
// takes no options.
func NewIndex(opts ...ExtractOption) *Index {
	return &Index{
		tree: btree.New(32),
		docs: make(map[uint64]sexp.Value),
		opts: opts,
	}
}

// Insert extracts docID's value-side keys and adds it to each key's
// posting list.
func (ix *Index) Insert(ctx context.Context, docID uint64, v sexp.Value) error {
	keys, err := ExtractValueKeys(ctx, v, ix.opts...)
	if err != nil {
		return err
	}
	ix.docs[docID] = v
	for _, k := range keys {
		item := ix.tree.Get(&posting{key: k})
		var p *posting
		if item == nil {
			p = &posting{key: k, docs: make(map[uint64]struct{})}
			ix.tree.ReplaceOrInsert(p)
		} else {
			p = item.(*posting)
		}
		p.docs[docID] = struct{}{}
	}
	return nil
}

// Query returns the document IDs that match query under strategy,
// pre-filtered by Consistent against the posting lists and then verified
// by a full Contains/ContainsKey recheck (spec §4.8: "Candidates are
// verified by a recheck that runs full ⊑s or ⊑k").
func (ix *Index) Query(ctx context.Context, strategy Strategy, query sexp.Value) ([]uint64, error) {
	queryKeys, err := ExtractQueryKeys(ctx, query, strategy)
	if err == ErrFullScanRequired {
		return ix.fullScan(ctx, strategy, query)
	}
	if err != nil {
		return nil, err
	}

	candidates := ix.candidateDocs(queryKeys)

	var matches []uint64
	for docID := range candidates {
		doc := ix.docs[docID]
		ok, err := ix.recheck(ctx, strategy, doc, query)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, docID)
		}
	}
	return matches, nil
}

// candidateDocs intersects the posting lists of every query key; a doc
// that doesn't carry all query keys cannot satisfy Consistent.
func (ix *Index) candidateDocs(queryKeys []uint32) map[uint64]struct{} {
	if len(queryKeys) == 0 {
		out := make(map[uint64]struct{}, len(ix.docs))
		for id := range ix.docs {
			out[id] = struct{}{}
		}
		return out
	}
	var result map[uint64]struct{}
	for _, k := range queryKeys {
		item := ix.tree.Get(&posting{key: k})
		if item == nil {
			return nil
		}
		p := item.(*posting)
		if result == nil {
			result = make(map[uint64]struct{}, len(p.docs))
			for id := range p.docs {
				result[id] = struct{}{}
			}
			continue
		}
		for id := range result {
			if _, ok := p.docs[id]; !ok {
				delete(result, id)
			}
		}
	}
	return result
}

func (ix *Index) fullScan(ctx context.Context, strategy Strategy, query sexp.Value) ([]uint64, error) {
	var matches []uint64
	for docID, doc := range ix.docs {
		ok, err := ix.recheck(ctx, strategy, doc, query)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, docID)
		}
	}
	return matches, nil
}

func (ix *Index) recheck(ctx context.Context, strategy Strategy, doc, query sexp.Value) (bool, error) {
	switch strategy {
	case StrategyKeyBased:
		return sexp.ContainsKey(ctx, doc, query)
	case StrategyContainedBy:
		return sexp.Contains(ctx, query, doc)
	default:
		return sexp.Contains(ctx, doc, query)
	}
}
