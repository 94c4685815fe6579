package sexp

import "context"

// Structural and key-based containment (components 4.5/4.6): "container
// holds needle as a subtree," in two flavors. Both use a Bloom reject up
// front and a type-filtered recursive descent, since most queries are
// negative and the Bloom signature eliminates them cheaply.

// Contains reports whether needle appears as an exact subtree anywhere in
// container (⊑s, spec §4.5): atom-in-atom is equality, atom-in-list is
// "some descendant equals the atom," list-in-list requires an exact
// pairwise-equal sublist (no partial/subset matching). ctx is checked once
// per visited top-level list child (spec §5 "Suspension & cancellation");
// an already-cancelled context aborts promptly instead of scanning.
func Contains(ctx context.Context, container, needle Value) (bool, error) {
	cr, err := container.reader()
	if err != nil {
		return false, err
	}
	nr, err := needle.reader()
	if err != nil {
		return false, err
	}

	cBloom, err := cr.bloomAt(rootOffset)
	if err != nil {
		return false, err
	}
	nBloom, err := nr.bloomAt(rootOffset)
	if err != nil {
		return false, err
	}
	if !bloomMayContain(cBloom, nBloom) {
		return false, nil
	}

	needleKind, err := nr.kindAt(rootOffset)
	if err != nil {
		return false, err
	}
	return containsAt(ctx, cr, rootOffset, nr, rootOffset, needleKind, true)
}

// nodesMayBeEqual is the structural-hash early reject (spec: the embedded
// hash is "not used for equality, only as an early reject in containment").
// A hash mismatch proves inequality without walking either subtree; a match
// proves nothing and still requires the full equalAt check.
func nodesMayBeEqual(cr *reader, cOff int, nr *reader, nOff int) (bool, error) {
	ch, err := cr.hashAt(cOff)
	if err != nil {
		return false, err
	}
	nh, err := nr.hashAt(nOff)
	if err != nil {
		return false, err
	}
	return ch == nh, nil
}

func containsAt(ctx context.Context, cr *reader, cOff int, nr *reader, nOff int, needleKind Kind, topLevel bool) (bool, error) {
	cKind, err := cr.kindAt(cOff)
	if err != nil {
		return false, err
	}
	if cKind == needleKind {
		eq, err := nodesMayBeEqual(cr, cOff, nr, nOff)
		if err != nil {
			return false, err
		}
		if eq {
			eq, err = equalAt(cr, cOff, nr, nOff)
			if err != nil {
				return false, err
			}
			if eq {
				return true, nil
			}
		}
	}
	if cKind != KindList {
		return false, nil
	}
	h, err := cr.listHeaderAt(cOff)
	if err != nil {
		return false, err
	}
	for i := 0; i < h.count; i++ {
		if topLevel {
			if err := ctx.Err(); err != nil {
				return false, wrapError(InternalInvariant, "containment scan cancelled", err)
			}
		}
		childOff, err := cr.nthChild(h, i)
		if err != nil {
			return false, err
		}
		found, err := containsAt(ctx, cr, childOff, nr, nOff, needleKind, false)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

// ContainsKey reports whether needle appears under container's key-based
// containment rule (⊑k, spec §4.6): atoms behave as in ⊑s; for lists, the
// heads must be equal and every needle tail element must be matched,
// order-insensitively, against a distinct container tail element (simple
// scan-and-consume, not maximum bipartite matching).
func ContainsKey(ctx context.Context, container, needle Value) (bool, error) {
	cr, err := container.reader()
	if err != nil {
		return false, err
	}
	nr, err := needle.reader()
	if err != nil {
		return false, err
	}

	cBloom, err := cr.bloomAt(rootOffset)
	if err != nil {
		return false, err
	}
	// A ⊑k match need not reproduce a list needle (or the lists in its tail)
	// in the container; only its head, matched by full equality, must appear
	// there, so a list needle is pre-filtered on its head's signature.
	nBloomOff := rootOffset
	nKind, err := nr.kindAt(rootOffset)
	if err != nil {
		return false, err
	}
	if nKind == KindList {
		nh, err := nr.listHeaderAt(rootOffset)
		if err != nil {
			return false, err
		}
		if nBloomOff, err = nr.nthChild(nh, 0); err != nil {
			return false, err
		}
	}
	nBloom, err := nr.bloomAt(nBloomOff)
	if err != nil {
		return false, err
	}
	if !bloomMayContain(cBloom, nBloom) {
		return false, nil
	}

	return containsKeyAt(ctx, cr, rootOffset, nr, rootOffset, true)
}

func containsKeyAt(ctx context.Context, cr *reader, cOff int, nr *reader, nOff int, topLevel bool) (bool, error) {
	match, err := matchesKeyHere(cr, cOff, nr, nOff)
	if err != nil {
		return false, err
	}
	if match {
		return true, nil
	}
	cKind, err := cr.kindAt(cOff)
	if err != nil {
		return false, err
	}
	if cKind != KindList {
		return false, nil
	}
	h, err := cr.listHeaderAt(cOff)
	if err != nil {
		return false, err
	}
	for i := 0; i < h.count; i++ {
		if topLevel {
			if err := ctx.Err(); err != nil {
				return false, wrapError(InternalInvariant, "containment scan cancelled", err)
			}
		}
		childOff, err := cr.nthChild(h, i)
		if err != nil {
			return false, err
		}
		found, err := containsKeyAt(ctx, cr, childOff, nr, nOff, false)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

// matchesKeyHere tests the ⊑k rule at a single container node, without
// descending further: atoms compare equal; lists require matching heads
// and a successful scan-and-consume of the tail.
func matchesKeyHere(cr *reader, cOff int, nr *reader, nOff int) (bool, error) {
	cKind, err := cr.kindAt(cOff)
	if err != nil {
		return false, err
	}
	nKind, err := nr.kindAt(nOff)
	if err != nil {
		return false, err
	}
	if nKind != KindList {
		if cKind != nKind {
			return false, nil
		}
		mayEq, err := nodesMayBeEqual(cr, cOff, nr, nOff)
		if err != nil || !mayEq {
			return false, err
		}
		return equalAt(cr, cOff, nr, nOff)
	}
	if cKind != KindList {
		return false, nil
	}

	ch, err := cr.listHeaderAt(cOff)
	if err != nil {
		return false, err
	}
	nh, err := nr.listHeaderAt(nOff)
	if err != nil {
		return false, err
	}
	if ch.count == 0 || nh.count == 0 {
		return ch.count == 0 && nh.count == 0, nil
	}

	cHeadOff, err := cr.nthChild(ch, 0)
	if err != nil {
		return false, err
	}
	nHeadOff, err := nr.nthChild(nh, 0)
	if err != nil {
		return false, err
	}
	headMayEq, err := nodesMayBeEqual(cr, cHeadOff, nr, nHeadOff)
	if err != nil {
		return false, err
	}
	if !headMayEq {
		return false, nil
	}
	headEq, err := equalAt(cr, cHeadOff, nr, nHeadOff)
	if err != nil {
		return false, err
	}
	if !headEq {
		return false, nil
	}

	consumed := make([]bool, ch.count-1)
	for j := 1; j < nh.count; j++ {
		needleOff, err := nr.nthChild(nh, j)
		if err != nil {
			return false, err
		}
		matched := false
		for i := 1; i < ch.count; i++ {
			if consumed[i-1] {
				continue
			}
			containerOff, err := cr.nthChild(ch, i)
			if err != nil {
				return false, err
			}
			ok, err := matchesKeyHere(cr, containerOff, nr, needleOff)
			if err != nil {
				return false, err
			}
			if ok {
				consumed[i-1] = true
				matched = true
				break
			}
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}
