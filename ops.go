package sexp

// Element operations (component 7): car/cdr/nth/length, equality, and the
// semantic hash family. "Absent" (car of NIL, nth out of range) is a
// non-error outcome throughout this file, signaled by a bool rather than
// an error, matching spec §7's "the only silent outcome is absent".

// Car returns the first element of a list. NIL yields absent; a non-list,
// non-NIL atom is a DatatypeMismatch error.
func Car(v Value) (Value, bool, error) {
	if v.IsNil() {
		return Value{}, false, nil
	}
	r, err := v.reader()
	if err != nil {
		return Value{}, false, err
	}
	k, err := r.kindAt(rootOffset)
	if err != nil {
		return Value{}, false, err
	}
	if k != KindList {
		return Value{}, false, errNotAList
	}
	h, err := r.listHeaderAt(rootOffset)
	if err != nil {
		return Value{}, false, err
	}
	if h.count == 0 {
		return Value{}, false, nil
	}
	off, err := r.nthChild(h, 0)
	if err != nil {
		return Value{}, false, err
	}
	child, err := r.extractChild(off)
	if err != nil {
		return Value{}, false, err
	}
	return child, true, nil
}

// Cdr returns the list with its first element removed. NIL yields absent;
// a 1-element list yields NIL; a non-list atom is a DatatypeMismatch error.
func Cdr(v Value) (Value, bool, error) {
	if v.IsNil() {
		return Value{}, false, nil
	}
	r, err := v.reader()
	if err != nil {
		return Value{}, false, err
	}
	k, err := r.kindAt(rootOffset)
	if err != nil {
		return Value{}, false, err
	}
	if k != KindList {
		return Value{}, false, errNotAList
	}
	h, err := r.listHeaderAt(rootOffset)
	if err != nil {
		return Value{}, false, err
	}
	if h.count <= 1 {
		return NilValue(), true, nil
	}

	tail, err := rebuildTail(r, h, 1)
	if err != nil {
		return Value{}, false, err
	}
	return tail, true, nil
}

// Nth returns the i'th element (0-based) of a list. Out-of-range yields
// absent. A non-list, non-NIL atom with i == 0 returns the atom itself
// (matching the reference behavior documented as an open question in spec
// §9); NIL, and any other index on a non-list atom, yield absent.
func Nth(v Value, i int) (Value, bool, error) {
	if i < 0 {
		return Value{}, false, nil
	}
	r, err := v.reader()
	if err != nil {
		return Value{}, false, err
	}
	k, err := r.kindAt(rootOffset)
	if err != nil {
		return Value{}, false, err
	}
	if k != KindList {
		if i == 0 && k != KindNil {
			return v, true, nil
		}
		return Value{}, false, nil
	}
	h, err := r.listHeaderAt(rootOffset)
	if err != nil {
		return Value{}, false, err
	}
	if i >= h.count {
		return Value{}, false, nil
	}
	off, err := r.nthChild(h, i)
	if err != nil {
		return Value{}, false, err
	}
	child, err := r.extractChild(off)
	if err != nil {
		return Value{}, false, err
	}
	return child, true, nil
}

// Length returns a list's element count; NIL has length 0. A non-list atom
// is a DatatypeMismatch error.
func Length(v Value) (int, error) {
	if v.IsNil() {
		return 0, nil
	}
	r, err := v.reader()
	if err != nil {
		return 0, err
	}
	k, err := r.kindAt(rootOffset)
	if err != nil {
		return 0, err
	}
	if k != KindList {
		return 0, errNotAList
	}
	h, err := r.listHeaderAt(rootOffset)
	if err != nil {
		return 0, err
	}
	return h.count, nil
}

// rebuildTail re-encodes children [from, h.count) of an existing list into
// a fresh standalone value, reusing the parent's symbol table verbatim
// (new symbol refs into it stay valid; dropping the head never orphans an
// index since the table is shared by all children, spec §4.3).
func rebuildTail(r *reader, h listHeader, from int) (Value, error) {
	n := h.count - from
	blobs := make([][]byte, n)
	hashes := make([]uint32, n)
	sentries := make([]sentryType, n)
	for i := 0; i < n; i++ {
		off, err := r.nthChild(h, from+i)
		if err != nil {
			return Value{}, err
		}
		end, err := r.skip(off)
		if err != nil {
			return Value{}, err
		}
		blobs[i] = r.data[off:end]
		hashes[i], err = r.hashAt(off)
		if err != nil {
			return Value{}, err
		}
		sentries[i] = sentryTypeForTag(r.data[off])
	}
	root, _, err := composeListElement(blobs, hashes, sentries)
	if err != nil {
		return Value{}, err
	}
	buf := make([]byte, 0, len(r.header)+len(root))
	buf = append(buf, r.header...)
	buf = append(buf, root...)
	return newValue(buf), nil
}

// Equal reports whether a and b are semantically equal (spec §4.4):
// symbol-table independent, structural for lists, value-equal for atoms.
func Equal(a, b Value) (bool, error) {
	ra, err := a.reader()
	if err != nil {
		return false, err
	}
	rb, err := b.reader()
	if err != nil {
		return false, err
	}
	return equalAt(ra, rootOffset, rb, rootOffset)
}

func equalAt(ra *reader, aOff int, rb *reader, bOff int) (bool, error) {
	ka, err := ra.kindAt(aOff)
	if err != nil {
		return false, err
	}
	kb, err := rb.kindAt(bOff)
	if err != nil {
		return false, err
	}
	if ka != kb {
		return false, nil
	}
	switch ka {
	case KindNil:
		return true, nil
	case KindInteger:
		va, _, err := readIntegerValue(ra.data, aOff)
		if err != nil {
			return false, err
		}
		vb, _, err := readIntegerValue(rb.data, bOff)
		if err != nil {
			return false, err
		}
		return va == vb, nil
	case KindFloat:
		va, _, err := readFloatValue(ra.data, aOff)
		if err != nil {
			return false, err
		}
		vb, _, err := readFloatValue(rb.data, bOff)
		if err != nil {
			return false, err
		}
		return va == vb, nil
	case KindSymbol:
		ta, _, err := readSymbolText(ra.data, aOff, ra.lookup)
		if err != nil {
			return false, err
		}
		tb, _, err := readSymbolText(rb.data, bOff, rb.lookup)
		if err != nil {
			return false, err
		}
		return string(ta) == string(tb), nil
	case KindString:
		ca, _, err := readStringContent(ra.data, aOff)
		if err != nil {
			return false, err
		}
		cb, _, err := readStringContent(rb.data, bOff)
		if err != nil {
			return false, err
		}
		return string(ca) == string(cb), nil
	case KindList:
		ha, err := ra.listHeaderAt(aOff)
		if err != nil {
			return false, err
		}
		hb, err := rb.listHeaderAt(bOff)
		if err != nil {
			return false, err
		}
		if ha.count != hb.count {
			return false, nil
		}
		for i := 0; i < ha.count; i++ {
			ca, err := ra.nthChild(ha, i)
			if err != nil {
				return false, err
			}
			cb, err := rb.nthChild(hb, i)
			if err != nil {
				return false, err
			}
			eq, err := equalAt(ra, ca, rb, cb)
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	default:
		return false, errUnknownTag
	}
}

// Hash returns the 32-bit semantic hash of a value (spec §4.2).
func Hash(v Value) (uint32, error) {
	r, err := v.reader()
	if err != nil {
		return 0, err
	}
	return r.hashAt(rootOffset)
}

// HashExtended mixes a caller-supplied seed into the base hash, widened to
// 64 bits, matching the host surface's `hash_extended(value, seed)`.
func HashExtended(v Value, seed int64) (int64, error) {
	base, err := Hash(v)
	if err != nil {
		return 0, err
	}
	seedHash := hashInt64(seed)
	lo := combine(base, seedHash)
	hi := combine(seedHash, base)
	return int64(uint64(hi)<<32 | uint64(lo)), nil
}

// BloomSignature returns the 64-bit Bloom signature of a value, recomputed
// on demand (spec §4.2: it is never stored in the body).
func BloomSignature(v Value) (uint64, error) {
	r, err := v.reader()
	if err != nil {
		return 0, err
	}
	return r.bloomAt(rootOffset)
}
