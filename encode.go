package sexp

import (
	"encoding/binary"
	"math"
)

// encoder compiles an astNode tree into the binary container of spec §3.2,
// interning symbols into a single per-value table as it goes (component 4's
// second stage, after the text parser or a programmatic builder produces
// the tree).
type encoder struct {
	index map[string]int
	names [][]byte
}

func newEncoder() *encoder {
	return &encoder{index: make(map[string]int)}
}

func (e *encoder) internSymbol(name []byte) (int, error) {
	key := string(name)
	if i, ok := e.index[key]; ok {
		return i, nil
	}
	if len(e.names) >= MaxSymbols {
		return 0, newError(LimitExceeded, "symbol table too large")
	}
	i := len(e.names)
	e.names = append(e.names, name)
	e.index[key] = i
	return i, nil
}

// lookup implements symLookup against the table built so far, letting
// hashing code run identically over a value under construction and a value
// already decoded from bytes.
func (e *encoder) lookup(i int) ([]byte, error) {
	if i < 0 || i >= len(e.names) {
		return nil, errSymbolIndexOOB
	}
	return e.names[i], nil
}

// encodeNode compiles one node, returning its element bytes and semantic
// hash. Children are compiled bottom-up so list hashes and structural
// hashes can be computed from already-known child hashes, matching
// elementHash's recursive definition without re-walking finished bytes.
func (e *encoder) encodeNode(n *astNode) ([]byte, uint32, error) {
	switch n.Kind {
	case astNil:
		return []byte{makeTag(ekNil, 0)}, 0, nil
	case astInteger:
		return encodeIntegerElement(n.Int), combine(kindTagHash(KindInteger), hashInt64(n.Int)), nil
	case astFloat:
		v := n.Float
		if v == 0 {
			v = 0
		}
		buf := make([]byte, 9)
		buf[0] = makeTag(ekFloat, 0)
		binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(v))
		return buf, combine(kindTagHash(KindFloat), hashFloat64(v)), nil
	case astSymbol:
		idx, err := e.internSymbol(n.Text)
		if err != nil {
			return nil, 0, err
		}
		buf := []byte{makeTag(ekSymbolRef, 0)}
		buf = appendVarint(buf, uint64(idx))
		return buf, combine(kindTagHash(KindSymbol), HashBytes(n.Text)), nil
	case astString:
		return encodeStringElement(n.Text), combine(kindTagHash(KindString), HashBytes(n.Text)), nil
	case astList:
		// An empty list is NIL (spec §4.9: "() and the symbol nil both
		// produce NIL"); a zero-count tag would otherwise be ambiguous
		// with the large-list format marker.
		if len(n.Children) == 0 {
			return []byte{makeTag(ekNil, 0)}, 0, nil
		}
		childBlobs := make([][]byte, len(n.Children))
		childHashes := make([]uint32, len(n.Children))
		childSentryTypes := make([]sentryType, len(n.Children))
		for i, c := range n.Children {
			blob, h, err := e.encodeNode(c)
			if err != nil {
				return nil, 0, err
			}
			childBlobs[i] = blob
			childHashes[i] = h
			childSentryTypes[i] = sentryTypeForTag(blob[0])
		}
		return composeListElement(childBlobs, childHashes, childSentryTypes)
	default:
		return nil, 0, newError(InternalInvariant, "encodeNode on invalid astKind")
	}
}

func encodeIntegerElement(v int64) []byte {
	if v >= smallIntMin && v <= smallIntMax {
		return []byte{makeTag(ekSmallInt, uint8(v+smallIntBias))}
	}
	buf := []byte{makeTag(ekInt, 0)}
	return appendVarint(buf, zigzagEncode(v))
}

func encodeStringElement(s []byte) []byte {
	if len(s) <= shortStringMax {
		buf := make([]byte, 1+len(s))
		buf[0] = makeTag(ekShortString, uint8(len(s)))
		copy(buf[1:], s)
		return buf
	}
	buf := []byte{makeTag(ekLongString, 0)}
	buf = appendVarint(buf, uint64(len(s)))
	return append(buf, s...)
}

// composeListElement builds either the small or large list wire format from
// already-encoded child blobs, choosing the format the same way a freshly
// parsed list of this size would (spec §3.3, SmallListMax threshold). It is
// shared by the encoder and by ops.go's Cdr, which must rebuild a list from
// a subset of an existing list's children.
func composeListElement(childBlobs [][]byte, childHashes []uint32, childSentryTypes []sentryType) ([]byte, uint32, error) {
	count := len(childBlobs)

	structHash := hashUint32(uint32(count)) ^ listTagHash
	for i, h := range childHashes {
		structHash = combine(structHash, rot32(h, uint(i%31)))
	}

	if count <= SmallListMax {
		payload := make([]byte, 0, 16)
		for _, b := range childBlobs {
			payload = append(payload, b...)
		}
		out := []byte{makeTag(ekList, uint8(count))}
		out = appendVarint(out, uint64(len(payload)))
		out = append(out, payload...)
		return out, structHash, nil
	}

	if count > int(sentryOffsetMask) {
		return nil, 0, newError(LimitExceeded, "list too large to index")
	}

	payload := make([]byte, 0, 64)
	entries := make([]uint32, count)
	for i, b := range childBlobs {
		entries[i] = makeSEntry(childSentryTypes[i], uint32(len(payload)))
		payload = append(payload, b...)
	}

	out := make([]byte, 0, 9+count*4+len(payload))
	out = append(out, makeTag(ekList, 0))
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(count))
	binary.LittleEndian.PutUint32(hdr[4:8], structHash)
	out = append(out, hdr[:]...)
	for _, e := range entries {
		var eb [4]byte
		binary.LittleEndian.PutUint32(eb[:], e)
		out = append(out, eb[:]...)
	}
	out = append(out, payload...)
	return out, structHash, nil
}

// compile turns an astNode tree into a standalone Value: an interned
// symbol table header followed by the compiled root element.
func compile(n *astNode) (Value, error) {
	e := newEncoder()
	root, _, err := e.encodeNode(n)
	if err != nil {
		return Value{}, err
	}
	header := e.buildHeader()
	buf := make([]byte, 0, len(header)+len(root))
	buf = append(buf, header...)
	buf = append(buf, root...)
	return newValue(buf), nil
}

func (e *encoder) buildHeader() []byte {
	buf := []byte{FormatVersion}
	buf = appendVarint(buf, uint64(len(e.names)))
	for _, name := range e.names {
		buf = appendVarint(buf, uint64(len(name)))
		buf = append(buf, name...)
	}
	return buf
}

// decompile is the inverse of compile: it rebuilds an astNode tree from an
// existing Value, resolving every symbol reference to its text so the tree
// carries no dependency on the source Value's table. Used by List to merge
// children that may each carry independent symbol tables into one shared
// table (spec §3.1: "symbol-table-independent" semantics means no operation
// may assume two values share numbering).
func decompile(v Value) (*astNode, error) {
	r, err := v.reader()
	if err != nil {
		return nil, err
	}
	return decompileAt(r, rootOffset)
}

func decompileAt(r *reader, off int) (*astNode, error) {
	k, err := r.kindAt(off)
	if err != nil {
		return nil, err
	}
	switch k {
	case KindNil:
		return nilNode(), nil
	case KindInteger:
		v, _, err := readIntegerValue(r.data, off)
		if err != nil {
			return nil, err
		}
		return integerNode(v), nil
	case KindFloat:
		v, _, err := readFloatValue(r.data, off)
		if err != nil {
			return nil, err
		}
		return floatNode(v), nil
	case KindSymbol:
		text, _, err := readSymbolText(r.data, off, r.lookup)
		if err != nil {
			return nil, err
		}
		cp := make([]byte, len(text))
		copy(cp, text)
		return symbolNode(cp), nil
	case KindString:
		content, _, err := readStringContent(r.data, off)
		if err != nil {
			return nil, err
		}
		cp := make([]byte, len(content))
		copy(cp, content)
		return stringNode(cp), nil
	case KindList:
		h, err := r.listHeaderAt(off)
		if err != nil {
			return nil, err
		}
		children := make([]*astNode, h.count)
		for i := 0; i < h.count; i++ {
			childOff, err := r.nthChild(h, i)
			if err != nil {
				return nil, err
			}
			child, err := decompileAt(r, childOff)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return &astNode{Kind: astList, Children: children}, nil
	default:
		return nil, errUnknownTag
	}
}
