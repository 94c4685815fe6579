package sexp

// reader is the zero-copy read cursor (component 6): it owns a borrow of a
// value's bytes, split into the header (version + symbol table, reused
// verbatim by the extraction fast path) and the element-data region that
// byte offsets throughout this package are relative to.
type reader struct {
	header []byte
	data   []byte
	syms   symbolTable
}

func newReader(buf []byte) (*reader, error) {
	syms, headerLen, err := decodeSymbolTable(buf)
	if err != nil {
		return nil, err
	}
	if headerLen > len(buf) {
		return nil, errTruncated
	}
	return &reader{
		header: buf[:headerLen],
		data:   buf[headerLen:],
		syms:   syms,
	}, nil
}

func (r *reader) lookup(i int) ([]byte, error) { return r.syms.lookup(i) }

func (r *reader) kindAt(off int) (Kind, error) {
	if off >= len(r.data) {
		return KindNil, errTruncated
	}
	return semanticKindOf(tagKind(r.data[off])), nil
}

func (r *reader) listHeaderAt(off int) (listHeader, error) {
	return readListHeader(r.data, off)
}

func (r *reader) nthChild(h listHeader, i int) (int, error) {
	return nthChildOffset(r.data, h, i)
}

func (r *reader) skip(off int) (int, error) {
	return skipElement(r.data, off)
}

func (r *reader) hashAt(off int) (uint32, error) {
	return elementHash(r.data, off, r.lookup)
}

func (r *reader) bloomAt(off int) (uint64, error) {
	return elementBloom(r.data, off, r.lookup)
}

// extractChild builds a new, independent Value for the element at off,
// re-using this reader's header bytes verbatim and appending only the
// child's own bytes (spec §4.3 "Extraction — fast path"). The child's
// symbol references remain valid because they index into the inherited,
// superset table; the caller must never attach these bytes to a different
// header.
func (r *reader) extractChild(off int) (Value, error) {
	end, err := r.skip(off)
	if err != nil {
		return Value{}, err
	}
	buf := make([]byte, len(r.header)+(end-off))
	copy(buf, r.header)
	copy(buf[len(r.header):], r.data[off:end])
	return Value{buf: buf}, nil
}

// rootOffset is always 0: the root element immediately follows the header.
const rootOffset = 0
