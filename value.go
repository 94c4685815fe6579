package sexp

import "sync"

// Value is an immutable, self-contained S-expression in the binary layout
// of spec §3.2: a version byte, a local symbol table, and a root element.
// The zero Value is not valid; use NilValue() for NIL.
type Value struct {
	buf []byte
}

// Bytes returns the raw container bytes (spec §3.2), the exact wire form
// exchanged with a host (send/recv, spec §6.2). The returned slice must not
// be mutated.
func (v Value) Bytes() []byte { return v.buf }

// MarshalBinary implements encoding.BinaryMarshaler, matching the `send`
// operation of spec §6.1: opaque passthrough of the bytes in §3.2-§3.3.
func (v Value) MarshalBinary() ([]byte, error) {
	if v.buf == nil {
		return nil, newError(InternalInvariant, "marshal of zero Value")
	}
	out := make([]byte, len(v.buf))
	copy(out, v.buf)
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, matching `recv`.
// It validates the header and root element structurally but does not walk
// the whole tree eagerly; corruption deeper in the tree surfaces lazily
// from the operation that first touches it, same as the reference reader.
func (v *Value) UnmarshalBinary(data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	r, err := newReader(buf)
	if err != nil {
		return err
	}
	if _, err := r.skip(rootOffset); err != nil {
		return err
	}
	v.buf = buf
	return nil
}

func newValue(buf []byte) Value { return Value{buf: buf} }

func (v Value) reader() (*reader, error) {
	if v.buf == nil {
		return nil, newError(InternalInvariant, "operation on zero Value")
	}
	return newReader(v.buf)
}

var (
	nilOnce  sync.Once
	nilValue Value
)

// NilValue returns the process-wide NIL singleton (spec §5 "Shared-resource
// policy": the only global mutable state is a lazy once-initialized,
// process-long datum).
func NilValue() Value {
	nilOnce.Do(func() {
		nilValue = Value{buf: []byte{FormatVersion, 0x00, makeTag(ekNil, 0)}}
	})
	return nilValue
}

// TypeOf returns one of: nil, symbol, string, integer, float, list.
func (v Value) TypeOf() (Kind, error) {
	r, err := v.reader()
	if err != nil {
		return KindNil, err
	}
	return r.kindAt(rootOffset)
}

func (v Value) mustKind() Kind {
	k, err := v.TypeOf()
	if err != nil {
		return KindNil
	}
	return k
}

func (v Value) IsNil() bool    { return v.mustKind() == KindNil }
func (v Value) IsList() bool   { return v.mustKind() == KindList }
func (v Value) IsSymbol() bool { return v.mustKind() == KindSymbol }
func (v Value) IsString() bool { return v.mustKind() == KindString }
func (v Value) IsNumber() bool { k := v.mustKind(); return k == KindInteger || k == KindFloat }
func (v Value) IsAtom() bool   { return v.mustKind() != KindList }

// SymbolText returns the decoded text of a Symbol value. It is an error to
// call this on a non-symbol value.
func (v Value) SymbolText() ([]byte, error) {
	r, err := v.reader()
	if err != nil {
		return nil, err
	}
	k, err := r.kindAt(rootOffset)
	if err != nil {
		return nil, err
	}
	if k != KindSymbol {
		return nil, newError(DatatypeMismatch, "SymbolText requires a symbol value")
	}
	text, _, err := readSymbolText(r.data, rootOffset, r.lookup)
	return text, err
}

// StringContent returns the decoded bytes of a String value.
func (v Value) StringContent() ([]byte, error) {
	r, err := v.reader()
	if err != nil {
		return nil, err
	}
	k, err := r.kindAt(rootOffset)
	if err != nil {
		return nil, err
	}
	if k != KindString {
		return nil, newError(DatatypeMismatch, "StringContent requires a string value")
	}
	content, _, err := readStringContent(r.data, rootOffset)
	return content, err
}

// IntegerValue returns the decoded value of an Integer value.
func (v Value) IntegerValue() (int64, error) {
	r, err := v.reader()
	if err != nil {
		return 0, err
	}
	k, err := r.kindAt(rootOffset)
	if err != nil {
		return 0, err
	}
	if k != KindInteger {
		return 0, newError(DatatypeMismatch, "IntegerValue requires an integer value")
	}
	val, _, err := readIntegerValue(r.data, rootOffset)
	return val, err
}

// FloatValue returns the decoded value of a Float value.
func (v Value) FloatValue() (float64, error) {
	r, err := v.reader()
	if err != nil {
		return 0, err
	}
	k, err := r.kindAt(rootOffset)
	if err != nil {
		return 0, err
	}
	if k != KindFloat {
		return 0, newError(DatatypeMismatch, "FloatValue requires a float value")
	}
	val, _, err := readFloatValue(r.data, rootOffset)
	return val, err
}
