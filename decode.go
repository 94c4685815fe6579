package sexp

import (
	"encoding/binary"
	"math"
)

// Atom decode primitives, shared by equality, hashing, containment,
// pattern matching and printing. Each returns the decoded value plus the
// absolute offset immediately following the element (equivalent to
// skipElement, but most callers need the value too so we avoid decoding
// twice).

func readIntegerValue(data []byte, off int) (int64, int, error) {
	if off >= len(data) {
		return 0, 0, errTruncated
	}
	tag := data[off]
	switch tagKind(tag) {
	case ekSmallInt:
		return int64(tagData(tag)) - smallIntBias, off + 1, nil
	case ekInt:
		pos := off + 1
		uv, n, err := decodeVarint(data[pos:])
		if err != nil {
			return 0, 0, err
		}
		return zigzagDecode(uv), pos + n, nil
	default:
		return 0, 0, newError(InternalInvariant, "readIntegerValue on non-integer element")
	}
}

func readFloatValue(data []byte, off int) (float64, int, error) {
	if off >= len(data) || tagKind(data[off]) != ekFloat {
		return 0, 0, newError(InternalInvariant, "readFloatValue on non-float element")
	}
	pos := off + 1
	if pos+8 > len(data) {
		return 0, 0, errTruncated
	}
	bits := binary.LittleEndian.Uint64(data[pos : pos+8])
	v := math.Float64frombits(bits)
	if v == 0 {
		v = 0
	}
	return v, pos + 8, nil
}

func readSymbolText(data []byte, off int, lookup symLookup) ([]byte, int, error) {
	if off >= len(data) || tagKind(data[off]) != ekSymbolRef {
		return nil, 0, newError(InternalInvariant, "readSymbolText on non-symbol element")
	}
	pos := off + 1
	idx, n, err := decodeVarint(data[pos:])
	if err != nil {
		return nil, 0, err
	}
	text, err := lookup(int(idx))
	if err != nil {
		return nil, 0, err
	}
	return text, pos + n, nil
}

func readStringContent(data []byte, off int) ([]byte, int, error) {
	if off >= len(data) {
		return nil, 0, errTruncated
	}
	tag := data[off]
	switch tagKind(tag) {
	case ekShortString:
		ln := int(tagData(tag))
		pos := off + 1
		end := pos + ln
		if end > len(data) {
			return nil, 0, errTruncated
		}
		return data[pos:end], end, nil
	case ekLongString:
		pos := off + 1
		ln, n, err := decodeVarint(data[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += n
		end := pos + int(ln)
		if end > len(data) {
			return nil, 0, errTruncated
		}
		return data[pos:end], end, nil
	default:
		return nil, 0, newError(InternalInvariant, "readStringContent on non-string element")
	}
}
