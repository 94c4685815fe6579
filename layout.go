package sexp

import "encoding/binary"

// Tunables from spec §6.3. No environment variables back these; they are
// compile-time constants, the way the teacher keeps LimitedParser/
// FullParser as package-level values instead of a config struct.
const (
	// FormatVersion is written into every value; readers reject anything
	// newer than this.
	FormatVersion = 6
	// SmallListMax is the inline-count threshold between the small and
	// large list formats.
	SmallListMax = 4
	// SmallSymtabSize is the symbol-table size under which the read
	// cursor uses a fixed-size array instead of a heap slice.
	SmallSymtabSize = 16
	// MaxDepth bounds parser nesting to avoid stack exhaustion.
	MaxDepth = 1000
	// MaxSymbols bounds interned symbols per value.
	MaxSymbols = 65536
	// MaxKeys caps index keys emitted per value (see package sexpindex).
	MaxKeys = 2048
	// BloomK is the number of bit positions contributed per Bloom
	// insertion.
	BloomK = 4
)

// elemKind is the 3-bit type tag carried in the top bits of an element's
// tag byte (spec §3.3).
type elemKind uint8

const (
	ekNil elemKind = iota
	ekSmallInt
	ekInt
	ekFloat
	ekSymbolRef
	ekShortString
	ekLongString
	ekList
)

const (
	tagShift = 5
	tagMask  = 0xE0
	dataMask = 0x1F

	smallIntBias = 16
	smallIntMin  = -16
	smallIntMax  = 15

	shortStringMax = 31
)

func makeTag(kind elemKind, data uint8) byte {
	return byte(kind)<<tagShift | (data & dataMask)
}

func tagKind(b byte) elemKind { return elemKind(b >> tagShift) }
func tagData(b byte) uint8    { return b & dataMask }

// Kind is the semantic value kind exposed on the public API (spec §3.1).
// Integer and small-integer are the same semantic kind; only elemKind
// distinguishes them, for size, not semantics.
type Kind int

const (
	KindNil Kind = iota
	KindSymbol
	KindString
	KindInteger
	KindFloat
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

func semanticKindOf(ek elemKind) Kind {
	switch ek {
	case ekNil:
		return KindNil
	case ekSmallInt, ekInt:
		return KindInteger
	case ekFloat:
		return KindFloat
	case ekSymbolRef:
		return KindSymbol
	case ekShortString, ekLongString:
		return KindString
	case ekList:
		return KindList
	default:
		return KindNil
	}
}

// sentryType values, packed into the top 3 bits of a 32-bit list entry
// (spec §3.3 "Large list"). These merge small-int/int and short/long
// string, same as the semantic Kind, but are a distinct closed set from
// elemKind because they describe an *entry*, not a tag byte.
type sentryType uint8

const (
	seNil sentryType = iota
	seInt
	seFloat
	seSym
	seStr
	seList
)

const (
	sentryTypeShift = 29
	sentryOffsetMask = 0x0FFFFFFF
)

func makeSEntry(t sentryType, offset uint32) uint32 {
	return uint32(t)<<sentryTypeShift | (offset & sentryOffsetMask)
}

func sentryTypeOf(e uint32) sentryType { return sentryType(e >> sentryTypeShift) }
func sentryOffsetOf(e uint32) uint32   { return e & sentryOffsetMask }

func sentryTypeForTag(tag byte) sentryType {
	switch tagKind(tag) {
	case ekNil:
		return seNil
	case ekSmallInt, ekInt:
		return seInt
	case ekFloat:
		return seFloat
	case ekSymbolRef:
		return seSym
	case ekShortString, ekLongString:
		return seStr
	case ekList:
		return seList
	default:
		return seNil
	}
}

func sentryKindOf(t sentryType) Kind {
	switch t {
	case seNil:
		return KindNil
	case seInt:
		return KindInteger
	case seFloat:
		return KindFloat
	case seSym:
		return KindSymbol
	case seStr:
		return KindString
	case seList:
		return KindList
	default:
		return KindNil
	}
}

// listHeader is the decoded view of a list element's shape, common to both
// the small and large formats.
type listHeader struct {
	small      bool
	count      int
	dataStart  int // absolute offset (into the reader's data slice) of child 0
	entries    []uint32
	structHash uint32
	end        int // only populated for small lists (O(1) skip)
}

func (h listHeader) childAbsOffset(i int) int {
	return h.dataStart + int(sentryOffsetOf(h.entries[i]))
}

// readListHeader decodes the header of a list element located at off in
// data. It does not descend into children.
func readListHeader(data []byte, off int) (listHeader, error) {
	if off >= len(data) {
		return listHeader{}, errTruncated
	}
	tag := data[off]
	if tagKind(tag) != ekList {
		return listHeader{}, newError(InternalInvariant, "readListHeader on non-list element")
	}
	count5 := tagData(tag)
	if count5 != 0 {
		// Small list: [tag|count][payload_size:varint][elements...]
		pos := off + 1
		payloadSize, n, err := decodeVarint(data[pos:])
		if err != nil {
			return listHeader{}, err
		}
		pos += n
		dataStart := pos
		end := pos + int(payloadSize)
		if end > len(data) {
			return listHeader{}, errOffsetOOB
		}
		return listHeader{small: true, count: int(count5), dataStart: dataStart, end: end}, nil
	}

	// Large list: [tag|0][count:u32][hash:u32][entries:u32*count][elements...]
	pos := off + 1
	if pos+8 > len(data) {
		return listHeader{}, errTruncated
	}
	count := binary.LittleEndian.Uint32(data[pos : pos+4])
	hash := binary.LittleEndian.Uint32(data[pos+4 : pos+8])
	pos += 8
	entCount := int(count)
	entriesSize := entCount * 4
	if pos+entriesSize > len(data) {
		return listHeader{}, errTruncated
	}
	entries := make([]uint32, entCount)
	for i := 0; i < entCount; i++ {
		entries[i] = binary.LittleEndian.Uint32(data[pos+i*4 : pos+i*4+4])
	}
	dataStart := pos + entriesSize
	return listHeader{
		small:      false,
		count:      entCount,
		dataStart:  dataStart,
		entries:    entries,
		structHash: hash,
	}, nil
}

// nthChildOffset returns the absolute offset of child i of a decoded list
// header. Large lists resolve in O(1) via the entry table; small lists
// scan, bounded by SmallListMax.
func nthChildOffset(data []byte, h listHeader, i int) (int, error) {
	if !h.small {
		if i < 0 || i >= len(h.entries) {
			return 0, newError(InternalInvariant, "child index out of range")
		}
		off := h.childAbsOffset(i)
		if off < 0 || off > len(data) {
			return 0, errOffsetOOB
		}
		return off, nil
	}
	pos := h.dataStart
	for k := 0; k < i; k++ {
		next, err := skipElement(data, pos)
		if err != nil {
			return 0, err
		}
		pos = next
	}
	return pos, nil
}

// skipElement returns the offset immediately after the element at off,
// without decoding its semantic content. For small lists this is O(1) via
// the stored payload size; for large lists it requires one recursive
// descent into the last child (spec §4.3/§9: large lists trade O(1)
// skip for O(1) random access via the entry table).
func skipElement(data []byte, off int) (int, error) {
	if off >= len(data) {
		return 0, errTruncated
	}
	tag := data[off]
	switch tagKind(tag) {
	case ekNil, ekSmallInt:
		return off + 1, nil
	case ekInt:
		pos := off + 1
		_, n, err := decodeVarint(data[pos:])
		if err != nil {
			return 0, err
		}
		return pos + n, nil
	case ekFloat:
		if off+9 > len(data) {
			return 0, errTruncated
		}
		return off + 9, nil
	case ekSymbolRef:
		pos := off + 1
		_, n, err := decodeVarint(data[pos:])
		if err != nil {
			return 0, err
		}
		return pos + n, nil
	case ekShortString:
		ln := int(tagData(tag))
		end := off + 1 + ln
		if end > len(data) {
			return 0, errTruncated
		}
		return end, nil
	case ekLongString:
		pos := off + 1
		ln, n, err := decodeVarint(data[pos:])
		if err != nil {
			return 0, err
		}
		end := pos + n + int(ln)
		if end > len(data) {
			return 0, errTruncated
		}
		return end, nil
	case ekList:
		h, err := readListHeader(data, off)
		if err != nil {
			return 0, err
		}
		if h.small {
			return h.end, nil
		}
		if h.count == 0 {
			return h.dataStart, nil
		}
		lastOff, err := nthChildOffset(data, h, h.count-1)
		if err != nil {
			return 0, err
		}
		return skipElement(data, lastOff)
	default:
		return 0, errUnknownTag
	}
}
