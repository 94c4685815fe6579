package sexp

import (
	"encoding/binary"
	"math"

	"github.com/spaolacci/murmur3"
)

// Hash primitives (component 2). hashBytes is the stable byte hash every
// other hash in this package and in package sexpindex builds on; stability
// across processes and releases (spec §4.2) comes from murmur3 with a fixed
// seed, never a process- or clock-derived one.
const hashSeed uint32 = 0x5e4101a5

// HashBytes is the stable 32-bit byte hash used throughout this module and
// by package sexpindex for index-key extraction. Exported because it is
// shared infrastructure (component 2), not specific to the semantic
// equality/hash operations in ops.go.
func HashBytes(b []byte) uint32 {
	return murmur3.Sum32WithSeed(b, hashSeed)
}

func hashUint32(v uint32) uint32 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return HashBytes(buf[:])
}

func hashInt64(v int64) uint32 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	return HashBytes(buf[:])
}

func hashFloat64(v float64) uint32 {
	if v == 0 {
		v = 0 // normalize -0.0 to +0.0 before hashing, per spec §3.1/§4.2
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	return HashBytes(buf[:])
}

// combine is a fixed avalanche mixer, the same shape used throughout the
// reference implementation (hash_combine-style).
func combine(a, b uint32) uint32 {
	return a ^ (b + 0x9e3779b9 + (a << 6) + (a >> 2))
}

// rot32 left-rotates x by r bits (r is taken mod 32).
func rot32(x uint32, r uint) uint32 {
	r %= 32
	if r == 0 {
		return x
	}
	return (x << r) | (x >> (32 - r))
}

// kindTagHash is a stable per-kind constant, run through hashUint32, mixed
// into every atom hash so that e.g. the integer 5 and the string "5" never
// collide just because their value_hash happens to agree.
func kindTagHash(k Kind) uint32 {
	return hashUint32(uint32(k) + 0x100)
}

var listTagHash = hashUint32(0x4c495354) // stable seed for "LIST_TAG"

// symLookup resolves a symbol table index to its byte text. Both the read
// cursor (decoding an existing Value) and the encoder (compiling a freshly
// parsed Node tree, before any Value exists) implement this the same way,
// so hashing/equality/bloom code is shared between decode and encode paths.
type symLookup func(idx int) ([]byte, error)

// elementHash computes the spec §4.2 "element-hash": a 32-bit hash over an
// element's semantic content, independent of encoding form (small-int vs
// int, short vs long string) and symbol-table identity (symbols hash on
// their text, never their index).
func elementHash(data []byte, off int, lookup symLookup) (uint32, error) {
	if off >= len(data) {
		return 0, errTruncated
	}
	tag := data[off]
	kind := semanticKindOf(tagKind(tag))
	switch kind {
	case KindNil:
		return 0, nil
	case KindInteger:
		v, _, err := readIntegerValue(data, off)
		if err != nil {
			return 0, err
		}
		return combine(kindTagHash(kind), hashInt64(v)), nil
	case KindFloat:
		v, _, err := readFloatValue(data, off)
		if err != nil {
			return 0, err
		}
		return combine(kindTagHash(kind), hashFloat64(v)), nil
	case KindSymbol:
		text, _, err := readSymbolText(data, off, lookup)
		if err != nil {
			return 0, err
		}
		return combine(kindTagHash(kind), HashBytes(text)), nil
	case KindString:
		content, _, err := readStringContent(data, off)
		if err != nil {
			return 0, err
		}
		return combine(kindTagHash(kind), HashBytes(content)), nil
	case KindList:
		h, err := readListHeader(data, off)
		if err != nil {
			return 0, err
		}
		// Large lists carry their structural hash in the header, stored
		// at encode time to avoid recomputation on read (spec §3.3); only
		// small lists recompute it from their children.
		if !h.small {
			return h.structHash, nil
		}
		acc := hashUint32(uint32(h.count)) ^ listTagHash
		for i := 0; i < h.count; i++ {
			childOff, err := nthChildOffset(data, h, i)
			if err != nil {
				return 0, err
			}
			childHash, err := elementHash(data, childOff, lookup)
			if err != nil {
				return 0, err
			}
			acc = combine(acc, rot32(childHash, uint(i%31)))
		}
		return acc, nil
	default:
		return 0, errUnknownTag
	}
}

// bloomSig derives BloomK bit positions from an element hash via rotation,
// the same scheme as the reference's bloom_compute_sig.
func bloomSig(h uint32) uint64 {
	var sig uint64
	for i := 0; i < BloomK; i++ {
		rotated := rot32(h, uint(i*8))
		bit := rotated & 63
		sig |= uint64(1) << bit
	}
	return sig
}

// elementBloom computes the Bloom signature of an element: its own
// signature unioned with every descendant's, per the glossary definition
// "list Bloom = union of descendants' Blooms + list's own signature."
func elementBloom(data []byte, off int, lookup symLookup) (uint64, error) {
	h, err := elementHash(data, off, lookup)
	if err != nil {
		return 0, err
	}
	sig := bloomSig(h)
	tag := data[off]
	if tagKind(tag) == ekList {
		lh, err := readListHeader(data, off)
		if err != nil {
			return 0, err
		}
		for i := 0; i < lh.count; i++ {
			childOff, err := nthChildOffset(data, lh, i)
			if err != nil {
				return 0, err
			}
			childSig, err := elementBloom(data, childOff, lookup)
			if err != nil {
				return 0, err
			}
			sig |= childSig
		}
	}
	return sig, nil
}

// bloomMayContain is the fast-reject test: false means needle is
// definitely not contained; true means "maybe" (recheck required).
func bloomMayContain(containerBloom, needleBloom uint64) bool {
	return needleBloom&^containerBloom == 0
}

// CombineHash exposes the avalanche mixer to package sexpindex, which
// builds composite index keys (pair keys, list-head keys) out of the same
// per-kind/per-content hashes this package already computes (spec §4.8).
func CombineHash(a, b uint32) uint32 { return combine(a, b) }
