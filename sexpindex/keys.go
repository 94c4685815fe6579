// Package sexpindex implements the inverted-index adapter (spec §4.8): a
// GIN-style key extraction scheme plus the consistent/triconsistent
// predicates a host index access method needs to pre-filter candidates
// before the mandatory structural recheck.
package sexpindex

import (
	"context"

	"github.com/alttpo/sexp-index"
)

// Strategy identifies which containment operator a query key set was
// extracted for; the extraction rules differ (spec §4.8 "Query-side
// keys"). Values mirror the reference's opclass strategy numbers.
type Strategy int

const (
	StrategyStructural  Strategy = 7 // ⊑s
	StrategyContainedBy Strategy = 8 // N ⊒s C
	StrategyKeyBased    Strategy = 9 // ⊑k
)

// pairTagSeed and listHeadTagSeed are stable constants distinguishing pair
// keys and list-head keys from plain atom keys and from each other, the
// same role PAIR_TAG/LIST_HEAD_TAG play in the reference.
var (
	pairTagSeed     = sexp.HashBytes([]byte("SEXP_PAIR_TAG"))
	listHeadTagSeed = sexp.HashBytes([]byte("SEXP_LIST_HEAD_TAG"))
)

// topBit distinguishes a real key from the dedup set's empty sentinel slot
// (spec §4.8: "the top bit is forced on").
const topBit = uint32(1) << 31

// ErrFullScanRequired signals that a query's strategy admits no
// pre-filtering (spec §4.8: contained-by queries request a full scan).
var ErrFullScanRequired = sexp.NewError(sexp.LimitExceeded, "full index scan required for this strategy")

type extractConfig struct {
	bloomKeys bool
}

// ExtractOption configures key extraction. The zero configuration matches
// the required scheme exactly; options add optional enhancements.
type ExtractOption func(*extractConfig)

// WithBloomKeys additionally emits two summary keys carrying the low and
// high 32 bits of the value's Bloom signature (spec §9 open question: the
// reference leaves this commented out and unwired; here it is wired in as
// an opt-in enhancement, never emitted by default).
func WithBloomKeys() ExtractOption {
	return func(c *extractConfig) { c.bloomKeys = true }
}

// ExtractValueKeys extracts the integer keys for a stored value (spec
// §4.8 "Value-side keys"), deduplicated and capped at MaxKeys.
func ExtractValueKeys(ctx context.Context, v sexp.Value, opts ...ExtractOption) ([]uint32, error) {
	cfg := extractConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	seen := make(map[uint32]struct{})
	if err := extractKeysInto(ctx, v, true, seen); err != nil {
		return nil, err
	}
	if cfg.bloomKeys {
		sig, err := sexp.BloomSignature(v)
		if err != nil {
			return nil, err
		}
		addKey(seen, uint32(sig)|topBit)
		addKey(seen, uint32(sig>>32)|topBit)
	}
	return capKeys(seen), nil
}

// ExtractQueryKeys extracts the integer keys for a query value under a
// specific strategy (spec §4.8 "Query-side keys"). StrategyContainedBy
// returns ErrFullScanRequired since that operator is not amenable to
// pre-filtering.
func ExtractQueryKeys(ctx context.Context, v sexp.Value, strategy Strategy) ([]uint32, error) {
	switch strategy {
	case StrategyStructural:
		seen := make(map[uint32]struct{})
		if err := extractKeysInto(ctx, v, true, seen); err != nil {
			return nil, err
		}
		return capKeys(seen), nil
	case StrategyKeyBased:
		seen := make(map[uint32]struct{})
		if err := extractKeysInto(ctx, v, false, seen); err != nil {
			return nil, err
		}
		return capKeys(seen), nil
	case StrategyContainedBy:
		return nil, ErrFullScanRequired
	default:
		return nil, sexp.NewError(sexp.InvalidText, "unknown strategy")
	}
}

// extractKeysInto walks v, adding one key per atom, one pair key per
// symbol-headed 2-element list (when emitPairKeys is true), and one
// list-head key per list of 3 or more children — always recursing into
// children regardless of which key (if any) the node itself contributed.
func extractKeysInto(ctx context.Context, v sexp.Value, emitPairKeys bool, seen map[uint32]struct{}) error {
	if len(seen) >= sexp.MaxKeys {
		return nil // already truncating; stop doing extra work
	}

	kind, err := v.TypeOf()
	if err != nil {
		return err
	}

	if kind != sexp.KindList {
		h, err := sexp.Hash(v)
		if err != nil {
			return err
		}
		addKey(seen, h|topBit)
		return nil
	}

	n, err := sexp.Length(v)
	if err != nil {
		return err
	}

	if n == 2 && emitPairKeys {
		head, _, err := sexp.Car(v)
		if err != nil {
			return err
		}
		if head.IsSymbol() {
			second, _, err := sexp.Nth(v, 1)
			if err != nil {
				return err
			}
			hh, err := sexp.Hash(head)
			if err != nil {
				return err
			}
			hs, err := sexp.Hash(second)
			if err != nil {
				return err
			}
			addKey(seen, sexp.CombineHash(pairTagSeed, sexp.CombineHash(hh, hs))|topBit)
		}
	} else if n >= 3 {
		head, _, err := sexp.Car(v)
		if err != nil {
			return err
		}
		hh, err := sexp.Hash(head)
		if err != nil {
			return err
		}
		addKey(seen, sexp.CombineHash(listHeadTagSeed, hh)|topBit)
	}

	for i := 0; i < n; i++ {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		child, _, err := sexp.Nth(v, i)
		if err != nil {
			return err
		}
		if err := extractKeysInto(ctx, child, emitPairKeys, seen); err != nil {
			return err
		}
	}
	return nil
}

func addKey(seen map[uint32]struct{}, k uint32) {
	if len(seen) >= sexp.MaxKeys {
		return
	}
	seen[k] = struct{}{}
}

func capKeys(seen map[uint32]struct{}) []uint32 {
	out := make([]uint32, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	return out
}
