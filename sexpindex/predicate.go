package sexpindex

// Consistent implements the GIN "consistent" support function (spec §4.8):
// given the query's keys and the set of keys present in a posting, report
// whether the posting is a candidate. Recheck via full Contains/ContainsKey
// is always required afterward (hash collisions, and key presence alone
// never proves structural location).
func Consistent(queryKeys []uint32, postingKeys map[uint32]struct{}) bool {
	for _, k := range queryKeys {
		if _, ok := postingKeys[k]; !ok {
			return false
		}
	}
	return true
}

// TriState is the three-valued result of Triconsistent.
type TriState int

const (
	TriFalse TriState = iota
	TriMaybe
	TriTrue
)

// Triconsistent implements the GIN "triconsistent" support function (spec
// §4.8): it can conclude TriFalse without a recheck (any query key
// definitively absent), TriTrue without a recheck only for the single-atom
// query special case (presence is necessary and sufficient, up to an
// accepted hash collision risk), and TriMaybe otherwise.
func Triconsistent(queryKeys []uint32, queryIsSingleAtom bool, postingKeys map[uint32]struct{}) TriState {
	for _, k := range queryKeys {
		if _, ok := postingKeys[k]; !ok {
			return TriFalse
		}
	}
	if queryIsSingleAtom && len(queryKeys) == 1 {
		return TriTrue
	}
	return TriMaybe
}
