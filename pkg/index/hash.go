package index

// StableHash computes the exact 32-bit polynomial hash required by I6:
// h = 31*h + c for each UTF-8 byte c of key, which equals
// java.lang.String's hashCode for ASCII keys, so the routing decision stays
// bit-stable across languages and versions. This is intentionally hand-rolled rather than delegated to a
// hashing library: no third-party hash function is specified to match
// this exact recurrence, and any substitute would break cross-language
// compatibility (see DESIGN.md).
func StableHash(key string) int32 {
	var h int32
	for i := 0; i < len(key); i++ {
		h = 31*h + int32(key[i])
	}
	return h
}

// FileGroupIndex folds a record key's stable hash into [0, groups) using
// the |h| mod N rule from I6. groups must be >= 1.
func FileGroupIndex(key string, groups int) int {
	if groups <= 0 {
		return 0
	}
	h := int64(StableHash(key))
	if h < 0 {
		h = -h
	}
	return int(h % int64(groups))
}
