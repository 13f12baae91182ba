package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given group label.
//
// Group labels are normalized to fixed-size 64-bit identifiers at ingestion
// so that per-group bookkeeping uses a single comparable key type regardless
// of how callers name their groups.
func ID(label string) uint64 {
	return xxhash.Sum64String(label)
}
