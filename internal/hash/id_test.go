package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestID_Deterministic(t *testing.T) {
	labels := []string{"", "A", "B", "study-42", "site/north/7"}
	for _, label := range labels {
		t.Run(label, func(t *testing.T) {
			first := ID(label)
			second := ID(label)
			require.Equal(t, first, second, "same label must hash to same ID")
		})
	}
}

func TestID_DistinctLabels(t *testing.T) {
	seen := make(map[uint64]string)
	for _, label := range []string{"A", "B", "C", "a", "b", "AB", "BA"} {
		id := ID(label)
		prev, dup := seen[id]
		require.False(t, dup, "labels %q and %q collided on %d", prev, label, id)
		seen[id] = label
	}
}
