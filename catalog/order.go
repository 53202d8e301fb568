package catalog

import (
	"math/rand/v2"
	"slices"
	"sort"
)

// Orderer decides the display order of resolved items. Implementations
// return a new slice and leave their input untouched.
type Orderer func([]ResolvedItem) []ResolvedItem

// Identity keeps table order.
func Identity(items []ResolvedItem) []ResolvedItem {
	return slices.Clone(items)
}

// Shuffle returns an Orderer that assigns each item a random sort key from
// rng and sorts by it.
func Shuffle(rng *rand.Rand) Orderer {
	return func(items []ResolvedItem) []ResolvedItem {
		type keyed struct {
			key  float64
			item ResolvedItem
		}
		tmp := make([]keyed, len(items))
		for i, it := range items {
			tmp[i] = keyed{key: rng.Float64(), item: it}
		}
		sort.SliceStable(tmp, func(i, j int) bool { return tmp[i].key < tmp[j].key })
		out := make([]ResolvedItem, len(tmp))
		for i, k := range tmp {
			out[i] = k.item
		}
		return out
	}
}

// RandomOrder shuffles with a freshly seeded source on every call, so two
// renders of the same page may differ.
func RandomOrder() Orderer {
	return func(items []ResolvedItem) []ResolvedItem {
		rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		return Shuffle(rng)(items)
	}
}
