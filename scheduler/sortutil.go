package scheduler

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// sortAsc sorts s ascending in place. Every phase that iterates entities or
// species by ID goes through this helper instead of a bespoke less-func, so
// the deterministic iteration order spec.md §5(b) requires is expressed
// once.
func sortAsc[E constraints.Ordered](s []E) {
	slices.SortFunc(s, func(a, b E) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	})
}
