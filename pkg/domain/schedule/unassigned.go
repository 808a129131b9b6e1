package schedule

import "github.com/jalvemo/planera/pkg/domain/workorder"

// Unassigned derives the orders that have no scheduled job. It is a pure
// function of its two inputs and must be recomputed whenever either
// changes. Output preserves the insertion order of orders.
//
// An order counts as assigned as soon as any job references it; the pool
// works on a boolean "is scheduled", not a count.
func Unassigned(orders []workorder.Order, state *State) []workorder.Order {
	scheduled := make(map[string]bool)
	for _, j := range state.Jobs() {
		if j.OrderID != "" {
			scheduled[j.OrderID] = true
		}
	}

	pool := make([]workorder.Order, 0, len(orders))
	for _, o := range orders {
		if !scheduled[o.ID] {
			pool = append(pool, o)
		}
	}
	return pool
}
