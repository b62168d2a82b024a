// Package matcher selects the blood needs a donor can fulfil.
package matcher

import (
	"slices"

	"donorlink/internal/domains/bloodtype"
	"donorlink/internal/domains/need/model"
)

type Order int

const (
	// OrderPriority lists urgent needs first, newest first inside each group.
	OrderPriority Order = iota
	// OrderChronological lists urgent needs first, oldest first inside each group.
	OrderChronological
)

// MatchingNeeds keeps open needs the donor is compatible with and sorts them by order.
// The input slice is not modified.
func MatchingNeeds(donor bloodtype.Type, needs []model.Need, order Order) []model.Need {
	matched := make([]model.Need, 0, len(needs))

	for _, need := range needs {
		if !need.Open() || !bloodtype.IsCompatible(donor, need.BloodType) {
			continue
		}

		matched = append(matched, need)
	}

	Sort(matched, order)

	return matched
}

// Sort orders needs in place: urgent first, then by RequestedAt in the given direction.
// Equal keys keep their input order.
func Sort(needs []model.Need, order Order) {
	slices.SortStableFunc(needs, func(a, b model.Need) int {
		if a.Urgent != b.Urgent {
			if a.Urgent {
				return -1
			}

			return 1
		}

		cmp := a.RequestedAt.Compare(b.RequestedAt)
		if order == OrderPriority {
			return -cmp
		}

		return cmp
	})
}
