package checklist

import (
	"sort"

	"cleanops/internal/domain"
)

// CurrentRoom returns the room a housekeeper should address next: the first
// room in property order that still has an incomplete item. When every room is
// done (or has no items at all) it falls back to the first room, and to nil
// when the property has no rooms.
//
// The pointer is recomputed from item state on every call and never stored, so
// it cannot drift from the actual data.
func CurrentRoom(rooms []domain.PropertyRoom, items []domain.ChecklistItem) *domain.PropertyRoom {
	if len(rooms) == 0 {
		return nil
	}

	ordered := make([]domain.PropertyRoom, len(rooms))
	copy(ordered, rooms)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SortOrder < ordered[j].SortOrder
	})

	for i := range ordered {
		for _, item := range items {
			if item.RoomID == ordered[i].RoomID && !item.Completed {
				return &ordered[i]
			}
		}
	}

	return &ordered[0]
}
