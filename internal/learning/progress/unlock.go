package progress

import "github.com/google/uuid"

// OrderedItem is an active lesson within a block, or an active block.
type OrderedItem struct {
	ID    uuid.UUID
	Order int
}

// IsLocked applies the linear chain rule over siblings (the active items
// sharing target's parent, target included). The first item by order is
// always open. Otherwise target opens once an item with order-1 is
// completed; when no such item exists the gap is treated as open.
func IsLocked(target OrderedItem, siblings []OrderedItem, completed map[uuid.UUID]bool) bool {
	if len(siblings) == 0 {
		return false
	}
	minOrder := siblings[0].Order
	for _, s := range siblings[1:] {
		if s.Order < minOrder {
			minOrder = s.Order
		}
	}
	if target.Order <= minOrder {
		return false
	}

	found := false
	for _, s := range siblings {
		if s.ID == target.ID || s.Order != target.Order-1 {
			continue
		}
		found = true
		if completed[s.ID] {
			return false
		}
	}
	return found
}

// LockMap evaluates IsLocked for every sibling.
func LockMap(siblings []OrderedItem, completed map[uuid.UUID]bool) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool, len(siblings))
	for _, s := range siblings {
		out[s.ID] = IsLocked(s, siblings, completed)
	}
	return out
}
