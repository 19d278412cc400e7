package progress

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func chain(orders ...int) []OrderedItem {
	out := make([]OrderedItem, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderedItem{ID: uuid.New(), Order: o})
	}
	return out
}

func TestIsLockedLinearChain(t *testing.T) {
	items := chain(1, 2, 3)
	completed := map[uuid.UUID]bool{}

	assert.False(t, IsLocked(items[0], items, completed), "first item is always open")
	assert.True(t, IsLocked(items[1], items, completed))
	assert.True(t, IsLocked(items[2], items, completed))

	completed[items[0].ID] = true
	assert.False(t, IsLocked(items[1], items, completed))
	assert.True(t, IsLocked(items[2], items, completed), "only the immediate predecessor counts")
}

func TestIsLockedFirstByMinimumOrder(t *testing.T) {
	items := chain(5, 6)
	assert.False(t, IsLocked(items[0], items, nil))
	assert.True(t, IsLocked(items[1], items, nil))
}

func TestIsLockedGapFailsOpen(t *testing.T) {
	items := chain(1, 3)
	assert.False(t, IsLocked(items[1], items, nil))
}

func TestLockMap(t *testing.T) {
	items := chain(1, 2, 3)
	locks := LockMap(items, map[uuid.UUID]bool{items[0].ID: true})
	assert.False(t, locks[items[0].ID])
	assert.False(t, locks[items[1].ID])
	assert.True(t, locks[items[2].ID])
}
