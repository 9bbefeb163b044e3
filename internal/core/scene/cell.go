package scene

import (
	"sync/atomic"

	"github.com/akhoik/ge/internal/core/models"
)

// Entity is one node of the hierarchy. Its topology (parent and children) and
// name are owned by the Tree; its payload is reached through borrow handles.
type Entity struct {
	id       models.ID
	name     string
	parent   models.ID
	children []models.ID
	payload  models.Type
}

// cell stores an entity together with its borrow state: a positive count of
// readers, -1 for a writer, 0 when free.
type cell struct {
	entity Entity
	borrow atomic.Int32
}

func newCell(name string, payload models.Type) *cell {
	return &cell{entity: Entity{
		id:      models.NewID(),
		name:    name,
		payload: payload,
	}}
}

func (c *cell) tryBorrow() bool {
	for {
		n := c.borrow.Load()
		if n < 0 {
			return false
		}
		if c.borrow.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (c *cell) tryBorrowMut() bool {
	return c.borrow.CompareAndSwap(0, -1)
}

func (c *cell) release() {
	c.borrow.Add(-1)
}

func (c *cell) releaseMut() {
	c.borrow.Store(0)
}

func (c *cell) hasParent() bool {
	return c.entity.parent != models.NilID
}
