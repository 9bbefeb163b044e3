package scene

import (
	"slices"
	"sync/atomic"

	"github.com/akhoik/ge/internal/core/models"
)

// handle is the state shared by Ref and RefMut.
type handle struct {
	tree     *Tree
	cell     *cell
	mutable  bool
	released atomic.Bool
}

func (h *handle) ID() models.ID { return h.cell.entity.id }

// Type returns the payload, or nil once the handle is released. Callers
// holding a Ref must treat it as read-only.
func (h *handle) Type() models.Type { return h.payload() }

func (h *handle) Kind() models.Kind { return h.cell.entity.payload.Kind() }

func (h *handle) Name() string {
	h.tree.mu.RLock()
	defer h.tree.mu.RUnlock()
	return h.cell.entity.name
}

// ParentID reports the current parent, if any.
func (h *handle) ParentID() (models.ID, bool) {
	h.tree.mu.RLock()
	defer h.tree.mu.RUnlock()
	return h.cell.entity.parent, h.cell.hasParent()
}

// ChildIDs returns a copy of the direct children in attach order.
func (h *handle) ChildIDs() []models.ID {
	h.tree.mu.RLock()
	defer h.tree.mu.RUnlock()
	return slices.Clone(h.cell.entity.children)
}

func (h *handle) payload() models.Type {
	if h.released.Load() {
		return nil
	}
	return h.cell.entity.payload
}

// The typed accessors report false for a released handle.

func (h *handle) Part() (*models.Part, bool) {
	p, ok := h.payload().(*models.Part)
	return p, ok
}

func (h *handle) Camera() (*models.Camera, bool) {
	c, ok := h.payload().(*models.Camera)
	return c, ok
}

func (h *handle) Game() (*models.Game, bool) {
	g, ok := h.payload().(*models.Game)
	return g, ok
}

func (h *handle) InputService() (*models.InputService, bool) {
	s, ok := h.payload().(*models.InputService)
	return s, ok
}

func (h *handle) String() string { return h.Name() }

// Release ends the borrow. Calling it more than once is a no-op.
func (h *handle) Release() {
	if !h.released.CompareAndSwap(false, true) {
		return
	}
	if h.mutable {
		h.cell.releaseMut()
	} else {
		h.cell.release()
	}
}

// Released reports whether Release has been called.
func (h *handle) Released() bool { return h.released.Load() }

// Ref is a shared borrow of an entity. Any number of Refs may be live for the
// same entity, but none while a RefMut is.
type Ref struct {
	handle
}

// RefMut is an exclusive borrow of an entity.
type RefMut struct {
	handle
}

func (r *RefMut) SetName(name string) {
	r.tree.mu.Lock()
	r.cell.entity.name = name
	r.tree.mu.Unlock()
}

// ReleaseAll releases every handle in hs.
func ReleaseAll[H interface{ Release() }](hs []H) {
	for _, h := range hs {
		h.Release()
	}
}
