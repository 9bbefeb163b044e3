// Package scene implements the entity hierarchy.
//
// The Tree owns every entity. Relatives are referenced by ID only, never by
// pointer, and callers reach an entity through short-lived borrow handles: any
// number of Refs, or a single RefMut. A conflicting borrow is reported as a
// miss, never a panic.
//
// Names and topology (parent and children) are mutated only by the Tree under
// its own lock, so traversals can read them while payloads are borrowed.
package scene

import (
	"fmt"
	"slices"
	"sync"

	"github.com/akhoik/ge/internal/core/events/bus"
	"github.com/akhoik/ge/internal/core/models"
	"github.com/akhoik/ge/internal/core/observability/log"
)

const (
	headName   = "Game"
	cameraName = "Camera"
)

type Tree struct {
	mu         sync.RWMutex
	entities   map[models.ID]*cell
	order      []models.ID
	head       models.ID
	mainCamera models.ID
	parts      []models.ID

	log log.Log
	bus bus.EventBus
}

type Option func(*Tree)

func WithLogger(l log.Log) Option {
	return func(t *Tree) {
		if l != nil {
			t.log = l
		}
	}
}

// WithEventBus makes the tree announce creations and re-parentings on b.
func WithEventBus(b bus.EventBus) Option {
	return func(t *Tree) {
		t.bus = b
	}
}

func New(opts ...Option) *Tree {
	t := &Tree{
		entities: make(map[models.ID]*cell),
		log:      log.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Creation

// CreateEntity adds a new orphan entity. A nil payload is stored as Base.
func (t *Tree) CreateEntity(name string, payload models.Type) models.ID {
	t.mu.Lock()
	c := t.insertLocked(name, payload)
	t.mu.Unlock()

	t.publishCreated(c)
	return c.entity.id
}

// CreateEntityWithParent adds a new entity attached to parentID. Creation is
// atomic: if the parent can't be used the entity is not kept.
func (t *Tree) CreateEntityWithParent(name string, payload models.Type, parentID models.ID) (models.ID, error) {
	t.mu.Lock()
	parent, ok := t.entities[parentID]
	if !ok {
		t.mu.Unlock()
		return models.NilID, fmt.Errorf("create %q under %s: %w", name, parentID, ErrUnknownEntity)
	}
	c := t.insertLocked(name, payload)
	if err := t.reparentLocked(c, parent); err != nil {
		t.removeLocked(c)
		t.mu.Unlock()
		return models.NilID, fmt.Errorf("create %q: %w", name, err)
	}
	t.mu.Unlock()

	t.publishCreated(c)
	t.publishReparented(c.entity.id, models.NilID, parentID)
	return c.entity.id, nil
}

// CreateHead adds a Game entity and registers it as the head, replacing any
// previous registration. The previous head stays in the tree.
func (t *Tree) CreateHead(game *models.Game) models.ID {
	if game == nil {
		game = &models.Game{Genre: models.GenreAction}
	}
	t.mu.Lock()
	c := t.insertLocked(headName, game)
	t.head = c.entity.id
	t.mu.Unlock()

	t.publishCreated(c)
	return c.entity.id
}

// CreateMainCamera adds a Camera entity and registers it as the main camera,
// replacing any previous registration. When parentID is not NilID the camera
// is parented to it; a failure there is logged and returned, but the camera
// is still created and registered and its ID is valid.
func (t *Tree) CreateMainCamera(parentID models.ID, camera *models.Camera) (models.ID, error) {
	if camera == nil {
		camera = models.NewCamera(70, 0.1, 100)
	}
	t.mu.Lock()
	c := t.insertLocked(cameraName, camera)
	t.mainCamera = c.entity.id

	var err error
	if parentID != models.NilID {
		if parent, ok := t.entities[parentID]; ok {
			err = t.reparentLocked(c, parent)
		} else {
			err = fmt.Errorf("parent %s: %w", parentID, ErrUnknownEntity)
		}
	}
	t.mu.Unlock()

	t.publishCreated(c)
	if err != nil {
		t.log.Warn("couldn't parent camera",
			log.Stringer("camera", c.entity.id),
			log.Stringer("parent", parentID),
			log.Error(err),
		)
		return c.entity.id, fmt.Errorf("parent camera: %w", err)
	}
	if parentID != models.NilID {
		t.publishReparented(c.entity.id, models.NilID, parentID)
	}
	return c.entity.id, nil
}

func (t *Tree) insertLocked(name string, payload models.Type) *cell {
	if payload == nil {
		payload = models.Base{}
	}
	c := newCell(name, payload)
	id := c.entity.id
	t.entities[id] = c
	t.order = append(t.order, id)
	if payload.Kind() == models.KindPart {
		t.parts = append(t.parts, id)
	}
	return c
}

// removeLocked undoes insertLocked for an entity that was never handed out.
func (t *Tree) removeLocked(c *cell) {
	id := c.entity.id
	t.detachLocked(c)
	delete(t.entities, id)
	t.order = slices.DeleteFunc(t.order, func(o models.ID) bool { return o == id })
	t.parts = slices.DeleteFunc(t.parts, func(o models.ID) bool { return o == id })
}

// Registry

func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entities)
}

// IDs returns every entity in creation order.
func (t *Tree) IDs() []models.ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.order)
}

// Parts returns the IDs of every Part entity in creation order.
func (t *Tree) Parts() []models.ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.parts)
}

func (t *Tree) HeadID() (models.ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.head, t.head != models.NilID
}

func (t *Tree) MainCameraID() (models.ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mainCamera, t.mainCamera != models.NilID
}

func (t *Tree) Head() (*Ref, bool) {
	id, ok := t.HeadID()
	if !ok {
		return nil, false
	}
	return t.Get(id)
}

func (t *Tree) MainCamera() (*Ref, bool) {
	id, ok := t.MainCameraID()
	if !ok {
		return nil, false
	}
	return t.Get(id)
}

// FindInputService returns the first entity, in creation order, whose payload
// is an InputService.
func (t *Tree) FindInputService() (models.ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, id := range t.order {
		if t.entities[id].entity.payload.Kind() == models.KindInputService {
			return id, true
		}
	}
	return models.NilID, false
}

// Access

// Get borrows an entity for reading. It reports false if the ID is unknown or
// the entity is mutably borrowed.
func (t *Tree) Get(id models.ID) (*Ref, bool) {
	r, err := t.TryGet(id)
	return r, err == nil
}

// GetMut borrows an entity exclusively. It reports false if the ID is unknown
// or the entity is borrowed in any way.
func (t *Tree) GetMut(id models.ID) (*RefMut, bool) {
	r, err := t.TryGetMut(id)
	return r, err == nil
}

// TryGet is Get with the reason for a miss: ErrUnknownEntity or ErrBorrowConflict.
func (t *Tree) TryGet(id models.ID) (*Ref, error) {
	c, err := t.lookup(id)
	if err != nil {
		return nil, err
	}
	if !c.tryBorrow() {
		return nil, fmt.Errorf("borrow %s: %w", id, ErrBorrowConflict)
	}
	return &Ref{handle{tree: t, cell: c}}, nil
}

// TryGetMut is GetMut with the reason for a miss.
func (t *Tree) TryGetMut(id models.ID) (*RefMut, error) {
	c, err := t.lookup(id)
	if err != nil {
		return nil, err
	}
	if !c.tryBorrowMut() {
		return nil, fmt.Errorf("borrow %s mutably: %w", id, ErrBorrowConflict)
	}
	return &RefMut{handle{tree: t, cell: c, mutable: true}}, nil
}

func (t *Tree) lookup(id models.ID) (*cell, error) {
	t.mu.RLock()
	c, ok := t.entities[id]
	t.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("entity %s: %w", id, ErrUnknownEntity)
	}
	return c, nil
}

// GetParent borrows the parent of id for reading.
func (t *Tree) GetParent(id models.ID) (*Ref, bool) {
	parentID, ok := t.parentOf(id)
	if !ok {
		return nil, false
	}
	return t.Get(parentID)
}

// GetParentMut borrows the parent of id exclusively. A parent that is already
// borrowed yields false and a debug log line.
func (t *Tree) GetParentMut(id models.ID) (*RefMut, bool) {
	parentID, ok := t.parentOf(id)
	if !ok {
		return nil, false
	}
	r, err := t.TryGetMut(parentID)
	if err != nil {
		t.log.Debug("cannot borrow parent",
			log.Stringer("entity", id),
			log.Stringer("parent", parentID),
			log.Error(err),
		)
		return nil, false
	}
	return r, true
}

func (t *Tree) parentOf(id models.ID) (models.ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.entities[id]
	if !ok || !c.hasParent() {
		return models.NilID, false
	}
	return c.entity.parent, true
}

// Hierarchy

// SetParent attaches entity to newParent, or detaches it when newParent is
// nil. It fails with ErrSelfParent or ErrCyclicHierarchy, or with
// ErrUnknownEntity for a handle borrowed from another tree, and leaves the
// hierarchy untouched in that case.
func (t *Tree) SetParent(entity *RefMut, newParent *RefMut) error {
	if entity == nil {
		return fmt.Errorf("set parent: %w", ErrUnknownEntity)
	}
	if entity.Released() || (newParent != nil && newParent.Released()) {
		return fmt.Errorf("set parent: %w", ErrReleasedHandle)
	}
	if entity.tree != t || (newParent != nil && newParent.tree != t) {
		return fmt.Errorf("set parent: handle from another tree: %w", ErrUnknownEntity)
	}
	var parentCell *cell
	if newParent != nil {
		parentCell = newParent.cell
	}
	return t.reparent(entity.cell, parentCell)
}

// Reparent is SetParent by identity. A NilID parent detaches the entity.
func (t *Tree) Reparent(id, parentID models.ID) error {
	t.mu.RLock()
	c, ok := t.entities[id]
	var parent *cell
	if ok && parentID != models.NilID {
		parent, ok = t.entities[parentID]
	}
	t.mu.RUnlock()
	if !ok {
		return fmt.Errorf("reparent %s to %s: %w", id, parentID, ErrUnknownEntity)
	}
	return t.reparent(c, parent)
}

func (t *Tree) reparent(c, parent *cell) error {
	t.mu.Lock()
	old := c.entity.parent
	err := t.reparentLocked(c, parent)
	next := c.entity.parent
	t.mu.Unlock()

	if err != nil {
		return err
	}
	if old != next {
		t.publishReparented(c.entity.id, old, next)
	}
	return nil
}

func (t *Tree) reparentLocked(c, parent *cell) error {
	if parent == nil {
		t.detachLocked(c)
		return nil
	}
	if parent.entity.id == c.entity.id {
		return fmt.Errorf("parent %s: %w", c.entity.id, ErrSelfParent)
	}
	if slices.Contains(t.descendantIDsLocked(c), parent.entity.id) {
		return fmt.Errorf("parent %s to %s: %w", c.entity.id, parent.entity.id, ErrCyclicHierarchy)
	}

	t.detachLocked(c)
	c.entity.parent = parent.entity.id
	parent.entity.children = append(parent.entity.children, c.entity.id)
	return nil
}

func (t *Tree) detachLocked(c *cell) {
	if !c.hasParent() {
		return
	}
	id := c.entity.id
	if former, ok := t.entities[c.entity.parent]; ok {
		former.entity.children = slices.DeleteFunc(former.entity.children, func(o models.ID) bool {
			return o == id
		})
	}
	c.entity.parent = models.NilID
}
