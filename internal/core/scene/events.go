package scene

import (
	"github.com/akhoik/ge/internal/core/events/bus"
	"github.com/akhoik/ge/internal/core/models"
	"github.com/akhoik/ge/internal/core/observability/log"
)

const (
	EventEntityCreated    = "entity.created"
	EventEntityReparented = "entity.reparented"

	eventSource = "scene"
)

// Created is the data of an EventEntityCreated event.
type Created struct {
	ID   models.ID
	Name string
	Kind models.Kind
}

// Reparented is the data of an EventEntityReparented event. NilID stands for
// no parent.
type Reparented struct {
	ID        models.ID
	OldParent models.ID
	NewParent models.ID
}

// Events are published after the tree lock is released, so handlers may call
// back into the tree.

func (t *Tree) publishCreated(c *cell) {
	t.publish(bus.NewEvent(EventEntityCreated, eventSource, Created{
		ID:   c.entity.id,
		Name: c.entity.name,
		Kind: c.entity.payload.Kind(),
	}))
}

func (t *Tree) publishReparented(id, oldParent, newParent models.ID) {
	t.publish(bus.NewEvent(EventEntityReparented, eventSource, Reparented{
		ID:        id,
		OldParent: oldParent,
		NewParent: newParent,
	}))
}

func (t *Tree) publish(e bus.Event) {
	if t.bus == nil {
		return
	}
	if err := t.bus.Publish(e); err != nil {
		t.log.Warn("event handler failed", log.String("event", e.Type()), log.Error(err))
	}
}
