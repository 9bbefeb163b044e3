package scene

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/akhoik/ge/internal/core/models"
)

// Digest fingerprints the hierarchy: every entity in creation order with its
// parent and ordered children. Names and payloads don't contribute. Equal
// digests across frames mean the topology hasn't changed.
func (t *Tree) Digest() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	h := xxhash.New()
	for _, id := range t.order {
		c := t.entities[id]
		_, _ = h.Write(id[:])
		_, _ = h.Write(c.entity.parent[:])
		for _, child := range c.entity.children {
			_, _ = h.Write(child[:])
		}
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

// Validate checks the hierarchy invariants and returns every violation found.
func (t *Tree) Validate() error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var errs []error
	for id, c := range t.entities {
		if c.entity.id != id {
			errs = append(errs, fmt.Errorf("entity %s stored under %s", c.entity.id, id))
		}
		if c.hasParent() {
			parent, ok := t.entities[c.entity.parent]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("entity %s has unknown parent %s", id, c.entity.parent))
			case count(parent.entity.children, id) != 1:
				errs = append(errs, fmt.Errorf("entity %s listed %d times by parent %s",
					id, count(parent.entity.children, id), c.entity.parent))
			}
		}
		for _, child := range c.entity.children {
			cc, ok := t.entities[child]
			if !ok || cc.entity.parent != id {
				errs = append(errs, fmt.Errorf("child %s of %s doesn't point back", child, id))
			}
		}
		if rootOf := t.ancestorIDsLocked(id); len(rootOf) > 0 {
			top := t.entities[rootOf[len(rootOf)-1]]
			if top != nil && top.hasParent() {
				errs = append(errs, fmt.Errorf("entity %s is part of a cycle", id))
			}
		}
	}

	var parts int
	for _, id := range t.order {
		if t.entities[id].entity.payload.Kind() == models.KindPart {
			if parts >= len(t.parts) || t.parts[parts] != id {
				errs = append(errs, fmt.Errorf("parts index out of sync at %s", id))
				break
			}
			parts++
		}
	}
	if parts != len(t.parts) {
		errs = append(errs, fmt.Errorf("parts index has %d entries, want %d", len(t.parts), parts))
	}
	return errors.Join(errs...)
}

func count(ids []models.ID, id models.ID) int {
	n := 0
	for _, o := range ids {
		if o == id {
			n++
		}
	}
	return n
}
