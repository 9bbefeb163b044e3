package scene

import (
	"slices"

	"github.com/akhoik/ge/internal/core/models"
)

// ChildIDs returns the direct children of id in attach order.
func (t *Tree) ChildIDs(id models.ID) []models.ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.entities[id]
	if !ok {
		return nil
	}
	return slices.Clone(c.entity.children)
}

// DescendantIDs returns every entity below id, depth first, each parent
// before its children and siblings in attach order.
func (t *Tree) DescendantIDs(id models.ID) []models.ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.entities[id]
	if !ok {
		return nil
	}
	return t.descendantIDsLocked(c)
}

func (t *Tree) descendantIDsLocked(root *cell) []models.ID {
	var (
		out     []models.ID
		visited = map[models.ID]struct{}{root.entity.id: {}}
		stack   = reversed(root.entity.children)
	)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}

		c, ok := t.entities[id]
		if !ok {
			continue
		}
		out = append(out, id)
		stack = append(stack, reversed(c.entity.children)...)
	}
	return out
}

// AncestorIDs walks parent links from id, nearest first, stopping at the
// first entity without a parent.
func (t *Tree) AncestorIDs(id models.ID) []models.ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ancestorIDsLocked(id)
}

func (t *Tree) ancestorIDsLocked(id models.ID) []models.ID {
	var out []models.ID
	c, ok := t.entities[id]
	for ok && c.hasParent() {
		parentID := c.entity.parent
		if slices.Contains(out, parentID) || parentID == id {
			break
		}
		out = append(out, parentID)
		c, ok = t.entities[parentID]
	}
	return out
}

// FindFirstChild returns the first direct child named name.
func (t *Tree) FindFirstChild(id models.ID, name string) (models.ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.entities[id]
	if !ok {
		return models.NilID, false
	}
	return t.findByNameLocked(c.entity.children, name)
}

// FindFirstDescendant returns the first entity below id named name, in
// DescendantIDs order.
func (t *Tree) FindFirstDescendant(id models.ID, name string) (models.ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.entities[id]
	if !ok {
		return models.NilID, false
	}
	return t.findByNameLocked(t.descendantIDsLocked(c), name)
}

// FindFirstAncestor returns the nearest ancestor of id named name.
func (t *Tree) FindFirstAncestor(id models.ID, name string) (models.ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.findByNameLocked(t.ancestorIDsLocked(id), name)
}

func (t *Tree) findByNameLocked(ids []models.ID, name string) (models.ID, bool) {
	for _, id := range ids {
		if c, ok := t.entities[id]; ok && c.entity.name == name {
			return id, true
		}
	}
	return models.NilID, false
}

// Handle variants. Entities that can't be borrowed are skipped; the caller
// releases what it gets, typically with ReleaseAll.

func (t *Tree) Children(id models.ID) []*Ref       { return t.borrowAll(t.ChildIDs(id)) }
func (t *Tree) ChildrenMut(id models.ID) []*RefMut { return t.borrowAllMut(t.ChildIDs(id)) }

func (t *Tree) Descendants(id models.ID) []*Ref {
	return t.borrowAll(t.DescendantIDs(id))
}

func (t *Tree) DescendantsMut(id models.ID) []*RefMut {
	return t.borrowAllMut(t.DescendantIDs(id))
}

func (t *Tree) Ancestors(id models.ID) []*Ref       { return t.borrowAll(t.AncestorIDs(id)) }
func (t *Tree) AncestorsMut(id models.ID) []*RefMut { return t.borrowAllMut(t.AncestorIDs(id)) }

func (t *Tree) borrowAll(ids []models.ID) []*Ref {
	out := make([]*Ref, 0, len(ids))
	for _, id := range ids {
		if r, ok := t.Get(id); ok {
			out = append(out, r)
		}
	}
	return out
}

func (t *Tree) borrowAllMut(ids []models.ID) []*RefMut {
	out := make([]*RefMut, 0, len(ids))
	for _, id := range ids {
		if r, ok := t.GetMut(id); ok {
			out = append(out, r)
		}
	}
	return out
}

func reversed(ids []models.ID) []models.ID {
	out := slices.Clone(ids)
	slices.Reverse(out)
	return out
}
