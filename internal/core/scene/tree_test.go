package scene

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/akhoik/ge/internal/core/events/bus"
	"github.com/akhoik/ge/internal/core/models"
	"github.com/akhoik/ge/internal/core/observability/log"
)

func mustGetMut(t *testing.T, tree *Tree, id models.ID) *RefMut {
	t.Helper()
	r, ok := tree.GetMut(id)
	require.True(t, ok, "borrow %s", id)
	return r
}

func parentOf(t *testing.T, tree *Tree, id models.ID) (models.ID, bool) {
	t.Helper()
	r, ok := tree.Get(id)
	require.True(t, ok)
	defer r.Release()
	return r.ParentID()
}

func TestCreation(t *testing.T) {
	t.Run("Orphan", func(t *testing.T) {
		tree := New()
		id := tree.CreateEntity("thing", nil)

		r, ok := tree.Get(id)
		require.True(t, ok)
		defer r.Release()
		require.Equal(t, "thing", r.Name())
		require.Equal(t, models.KindBase, r.Kind())
		_, hasParent := r.ParentID()
		require.False(t, hasParent)
		require.Empty(t, r.ChildIDs())
	})

	t.Run("Unique IDs", func(t *testing.T) {
		tree := New()
		seen := make(map[models.ID]struct{})
		for range 500 {
			id := tree.CreateEntity("e", models.Base{})
			_, dup := seen[id]
			require.False(t, dup)
			seen[id] = struct{}{}
		}
		require.Equal(t, 500, tree.Len())
		require.Len(t, tree.IDs(), 500)
	})

	t.Run("With Parent", func(t *testing.T) {
		tree := New()
		head := tree.CreateHead(nil)
		child, err := tree.CreateEntityWithParent("child", models.Base{}, head)
		require.NoError(t, err)

		parent, ok := parentOf(t, tree, child)
		require.True(t, ok)
		require.Equal(t, head, parent)
		require.Equal(t, []models.ID{child}, tree.ChildIDs(head))
	})

	t.Run("With Unknown Parent Rolls Back", func(t *testing.T) {
		tree := New()
		id, err := tree.CreateEntityWithParent("part", models.NewPart(1), models.NewID())
		require.ErrorIs(t, err, ErrUnknownEntity)
		require.Equal(t, models.NilID, id)
		require.Zero(t, tree.Len())
		require.Empty(t, tree.Parts())
		require.NoError(t, tree.Validate())
	})

	t.Run("Head Replaces Registration", func(t *testing.T) {
		tree := New()
		first := tree.CreateHead(nil)
		second := tree.CreateHead(&models.Game{Genre: models.GenreAdventure})

		id, ok := tree.HeadID()
		require.True(t, ok)
		require.Equal(t, second, id)
		require.Equal(t, 2, tree.Len())

		old, ok := tree.Get(first)
		require.True(t, ok)
		old.Release()

		head, ok := tree.Head()
		require.True(t, ok)
		defer head.Release()
		game, ok := head.Game()
		require.True(t, ok)
		require.Equal(t, models.GenreAdventure, game.Genre)
		require.Equal(t, "Game", head.Name())
	})

	t.Run("Main Camera", func(t *testing.T) {
		tree := New()
		_, ok := tree.MainCamera()
		require.False(t, ok)

		head := tree.CreateHead(nil)
		cam, err := tree.CreateMainCamera(head, models.NewCamera(60, 0.1, 50))
		require.NoError(t, err)

		id, ok := tree.MainCameraID()
		require.True(t, ok)
		require.Equal(t, cam, id)
		require.Equal(t, []models.ID{cam}, tree.ChildIDs(head))

		r, ok := tree.MainCamera()
		require.True(t, ok)
		c, ok := r.Camera()
		r.Release()
		require.True(t, ok)
		require.Equal(t, float32(60), c.FOV)

		again, err := tree.CreateMainCamera(models.NilID, nil)
		require.NoError(t, err)
		id, _ = tree.MainCameraID()
		require.Equal(t, again, id)
	})

	t.Run("Main Camera Parent Failure Is Not Fatal", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		tree := New(WithLogger(log.FromZap(zap.New(core), log.LevelWarn)))

		cam, err := tree.CreateMainCamera(models.NewID(), nil)
		require.ErrorIs(t, err, ErrUnknownEntity)
		require.NotEqual(t, models.NilID, cam)

		id, ok := tree.MainCameraID()
		require.True(t, ok)
		require.Equal(t, cam, id)
		_, hasParent := parentOf(t, tree, cam)
		require.False(t, hasParent)
		require.Equal(t, 1, logs.FilterMessage("couldn't parent camera").Len())
	})
}

func TestBorrowDiscipline(t *testing.T) {
	tree := New()
	id := tree.CreateEntity("e", models.NewPart(1))

	t.Run("Many Readers", func(t *testing.T) {
		a, ok := tree.Get(id)
		require.True(t, ok)
		b, ok := tree.Get(id)
		require.True(t, ok)

		_, ok = tree.GetMut(id)
		require.False(t, ok)

		a.Release()
		_, err := tree.TryGetMut(id)
		require.ErrorIs(t, err, ErrBorrowConflict)
		b.Release()

		w, ok := tree.GetMut(id)
		require.True(t, ok)
		w.Release()
	})

	t.Run("Single Writer", func(t *testing.T) {
		w := mustGetMut(t, tree, id)
		_, ok := tree.Get(id)
		require.False(t, ok)
		_, err := tree.TryGet(id)
		require.ErrorIs(t, err, ErrBorrowConflict)

		w.Release()
		w.Release()
		require.True(t, w.Released())

		r, ok := tree.Get(id)
		require.True(t, ok)
		r.Release()
	})

	t.Run("Unknown", func(t *testing.T) {
		_, ok := tree.Get(models.NewID())
		require.False(t, ok)
		_, ok = tree.GetMut(models.NewID())
		require.False(t, ok)
		_, err := tree.TryGet(models.NewID())
		require.ErrorIs(t, err, ErrUnknownEntity)
	})

	t.Run("Rename", func(t *testing.T) {
		w := mustGetMut(t, tree, id)
		w.SetName("renamed")
		w.Release()

		r, ok := tree.Get(id)
		require.True(t, ok)
		defer r.Release()
		require.Equal(t, "renamed", r.Name())
		require.Equal(t, "renamed", r.String())
	})
}

func TestGetParent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tree := New(WithLogger(log.FromZap(zap.New(core), log.LevelDebug)))
	head := tree.CreateHead(nil)
	child, err := tree.CreateEntityWithParent("child", nil, head)
	require.NoError(t, err)

	_, ok := tree.GetParent(head)
	require.False(t, ok)

	p, ok := tree.GetParent(child)
	require.True(t, ok)
	require.Equal(t, head, p.ID())
	p.Release()

	outer := mustGetMut(t, tree, head)
	_, ok = tree.GetParentMut(child)
	require.False(t, ok)
	require.Equal(t, 1, logs.FilterMessage("cannot borrow parent").Len())
	outer.Release()

	pm, ok := tree.GetParentMut(child)
	require.True(t, ok)
	pm.Release()
}

func TestSetParent(t *testing.T) {
	t.Run("Rejects Self", func(t *testing.T) {
		tree := New()
		id := tree.CreateEntity("e", nil)
		e := mustGetMut(t, tree, id)
		defer e.Release()

		require.ErrorIs(t, tree.SetParent(e, e), ErrSelfParent)
		require.ErrorIs(t, tree.Reparent(id, id), ErrSelfParent)
		require.NoError(t, tree.Validate())
	})

	t.Run("Rejects Cycle", func(t *testing.T) {
		tree := New()
		h := tree.CreateHead(nil)
		a, err := tree.CreateEntityWithParent("A", nil, h)
		require.NoError(t, err)
		b, err := tree.CreateEntityWithParent("B", nil, a)
		require.NoError(t, err)
		before := tree.Digest()

		hm := mustGetMut(t, tree, h)
		bm := mustGetMut(t, tree, b)
		require.ErrorIs(t, tree.SetParent(hm, bm), ErrCyclicHierarchy)
		hm.Release()
		bm.Release()

		am := mustGetMut(t, tree, a)
		bm = mustGetMut(t, tree, b)
		require.ErrorIs(t, tree.SetParent(am, bm), ErrCyclicHierarchy)
		am.Release()
		bm.Release()

		_, hasParent := parentOf(t, tree, h)
		require.False(t, hasParent)
		p, _ := parentOf(t, tree, a)
		require.Equal(t, h, p)
		p, _ = parentOf(t, tree, b)
		require.Equal(t, a, p)
		require.Equal(t, before, tree.Digest())
		require.NoError(t, tree.Validate())
	})

	t.Run("Reparent Detaches Cleanly", func(t *testing.T) {
		tree := New()
		oldParent := tree.CreateEntity("old", nil)
		newParent := tree.CreateEntity("new", nil)
		e, err := tree.CreateEntityWithParent("e", nil, oldParent)
		require.NoError(t, err)
		sibling, err := tree.CreateEntityWithParent("s", nil, oldParent)
		require.NoError(t, err)

		em := mustGetMut(t, tree, e)
		np := mustGetMut(t, tree, newParent)
		require.NoError(t, tree.SetParent(em, np))
		em.Release()
		np.Release()

		require.Equal(t, []models.ID{sibling}, tree.ChildIDs(oldParent))
		require.Equal(t, []models.ID{e}, tree.ChildIDs(newParent))
		require.NoError(t, tree.Validate())
	})

	t.Run("Detach", func(t *testing.T) {
		tree := New()
		parent := tree.CreateEntity("p", nil)
		e, err := tree.CreateEntityWithParent("e", nil, parent)
		require.NoError(t, err)

		em := mustGetMut(t, tree, e)
		require.NoError(t, tree.SetParent(em, nil))
		require.NoError(t, tree.SetParent(em, nil))
		em.Release()

		_, hasParent := parentOf(t, tree, e)
		require.False(t, hasParent)
		require.Empty(t, tree.ChildIDs(parent))
		require.NoError(t, tree.Reparent(e, models.NilID))
	})

	t.Run("Released Handle", func(t *testing.T) {
		tree := New()
		em := mustGetMut(t, tree, tree.CreateEntity("e", nil))
		em.Release()
		require.ErrorIs(t, tree.SetParent(em, nil), ErrReleasedHandle)
		require.ErrorIs(t, tree.SetParent(nil, nil), ErrUnknownEntity)
		require.ErrorIs(t, tree.Reparent(models.NewID(), models.NilID), ErrUnknownEntity)
	})

	t.Run("Released Handle Loses Payload", func(t *testing.T) {
		tree := New()
		id := tree.CreateEntity("part", models.NewPart(1))

		r, ok := tree.Get(id)
		require.True(t, ok)
		_, isPart := r.Part()
		require.True(t, isPart)
		r.Release()

		w := mustGetMut(t, tree, id)
		defer w.Release()

		p, isPart := r.Part()
		require.False(t, isPart)
		require.Nil(t, p)
		require.Nil(t, r.Type())
		require.Equal(t, models.KindPart, r.Kind())

		wp, isPart := w.Part()
		require.True(t, isPart)
		require.NotNil(t, wp)
	})

	t.Run("Foreign Tree", func(t *testing.T) {
		tree, other := New(), New()
		e := mustGetMut(t, tree, tree.CreateEntity("e", nil))
		defer e.Release()
		foreign := mustGetMut(t, other, other.CreateEntity("f", nil))
		defer foreign.Release()

		require.ErrorIs(t, tree.SetParent(e, foreign), ErrUnknownEntity)
		require.ErrorIs(t, tree.SetParent(foreign, e), ErrUnknownEntity)
		require.ErrorIs(t, tree.SetParent(foreign, nil), ErrUnknownEntity)
		require.Empty(t, tree.ChildIDs(e.ID()))
		require.Empty(t, other.ChildIDs(foreign.ID()))
		require.NoError(t, tree.Validate())
		require.NoError(t, other.Validate())
	})
}

func TestRandomHierarchyKeepsInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	tree := New()
	var ids []models.ID
	wantParts := 0
	for i := range 60 {
		var payload models.Type = models.Base{}
		if i%3 == 0 {
			payload = models.NewPart(models.MeshHandle(i))
			wantParts++
		}
		ids = append(ids, tree.CreateEntity("e", payload))
	}

	for range 400 {
		child := ids[rng.IntN(len(ids))]
		parent := models.NilID
		if rng.IntN(5) > 0 {
			parent = ids[rng.IntN(len(ids))]
		}
		err := tree.Reparent(child, parent)
		if err != nil {
			require.True(t, parent == child || isDescendant(tree, child, parent), "unexpected %v", err)
		}
		require.NoError(t, tree.Validate())
	}

	for _, id := range ids {
		require.NotContains(t, tree.DescendantIDs(id), id)
	}
	require.Len(t, tree.Parts(), wantParts)
}

func isDescendant(tree *Tree, root, id models.ID) bool {
	for _, d := range tree.DescendantIDs(root) {
		if d == id {
			return true
		}
	}
	return false
}

func TestPartsIndex(t *testing.T) {
	tree := New()
	head := tree.CreateHead(nil)
	p1 := tree.CreateEntity("p1", models.NewPart(1))
	tree.CreateEntity("svc", models.NewInputService(nil))
	p2, err := tree.CreateEntityWithParent("p2", models.NewPart(2), head)
	require.NoError(t, err)
	_, err = tree.CreateMainCamera(head, nil)
	require.NoError(t, err)
	require.NoError(t, tree.Reparent(p1, p2))

	require.Equal(t, []models.ID{p1, p2}, tree.Parts())

	svc, ok := tree.FindInputService()
	require.True(t, ok)
	r, ok := tree.Get(svc)
	require.True(t, ok)
	_, ok = r.InputService()
	r.Release()
	require.True(t, ok)
	require.NoError(t, tree.Validate())
}

func TestEvents(t *testing.T) {
	b := bus.New()
	tree := New(WithEventBus(b))

	var created []Created
	var moved []Reparented
	_, err := b.Subscribe(EventEntityCreated, func(e bus.Event) error {
		created = append(created, e.Data().(Created))
		// handlers run outside the tree lock
		_ = tree.Len()
		return nil
	})
	require.NoError(t, err)
	_, err = b.Subscribe(EventEntityReparented, func(e bus.Event) error {
		moved = append(moved, e.Data().(Reparented))
		return nil
	})
	require.NoError(t, err)

	head := tree.CreateHead(nil)
	part, err := tree.CreateEntityWithParent("part", models.NewPart(1), head)
	require.NoError(t, err)
	require.NoError(t, tree.Reparent(part, models.NilID))
	require.ErrorIs(t, tree.Reparent(head, head), ErrSelfParent)

	require.Equal(t, []Created{
		{ID: head, Name: "Game", Kind: models.KindGame},
		{ID: part, Name: "part", Kind: models.KindPart},
	}, created)
	require.Equal(t, []Reparented{
		{ID: part, OldParent: models.NilID, NewParent: head},
		{ID: part, OldParent: head, NewParent: models.NilID},
	}, moved)
}

func TestDigest(t *testing.T) {
	tree := New()
	a := tree.CreateEntity("a", nil)
	b := tree.CreateEntity("b", nil)
	d0 := tree.Digest()
	require.Equal(t, d0, tree.Digest())

	require.NoError(t, tree.Reparent(b, a))
	d1 := tree.Digest()
	require.NotEqual(t, d0, d1)

	w := mustGetMut(t, tree, b)
	w.SetName("renamed")
	w.Release()
	require.Equal(t, d1, tree.Digest())

	require.NoError(t, tree.Reparent(b, models.NilID))
	require.Equal(t, d0, tree.Digest())
}
