// Package engine runs the frame loop around a scene tree: it builds the
// startup scene, routes input to the InputService entity and feeds the
// renderer once per frame.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/akhoik/ge/internal/config"
	"github.com/akhoik/ge/internal/core/datatypes"
	"github.com/akhoik/ge/internal/core/events/bus"
	"github.com/akhoik/ge/internal/core/models"
	"github.com/akhoik/ge/internal/core/observability/log"
	"github.com/akhoik/ge/internal/core/scene"
)

var ErrNoInputService = errors.New("no input service in scene")

// FrameStats summarises one rendered frame.
type FrameStats struct {
	Frame int
	Delta time.Duration
	// Updated counts payloads whose Update ran; UpdateSkipped counts entities
	// that were borrowed elsewhere during the update phase.
	Updated       int
	UpdateSkipped int
	Drawn         int
	Skipped       int
	// Created and Reparented count hierarchy events since the previous frame.
	Created    int
	Reparented int
	Digest     uint64
	Topology   bool // hierarchy changed since the previous frame
}

type Engine struct {
	cfg      *config.Config
	tree     *scene.Tree
	renderer Renderer
	events   bus.EventBus
	log      log.Log

	subs       []bus.Subscription
	created    atomic.Int64
	reparented atomic.Int64

	now        func() time.Time
	lastFrame  time.Time
	frame      int
	lastDigest uint64
}

// New creates an engine driving tree. It listens on events for hierarchy
// changes made by anyone between frames; Close stops listening.
func New(cfg *config.Config, tree *scene.Tree, renderer Renderer, events bus.EventBus, logger log.Log) (*Engine, error) {
	e := &Engine{
		cfg:      cfg,
		tree:     tree,
		renderer: renderer,
		events:   events,
		log:      logger.Named("engine"),
		now:      time.Now,
	}
	if events == nil {
		return e, nil
	}

	created, err := events.Subscribe(scene.EventEntityCreated, e.onCreated)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", scene.EventEntityCreated, err)
	}
	reparented, err := events.Subscribe(scene.EventEntityReparented, e.onReparented)
	if err != nil {
		_ = events.Unsubscribe(created)
		return nil, fmt.Errorf("subscribe %s: %w", scene.EventEntityReparented, err)
	}
	e.subs = []bus.Subscription{created, reparented}
	return e, nil
}

func (e *Engine) Tree() *scene.Tree { return e.tree }

// Close unsubscribes from the event bus.
func (e *Engine) Close() error {
	var errs []error
	for _, sub := range e.subs {
		if err := e.events.Unsubscribe(sub); err != nil {
			errs = append(errs, err)
		}
	}
	e.subs = nil
	return errors.Join(errs...)
}

func (e *Engine) onCreated(bus.Event) error {
	e.created.Add(1)
	return nil
}

func (e *Engine) onReparented(ev bus.Event) error {
	e.reparented.Add(1)
	if r, ok := ev.Data().(scene.Reparented); ok {
		e.log.Debug("entity reparented",
			log.Stringer("entity", r.ID),
			log.Stringer("from", r.OldParent),
			log.Stringer("to", r.NewParent),
		)
	}
	return nil
}

// NewTree creates the tree with its logger and event bus.
func NewTree(logger log.Log, events bus.EventBus) *scene.Tree {
	return scene.New(scene.WithLogger(logger.Named("scene")), scene.WithEventBus(events))
}

// Build populates the tree from the config: head, input service, main
// camera and the configured parts.
func (e *Engine) Build() error {
	genre, err := models.ParseGenre(e.cfg.Game.Genre)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	head := e.tree.CreateHead(&models.Game{Genre: genre})

	if _, err = e.tree.CreateEntityWithParent("InputService", models.NewInputService(e.log), head); err != nil {
		return fmt.Errorf("build scene: %w", err)
	}

	cc := e.cfg.Camera
	cam := models.NewCamera(cc.FOV, cc.Near, cc.Far)
	cam.SetPosition(vec(cc.Position))
	cam.SetRotation(vec(cc.Rotation))
	if _, err = e.tree.CreateMainCamera(head, cam); err != nil {
		return fmt.Errorf("build scene: %w", err)
	}

	byName := make(map[string]models.ID, len(e.cfg.Parts))
	for _, pc := range e.cfg.Parts {
		parent := head
		if pc.Parent != "" {
			parent = byName[pc.Parent]
		}
		id, err := e.tree.CreateEntityWithParent(pc.Name, newPart(pc), parent)
		if err != nil {
			return fmt.Errorf("build part %q: %w", pc.Name, err)
		}
		byName[pc.Name] = id
	}

	e.lastDigest = e.tree.Digest()
	e.created.Store(0)
	e.reparented.Store(0)
	e.log.Info("scene built",
		log.Int("entities", e.tree.Len()),
		log.Int("parts", len(e.tree.Parts())),
	)
	return nil
}

func newPart(pc config.PartConfig) *models.Part {
	p := models.NewPart(models.MeshHandle(pc.Mesh))
	if pc.Texture != nil {
		p.SetTexture(models.TextureHandle(*pc.Texture))
	}
	if pc.Color != nil {
		p.Color = datatypes.FromHex(*pc.Color)
	}
	p.Visible = !pc.Hidden
	p.Spin = vec(pc.Spin)
	p.SetPosition(vec(pc.Position))
	p.SetRotation(vec(pc.Rotation))
	if pc.Size != nil {
		p.SetSize(vec(*pc.Size))
	}
	return p
}

func vec(v [3]float32) datatypes.Vector3 {
	return datatypes.NewVector3(v[0], v[1], v[2])
}

// ProvideInput forwards a raw key event to the scene's InputService.
func (e *Engine) ProvideInput(key models.Keycode, pressed bool) error {
	return e.withInput(func(s *models.InputService) { s.ProvideInput(key, pressed) })
}

// KeyStatus reports the current state of key.
func (e *Engine) KeyStatus(key models.Keycode) (models.PressedStatus, error) {
	status := models.StatusNone
	err := e.withInput(func(s *models.InputService) { status = s.Status(key) })
	return status, err
}

func (e *Engine) withInput(fn func(*models.InputService)) error {
	id, ok := e.tree.FindInputService()
	if !ok {
		return ErrNoInputService
	}
	ref, err := e.tree.TryGetMut(id)
	if err != nil {
		return fmt.Errorf("input service: %w", err)
	}
	defer ref.Release()
	svc, _ := ref.InputService()
	fn(svc)
	return nil
}

// Frame advances every Updater, renders one frame and then closes the input
// frame. The delta is measured from the previous call.
func (e *Engine) Frame() (FrameStats, error) {
	return e.frameAt(e.now())
}

func (e *Engine) frameAt(now time.Time) (FrameStats, error) {
	e.frame++
	stats := FrameStats{Frame: e.frame}
	if !e.lastFrame.IsZero() && now.After(e.lastFrame) {
		stats.Delta = now.Sub(e.lastFrame)
	}
	e.lastFrame = now

	e.update(stats.Delta, &stats)

	view, projection := mgl32.Ident4(), mgl32.Ident4()
	if ref, ok := e.tree.MainCamera(); ok {
		if cam, isCam := ref.Camera(); isCam {
			view = cam.Transform()
			projection = cam.Projection(e.cfg.AspectRatio())
		}
		ref.Release()
	}

	e.renderer.BeginFrame(view, projection)
	for _, id := range e.tree.Parts() {
		ref, ok := e.tree.Get(id)
		if !ok {
			stats.Skipped++
			continue
		}
		if part, _ := ref.Part(); part.Visible {
			e.renderer.DrawPart(id, part)
			stats.Drawn++
		}
		ref.Release()
	}
	if err := e.renderer.EndFrame(); err != nil {
		return stats, fmt.Errorf("frame %d: %w", e.frame, err)
	}

	stats.Created = int(e.created.Swap(0))
	stats.Reparented = int(e.reparented.Swap(0))
	stats.Digest = e.tree.Digest()
	stats.Topology = stats.Digest != e.lastDigest || stats.Reparented > 0
	e.lastDigest = stats.Digest

	if err := e.withInput((*models.InputService).MarkCleanup); err != nil && !errors.Is(err, ErrNoInputService) {
		e.log.Warn("input cleanup skipped", log.Error(err))
	}
	return stats, nil
}

// update runs Update on every payload that has one, in creation order.
// Entities borrowed elsewhere are skipped for this frame.
func (e *Engine) update(delta time.Duration, stats *FrameStats) {
	for _, id := range e.tree.IDs() {
		ref, ok := e.tree.GetMut(id)
		if !ok {
			stats.UpdateSkipped++
			continue
		}
		if u, isUpdater := ref.Type().(models.Updater); isUpdater {
			u.Update(delta)
			stats.Updated++
		}
		ref.Release()
	}
}

// Run calls Frame every FrameTime until ctx is done or the configured frame
// count is reached.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.Loop.FrameTime)
	defer ticker.Stop()

	now := e.now()
	for {
		stats, err := e.frameAt(now)
		if err != nil {
			return err
		}
		if stats.Topology {
			e.log.Debug("hierarchy changed",
				log.Int("frame", stats.Frame),
				log.Int("created", stats.Created),
				log.Int("reparented", stats.Reparented),
				log.Uint64("digest", stats.Digest),
			)
		}
		if e.cfg.Loop.Frames > 0 && stats.Frame >= e.cfg.Loop.Frames {
			e.log.Info("frame limit reached", log.Int("frames", stats.Frame))
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case now = <-ticker.C:
		}
	}
}
