package engine

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/akhoik/ge/internal/core/models"
	"github.com/akhoik/ge/internal/core/observability/log"
)

// Renderer is the boundary to the GPU layer. The engine calls BeginFrame
// once, DrawPart for every visible part, then EndFrame. Parts are only valid
// for the duration of the DrawPart call.
type Renderer interface {
	BeginFrame(view, projection mgl32.Mat4)
	DrawPart(id models.ID, part *models.Part)
	EndFrame() error
}

// LogRenderer is a headless Renderer that logs each draw at debug level.
type LogRenderer struct {
	log   log.Log
	draws int
}

func NewLogRenderer(logger log.Log) *LogRenderer {
	return &LogRenderer{log: logger.Named("renderer")}
}

func (r *LogRenderer) BeginFrame(view, _ mgl32.Mat4) {
	r.draws = 0
	r.log.Debug("begin frame", log.Any("camera", view.Col(3).Vec3()))
}

func (r *LogRenderer) DrawPart(id models.ID, part *models.Part) {
	r.draws++
	r.log.Debug("draw part",
		log.Stringer("id", id),
		log.Any("mesh", part.Mesh()),
		log.Stringer("color", part.Color),
		log.Stringer("position", part.Position()),
	)
}

func (r *LogRenderer) EndFrame() error {
	r.log.Debug("end frame", log.Int("draws", r.draws))
	return nil
}
