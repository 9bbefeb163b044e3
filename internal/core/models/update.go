package models

import (
	"math"
	"time"

	"github.com/akhoik/ge/internal/core/datatypes"
)

// Updater is implemented by payloads that advance once per frame. delta is
// the time between the previous two frames; it is zero on the first frame.
type Updater interface {
	Update(delta time.Duration)
}

var _ Updater = (*Part)(nil)

// Update turns the part by Spin degrees per second.
func (p *Part) Update(delta time.Duration) {
	if delta <= 0 || p.Spin == datatypes.Vector3Zero() {
		return
	}
	step := p.Spin.Scale(float32(delta.Seconds()))
	r := p.rotation.Add(step)
	p.SetRotation(datatypes.NewVector3(wrapDegrees(r.X), wrapDegrees(r.Y), wrapDegrees(r.Z)))
}

// wrapDegrees maps a to [0, 360).
func wrapDegrees(a float32) float32 {
	w := float32(math.Mod(float64(a), 360))
	if w < 0 {
		w += 360
	}
	return w
}
