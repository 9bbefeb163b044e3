package models

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/akhoik/ge/internal/core/datatypes"
)

// Camera is a perspective camera. Its transform is used by the renderer as
// the view matrix.
type Camera struct {
	object3D

	// FOV is the vertical field of view in degrees.
	FOV float32
	// Near and Far bound the rendered depth range.
	Near float32
	Far  float32
}

func NewCamera(fov, near, far float32) *Camera {
	c := &Camera{FOV: fov, Near: near, Far: far}
	c.Recompute()
	return c
}

func (*Camera) Kind() Kind  { return KindCamera }
func (*Camera) entityType() {}

func (c *Camera) SetPosition(p datatypes.Vector3) {
	c.position = p
	c.Recompute()
}

func (c *Camera) SetRotation(r datatypes.Vector3) {
	c.rotation = r
	c.Recompute()
}

func (c *Camera) Recompute() {
	c.rebuild(datatypes.Vector3One())
}

// Projection returns the perspective projection for the given screen aspect ratio.
func (c *Camera) Projection(aspectRatio float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspectRatio, c.Near, c.Far)
}
