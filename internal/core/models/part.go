package models

import (
	"github.com/akhoik/ge/internal/core/datatypes"
)

// MeshHandle and TextureHandle are opaque references produced by the asset
// loaders. The core never looks inside them.
type (
	MeshHandle    uint32
	TextureHandle uint32
)

// Part is a renderable block.
type Part struct {
	object3D

	mesh       MeshHandle
	texture    TextureHandle
	hasTexture bool
	size       datatypes.Vector3

	Color   datatypes.Color3
	Visible bool
	// Spin is the angular velocity applied by Update, in degrees per second
	// for each rotation component.
	Spin datatypes.Vector3
}

// NewPart returns a visible white unit part at the origin.
func NewPart(mesh MeshHandle) *Part {
	p := &Part{
		mesh:    mesh,
		size:    datatypes.Vector3One(),
		Color:   datatypes.White(),
		Visible: true,
	}
	p.Recompute()
	return p
}

func (*Part) Kind() Kind  { return KindPart }
func (*Part) entityType() {}

func (p *Part) Mesh() MeshHandle        { return p.mesh }
func (p *Part) SetMesh(mesh MeshHandle) { p.mesh = mesh }

// Texture reports the assigned texture, if any.
func (p *Part) Texture() (TextureHandle, bool) {
	return p.texture, p.hasTexture
}

func (p *Part) SetTexture(t TextureHandle) {
	p.texture = t
	p.hasTexture = true
}

func (p *Part) ClearTexture() {
	p.texture = 0
	p.hasTexture = false
}

func (p *Part) SetPosition(v datatypes.Vector3) {
	p.position = v
	p.Recompute()
}

func (p *Part) SetRotation(v datatypes.Vector3) {
	p.rotation = v
	p.Recompute()
}

func (p *Part) Size() datatypes.Vector3 { return p.size }

func (p *Part) SetSize(v datatypes.Vector3) {
	p.size = v
	p.Recompute()
}

func (p *Part) Recompute() {
	p.rebuild(p.size)
}
