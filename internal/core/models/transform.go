package models

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/akhoik/ge/internal/core/datatypes"
)

// Transformable is the capability shared by Camera and Part: a position, an
// euler rotation in degrees, and a cached transform rebuilt on every change.
type Transformable interface {
	Position() datatypes.Vector3
	SetPosition(datatypes.Vector3)
	Rotation() datatypes.Vector3
	SetRotation(datatypes.Vector3)

	Front() datatypes.Vector3
	Right() datatypes.Vector3
	Up() datatypes.Vector3

	Transform() mgl32.Mat4
	Recompute()
}

// Sizable is a Transformable with a non-uniform scale. Only Part has one.
type Sizable interface {
	Transformable
	Size() datatypes.Vector3
	SetSize(datatypes.Vector3)
}

var (
	_ Transformable = (*Camera)(nil)
	_ Sizable       = (*Part)(nil)
)

// ComposeTransform builds translate(position) * rotate(rotation) * scale(size).
// Rotation components are roll (X, about the Z axis), pitch (Y, about the X
// axis) and yaw (Z, about the Y axis) in degrees, applied roll first.
func ComposeTransform(position, rotation, size datatypes.Vector3) mgl32.Mat4 {
	return mgl32.Translate3D(position.X, position.Y, position.Z).
		Mul4(rotationMatrix(rotation)).
		Mul4(mgl32.Scale3D(size.X, size.Y, size.Z))
}

func rotationMatrix(rotation datatypes.Vector3) mgl32.Mat4 {
	roll := mgl32.DegToRad(rotation.X)
	pitch := mgl32.DegToRad(rotation.Y)
	yaw := mgl32.DegToRad(rotation.Z)
	return mgl32.HomogRotate3DY(yaw).
		Mul4(mgl32.HomogRotate3DX(pitch)).
		Mul4(mgl32.HomogRotate3DZ(roll))
}

// OrientationBasis derives the unit front, right and up vectors from an euler
// rotation. The basis reads pitch from Y and yaw from X; Z does not move it.
func OrientationBasis(rotation datatypes.Vector3) (front, right, up datatypes.Vector3) {
	pitch := float64(mgl32.DegToRad(rotation.Y))
	yaw := float64(mgl32.DegToRad(rotation.X))
	cosPitch := math.Cos(pitch)

	front = datatypes.NewVector3(
		float32(cosPitch*math.Cos(yaw)),
		float32(math.Sin(pitch)),
		float32(cosPitch*math.Sin(yaw)),
	).Unit()
	right = front.Cross(datatypes.Vector3Up()).Unit()
	up = right.Cross(front).Unit()
	return front, right, up
}

// object3D holds the state common to every Transformable. Owners call
// rebuild after mutating position or rotation.
type object3D struct {
	position  datatypes.Vector3
	rotation  datatypes.Vector3
	front     datatypes.Vector3
	right     datatypes.Vector3
	up        datatypes.Vector3
	transform mgl32.Mat4
}

func (o *object3D) Position() datatypes.Vector3 { return o.position }
func (o *object3D) Rotation() datatypes.Vector3 { return o.rotation }
func (o *object3D) Front() datatypes.Vector3    { return o.front }
func (o *object3D) Right() datatypes.Vector3    { return o.right }
func (o *object3D) Up() datatypes.Vector3       { return o.up }
func (o *object3D) Transform() mgl32.Mat4       { return o.transform }

func (o *object3D) rebuild(size datatypes.Vector3) {
	o.front, o.right, o.up = OrientationBasis(o.rotation)
	o.transform = ComposeTransform(o.position, o.rotation, size)
}
