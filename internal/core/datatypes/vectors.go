// Package datatypes holds the small value types shared by entities: vectors and colors.
package datatypes

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type Vector3 struct {
	X, Y, Z float32
}

func NewVector3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func Vector3Zero() Vector3    { return Vector3{} }
func Vector3One() Vector3     { return Vector3{1, 1, 1} }
func Vector3Up() Vector3      { return Vector3{0, 1, 0} }
func Vector3Right() Vector3   { return Vector3{1, 0, 0} }
func Vector3Forward() Vector3 { return Vector3{0, 0, -1} }

// Vec3 converts v for use with mgl32 matrix helpers.
func (v Vector3) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

func FromVec3(v mgl32.Vec3) Vector3 {
	return Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3) Dot(o Vector3) float32 {
	return v.Vec3().Dot(o.Vec3())
}

func (v Vector3) Cross(o Vector3) Vector3 {
	return FromVec3(v.Vec3().Cross(o.Vec3()))
}

func (v Vector3) Len() float32 {
	return v.Vec3().Len()
}

// Unit returns v scaled to length 1. The zero vector is returned unchanged.
func (v Vector3) Unit() Vector3 {
	if v.Len() == 0 {
		return v
	}
	return FromVec3(v.Vec3().Normalize())
}

// ApproxEqual compares component-wise with mgl32's default epsilon.
func (v Vector3) ApproxEqual(o Vector3) bool {
	return v.Vec3().ApproxEqual(o.Vec3())
}

func (v Vector3) String() string {
	return fmt.Sprintf("vector3(%g, %g, %g)", v.X, v.Y, v.Z)
}

type Vector2 struct {
	X, Y float32
}

func NewVector2(x, y float32) Vector2 {
	return Vector2{X: x, Y: y}
}

func (v Vector2) Vec2() mgl32.Vec2 {
	return mgl32.Vec2{v.X, v.Y}
}

func (v Vector2) String() string {
	return fmt.Sprintf("vector2(%g, %g)", v.X, v.Y)
}
