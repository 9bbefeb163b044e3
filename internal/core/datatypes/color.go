package datatypes

import (
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	ErrComponentOutOfRange  = errors.New("color component out of range [0, 1]")
	ErrHueOutOfRange        = errors.New("hue out of range [0, 360)")
	ErrSaturationOutOfRange = errors.New("saturation out of range [0, 1]")
	ErrValueOutOfRange      = errors.New("value out of range [0, 1]")
)

// Color3 is an RGB color with every component in [0, 1].
type Color3 struct {
	R, G, B float32
}

func White() Color3 { return Color3{1, 1, 1} }
func Black() Color3 { return Color3{0, 0, 0} }
func Red() Color3   { return Color3{1, 0, 0} }
func Green() Color3 { return Color3{0, 1, 0} }
func Blue() Color3  { return Color3{0, 0, 1} }

func NewColor3(r, g, b float32) (Color3, error) {
	if !unit(r) || !unit(g) || !unit(b) {
		return Color3{}, fmt.Errorf("color3(%g, %g, %g): %w", r, g, b, ErrComponentOutOfRange)
	}
	return Color3{R: r, G: g, B: b}, nil
}

func FromRGB(r, g, b uint8) Color3 {
	return Color3{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255}
}

// FromHex decodes a 0xRRGGBB code.
func FromHex(hex uint32) Color3 {
	return FromRGB(uint8(hex>>16), uint8(hex>>8), uint8(hex))
}

// FromHSV builds a color from hue in degrees [0, 360) and saturation/value in [0, 1].
func FromHSV(hue int, sat, val float32) (Color3, error) {
	switch {
	case hue < 0 || hue >= 360:
		return Color3{}, fmt.Errorf("hue %d: %w", hue, ErrHueOutOfRange)
	case !unit(sat):
		return Color3{}, fmt.Errorf("saturation %g: %w", sat, ErrSaturationOutOfRange)
	case !unit(val):
		return Color3{}, fmt.Errorf("value %g: %w", val, ErrValueOutOfRange)
	}
	c := colorful.Hsv(float64(hue), float64(sat), float64(val)).Clamped()
	return Color3{R: float32(c.R), G: float32(c.G), B: float32(c.B)}, nil
}

// RGB rounds each component to the nearest byte.
func (c Color3) RGB() (r, g, b uint8) {
	return toByte(c.R), toByte(c.G), toByte(c.B)
}

func (c Color3) Hex() uint32 {
	r, g, b := c.RGB()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// HSV returns hue in whole degrees and saturation/value in [0, 1].
func (c Color3) HSV() (hue int, sat, val float32) {
	h, s, v := colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}.Hsv()
	hue = int(math.Round(h)) % 360
	return hue, float32(s), float32(v)
}

func (c Color3) String() string {
	return fmt.Sprintf("color3(%g, %g, %g)", c.R, c.G, c.B)
}

func toByte(f float32) uint8 {
	return uint8(math.Round(float64(f) * 255))
}

func unit(f float32) bool {
	return f >= 0 && f <= 1
}
