package datatypes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVector3(t *testing.T) {
	t.Run("Cross", func(t *testing.T) {
		got := Vector3Right().Cross(Vector3Up())
		require.True(t, got.ApproxEqual(NewVector3(0, 0, 1)), got.String())
	})

	t.Run("Unit", func(t *testing.T) {
		require.InDelta(t, 1, NewVector3(3, 4, 0).Unit().Len(), 1e-6)
		require.Equal(t, Vector3Zero(), Vector3Zero().Unit())
	})

	t.Run("Arithmetic", func(t *testing.T) {
		v := NewVector3(1, 2, 3).Add(Vector3One()).Sub(NewVector3(0, 1, 0)).Scale(2)
		require.Equal(t, NewVector3(4, 4, 8), v)
		require.Equal(t, float32(32), NewVector3(1, 2, 3).Dot(NewVector3(4, 5, 6)))
	})
}

func TestColor3(t *testing.T) {
	t.Run("Range", func(t *testing.T) {
		_, err := NewColor3(0.5, 1.2, 0)
		require.ErrorIs(t, err, ErrComponentOutOfRange)

		c, err := NewColor3(0, 0.5, 1)
		require.NoError(t, err)
		require.Equal(t, Color3{0, 0.5, 1}, c)
	})

	t.Run("Hex", func(t *testing.T) {
		require.Equal(t, uint32(0xFF0000), Red().Hex())
		require.Equal(t, uint32(0xFFFFFF), White().Hex())
		require.Equal(t, uint32(0x00FF00), FromHex(0x00FF00).Hex())

		r, g, b := FromRGB(12, 34, 56).RGB()
		require.Equal(t, []uint8{12, 34, 56}, []uint8{r, g, b})
	})

	t.Run("HSV", func(t *testing.T) {
		c, err := FromHSV(120, 1, 1)
		require.NoError(t, err)
		require.InDelta(t, 0, c.R, 1e-6)
		require.InDelta(t, 1, c.G, 1e-6)
		require.InDelta(t, 0, c.B, 1e-6)

		h, s, v := Blue().HSV()
		require.Equal(t, 240, h)
		require.InDelta(t, 1, s, 1e-6)
		require.InDelta(t, 1, v, 1e-6)

		_, err = FromHSV(360, 1, 1)
		require.ErrorIs(t, err, ErrHueOutOfRange)
		_, err = FromHSV(0, 2, 1)
		require.ErrorIs(t, err, ErrSaturationOutOfRange)
		_, err = FromHSV(0, 1, -1)
		require.ErrorIs(t, err, ErrValueOutOfRange)
	})
}
