package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2_Arithmetic(t *testing.T) {
	a := V(3, 4)
	b := V(1, -2)

	assert.Equal(t, V(4, 2), a.Add(b))
	assert.Equal(t, V(2, 6), a.Sub(b))
	assert.Equal(t, V(6, 8), a.Scale(2))
	assert.Equal(t, V(-3, -4), a.Neg())
	assert.Equal(t, 5.0, a.Len())
	assert.Equal(t, -5.0, a.Dot(b))
	assert.InDelta(t, math.Sqrt(40), a.Distance(b), 1e-12)
}

func TestVec2_NormalizedGuardsZero(t *testing.T) {
	assert.Equal(t, Zero(), Zero().Normalized())
	assert.Equal(t, Zero(), V(1e-9, -1e-9).Normalized())

	n := V(3, 4).Normalized()
	assert.InDelta(t, 1.0, n.Len(), 1e-12)
	assert.InDelta(t, 0.6, n.X, 1e-12)
	assert.InDelta(t, 0.8, n.Y, 1e-12)
}

func TestVec2_Rotated(t *testing.T) {
	r := V(1, 0).Rotated(math.Pi / 2)
	assert.InDelta(t, 0.0, r.X, 1e-12)
	assert.InDelta(t, 1.0, r.Y, 1e-12)

	full := V(2, 5).Rotated(2 * math.Pi)
	assert.InDelta(t, 2.0, full.X, 1e-9)
	assert.InDelta(t, 5.0, full.Y, 1e-9)
}

func TestLerp(t *testing.T) {
	a, b := V(0, 0), V(10, -20)
	assert.Equal(t, a, Lerp(a, b, 0))
	assert.Equal(t, b, Lerp(a, b, 1))
	assert.Equal(t, V(5, -10), Lerp(a, b, 0.5))
}

func TestWithin(t *testing.T) {
	a, b := V(0, 10), V(10, 0)
	assert.True(t, V(5, 5).Within(a, b))
	assert.True(t, V(5, 5).Within(b, a))
	assert.True(t, V(0, 0).Within(a, b), "corners are inside")
	assert.False(t, V(11, 5).Within(a, b))
	assert.False(t, V(5, -0.1).Within(a, b))
}

func TestTriangleArea(t *testing.T) {
	assert.Equal(t, 50.0, TriangleArea(V(0, 0), V(10, 0), V(0, 10)))
	assert.Equal(t, 50.0, TriangleArea(V(10, 0), V(0, 0), V(0, 10)))
	assert.Equal(t, 0.0, TriangleArea(V(0, 0), V(10, 0), V(20, 0)))
}

func TestLess(t *testing.T) {
	assert.True(t, V(0, 5).Less(V(1, 0)))
	assert.True(t, V(1, 0).Less(V(1, 2)))
	assert.False(t, V(1, 2).Less(V(1, 2)))
}
