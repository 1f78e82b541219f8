package param

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBijectorRoundTrip(t *testing.T) {
	t.Parallel()
	bijectors := []Bijector{Identity{}, Softplus{}, Exp{}}
	inputs := []float64{-10, -1, -0.5, 0, 0.5, 1, 10, 50, 500}

	for _, b := range bijectors {
		b := b
		t.Run(b.Name(), func(t *testing.T) {
			t.Parallel()
			for _, x := range inputs {
				y := b.Forward(x)
				back := b.Inverse(y)
				require.False(t, math.IsNaN(y), "forward(%v) is NaN", x)
				require.False(t, math.IsInf(y, 0), "forward(%v) overflowed", x)
				assert.InDelta(t, x, back, 1e-9, "inverse(forward(%v))", x)
			}
		})
	}
}

func TestSoftplusValues(t *testing.T) {
	t.Parallel()
	sp := Softplus{}
	assert.InDelta(t, math.Log(2), sp.Forward(0), 1e-12)
	assert.InDelta(t, 0, sp.Inverse(math.Log(2)), 1e-12)

	// Softplus output is always positive.
	for _, x := range []float64{-100, -5, 0, 5, 100} {
		assert.Greater(t, sp.Forward(x), 0.0)
	}

	// Large arguments must not overflow and collapse to the identity.
	assert.Equal(t, 100.0, sp.Forward(100))
	assert.Equal(t, 100.0, sp.Inverse(100))
}

func TestExpPositivity(t *testing.T) {
	t.Parallel()
	e := Exp{}
	assert.InDelta(t, 1.0, e.Forward(0), 1e-12)
	assert.InDelta(t, 0.0, e.Inverse(1), 1e-12)
	assert.Greater(t, e.Forward(-40), 0.0)
}
