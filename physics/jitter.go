package physics

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// jitterStep keeps successive samples off the noise lattice.
const jitterStep = 0.618033988749895

// Perturber supplies rotation angles used to break ties when two nodes sit
// on exactly the same point.
type Perturber interface {
	Angle() float64
}

// Jitter is a seeded Perturber backed by simplex noise. Two Jitters built
// from the same seed yield the same sequence of angles.
type Jitter struct {
	noise opensimplex.Noise
	seed  int64
	t     float64
}

// NewJitter creates a Jitter seeded with seed.
func NewJitter(seed int64) *Jitter {
	return &Jitter{
		noise: opensimplex.NewNormalized(seed),
		seed:  seed,
	}
}

// Seed returns the seed the Jitter was built from.
func (j *Jitter) Seed() int64 {
	return j.seed
}

// Angle returns the next angle in [0, 2π).
func (j *Jitter) Angle() float64 {
	n := j.noise.Eval2(j.t, float64(j.seed%1024))
	j.t += jitterStep
	return math.Mod(n*2*math.Pi, 2*math.Pi)
}
