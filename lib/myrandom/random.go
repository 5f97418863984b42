package myrandom

import (
	"math/rand"
	"time"
)

// Chancer hides the source of randomness so that probabilistic business
// rules can be pinned down in tests.
//
//go:generate mockgen -source=random.go -package myrandom -destination chancer_mock.go Chancer
type Chancer interface {
	// Draw returns a uniformly distributed value in [0.0, 1.0)
	Draw() float64
}

type realChancer struct {
	r *rand.Rand
}

func New() Chancer {
	return &realChancer{
		r: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *realChancer) Draw() float64 {
	return c.r.Float64()
}
