// SPDX-License-Identifier: MIT

package world

import (
	"math/rand"

	"github.com/katalvlaran/mpcbench/core"
)

// Option customizes Build.
// Complexity: applying N options costs O(N).
type Option func(*buildConfig)

type buildConfig struct {
	rng *rand.Rand
	id  string
}

// WithSeed seeds the RNG used for baseline room bookings.
func WithSeed(seed int64) Option {
	return func(c *buildConfig) {
		c.rng = core.NewRand(seed)
	}
}

// WithRand provides an explicit RNG. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("world: WithRand(nil)")
	}
	return func(c *buildConfig) {
		c.rng = r
	}
}

// WithID overrides the world id. Panics on an empty id.
func WithID(id string) Option {
	if id == "" {
		panic("world: WithID(\"\")")
	}
	return func(c *buildConfig) {
		c.id = id
	}
}

// newBuildConfig applies options over deterministic defaults.
func newBuildConfig(level core.Level, opts ...Option) buildConfig {
	c := buildConfig{id: "world_" + level.String()}
	for _, opt := range opts {
		opt(&c)
	}
	if c.rng == nil {
		c.rng = core.NewRand(core.DefaultSeed)
	}
	return c
}
