// SPDX-License-Identifier: MIT

package allocate

import "github.com/katalvlaran/mpcbench/core"

// Option customizes Allocate.
type Option func(*allocConfig)

type allocConfig struct {
	difficulty *core.Difficulty
	policyID   string
}

// WithDifficulty overrides the level's difficulty profile. A zero N keeps
// the drawn N.
func WithDifficulty(d core.Difficulty) Option {
	return func(c *allocConfig) {
		c.difficulty = &d
	}
}

// WithPolicy pins the policy skeleton instead of drawing one. Panics on an
// empty id.
func WithPolicy(id string) Option {
	if id == "" {
		panic("allocate: WithPolicy(\"\")")
	}
	return func(c *allocConfig) {
		c.policyID = id
	}
}
