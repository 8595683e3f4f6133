// SPDX-License-Identifier: MIT

package gate

import (
	"github.com/katalvlaran/mpcbench/logging"
	"github.com/katalvlaran/mpcbench/metrics"
)

// DefaultMaxAttempts bounds the loop when no option sets it.
const DefaultMaxAttempts = 8

// Option customizes New.
type Option func(*Gate)

// WithMaxAttempts sets the attempt bound. Panics if n < 1.
func WithMaxAttempts(n int) Option {
	if n < 1 {
		panic("gate: WithMaxAttempts(n<1)")
	}
	return func(g *Gate) {
		g.maxAttempts = n
	}
}

// WithLogger logs every transition. Panics on nil.
func WithLogger(l *logging.Logger) Option {
	if l == nil {
		panic("gate: WithLogger(nil)")
	}
	return func(g *Gate) {
		g.log = l
	}
}

// WithRecorder counts attempts and retries. Panics on nil.
func WithRecorder(r *metrics.Recorder) Option {
	if r == nil {
		panic("gate: WithRecorder(nil)")
	}
	return func(g *Gate) {
		g.rec = r
	}
}
