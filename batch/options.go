// SPDX-License-Identifier: MIT

package batch

import (
	"runtime"

	"github.com/katalvlaran/mpcbench/logging"
)

// Option customizes Run.
type Option func(*runConfig)

type runConfig struct {
	workers int
	log     *logging.Logger
}

func defaultRunConfig() runConfig {
	return runConfig{workers: runtime.GOMAXPROCS(0), log: logging.Nop()}
}

// WithWorkers bounds the number of instances generated at once.
// Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("batch: WithWorkers(n<1)")
	}
	return func(c *runConfig) {
		c.workers = n
	}
}

// WithLogger logs per-instance failures and the batch summary.
// Panics on nil.
func WithLogger(l *logging.Logger) Option {
	if l == nil {
		panic("batch: WithLogger(nil)")
	}
	return func(c *runConfig) {
		c.log = l
	}
}
