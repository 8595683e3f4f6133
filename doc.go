// Package mpcbench generates constrained meeting-scheduling puzzles and
// computes their gold answers with a deterministic oracle.
//
// What is mpcbench?
//
//	A benchmark generator for multi-source planning agents:
//		• Worlds: a fixed roster, policy skeletons and (level 3) rooms
//		• Instances: a task, a candidate grid, canonical slots and distractors
//		  eliminated by constraints spread over heterogeneous sources
//		• Oracle: recomputes gold from embedded tags alone, never from prose
//		• Quality gate: discards and resamples instances that break an invariant
//		• Scorer: set-overlap precision, recall and F1 against gold
//
// Levels:
//
//   - Level 1: calendars and a JSON policy.
//   - Level 2: adds threads, mail and documents with fragmented,
//     cross-referenced constraints.
//   - Level 3: adds a people-table join and room availability tables.
//
// Under the hood the work is split into packages, leaves first:
//
//	core/         data model: levels, slots, tags, entries, sources, labels
//	grid/         candidate universe on a fixed step grid
//	config/       immutable configuration, YAML loading and validation
//	logging/      zap-backed structured logging
//	world/        world builder
//	constraint/   tag compilation, fragment assembly, rule sets, templates
//	render/       prose renderers (templates, OpenAI, fallback chain)
//	allocate/     canonical and distractor placement
//	materialize/  per-source artifacts with embedded tags
//	oracle/       gold computation and invariant verification
//	gate/         bounded retry state machine
//	metrics/      Prometheus counters and textfile export
//	store/        flat-file persistence
//	batch/        parallel batch driver
//	score/        F1 scorer
//	cmd/mpcbench  CLI
//
// Quick start:
//
//	go run ./cmd/mpcbench generate --level 2 --count 50 --suffix dev
//	go run ./cmd/mpcbench score --level 2 --suffix dev --predictions preds.jsonl
package mpcbench
