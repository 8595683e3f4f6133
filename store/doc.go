// Package store persists worlds, instances, labels and per-source artifacts
// as flat files, and loads them back.
//
// What:
//
//   - Layout names every file of one (level, suffix) run under a root dir:
//     world_level{L}_{suffix}.json, instances_level{L}_{suffix}.jsonl,
//     oracle_level{L}_{suffix}.jsonl, metrics_level{L}_{suffix}.prom and
//     artifacts/{instance_id}/{calendar,policy,threads,mail,documents,rooms}.json.
//   - WriteWorld / ReadWorld store the immutable world fixture.
//   - WriteBatch stores accepted (instance, label) pairs in the given order:
//     artifacts first, then one JSONL line per instance (with sources_ref
//     filled) and per label.
//   - WriteLabels rewrites the label file alone (relabelling).
//   - ReadInstances reads instances back and re-attaches their Sources from
//     the artifact files; ReadLabels reads labels.
//
// Why:
//
//   - Instances and labels are separate files so an agent harness can ship
//     instances without gold. Sources live in per-source artifacts because
//     agents consult them one tool call at a time.
//
// Every file is written to a temporary sibling and renamed into place, so
// readers never observe a partial file.
//
// Errors:
//
//   - ErrMissingArtifact: sources_ref names a file that does not exist.
//   - ErrCorrupt: a JSON or JSONL record cannot be decoded.
//   - ErrMismatch: WriteBatch got labels that do not pair with instances.
package store
