package store

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/katalvlaran/mpcbench/core"
)

// WriteWorld stores w at l.WorldPath().
func WriteWorld(l Layout, w *core.World) error {
	if err := writeJSON(l.WorldPath(), w); err != nil {
		return fmt.Errorf("WriteWorld: %w", err)
	}
	return nil
}

// ReadWorld loads the world at path. Times are moved back into the world's
// fixed zone.
func ReadWorld(path string) (*core.World, error) {
	var w core.World
	if err := readJSON(path, &w); err != nil {
		return nil, fmt.Errorf("ReadWorld: %w", err)
	}
	loc := w.Location()
	w.Start, w.End = w.Start.In(loc), w.End.In(loc)
	return &w, nil
}

// WriteBatch stores the artifacts of every instance, then the instance and
// label JSONL files. labels[i] must belong to insts[i]. It fills
// SourcesRef on each instance.
// Complexity: O(total entries).
func WriteBatch(l Layout, insts []*core.Instance, labels []*core.Label) error {
	const method = "WriteBatch"
	if len(insts) != len(labels) {
		return fmt.Errorf("%s: %d instances, %d labels: %w", method, len(insts), len(labels), ErrMismatch)
	}
	for i, inst := range insts {
		if labels[i] == nil || labels[i].InstanceID != inst.ID {
			return fmt.Errorf("%s: label %d does not belong to %s: %w", method, i, inst.ID, ErrMismatch)
		}
		if err := writeArtifacts(l, inst); err != nil {
			return fmt.Errorf("%s(%s): %w", method, inst.ID, err)
		}
	}
	if err := writeJSONL(l.InstancesPath(), insts); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	if err := writeJSONL(l.LabelsPath(), labels); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

func writeArtifacts(l Layout, inst *core.Instance) error {
	inst.SourcesRef = make(map[core.Source]string)
	for _, src := range sourcesOf(inst.Level) {
		ref := ArtifactRef(inst.ID, src)
		if err := writeJSON(filepath.Join(l.Dir, filepath.FromSlash(ref)), artifact(&inst.Sources, src)); err != nil {
			return err
		}
		inst.SourcesRef[src] = ref
	}
	return nil
}

// artifact returns the part of s stored under src.
func artifact(s *core.Sources, src core.Source) any {
	switch src {
	case core.SourceCalendar:
		return &s.Calendars
	case core.SourcePolicy:
		return &s.Policy
	case core.SourceThread:
		return &s.Threads
	case core.SourceMail:
		return &s.Mail
	case core.SourceDocument:
		return &s.Documents
	case core.SourceRooms:
		return &s.Rooms
	}
	return nil
}

// ReadInstances loads l.InstancesPath() and re-attaches each instance's
// Sources from its artifacts.
// Complexity: O(total file size).
func ReadInstances(l Layout) ([]*core.Instance, error) {
	const method = "ReadInstances"
	insts, err := ReadJSONL[*core.Instance](l.InstancesPath())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	for _, inst := range insts {
		if err = readArtifacts(l, inst); err != nil {
			return nil, fmt.Errorf("%s(%s): %w", method, inst.ID, err)
		}
	}
	return insts, nil
}

func readArtifacts(l Layout, inst *core.Instance) error {
	srcs := make([]core.Source, 0, len(inst.SourcesRef))
	for src := range inst.SourcesRef {
		srcs = append(srcs, src)
	}
	sort.Slice(srcs, func(i, j int) bool { return srcs[i] < srcs[j] })

	for _, src := range srcs {
		dst := artifact(&inst.Sources, src)
		if dst == nil {
			return fmt.Errorf("unknown source %q: %w", src, ErrCorrupt)
		}
		path := filepath.Join(l.Dir, filepath.FromSlash(inst.SourcesRef[src]))
		if err := readJSON(path, dst); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%s: %w", inst.SourcesRef[src], ErrMissingArtifact)
			}
			return err
		}
	}
	return nil
}

// WriteLabels replaces l.LabelsPath() with labels.
func WriteLabels(l Layout, labels []*core.Label) error {
	if err := writeJSONL(l.LabelsPath(), labels); err != nil {
		return fmt.Errorf("WriteLabels: %w", err)
	}
	return nil
}

// ReadLabels loads l.LabelsPath().
func ReadLabels(l Layout) ([]*core.Label, error) {
	labels, err := ReadJSONL[*core.Label](l.LabelsPath())
	if err != nil {
		return nil, fmt.Errorf("ReadLabels: %w", err)
	}
	return labels, nil
}
