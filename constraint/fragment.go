package constraint

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/mpcbench/core"
)

// Fragment splits t into depth parts sharing group. Each part carries the
// rule identity and a contiguous share of the required fields, so no part
// compiles alone and only the union restores t. Ref, if any, travels with
// the first part.
//
// depth is capped at the number of required fields of the rule; depth ≤ 1
// returns t unchanged.
// Complexity: O(F) for F required fields.
func Fragment(t core.Tag, depth int, group string) ([]core.Tag, error) {
	const method = "Fragment"
	fields, ok := requiredFields[t.Rule]
	if !ok {
		return nil, fmt.Errorf("%s(%q): %w", method, t.Rule, ErrUnknownRule)
	}
	if depth > len(fields) {
		depth = len(fields)
	}
	if depth <= 1 {
		return []core.Tag{t.Clone()}, nil
	}
	if group == "" {
		return nil, fmt.Errorf("%s(%s): empty group: %w", method, t.Rule, ErrIncompleteFragment)
	}

	parts := make([]core.Tag, depth)
	for i := range parts {
		p := core.Tag{
			Version: t.Version,
			Kind:    t.Kind,
			Rule:    t.Rule,
			Group:   group,
			Part:    i + 1,
			Parts:   depth,
		}
		lo, hi := i*len(fields)/depth, (i+1)*len(fields)/depth
		for _, f := range fields[lo:hi] {
			copyField(&p, t, f)
		}
		parts[i] = p
	}
	parts[0].Ref = t.Ref
	// Optional payload that is not required (work_hours weekdays, task_spec
	// capacity and sort) rides on the last part.
	for _, f := range mergeOrder {
		if f == fieldRef || !hasField(t, f) || slices.Contains(fields, f) {
			continue
		}
		copyField(&parts[depth-1], t, f)
	}
	return parts, nil
}
