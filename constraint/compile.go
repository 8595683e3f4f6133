package constraint

import (
	"fmt"
	"time"

	"github.com/katalvlaran/mpcbench/core"
)

// CompileOption customizes Compile.
type CompileOption func(*compileConfig)

type compileConfig struct {
	lenient bool
}

// Lenient drops rules that cannot be completed (missing or conflicting
// fragments, incomplete tags) instead of failing. A reader that sees only
// part of a fragment group therefore eliminates nothing through it.
func Lenient() CompileOption {
	return func(c *compileConfig) {
		c.lenient = true
	}
}

// group collects the parts of one fragment group in arrival order.
type group struct {
	parts   map[int]core.Tag
	origins []Origin
	dup     bool
}

// Compile turns the tagged entries into rules, in first-appearance order.
// Untagged entries are skipped. Fragment groups compile once, as the
// conjunction of all their parts, at the position of their first part.
//
// Steps:
//  1. Walk entries; complete tags compile immediately.
//  2. Fragmented tags are buffered per Group.
//  3. Each group is checked for missing, duplicate and conflicting parts,
//     merged and compiled.
//
// Complexity: O(E·F) for E entries and F payload fields.
func Compile(entries []core.SourcedEntry, loc *time.Location, opts ...CompileOption) ([]Rule, error) {
	const method = "Compile"
	var cfg compileConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	type slot struct {
		rule  *Rule
		group string
	}
	var order []slot
	groups := make(map[string]*group)

	for _, se := range entries {
		if !se.Entry.Tagged() {
			continue
		}
		t := *se.Entry.Tag
		origin := Origin{Source: se.Source, Artifact: se.Artifact, EntryID: se.Entry.ID}
		if t.Fragmented() {
			g, ok := groups[t.Group]
			if !ok {
				g = &group{parts: make(map[int]core.Tag, t.Parts)}
				groups[t.Group] = g
				order = append(order, slot{group: t.Group})
			}
			if _, seen := g.parts[t.Part]; seen {
				g.dup = true
			}
			g.parts[t.Part] = t
			g.origins = append(g.origins, origin)
			continue
		}
		r, err := NewRule(t, loc, origin)
		if err != nil {
			if cfg.lenient {
				continue
			}
			return nil, fmt.Errorf("%s(entry %s): %w", method, se.Entry.ID, err)
		}
		order = append(order, slot{rule: &r})
	}

	rules := make([]Rule, 0, len(order))
	for _, s := range order {
		if s.rule != nil {
			rules = append(rules, *s.rule)
			continue
		}
		r, err := assemble(s.group, groups[s.group], loc)
		if err != nil {
			if cfg.lenient {
				continue
			}
			return nil, fmt.Errorf("%s: %w", method, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// assemble joins the parts of one group into a rule.
func assemble(name string, g *group, loc *time.Location) (Rule, error) {
	first, ok := g.parts[1]
	if !ok {
		return Rule{}, fmt.Errorf("assemble(group %q): part 1 missing: %w", name, ErrIncompleteFragment)
	}
	if g.dup || len(g.parts) != first.Parts {
		return Rule{}, fmt.Errorf("assemble(group %q): have %d distinct parts of %d (duplicate=%t): %w",
			name, len(g.parts), first.Parts, g.dup, ErrIncompleteFragment)
	}
	acc := first.Clone()
	for i := 2; i <= first.Parts; i++ {
		part, ok := g.parts[i]
		if !ok {
			return Rule{}, fmt.Errorf("assemble(group %q): part %d missing: %w", name, i, ErrIncompleteFragment)
		}
		if err := merge(&acc, part); err != nil {
			return Rule{}, err
		}
	}
	return NewRule(acc, loc, g.origins...)
}
