// Package pass implements the rule filter (C4) and the pass driver (C7):
// the glue that ties the property calculator, port-assignment engine and
// tiling engine together into one pass over a design's memory cells.
package pass

import (
	"fmt"

	"github.com/daedaleanai/brammap/internal/assign"
	"github.com/daedaleanai/brammap/internal/netlist"
	"github.com/daedaleanai/brammap/internal/props"
	"github.com/daedaleanai/brammap/internal/rules"
	"github.com/daedaleanai/brammap/internal/tile"
	"github.com/daedaleanai/brammap/log"
	"github.com/daedaleanai/brammap/util"
)

// ConfigError is a fatal, pass-wide configuration mistake: a match rule
// naming an undefined BRAM or an unknown property.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return e.Reason }

func configError(format string, a ...interface{}) error {
	return &ConfigError{Reason: fmt.Sprintf(format, a...)}
}

// blacklist remembers, for a single memory, which descriptor names have
// already failed the assignment engine: an earlier MappingFailure means the
// descriptor is structurally incompatible with this memory, not merely
// outside the rule's thresholds, so it is never retried (§4.3).
type blacklist map[string]bool

// accepts reports whether a match rule's thresholds are satisfied by
// withWaste. A non-nil error means the rule references an unknown property
// and is always fatal, regardless of the boolean result.
func accepts(rule rules.MatchRule, withWaste util.OrderedMap[string, int]) (bool, error) {
	for _, l := range rule.MinLimits {
		v, ok := withWaste.Lookup(l.Prop)
		if !ok {
			return false, configError("unknown property %q referenced by match %q", l.Prop, rule.Name)
		}
		if v < l.Value {
			return false, nil
		}
	}
	for _, l := range rule.MaxLimits {
		v, ok := withWaste.Lookup(l.Prop)
		if !ok {
			return false, configError("unknown property %q referenced by match %q", l.Prop, rule.Name)
		}
		if v > l.Value {
			return false, nil
		}
	}
	return true, nil
}

// tryMemory runs C3 through C6 against one memory cell: it walks the match
// rules in declaration order, skipping blacklisted descriptors, and commits
// the netlist rewrite for the first rule whose thresholds and assignment
// both succeed.
func tryMemory(lib *rules.Library, mod *netlist.Module, cell *netlist.Cell, mem *netlist.MemInfo) (bool, error) {
	base := props.Base(mem)
	seen := blacklist{}

	for _, rule := range lib.Matches {
		bram, ok := lib.Bram(rule.Name)
		if !ok {
			return false, configError("match rule references undefined bram %q", rule.Name)
		}
		if seen[bram.Name] {
			continue
		}

		withWaste := props.WithWaste(base, bram)
		ok2, err := accepts(rule, withWaste)
		if err != nil {
			return false, err
		}
		if !ok2 {
			continue
		}

		log.Log("Checking bram %s: rule %q matches.\n", bram.Name, rule.Name)
		log.IndentationLevel++
		attempt, err := assign.Assign(bram, mem)
		log.IndentationLevel--
		if err != nil {
			if mf, ok := err.(*assign.MappingFailure); ok {
				log.Debug("Bram %s rejected: %s.\n", bram.Name, mf.Reason)
				seen[bram.Name] = true
				continue
			}
			return false, err
		}

		log.IndentationLevel++
		tile.Commit(mod, cell, mem, bram, attempt)
		log.IndentationLevel--
		return true, nil
	}
	return false, nil
}
