package module

import (
	"fmt"
	"slices"
	"strings"

	"github.com/modu-ai/ccscaffold/internal/prompt"
)

// DisabledModule is a module that cannot be picked because an alternative
// is already selected.
type DisabledModule struct {
	Module        Definition
	ConflictsWith []string
}

// Conflict is one unordered pair of selected modules that exclude each other.
type Conflict struct {
	Selected      string
	ConflictsWith string
}

// String renders the pair for error messages.
func (c Conflict) String() string {
	return fmt.Sprintf("%s conflicts with %s", c.Selected, c.ConflictsWith)
}

// ExclusivityGroup is a set of modules that are pairwise alternatives,
// directly or through other members.
type ExclusivityGroup struct {
	ID      string
	Members []string
}

// ChoiceOptions tunes CreateChoicesWithExclusivity.
type ChoiceOptions struct {
	// Preselected ids are checked when they do not conflict.
	Preselected []string
	// ShowConflictReason switches the disabled reason to "Conflicts with: X".
	ShowConflictReason bool
}

// GetConflictingSelections returns the entries of m.AlternativeTo that are
// present in selected, in declaration order.
func GetConflictingSelections(m Definition, selected []string) []string {
	if len(m.AlternativeTo) == 0 {
		return nil
	}
	sel := toSet(selected)
	var out []string
	for _, alt := range m.AlternativeTo {
		if sel[alt] && !slices.Contains(out, alt) {
			out = append(out, alt)
		}
	}
	return out
}

// FilterByMutualExclusivity splits modules into those that can still be
// picked and those excluded by the current selection. Alternatives are
// consulted in both directions, so a module is disabled when it names a
// selected module or a selected module names it.
func FilterByMutualExclusivity(modules []Definition, selected []string) ([]Definition, []DisabledModule) {
	sel := toSet(selected)
	reverse := reverseAlternatives(modules)

	var available []Definition
	var disabled []DisabledModule
	for _, m := range modules {
		if conflicts := conflictsFor(m, selected, sel, reverse); len(conflicts) > 0 {
			disabled = append(disabled, DisabledModule{Module: m, ConflictsWith: conflicts})
			continue
		}
		available = append(available, m)
	}
	return available, disabled
}

// CreateChoicesWithExclusivity builds prompt choices for modules. A module
// conflicting with the selection is disabled with a reason; other modules
// are checked when they are selected or preselected.
func CreateChoicesWithExclusivity(modules []Definition, selected []string, opts ChoiceOptions) []prompt.Choice {
	sel := toSet(selected)
	pre := toSet(opts.Preselected)
	reverse := reverseAlternatives(modules)
	byID := index(modules)

	choices := make([]prompt.Choice, 0, len(modules))
	for _, m := range modules {
		c := prompt.Choice{
			Label:       m.DisplayName(),
			Value:       m.ID,
			Description: m.Description,
		}
		if conflicts := conflictsFor(m, selected, sel, reverse); len(conflicts) > 0 {
			names := make([]string, len(conflicts))
			for i, id := range conflicts {
				names[i] = displayName(byID, id)
			}
			c.Disabled = true
			if opts.ShowConflictReason {
				c.Reason = "Conflicts with: " + strings.Join(names, ", ")
			} else {
				c.Reason = fmt.Sprintf("alternative to %s (already selected)", strings.Join(names, ", "))
			}
		} else {
			c.Checked = sel[m.ID] || pre[m.ID]
		}
		choices = append(choices, c)
	}
	return choices
}

// ValidateNoConflicts returns every unordered pair of selected ids that
// exclude each other, each pair once, in selection order. Ids missing from
// all are ignored.
func ValidateNoConflicts(selected []string, all []Definition) []Conflict {
	byID := index(all)
	sel := toSet(selected)

	seen := make(map[[2]string]bool)
	var out []Conflict
	for _, id := range selected {
		m, ok := byID[id]
		if !ok {
			continue
		}
		for _, alt := range m.AlternativeTo {
			if !sel[alt] || alt == id {
				continue
			}
			key := pairKey(id, alt)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Conflict{Selected: id, ConflictsWith: alt})
		}
	}
	return out
}

// @MX:ANCHOR: [AUTO] GroupByExclusivity computes the exclusivity equivalence classes
// @MX:REASON: [AUTO] fan_in=3, called from cli/list.go, registry_test.go, exclusivity_test.go
// GroupByExclusivity returns the transitive closure of the alternativeTo
// relation, treated as undirected. Only groups of two or more members are
// returned. Members are sorted, the group id is "exclusive-" followed by the
// first member, and groups are ordered by id.
func GroupByExclusivity(modules []Definition) []ExclusivityGroup {
	byID := index(modules)

	adj := make(map[string][]string, len(modules))
	for _, m := range modules {
		for _, alt := range m.AlternativeTo {
			if _, ok := byID[alt]; !ok {
				continue
			}
			adj[m.ID] = append(adj[m.ID], alt)
			adj[alt] = append(adj[alt], m.ID)
		}
	}

	processed := make(map[string]bool, len(modules))
	var groups []ExclusivityGroup
	for _, m := range modules {
		if processed[m.ID] {
			continue
		}
		members := map[string]bool{}
		work := []string{m.ID}
		for len(work) > 0 {
			id := work[len(work)-1]
			work = work[:len(work)-1]
			if processed[id] {
				continue
			}
			processed[id] = true
			members[id] = true
			for _, n := range adj[id] {
				if !processed[n] {
					work = append(work, n)
				}
			}
		}
		if len(members) < 2 {
			continue
		}
		ids := make([]string, 0, len(members))
		for id := range members {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		groups = append(groups, ExclusivityGroup{ID: "exclusive-" + ids[0], Members: ids})
	}

	slices.SortFunc(groups, func(a, b ExclusivityGroup) int { return strings.Compare(a.ID, b.ID) })
	return groups
}

// GetExclusivityGroupDescription describes a group for display:
// "A and B are alternatives (choose one)" for two members and
// "Choose one from: A, B, C" otherwise. Names are sorted; members missing
// from all are left out.
func GetExclusivityGroupDescription(members []string, all []Definition) string {
	byID := index(all)
	names := make([]string, 0, len(members))
	for _, id := range members {
		if m, ok := byID[id]; ok {
			names = append(names, m.DisplayName())
		}
	}
	slices.Sort(names)

	if len(names) == 2 {
		return fmt.Sprintf("%s and %s are alternatives (choose one)", names[0], names[1])
	}
	return "Choose one from: " + strings.Join(names, ", ")
}

// conflictsFor lists the selected ids excluding m: first those m names, in
// declaration order, then those naming m, in selection order.
func conflictsFor(m Definition, selected []string, sel map[string]bool, reverse map[string][]string) []string {
	out := GetConflictingSelections(m, selected)
	named := toSet(reverse[m.ID])
	for _, id := range selected {
		if named[id] && sel[id] && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// reverseAlternatives maps a module id to the ids of modules naming it in
// their alternativeTo.
func reverseAlternatives(modules []Definition) map[string][]string {
	rev := make(map[string][]string)
	for _, m := range modules {
		for _, alt := range m.AlternativeTo {
			rev[alt] = append(rev[alt], m.ID)
		}
	}
	return rev
}

func index(modules []Definition) map[string]Definition {
	byID := make(map[string]Definition, len(modules))
	for _, m := range modules {
		byID[m.ID] = m
	}
	return byID
}

func displayName(byID map[string]Definition, id string) string {
	if m, ok := byID[id]; ok {
		return m.DisplayName()
	}
	return id
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}
