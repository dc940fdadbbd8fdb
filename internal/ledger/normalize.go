// Package ledger implements the expense-splitting core: normalizing an
// extracted scenario into a consistent participant/exclusion ledger,
// computing per-participant net balances, and reducing balances to a small
// set of settling payments.
package ledger

import (
	"errors"
	"strings"

	"github.com/jsreddy/splitscenario/internal/extract"
)

// ErrNoSharers indicates that after applying exclusions, nobody is left to
// split any expense with.
var ErrNoSharers = errors.New("no one to share the expense with after exclusions")

// Normalized is the canonical participant and exclusion set for one scenario.
type Normalized struct {
	// Participants is the effective participant set: the primary payer
	// plus every extracted participant not excluded, normalized and
	// deduplicated, in first-seen order.
	Participants []string

	// Excluded is the final exclusion list applied to every expense.
	Excluded []string
}

// Normalize reconciles the extraction result with the caller's own exclusion
// list into one canonical ledger.
//
// The extraction's exclusion list wins when non-empty; otherwise the
// caller-chosen exclusions apply. The primary payer (payer of the first
// expense) is always part of the effective participant set, even if named in
// the exclusion list: a payer who fronted money must appear in the ledger to
// be reimbursed. Exclusion of the payer from sharing still happens downstream
// in the balance engine.
//
// Normalize never fails; callers must treat Normalized.Sharers() == 0 as a
// degenerate scenario.
func Normalize(parsed *extract.ParsedResult, bodyExcluded []string) Normalized {
	finalExcluded := parsed.Excluded
	if len(finalExcluded) == 0 {
		finalExcluded = bodyExcluded
	}

	excluded := make([]string, 0, len(finalExcluded))
	excludedSet := make(map[string]bool, len(finalExcluded))
	for _, name := range finalExcluded {
		name = canonical(name)
		if name == "" || excludedSet[name] {
			continue
		}
		excludedSet[name] = true
		excluded = append(excluded, name)
	}

	var payer string
	if len(parsed.Expenses) > 0 {
		payer = canonical(parsed.Expenses[0].Payer)
	}

	var participants []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		participants = append(participants, name)
	}

	// Payer first, unconditionally.
	add(payer)
	for _, p := range parsed.Participants {
		p = canonical(p)
		if excludedSet[p] {
			continue
		}
		add(p)
	}

	return Normalized{Participants: participants, Excluded: excluded}
}

// Sharers returns how many effective participants are not excluded, i.e. how
// many people could be charged a share.
func (n Normalized) Sharers() int {
	excluded := make(map[string]bool, len(n.Excluded))
	for _, e := range n.Excluded {
		excluded[e] = true
	}
	count := 0
	for _, p := range n.Participants {
		if !excluded[p] {
			count++
		}
	}
	return count
}

// canonical trims and lower-cases a name for matching.
func canonical(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
