package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/jsreddy/splitscenario/internal/models"
)

// ParsedResult is the structured expense data extracted from one
// natural-language description. It lives only for the duration of a single
// scenario-creation request and is never persisted.
type ParsedResult struct {
	Participants []string         `json:"participants"`
	Expenses     []models.Expense `json:"expenses"`
	Excluded     []string         `json:"excluded"`
}

var (
	// Prompt echo some instruct models prepend to their output.
	instEchoRe = regexp.MustCompile(`(?is)^<s>\[INST\].*?\[/INST\]\s*`)
	codeFence  = regexp.MustCompile("```(?:json)?\n?")
)

// parseResult strips prompt-echo and code-fence markup from a raw model
// response, parses it as JSON, and validates it against the ParsedResult
// contract. Oracle output is untrusted: any field violating its contract is a
// rejection, never a silent coercion.
func parseResult(raw string) (*ParsedResult, error) {
	text := strings.TrimSpace(raw)
	text = instEchoRe.ReplaceAllString(text, "")
	text = codeFence.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	var parsed ParsedResult
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("oracle output is not valid JSON: %w", err)
	}

	if len(parsed.Participants) == 0 {
		return nil, fmt.Errorf("no participants extracted")
	}
	if len(parsed.Expenses) == 0 {
		return nil, fmt.Errorf("no expenses extracted")
	}
	for i, exp := range parsed.Expenses {
		if strings.TrimSpace(exp.Payer) == "" {
			return nil, fmt.Errorf("expense %d has no payer", i+1)
		}
		if exp.Amount < 0 {
			return nil, fmt.Errorf("expense %d has negative amount %v", i+1, exp.Amount)
		}
	}
	if parsed.Excluded == nil {
		parsed.Excluded = []string{}
	}

	parsed.normalize()
	return &parsed, nil
}

// normalize enforces the post-extraction invariants: every payer appears in
// the participant list (first expense's payer first), excluded names are
// removed from participants without ever dropping the primary payer, and all
// names are trimmed, lower-cased and deduplicated.
func (p *ParsedResult) normalize() {
	for i := range p.Expenses {
		p.Expenses[i].Payer = canonicalName(p.Expenses[i].Payer)
		p.Expenses[i].Description = strings.TrimSpace(p.Expenses[i].Description)
	}
	for i, name := range p.Participants {
		p.Participants[i] = canonicalName(name)
	}
	for i, name := range p.Excluded {
		p.Excluded[i] = canonicalName(name)
	}

	// Models sometimes forget to list a payer as a participant.
	for _, exp := range p.Expenses {
		if !contains(p.Participants, exp.Payer) {
			p.Participants = append([]string{exp.Payer}, p.Participants...)
		}
	}

	// Honor explicit exclusions, but the primary payer must survive them
	// here; a payer can only be excluded from sharing, not from the ledger.
	if len(p.Excluded) > 0 {
		kept := p.Participants[:0]
		for _, name := range p.Participants {
			if !contains(p.Excluded, name) {
				kept = append(kept, name)
			}
		}
		p.Participants = kept

		payer := p.Expenses[0].Payer
		if !contains(p.Participants, payer) {
			p.Participants = append([]string{payer}, p.Participants...)
		}
	}

	p.Participants = dedupe(p.Participants)
	p.Excluded = dedupe(p.Excluded)
}

func canonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
