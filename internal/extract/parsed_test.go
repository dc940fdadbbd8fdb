package extract

import (
	"reflect"
	"testing"
)

func TestParseResult(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		check   func(t *testing.T, p *ParsedResult)
	}{
		{
			name: "plain json",
			raw:  `{"participants": ["j", "ab"], "expenses": [{"payer": "j", "amount": 200, "description": "food"}], "excluded": []}`,
			check: func(t *testing.T, p *ParsedResult) {
				if !reflect.DeepEqual(p.Participants, []string{"j", "ab"}) {
					t.Errorf("participants = %v", p.Participants)
				}
				if len(p.Expenses) != 1 || p.Expenses[0].Amount != 200 {
					t.Errorf("expenses = %v", p.Expenses)
				}
			},
		},
		{
			name: "code fences stripped",
			raw:  "```json\n{\"participants\": [\"j\", \"ab\"], \"expenses\": [{\"payer\": \"j\", \"amount\": 50, \"description\": \"taxi\"}]}\n```",
			check: func(t *testing.T, p *ParsedResult) {
				if len(p.Participants) != 2 {
					t.Errorf("participants = %v", p.Participants)
				}
			},
		},
		{
			name: "instruction echo stripped",
			raw:  `<s>[INST] extract the data [/INST] {"participants": ["j"], "expenses": [{"payer": "j", "amount": 10, "description": "x"}]}`,
			check: func(t *testing.T, p *ParsedResult) {
				if len(p.Expenses) != 1 {
					t.Errorf("expenses = %v", p.Expenses)
				}
			},
		},
		{
			name: "missing excluded defaults to empty",
			raw:  `{"participants": ["j", "ab"], "expenses": [{"payer": "j", "amount": 20, "description": "pizza"}]}`,
			check: func(t *testing.T, p *ParsedResult) {
				if p.Excluded == nil || len(p.Excluded) != 0 {
					t.Errorf("excluded = %v, want empty slice", p.Excluded)
				}
			},
		},
		{
			name: "payer missing from participants is prepended",
			raw:  `{"participants": ["ab"], "expenses": [{"payer": "j", "amount": 20, "description": "pizza"}], "excluded": []}`,
			check: func(t *testing.T, p *ParsedResult) {
				if !reflect.DeepEqual(p.Participants, []string{"j", "ab"}) {
					t.Errorf("participants = %v, want payer first", p.Participants)
				}
			},
		},
		{
			name: "excluded removed from participants but payer survives",
			raw:  `{"participants": ["j", "cha", "ab"], "expenses": [{"payer": "j", "amount": 100, "description": "food"}], "excluded": ["cha", "j"]}`,
			check: func(t *testing.T, p *ParsedResult) {
				if !reflect.DeepEqual(p.Participants, []string{"j", "ab"}) {
					t.Errorf("participants = %v, want [j ab]", p.Participants)
				}
			},
		},
		{
			name: "names normalized",
			raw:  `{"participants": [" J", "Sohithi "], "expenses": [{"payer": "J", "amount": 900, "description": "shopping"}], "excluded": ["John"]}`,
			check: func(t *testing.T, p *ParsedResult) {
				if !reflect.DeepEqual(p.Participants, []string{"j", "sohithi"}) {
					t.Errorf("participants = %v", p.Participants)
				}
				if !reflect.DeepEqual(p.Excluded, []string{"john"}) {
					t.Errorf("excluded = %v", p.Excluded)
				}
				if p.Expenses[0].Payer != "j" {
					t.Errorf("payer = %q, want %q", p.Expenses[0].Payer, "j")
				}
			},
		},
		{
			name:    "not json",
			raw:     "Sure! Here are the participants you asked about.",
			wantErr: true,
		},
		{
			name:    "no participants",
			raw:     `{"participants": [], "expenses": [{"payer": "j", "amount": 1, "description": "x"}]}`,
			wantErr: true,
		},
		{
			name:    "no expenses",
			raw:     `{"participants": ["j"], "expenses": []}`,
			wantErr: true,
		},
		{
			name:    "expense without payer",
			raw:     `{"participants": ["j"], "expenses": [{"payer": "", "amount": 1, "description": "x"}]}`,
			wantErr: true,
		},
		{
			name:    "negative amount",
			raw:     `{"participants": ["j", "ab"], "expenses": [{"payer": "j", "amount": -5, "description": "x"}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseResult(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseResult() = %+v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseResult() error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}
