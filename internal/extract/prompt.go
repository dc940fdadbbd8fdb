package extract

import (
	"fmt"
	"strings"
)

// buildPrompt constructs the single instruction sent to the oracle. The rules
// and few-shot examples keep small instruct models on the fixed JSON shape:
// payer always listed first among participants, exclusions only on explicit
// phrases.
func buildPrompt(input, currency string, knownParticipants []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are an AI that extracts structured expense data from natural language, even if abbreviated.
All amounts are in %s. Do NOT include symbols.
Include ALL people mentioned as participants, INCLUDING the payer (e.g., if "j paid with ab", participants must be ["j", "ab"]).
Do NOT omit the payer. Always add them to the participants array FIRST.
Use names as-is (e.g., 'j' is valid). Make participants unique.
EXCLUDED: STRICTLY extract ONLY if the input explicitly mentions excluding someone (e.g., "exclude john", "without bob", "opt out alice", "john not included"). If no such phrase, set to empty array []. Never assume exclusions. Payer cannot be excluded unless explicitly stated.

IMPORTANT: Output EXACTLY this JSON structure, no extra text:
{
  "participants": ["payer_name", "name2", ...],
  "expenses": [{"payer": "payer_name", "amount": 20, "description": "pizza"}, ...],
  "excluded": ["excluded_name1"]
}

Examples:
Input: "j paid 200 for food with ab"
Output: {"participants": ["j", "ab"], "expenses": [{"payer": "j", "amount": 200, "description": "food"}], "excluded": []}

Input: "j paid 2000 for food with cha, ab"
Output: {"participants": ["j", "cha", "ab"], "expenses": [{"payer": "j", "amount": 2000, "description": "food"}], "excluded": []}

Input: "j paid 2000 for food with cha, ab, exclude john"
Output: {"participants": ["j", "cha", "ab"], "expenses": [{"payer": "j", "amount": 2000, "description": "food"}], "excluded": ["john"]}

Input: "j paid 900 for shopping with Sohithi, exclude John"
Output: {"participants": ["j", "Sohithi"], "expenses": [{"payer": "j", "amount": 900, "description": "shopping"}], "excluded": ["John"]}

Input: "j paid 1500 for travel with team, without bob"
Output: {"participants": ["j", "team"], "expenses": [{"payer": "j", "amount": 1500, "description": "travel"}], "excluded": ["bob"]}

Now process this input exactly: %q`, currency, input)

	if len(knownParticipants) > 0 {
		fmt.Fprintf(&b, "\nKnown participants: %s. Use these or extract from input.", strings.Join(knownParticipants, ", "))
	}

	return fmt.Sprintf("<s>[INST] %s [/INST]", b.String())
}
