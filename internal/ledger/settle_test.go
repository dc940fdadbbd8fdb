package ledger

import (
	"math"
	"testing"

	"github.com/jsreddy/splitscenario/internal/models"
)

// replay applies settlements back onto balances: each payment moves the
// debtor toward zero and reduces what the creditor is owed.
func replay(balances []models.Balance, settlements []models.Settlement) map[string]float64 {
	m := balanceMap(balances)
	for _, s := range settlements {
		m[s.From] += s.Amount
		m[s.To] -= s.Amount
	}
	return m
}

func TestReduceToSettlements(t *testing.T) {
	tests := []struct {
		name     string
		balances []models.Balance
		want     []models.Settlement
	}{
		{
			name: "single debtor single creditor",
			balances: []models.Balance{
				{Name: "j", Balance: 100},
				{Name: "ab", Balance: -100},
			},
			want: []models.Settlement{{From: "ab", To: "j", Amount: 100}},
		},
		{
			name: "one creditor two debtors",
			balances: []models.Balance{
				{Name: "j", Balance: 1333.34},
				{Name: "cha", Balance: -666.67},
				{Name: "ab", Balance: -666.67},
			},
			want: []models.Settlement{
				{From: "cha", To: "j", Amount: 666.67},
				{From: "ab", To: "j", Amount: 666.67},
			},
		},
		{
			name: "largest pair matched first",
			balances: []models.Balance{
				{Name: "a", Balance: 50},
				{Name: "b", Balance: 150},
				{Name: "c", Balance: -120},
				{Name: "d", Balance: -80},
			},
			want: []models.Settlement{
				{From: "c", To: "b", Amount: 120},
				{From: "d", To: "b", Amount: 30},
				{From: "d", To: "a", Amount: 50},
			},
		},
		{
			name:     "no balances",
			balances: nil,
			want:     nil,
		},
		{
			name: "all zero balances",
			balances: []models.Balance{
				{Name: "j", Balance: 0},
				{Name: "ab", Balance: 0},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReduceToSettlements(tt.balances)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d settlements %v, want %d", len(got), got, len(tt.want))
			}
			for i, want := range tt.want {
				if got[i].From != want.From || got[i].To != want.To {
					t.Errorf("settlement %d = %s->%s, want %s->%s", i, got[i].From, got[i].To, want.From, want.To)
				}
				if math.Abs(got[i].Amount-want.Amount) > 0.01 {
					t.Errorf("settlement %d amount = %v, want %v", i, got[i].Amount, want.Amount)
				}
				if got[i].Amount <= 0 {
					t.Errorf("settlement %d amount = %v, want > 0", i, got[i].Amount)
				}
			}

			// Replaying the settlements must zero every balance.
			for name, remaining := range replay(tt.balances, got) {
				if math.Abs(remaining) > 0.01 {
					t.Errorf("%s remaining balance = %v after replay, want ~0", name, remaining)
				}
			}
		})
	}
}

func TestReduceToSettlementsDoesNotMutateInput(t *testing.T) {
	balances := []models.Balance{
		{Name: "j", Balance: 100},
		{Name: "ab", Balance: -100},
	}
	ReduceToSettlements(balances)
	if balances[0].Balance != 100 || balances[1].Balance != -100 {
		t.Errorf("input balances mutated: %v", balances)
	}
}

func TestReduceToSettlementsIdempotent(t *testing.T) {
	balances := []models.Balance{
		{Name: "j", Balance: 1333.33},
		{Name: "cha", Balance: -666.67},
		{Name: "ab", Balance: -666.66},
	}
	settlements := ReduceToSettlements(balances)

	zeroed := replay(balances, settlements)
	var residual []models.Balance
	for name, b := range zeroed {
		residual = append(residual, models.Balance{Name: name, Balance: b})
	}

	if again := ReduceToSettlements(residual); len(again) != 0 {
		t.Errorf("re-reducing zeroed balances produced %v, want none", again)
	}
}

func TestReduceToSettlementsBounded(t *testing.T) {
	// At most participants-1 transfers: each iteration zeroes a party.
	balances := []models.Balance{
		{Name: "a", Balance: 90},
		{Name: "b", Balance: 10},
		{Name: "c", Balance: -25},
		{Name: "d", Balance: -25},
		{Name: "e", Balance: -50},
	}
	settlements := ReduceToSettlements(balances)
	if len(settlements) > len(balances)-1 {
		t.Errorf("got %d settlements for %d participants, want at most %d",
			len(settlements), len(balances), len(balances)-1)
	}
	for name, remaining := range replay(balances, settlements) {
		if math.Abs(remaining) > 0.01 {
			t.Errorf("%s remaining = %v, want ~0", name, remaining)
		}
	}
}
