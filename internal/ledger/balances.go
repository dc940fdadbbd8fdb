package ledger

import "github.com/jsreddy/splitscenario/internal/models"

// ComputeBalances computes each participant's signed net position across all
// expenses. Pure function: deterministic, no side effects.
//
// For each expense the cost is split equally among every non-excluded
// participant, payer included: each co-sharer is debited one share and the
// payer nets the amount minus their own share. An excluded payer still
// collects the full amount but bears no share. An expense with no co-sharers
// (everyone else excluded, or a one-person ledger) contributes nothing; there
// is no one to charge, so it is skipped rather than treated as an error.
//
// Exclusions are scenario-level: the same excluded list applies to every
// expense. Expense order does not affect the result beyond float summation
// noise.
func ComputeBalances(participants []string, expenses []models.Expense, excluded []string) []models.Balance {
	balances := make(map[string]float64, len(participants))
	for _, p := range participants {
		balances[p] = 0
	}

	excludedSet := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		excludedSet[e] = true
	}

	for _, exp := range expenses {
		var sharers []string
		others := 0
		for _, p := range participants {
			if excludedSet[p] {
				continue
			}
			sharers = append(sharers, p)
			if p != exp.Payer {
				others++
			}
		}
		if others == 0 {
			continue
		}

		share := exp.Amount / float64(len(sharers))
		payerShares := false
		for _, p := range sharers {
			if p == exp.Payer {
				payerShares = true
				continue
			}
			balances[p] -= share
		}
		if payerShares {
			balances[exp.Payer] += exp.Amount - share
		} else {
			balances[exp.Payer] += exp.Amount
		}
	}

	result := make([]models.Balance, 0, len(participants))
	for _, p := range participants {
		result = append(result, models.Balance{Name: p, Balance: balances[p]})
	}
	return result
}
