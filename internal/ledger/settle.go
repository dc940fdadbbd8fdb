package ledger

import (
	"math"
	"sort"

	"github.com/jsreddy/splitscenario/internal/models"
)

// settleEpsilon is the magnitude below which a remaining balance is treated
// as zero. It absorbs float noise from repeated share subtraction.
const settleEpsilon = 0.01

// ReduceToSettlements reduces signed balances to a sequence of payments that
// drives every balance to within settleEpsilon of zero.
//
// Greedy largest-pair matching: the biggest creditor is paid by the biggest
// debtor, for the smaller of the two magnitudes; whichever party reaches zero
// drops out. Every iteration fully zeroes at least one party, so the loop
// terminates in at most len(balances)-1 steps. The result is not guaranteed
// to be a global minimum transfer count (that problem is NP-hard) but matches
// the largest obligations first, which keeps the count small in practice.
func ReduceToSettlements(balances []models.Balance) []models.Settlement {
	var positives, negatives []models.Balance
	for _, b := range balances {
		switch {
		case b.Balance > settleEpsilon:
			positives = append(positives, b)
		case b.Balance < -settleEpsilon:
			negatives = append(negatives, b)
		}
	}
	sort.SliceStable(positives, func(i, j int) bool { return positives[i].Balance > positives[j].Balance })
	sort.SliceStable(negatives, func(i, j int) bool { return negatives[i].Balance < negatives[j].Balance })

	var settlements []models.Settlement
	for len(positives) > 0 && len(negatives) > 0 {
		cred := &positives[0]
		deb := &negatives[0]

		amt := math.Min(cred.Balance, -deb.Balance)
		settlements = append(settlements, models.Settlement{
			From:   deb.Name,
			To:     cred.Name,
			Amount: math.Abs(amt),
		})

		cred.Balance -= amt
		deb.Balance += amt

		if math.Abs(cred.Balance) < settleEpsilon {
			positives = positives[1:]
		}
		if math.Abs(deb.Balance) < settleEpsilon {
			negatives = negatives[1:]
		}
	}

	return settlements
}
