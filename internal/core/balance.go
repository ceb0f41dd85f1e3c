package core

import "github.com/shopspring/decimal"

// Balance folds txs into a signed sum: Income entries add their amount, every
// other kind subtracts it. Category plays no part. The result is not rounded.
func Balance(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Kind.IsCredit() {
			total = total.Add(tx.Amount)
		} else {
			total = total.Sub(tx.Amount)
		}
	}
	return total
}
