package dto

import (
	"github.com/shopspring/decimal"
)

// ReconcileRequest asks for a reconciliation of one item over one period.
// Exactly one balance source must be set: Balances (inline), BalancesFile, or UseLiveBalances.
type ReconcileRequest struct {
	Period          string                     `json:"period" binding:"required,period"`
	ItemID          string                     `json:"itemID" binding:"required"`
	Balances        map[string]decimal.Decimal `json:"balances"`
	UseLiveBalances bool                       `json:"useLiveBalances"`
	BalancesFile    string                     `json:"-"` // CLI only
	OutputPath      string                     `json:"-"` // CLI only
}

// BalanceSourceCount reports how many balance sources are set.
func (r ReconcileRequest) BalanceSourceCount() int {
	n := 0
	if r.Balances != nil {
		n++
	}
	if r.BalancesFile != "" {
		n++
	}
	if r.UseLiveBalances {
		n++
	}
	return n
}
