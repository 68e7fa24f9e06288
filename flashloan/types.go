package flashloan

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Context tracks one active flash loan. It is single-use: created by
// Request, owned by the orchestrator for the duration of one call, and
// discarded when the call returns.
type Context struct {
	Pool           common.Address
	Token          common.Address
	BorrowedAmount *big.Int
	Fee            *big.Int
	RepayAmount    *big.Int // BorrowedAmount + Fee
	IsRepaid       bool
}

// NetProfit returns currentBalance - RepayAmount. May be negative.
func (c *Context) NetProfit(currentBalance *big.Int) *big.Int {
	return new(big.Int).Sub(currentBalance, c.RepayAmount)
}

// CanRepay reports whether currentBalance covers the repayment.
func (c *Context) CanRepay(currentBalance *big.Int) bool {
	return currentBalance.Cmp(c.RepayAmount) >= 0
}
