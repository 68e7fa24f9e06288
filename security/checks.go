package security

import (
	"math/big"

	"github.com/lumenarb/flasharb/apperror"
	"github.com/lumenarb/flasharb/utils/math"
)

// CheckSlippage validates a realized swap output against the
// tolerance-adjusted floor: actual >= expected * (10000 - bps) / 10000.
// The executor runs this independently of whatever the venue enforced.
func CheckSlippage(expected, actual *big.Int, maxSlippageBps uint32) error {
	minOutput, err := math.ApplySlippage(expected, maxSlippageBps)
	if err != nil {
		return err
	}
	if actual.Cmp(minOutput) < 0 {
		return apperror.New(apperror.CodeSlippageExceeded, "security.CheckSlippage")
	}
	return nil
}

// CheckMinimumProfit gates an arbitrage on its net result. Non-positive
// profit and profit below the caller's floor are distinct failures.
func CheckMinimumProfit(profit, minProfit *big.Int) error {
	if profit.Sign() <= 0 {
		return apperror.New(apperror.CodeNoProfitGenerated, "security.CheckMinimumProfit")
	}
	if profit.Cmp(minProfit) < 0 {
		return apperror.New(apperror.CodeProfitBelowThreshold, "security.CheckMinimumProfit")
	}
	return nil
}
