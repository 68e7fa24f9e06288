// Package math provides overflow-checked arithmetic for monetary amounts.
//
// All amounts are *big.Int values constrained to the signed 128-bit range.
// Any operation whose true result leaves that range, and any division with
// an undefined result, fails with an ArithmeticOverflow error instead of
// wrapping or truncating.
package math

import (
	"math/big"

	"github.com/lumenarb/flasharb/apperror"
)

// BpsDenominator is the basis-point scale: 1 bps = 1/10000.
const BpsDenominator = 10000

// FlashLoanFeeBps is the flash loan fee rate (0.09%).
const FlashLoanFeeBps = 9

var (
	// Signed 128-bit bounds: [-2^127, 2^127 - 1].
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))

	bpsDenom = big.NewInt(BpsDenominator)
	feeBps   = big.NewInt(FlashLoanFeeBps)
)

// InRange reports whether x fits the signed 128-bit range.
func InRange(x *big.Int) bool {
	return x.Cmp(minInt128) >= 0 && x.Cmp(maxInt128) <= 0
}

func checked(op string, x *big.Int) (*big.Int, error) {
	if !InRange(x) {
		return nil, apperror.New(apperror.CodeArithmeticOverflow, op)
	}
	return x, nil
}

// CheckedAdd returns x + y, failing if the result leaves the 128-bit range.
func CheckedAdd(x, y *big.Int) (*big.Int, error) {
	return checked("math.CheckedAdd", new(big.Int).Add(x, y))
}

// CheckedSub returns x - y, failing if the result leaves the 128-bit range.
func CheckedSub(x, y *big.Int) (*big.Int, error) {
	return checked("math.CheckedSub", new(big.Int).Sub(x, y))
}

// CheckedMul returns x * y, failing if the result leaves the 128-bit range.
func CheckedMul(x, y *big.Int) (*big.Int, error) {
	return checked("math.CheckedMul", new(big.Int).Mul(x, y))
}

// CheckedDiv returns x / y with floor semantics for non-negative operands.
// Division by zero fails with ArithmeticOverflow.
func CheckedDiv(x, y *big.Int) (*big.Int, error) {
	if y.Sign() == 0 {
		return nil, apperror.New(apperror.CodeArithmeticOverflow, "math.CheckedDiv")
	}
	return checked("math.CheckedDiv", new(big.Int).Quo(x, y))
}

// FlashLoanFee returns the flash loan fee for amount: amount * 9 / 10000,
// floor division.
func FlashLoanFee(amount *big.Int) (*big.Int, error) {
	scaled, err := CheckedMul(amount, feeBps)
	if err != nil {
		return nil, err
	}
	return CheckedDiv(scaled, bpsDenom)
}

// ApplySlippage returns the minimum acceptable output for an expected
// amount under a slippage tolerance: expected * (10000 - bps) / 10000.
// Tolerances above 10000 bps are rejected.
func ApplySlippage(expected *big.Int, slippageBps uint32) (*big.Int, error) {
	if slippageBps > BpsDenominator {
		return nil, apperror.New(apperror.CodeArithmeticOverflow, "math.ApplySlippage")
	}
	factor := big.NewInt(BpsDenominator - int64(slippageBps))
	scaled, err := CheckedMul(expected, factor)
	if err != nil {
		return nil, err
	}
	return CheckedDiv(scaled, bpsDenom)
}

// MinProfitFloor returns the minimum profit a route must clear:
// principal * bps / 10000, floor division.
func MinProfitFloor(principal *big.Int, minProfitBps uint32) (*big.Int, error) {
	scaled, err := CheckedMul(principal, big.NewInt(int64(minProfitBps)))
	if err != nil {
		return nil, err
	}
	return CheckedDiv(scaled, bpsDenom)
}
