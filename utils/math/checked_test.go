package math

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenarb/flasharb/apperror"
)

func TestFlashLoanFee(t *testing.T) {
	// 0.09% of 1,000,000 = 900
	fee, err := FlashLoanFee(big.NewInt(1_000_000))
	require.NoError(t, err)
	assert.Equal(t, int64(900), fee.Int64())

	// 0.09% of 100 floors to 0
	fee, err = FlashLoanFee(big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, int64(0), fee.Int64())
}

func TestFlashLoanFeeOverflow(t *testing.T) {
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	_, err := FlashLoanFee(max)
	assert.True(t, apperror.IsCode(err, apperror.CodeArithmeticOverflow))
}

func TestApplySlippage(t *testing.T) {
	// 1% slippage (100 bps) on 1000 = 990
	got, err := ApplySlippage(big.NewInt(1000), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(990), got.Int64())

	// 0.5% slippage (50 bps) on 10000 = 9950
	got, err = ApplySlippage(big.NewInt(10000), 50)
	require.NoError(t, err)
	assert.Equal(t, int64(9950), got.Int64())

	// 100% slippage floors to zero
	got, err = ApplySlippage(big.NewInt(1000), 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Int64())
}

func TestApplySlippageRejectsExcessBps(t *testing.T) {
	_, err := ApplySlippage(big.NewInt(1000), 10001)
	assert.True(t, apperror.IsCode(err, apperror.CodeArithmeticOverflow))
}

func TestMinProfitFloor(t *testing.T) {
	// 50 bps of 1,000,000 = 5,000
	got, err := MinProfitFloor(big.NewInt(1_000_000), 50)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), got.Int64())

	got, err = MinProfitFloor(big.NewInt(1_000_000), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Int64())
}

func TestCheckedBoundaries(t *testing.T) {
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	min := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))

	// In-range results pass through
	got, err := CheckedAdd(max, big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, 0, got.Cmp(max))

	_, err = CheckedAdd(max, big.NewInt(1))
	assert.True(t, apperror.IsCode(err, apperror.CodeArithmeticOverflow))

	_, err = CheckedSub(min, big.NewInt(1))
	assert.True(t, apperror.IsCode(err, apperror.CodeArithmeticOverflow))

	_, err = CheckedMul(max, big.NewInt(2))
	assert.True(t, apperror.IsCode(err, apperror.CodeArithmeticOverflow))
}

func TestCheckedDivByZero(t *testing.T) {
	_, err := CheckedDiv(big.NewInt(1), big.NewInt(0))
	assert.True(t, apperror.IsCode(err, apperror.CodeArithmeticOverflow))
}

func TestInRange(t *testing.T) {
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	assert.True(t, InRange(max))
	assert.False(t, InRange(new(big.Int).Add(max, big.NewInt(1))))
}
