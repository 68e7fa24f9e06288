package sushiswap

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenarb/flasharb/apperror"
	"github.com/lumenarb/flasharb/token"
)

var (
	executor = common.HexToAddress("0xE1")
	poolAddr = common.HexToAddress("0xD2")
	tokenA   = common.HexToAddress("0xC01")
	tokenB   = common.HexToAddress("0xC02")
)

func newVenue(t *testing.T, feeTier uint32) (*SushiswapV2, *token.Ledger) {
	t.Helper()
	ledger := token.NewLedger()
	require.NoError(t, ledger.Mint(tokenA, poolAddr, big.NewInt(1_000_000)))
	require.NoError(t, ledger.Mint(tokenB, poolAddr, big.NewInt(1_000_000)))

	venue := New(ledger, executor)
	require.NoError(t, venue.RegisterPoolWithFee(poolAddr, tokenA, tokenB, feeTier))
	return venue, ledger
}

func TestFeeTierChangesQuote(t *testing.T) {
	ctx := context.Background()
	amountIn := big.NewInt(10_000)

	cases := []struct {
		feeTier uint32
		want    int64
	}{
		{997, 9871},
		{990, 9802},
		{1000, 9900},
	}
	for _, tc := range cases {
		venue, _ := newVenue(t, tc.feeTier)
		out, err := venue.ExpectedOutput(ctx, poolAddr, tokenA, tokenB, amountIn)
		require.NoError(t, err)
		assert.Equal(t, tc.want, out.Int64(), "fee tier %d", tc.feeTier)
	}
}

func TestRegisterPoolDefaultsFeeTier(t *testing.T) {
	ledger := token.NewLedger()
	require.NoError(t, ledger.Mint(tokenA, poolAddr, big.NewInt(1_000_000)))
	require.NoError(t, ledger.Mint(tokenB, poolAddr, big.NewInt(1_000_000)))

	venue := New(ledger, executor)
	require.NoError(t, venue.RegisterPool(poolAddr, tokenA, tokenB))

	out, err := venue.ExpectedOutput(context.Background(), poolAddr, tokenA, tokenB, big.NewInt(10_000))
	require.NoError(t, err)
	assert.Equal(t, int64(9871), out.Int64())
}

func TestRegisterPoolWithFeeValidation(t *testing.T) {
	ledger := token.NewLedger()
	venue := New(ledger, executor)

	err := venue.RegisterPoolWithFee(poolAddr, tokenA, tokenB, 0)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidPoolAddress))

	err = venue.RegisterPoolWithFee(poolAddr, tokenA, tokenB, 1001)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidPoolAddress))
}

func TestSwapAtFeeTier(t *testing.T) {
	venue, ledger := newVenue(t, 990)
	require.NoError(t, ledger.Mint(tokenA, executor, big.NewInt(10_000)))

	out, err := venue.Swap(context.Background(), poolAddr, tokenA, tokenB, big.NewInt(10_000), big.NewInt(9802))
	require.NoError(t, err)
	assert.Equal(t, int64(9802), out.Int64())

	assert.Equal(t, int64(9802), ledger.Balance(tokenB, executor).Int64())
	assert.Equal(t, int64(1_010_000), ledger.Balance(tokenA, poolAddr).Int64())
}

func TestSwapEnforcesMinAmountOut(t *testing.T) {
	venue, ledger := newVenue(t, 997)
	require.NoError(t, ledger.Mint(tokenA, executor, big.NewInt(10_000)))

	_, err := venue.Swap(context.Background(), poolAddr, tokenA, tokenB, big.NewInt(10_000), big.NewInt(9872))
	assert.True(t, apperror.IsCode(err, apperror.CodeSwapFailed))
	assert.Equal(t, int64(10_000), ledger.Balance(tokenA, executor).Int64())
}

func TestUnknownPool(t *testing.T) {
	venue, _ := newVenue(t, 997)
	_, err := venue.ExpectedOutput(context.Background(), common.HexToAddress("0xDEAD"), tokenA, tokenB, big.NewInt(1))
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidPoolAddress))
}
