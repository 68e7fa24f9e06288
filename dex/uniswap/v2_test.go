package uniswap

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
	poolAddr = common.HexToAddress("0xD1")
	tokenA   = common.HexToAddress("0xC01")
	tokenB   = common.HexToAddress("0xC02")
)

func newVenue(t *testing.T, reserveA, reserveB int64) (*UniswapV2, *token.Ledger) {
	t.Helper()
	ledger := token.NewLedger()
	require.NoError(t, ledger.Mint(tokenA, poolAddr, big.NewInt(reserveA)))
	require.NoError(t, ledger.Mint(tokenB, poolAddr, big.NewInt(reserveB)))

	venue := New(ledger, executor)
	require.NoError(t, venue.RegisterPool(poolAddr, tokenA, tokenB))
	return venue, ledger
}

func TestReservesUnknownPool(t *testing.T) {
	venue, _ := newVenue(t, 1000, 1000)
	_, _, err := venue.Reserves(context.Background(), common.HexToAddress("0xDEAD"), tokenA, tokenB)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidPoolAddress))
}

func TestReservesWrongPair(t *testing.T) {
	venue, _ := newVenue(t, 1000, 1000)
	other := common.HexToAddress("0xC03")
	_, _, err := venue.Reserves(context.Background(), poolAddr, tokenA, other)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTokenAddress))
}

func TestExpectedOutputConstantProduct(t *testing.T) {
	venue, _ := newVenue(t, 1000, 1000)

	// 100*997*1000 / (1000*1000 + 100*997) = 90
	out, err := venue.ExpectedOutput(context.Background(), poolAddr, tokenA, tokenB, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, int64(90), out.Int64())
}

func TestExpectedOutputMonotonic(t *testing.T) {
	venue, _ := newVenue(t, 1000, 1000)
	ctx := context.Background()

	out100, err := venue.ExpectedOutput(ctx, poolAddr, tokenA, tokenB, big.NewInt(100))
	require.NoError(t, err)
	out200, err := venue.ExpectedOutput(ctx, poolAddr, tokenA, tokenB, big.NewInt(200))
	require.NoError(t, err)

	assert.Equal(t, int64(166), out200.Int64())
	assert.True(t, out200.Cmp(out100) >= 0)

	// Output never exceeds the output-side reserve
	huge, err := venue.ExpectedOutput(ctx, poolAddr, tokenA, tokenB, big.NewInt(1_000_000_000))
	require.NoError(t, err)
	assert.True(t, huge.Cmp(big.NewInt(1000)) < 0)
}

func TestSwapMovesBalances(t *testing.T) {
	venue, ledger := newVenue(t, 1000, 1000)
	require.NoError(t, ledger.Mint(tokenA, executor, big.NewInt(100)))

	out, err := venue.Swap(context.Background(), poolAddr, tokenA, tokenB, big.NewInt(100), big.NewInt(90))
	require.NoError(t, err)
	assert.Equal(t, int64(90), out.Int64())

	assert.Equal(t, int64(0), ledger.Balance(tokenA, executor).Int64())
	assert.Equal(t, int64(90), ledger.Balance(tokenB, executor).Int64())
	assert.Equal(t, int64(1100), ledger.Balance(tokenA, poolAddr).Int64())
	assert.Equal(t, int64(910), ledger.Balance(tokenB, poolAddr).Int64())
}

func TestSwapEnforcesMinAmountOut(t *testing.T) {
	venue, ledger := newVenue(t, 1000, 1000)
	require.NoError(t, ledger.Mint(tokenA, executor, big.NewInt(100)))

	_, err := venue.Swap(context.Background(), poolAddr, tokenA, tokenB, big.NewInt(100), big.NewInt(91))
	assert.True(t, apperror.IsCode(err, apperror.CodeSwapFailed))

	// Nothing moved
	assert.Equal(t, int64(100), ledger.Balance(tokenA, executor).Int64())
}

func TestSwapWithoutFundsFails(t *testing.T) {
	venue, _ := newVenue(t, 1000, 1000)
	_, err := venue.Swap(context.Background(), poolAddr, tokenA, tokenB, big.NewInt(100), big.NewInt(0))
	assert.True(t, apperror.IsCode(err, apperror.CodeSwapFailed))
}

func TestRegisterPoolValidation(t *testing.T) {
	ledger := token.NewLedger()
	venue := New(ledger, executor)

	err := venue.RegisterPool(common.Address{}, tokenA, tokenB)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidPoolAddress))

	err = venue.RegisterPool(poolAddr, tokenA, tokenA)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTokenAddress))
}

func TestPoolFor(t *testing.T) {
	venue, _ := newVenue(t, 1000, 1000)

	got, ok := venue.PoolFor(tokenB, tokenA)
	require.True(t, ok)
	assert.Equal(t, poolAddr, got)

	_, ok = venue.PoolFor(tokenA, common.HexToAddress("0xC03"))
	assert.False(t, ok)
}
