package flashloan

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lumenarb/flasharb/apperror"
	"github.com/lumenarb/flasharb/token"
)

var (
	executor = common.HexToAddress("0xE1")
	poolAddr = common.HexToAddress("0xAA")
	asset    = common.HexToAddress("0xC01")
)

func newManager(t *testing.T, poolLiquidity int64) (*Manager, *token.Ledger) {
	t.Helper()
	ledger := token.NewLedger()
	require.NoError(t, ledger.Mint(asset, poolAddr, big.NewInt(poolLiquidity)))
	return NewManager(ledger, executor, zaptest.NewLogger(t)), ledger
}

func TestRequestMovesPrincipalAndAccruesFee(t *testing.T) {
	m, ledger := newManager(t, 2_000_000)

	loan, err := m.Request(context.Background(), poolAddr, asset, big.NewInt(1_000_000))
	require.NoError(t, err)

	// 1_000_000 * 9 / 10_000 = 900
	assert.Equal(t, int64(900), loan.Fee.Int64())
	assert.Equal(t, int64(1_000_900), loan.RepayAmount.Int64())
	assert.False(t, loan.IsRepaid)

	assert.Equal(t, int64(1_000_000), ledger.Balance(asset, executor).Int64())
	assert.Equal(t, int64(1_000_000), ledger.Balance(asset, poolAddr).Int64())
}

func TestRequestRejectsNonPositiveAmount(t *testing.T) {
	m, _ := newManager(t, 1_000_000)
	ctx := context.Background()

	_, err := m.Request(ctx, poolAddr, asset, big.NewInt(0))
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidFlashLoanAmount))

	_, err = m.Request(ctx, poolAddr, asset, big.NewInt(-5))
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidFlashLoanAmount))

	_, err = m.Request(ctx, poolAddr, asset, nil)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidFlashLoanAmount))
}

func TestRequestRejectsThinPool(t *testing.T) {
	m, _ := newManager(t, 500_000)

	_, err := m.Request(context.Background(), poolAddr, asset, big.NewInt(1_000_000))
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientLiquidity))
}

func TestRepayReturnsPrincipalPlusFee(t *testing.T) {
	m, ledger := newManager(t, 2_000_000)
	ctx := context.Background()

	loan, err := m.Request(ctx, poolAddr, asset, big.NewInt(1_000_000))
	require.NoError(t, err)

	// Simulate profitable work: executor ends up above the repay amount.
	require.NoError(t, ledger.Mint(asset, executor, big.NewInt(10_000)))

	require.NoError(t, m.Repay(ctx, loan))
	assert.True(t, loan.IsRepaid)

	assert.Equal(t, int64(2_000_900), ledger.Balance(asset, poolAddr).Int64())
	assert.Equal(t, int64(9_100), ledger.Balance(asset, executor).Int64())
}

func TestRepayIsIdempotent(t *testing.T) {
	m, ledger := newManager(t, 2_000_000)
	ctx := context.Background()

	loan, err := m.Request(ctx, poolAddr, asset, big.NewInt(1_000_000))
	require.NoError(t, err)
	require.NoError(t, ledger.Mint(asset, executor, big.NewInt(900)))

	require.NoError(t, m.Repay(ctx, loan))
	poolAfter := ledger.Balance(asset, poolAddr)

	// Second repay is a no-op, not a second transfer.
	require.NoError(t, m.Repay(ctx, loan))
	assert.Equal(t, poolAfter, ledger.Balance(asset, poolAddr))
}

func TestRepayFailsWhenUnderfunded(t *testing.T) {
	m, _ := newManager(t, 2_000_000)
	ctx := context.Background()

	loan, err := m.Request(ctx, poolAddr, asset, big.NewInt(1_000_000))
	require.NoError(t, err)

	// Executor holds only the principal; the fee is missing.
	err = m.Repay(ctx, loan)
	assert.True(t, apperror.IsCode(err, apperror.CodeRepaymentFailed))
	assert.False(t, loan.IsRepaid)
}

func TestNetProfit(t *testing.T) {
	c := &Context{RepayAmount: big.NewInt(1_000_900)}

	assert.Equal(t, int64(9_100), c.NetProfit(big.NewInt(1_010_000)).Int64())
	assert.Equal(t, int64(0), c.NetProfit(big.NewInt(1_000_900)).Int64())
	assert.Equal(t, int64(-900), c.NetProfit(big.NewInt(1_000_000)).Int64())
}

func TestCanRepay(t *testing.T) {
	c := &Context{RepayAmount: big.NewInt(1_000_900)}

	assert.True(t, c.CanRepay(big.NewInt(1_000_900)))
	assert.True(t, c.CanRepay(big.NewInt(2_000_000)))
	assert.False(t, c.CanRepay(big.NewInt(1_000_899)))
}
