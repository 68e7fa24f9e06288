// Package uniswap implements the reference constant-product venue with
// the 0.3% curve fee (997/1000) baked into pricing.
package uniswap

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lumenarb/flasharb/apperror"
	"github.com/lumenarb/flasharb/dex"
	"github.com/lumenarb/flasharb/token"
	"github.com/lumenarb/flasharb/utils/math"
)

// Curve fee: 997/1000 = 0.3%.
var (
	feeNumerator   = big.NewInt(997)
	feeDenominator = big.NewInt(1000)
)

// Pool is a registered constant-product pair. Reserves are the pool
// account's ledger balances, so swaps and reserve reads always agree.
type Pool struct {
	Address common.Address
	Token0  common.Address
	Token1  common.Address
}

// UniswapV2 implements the dex.Exchange interface for Uniswap V2 style
// constant-product pools.
type UniswapV2 struct {
	ledger   *token.Ledger
	executor common.Address

	mu    sync.RWMutex
	pools map[common.Address]*Pool
	pairs map[uint64]common.Address
}

// New creates a Uniswap V2 venue adapter. executor is the account whose
// balances move when the adapter swaps.
func New(ledger *token.Ledger, executor common.Address) *UniswapV2 {
	return &UniswapV2{
		ledger:   ledger,
		executor: executor,
		pools:    make(map[common.Address]*Pool),
		pairs:    make(map[uint64]common.Address),
	}
}

// Name returns the venue name
func (u *UniswapV2) Name() string {
	return "UniswapV2"
}

// RegisterPool makes a pool address known to the adapter.
func (u *UniswapV2) RegisterPool(pool, token0, token1 common.Address) error {
	if pool == (common.Address{}) {
		return apperror.New(apperror.CodeInvalidPoolAddress, "uniswap.RegisterPool")
	}
	if token0 == (common.Address{}) || token1 == (common.Address{}) || token0 == token1 {
		return apperror.New(apperror.CodeInvalidTokenAddress, "uniswap.RegisterPool")
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.pools[pool] = &Pool{Address: pool, Token0: token0, Token1: token1}
	u.pairs[dex.PairKey(token0, token1)] = pool
	return nil
}

// PoolFor returns the registered pool address for an asset pair.
func (u *UniswapV2) PoolFor(assetA, assetB common.Address) (common.Address, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	pool, ok := u.pairs[dex.PairKey(assetA, assetB)]
	return pool, ok
}

// Reserves returns the pool's reserves for a token pair
func (u *UniswapV2) Reserves(ctx context.Context, pool, assetA, assetB common.Address) (*big.Int, *big.Int, error) {
	p, err := u.getPool(pool, assetA, assetB)
	if err != nil {
		return nil, nil, err
	}

	reserveA := u.ledger.Balance(assetA, p.Address)
	reserveB := u.ledger.Balance(assetB, p.Address)
	if reserveA.Sign() == 0 || reserveB.Sign() == 0 {
		return nil, nil, apperror.New(apperror.CodeInvalidPoolAddress, "uniswap.Reserves")
	}
	return reserveA, reserveB, nil
}

// ExpectedOutput quotes the constant-product output for amountIn:
// out = amountIn*997*reserveOut / (reserveIn*1000 + amountIn*997).
func (u *UniswapV2) ExpectedOutput(ctx context.Context, pool, assetIn, assetOut common.Address, amountIn *big.Int) (*big.Int, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, apperror.New(apperror.CodeSwapFailed, "uniswap.ExpectedOutput")
	}

	reserveIn, reserveOut, err := u.Reserves(ctx, pool, assetIn, assetOut)
	if err != nil {
		return nil, err
	}
	return getAmountOut(amountIn, reserveIn, reserveOut, feeNumerator, feeDenominator)
}

// Swap executes the exchange against the pool's ledger balances. The
// venue itself enforces minAmountOut.
func (u *UniswapV2) Swap(ctx context.Context, pool, assetIn, assetOut common.Address, amountIn, minAmountOut *big.Int) (*big.Int, error) {
	amountOut, err := u.ExpectedOutput(ctx, pool, assetIn, assetOut, amountIn)
	if err != nil {
		return nil, err
	}
	if amountOut.Sign() <= 0 || amountOut.Cmp(minAmountOut) < 0 {
		return nil, apperror.New(apperror.CodeSwapFailed, "uniswap.Swap")
	}

	if err := u.ledger.Transfer(assetIn, u.executor, pool, amountIn); err != nil {
		return nil, apperror.Wrap(apperror.CodeSwapFailed, "uniswap.Swap", err)
	}
	if err := u.ledger.Transfer(assetOut, pool, u.executor, amountOut); err != nil {
		return nil, apperror.Wrap(apperror.CodeSwapFailed, "uniswap.Swap", err)
	}
	return amountOut, nil
}

// getPool resolves a pool address and validates the asset pair against it.
func (u *UniswapV2) getPool(pool, assetA, assetB common.Address) (*Pool, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	p, ok := u.pools[pool]
	if !ok {
		return nil, apperror.New(apperror.CodeInvalidPoolAddress, "uniswap.getPool")
	}
	if dex.PairKey(assetA, assetB) != dex.PairKey(p.Token0, p.Token1) {
		return nil, apperror.New(apperror.CodeInvalidTokenAddress, "uniswap.getPool")
	}
	return p, nil
}

// getAmountOut computes the fee-adjusted constant-product output with
// checked arithmetic.
func getAmountOut(amountIn, reserveIn, reserveOut, feeNum, feeDen *big.Int) (*big.Int, error) {
	amountInWithFee, err := math.CheckedMul(amountIn, feeNum)
	if err != nil {
		return nil, err
	}
	numerator, err := math.CheckedMul(amountInWithFee, reserveOut)
	if err != nil {
		return nil, err
	}
	scaledReserve, err := math.CheckedMul(reserveIn, feeDen)
	if err != nil {
		return nil, err
	}
	denominator, err := math.CheckedAdd(scaledReserve, amountInWithFee)
	if err != nil {
		return nil, err
	}
	return math.CheckedDiv(numerator, denominator)
}
