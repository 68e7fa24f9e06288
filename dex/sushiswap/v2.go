// Package sushiswap implements the second venue variant: the same
// constant-product curve as uniswap but with a per-pool fee tier, so
// pools on this venue can price with something other than 0.3%.
package sushiswap

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

const (
	// DefaultFeeTier matches the reference 0.3% curve (997/1000).
	DefaultFeeTier = 997

	feeDenominator = 1000
)

// Pool is a registered pair with its fee tier in thousandths: a swap
// keeps feeTier/1000 of the input in the pricing curve.
type Pool struct {
	Address common.Address
	Token0  common.Address
	Token1  common.Address
	FeeTier uint32
}

// SushiswapV2 implements the dex.Exchange interface with per-pool fee
// tiers.
type SushiswapV2 struct {
	ledger   *token.Ledger
	executor common.Address

	mu    sync.RWMutex
	pools map[common.Address]*Pool
	pairs map[uint64]common.Address
}

// New creates a Sushiswap V2 venue adapter.
func New(ledger *token.Ledger, executor common.Address) *SushiswapV2 {
	return &SushiswapV2{
		ledger:   ledger,
		executor: executor,
		pools:    make(map[common.Address]*Pool),
		pairs:    make(map[uint64]common.Address),
	}
}

// Name returns the venue name
func (s *SushiswapV2) Name() string {
	return "SushiswapV2"
}

// RegisterPool registers a pool with the default fee tier.
func (s *SushiswapV2) RegisterPool(pool, token0, token1 common.Address) error {
	return s.RegisterPoolWithFee(pool, token0, token1, DefaultFeeTier)
}

// RegisterPoolWithFee registers a pool with an explicit fee tier in
// thousandths (1..1000).
func (s *SushiswapV2) RegisterPoolWithFee(pool, token0, token1 common.Address, feeTier uint32) error {
	if pool == (common.Address{}) {
		return apperror.New(apperror.CodeInvalidPoolAddress, "sushiswap.RegisterPoolWithFee")
	}
	if token0 == (common.Address{}) || token1 == (common.Address{}) || token0 == token1 {
		return apperror.New(apperror.CodeInvalidTokenAddress, "sushiswap.RegisterPoolWithFee")
	}
	if feeTier == 0 || feeTier > feeDenominator {
		return apperror.New(apperror.CodeInvalidPoolAddress, "sushiswap.RegisterPoolWithFee")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools[pool] = &Pool{Address: pool, Token0: token0, Token1: token1, FeeTier: feeTier}
	s.pairs[dex.PairKey(token0, token1)] = pool
	return nil
}

// Reserves returns the pool's reserves for a token pair
func (s *SushiswapV2) Reserves(ctx context.Context, pool, assetA, assetB common.Address) (*big.Int, *big.Int, error) {
	p, err := s.getPool(pool, assetA, assetB)
	if err != nil {
		return nil, nil, err
	}

	reserveA := s.ledger.Balance(assetA, p.Address)
	reserveB := s.ledger.Balance(assetB, p.Address)
	if reserveA.Sign() == 0 || reserveB.Sign() == 0 {
		return nil, nil, apperror.New(apperror.CodeInvalidPoolAddress, "sushiswap.Reserves")
	}
	return reserveA, reserveB, nil
}

// ExpectedOutput quotes the fee-tier-adjusted constant-product output.
func (s *SushiswapV2) ExpectedOutput(ctx context.Context, pool, assetIn, assetOut common.Address, amountIn *big.Int) (*big.Int, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, apperror.New(apperror.CodeSwapFailed, "sushiswap.ExpectedOutput")
	}

	p, err := s.getPool(pool, assetIn, assetOut)
	if err != nil {
		return nil, err
	}
	reserveIn, reserveOut, err := s.Reserves(ctx, pool, assetIn, assetOut)
	if err != nil {
		return nil, err
	}

	amountInWithFee, err := math.CheckedMul(amountIn, big.NewInt(int64(p.FeeTier)))
	if err != nil {
		return nil, err
	}
	numerator, err := math.CheckedMul(amountInWithFee, reserveOut)
	if err != nil {
		return nil, err
	}
	scaledReserve, err := math.CheckedMul(reserveIn, big.NewInt(feeDenominator))
	if err != nil {
		return nil, err
	}
	denominator, err := math.CheckedAdd(scaledReserve, amountInWithFee)
	if err != nil {
		return nil, err
	}
	return math.CheckedDiv(numerator, denominator)
}

// Swap executes the exchange against the pool's ledger balances.
func (s *SushiswapV2) Swap(ctx context.Context, pool, assetIn, assetOut common.Address, amountIn, minAmountOut *big.Int) (*big.Int, error) {
	amountOut, err := s.ExpectedOutput(ctx, pool, assetIn, assetOut, amountIn)
	if err != nil {
		return nil, err
	}
	if amountOut.Sign() <= 0 || amountOut.Cmp(minAmountOut) < 0 {
		return nil, apperror.New(apperror.CodeSwapFailed, "sushiswap.Swap")
	}

	if err := s.ledger.Transfer(assetIn, s.executor, pool, amountIn); err != nil {
		return nil, apperror.Wrap(apperror.CodeSwapFailed, "sushiswap.Swap", err)
	}
	if err := s.ledger.Transfer(assetOut, pool, s.executor, amountOut); err != nil {
		return nil, apperror.Wrap(apperror.CodeSwapFailed, "sushiswap.Swap", err)
	}
	return amountOut, nil
}

func (s *SushiswapV2) getPool(pool, assetA, assetB common.Address) (*Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pools[pool]
	if !ok {
		return nil, apperror.New(apperror.CodeInvalidPoolAddress, "sushiswap.getPool")
	}
	if dex.PairKey(assetA, assetB) != dex.PairKey(p.Token0, p.Token1) {
		return nil, apperror.New(apperror.CodeInvalidTokenAddress, "sushiswap.getPool")
	}
	return p, nil
}
