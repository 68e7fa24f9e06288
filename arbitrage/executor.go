// Package arbitrage drives a two-leg swap route across two venues and
// gates the result on the caller's profit floor.
package arbitrage

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/lumenarb/flasharb/apperror"
	"github.com/lumenarb/flasharb/dex"
	"github.com/lumenarb/flasharb/flashloan"
	"github.com/lumenarb/flasharb/security"
	"github.com/lumenarb/flasharb/utils/math"
)

// Executor runs arbitrage routes against registered venue adapters.
type Executor struct {
	dexes  *dex.Registry
	logger *zap.Logger
}

// NewExecutor creates a route executor.
func NewExecutor(dexes *dex.Registry, logger *zap.Logger) *Executor {
	return &Executor{
		dexes:  dexes,
		logger: logger,
	}
}

// Execute runs both legs of the route in fixed order: borrow asset to
// intermediate on venue A, intermediate back to borrow asset on venue B.
// After the legs it computes gross profit and validates net profit
// against the flash loan context and the route's minimum-profit floor.
func (e *Executor) Execute(ctx context.Context, route *Route, loan *flashloan.Context) (*Result, error) {
	if err := validateRoute(route); err != nil {
		return nil, err
	}

	amountStart := route.Amount

	amountAfterSwap1, err := e.executeLeg(ctx, route.DexA, route.TokenBorrow, route.TokenIntermediate, amountStart, route.MaxSlippageBps)
	if err != nil {
		return nil, err
	}

	amountAfterSwap2, err := e.executeLeg(ctx, route.DexB, route.TokenIntermediate, route.TokenBorrow, amountAfterSwap1, route.MaxSlippageBps)
	if err != nil {
		return nil, err
	}

	grossProfit, err := math.CheckedSub(amountAfterSwap2, amountStart)
	if err != nil {
		return nil, err
	}
	netProfit := loan.NetProfit(amountAfterSwap2)

	minProfit, err := math.MinProfitFloor(route.Amount, route.MinProfitBps)
	if err != nil {
		return nil, err
	}
	if err := security.CheckMinimumProfit(netProfit, minProfit); err != nil {
		return nil, err
	}

	e.logger.Info("profit calculated",
		zap.String("token", route.TokenBorrow.Hex()),
		zap.String("gross_profit", grossProfit.String()),
		zap.String("net_profit", netProfit.String()),
		zap.String("fees_paid", loan.Fee.String()),
	)
	e.logger.Info("arbitrage executed",
		zap.Uint32("route_id", route.RouteID),
		zap.String("dex_a_pool", route.DexA.Pool.Hex()),
		zap.String("dex_b_pool", route.DexB.Pool.Hex()),
		zap.String("net_profit", netProfit.String()),
	)

	return &Result{
		Success:          true,
		RouteID:          route.RouteID,
		AmountIn:         amountStart,
		AmountAfterSwap1: amountAfterSwap1,
		AmountAfterSwap2: amountAfterSwap2,
		GrossProfit:      grossProfit,
		NetProfit:        netProfit,
		FeesPaid:         loan.Fee,
	}, nil
}

// executeLeg quotes, swaps, and re-validates one leg. The slippage
// re-check runs here regardless of what the venue enforced: venue
// enforcement is not trusted as the sole safety boundary.
func (e *Executor) executeLeg(ctx context.Context, cfg DexConfig, assetIn, assetOut common.Address, amountIn *big.Int, maxSlippageBps uint32) (*big.Int, error) {
	exchange, err := e.dexes.Get(cfg.Type)
	if err != nil {
		return nil, err
	}

	expected, err := exchange.ExpectedOutput(ctx, cfg.Pool, assetIn, assetOut, amountIn)
	if err != nil {
		return nil, err
	}
	minOutput, err := math.ApplySlippage(expected, maxSlippageBps)
	if err != nil {
		return nil, err
	}

	actual, err := exchange.Swap(ctx, cfg.Pool, assetIn, assetOut, amountIn, minOutput)
	if err != nil {
		return nil, err
	}
	if err := security.CheckSlippage(expected, actual, maxSlippageBps); err != nil {
		return nil, err
	}

	e.logger.Info("swap completed",
		zap.String("venue", exchange.Name()),
		zap.String("pool", cfg.Pool.Hex()),
		zap.String("asset_in", assetIn.Hex()),
		zap.String("asset_out", assetOut.Hex()),
		zap.String("amount_in", amountIn.String()),
		zap.String("amount_out", actual.String()),
	)
	return actual, nil
}

// Simulate projects the route's net profit from venue quotes alone.
// No swaps run, no slippage gate applies, and the profit floor is not
// consulted: projected net = out2 - amount - fee(amount).
func (e *Executor) Simulate(ctx context.Context, route *Route) (*big.Int, error) {
	if err := validateRoute(route); err != nil {
		return nil, err
	}

	dexA, err := e.dexes.Get(route.DexA.Type)
	if err != nil {
		return nil, err
	}
	dexB, err := e.dexes.Get(route.DexB.Type)
	if err != nil {
		return nil, err
	}

	output1, err := dexA.ExpectedOutput(ctx, route.DexA.Pool, route.TokenBorrow, route.TokenIntermediate, route.Amount)
	if err != nil {
		return nil, err
	}
	output2, err := dexB.ExpectedOutput(ctx, route.DexB.Pool, route.TokenIntermediate, route.TokenBorrow, output1)
	if err != nil {
		return nil, err
	}

	fee, err := math.FlashLoanFee(route.Amount)
	if err != nil {
		return nil, err
	}
	netProfit, err := math.CheckedSub(output2, route.Amount)
	if err != nil {
		return nil, err
	}
	return math.CheckedSub(netProfit, fee)
}

func validateRoute(route *Route) error {
	if route.Amount == nil || route.Amount.Sign() <= 0 {
		return apperror.New(apperror.CodeInvalidFlashLoanAmount, "arbitrage.validateRoute")
	}
	if route.TokenBorrow == (common.Address{}) || route.TokenIntermediate == (common.Address{}) {
		return apperror.New(apperror.CodeInvalidTokenAddress, "arbitrage.validateRoute")
	}
	return nil
}
