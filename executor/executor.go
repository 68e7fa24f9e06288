// Package executor composes the flash loan lifecycle, the two-leg route
// executor, and the profit gate into one atomic operation, and owns the
// per-asset profit ledger.
package executor

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/lumenarb/flasharb/apperror"
	"github.com/lumenarb/flasharb/arbitrage"
	"github.com/lumenarb/flasharb/dex"
	"github.com/lumenarb/flasharb/flashloan"
	"github.com/lumenarb/flasharb/security"
	"github.com/lumenarb/flasharb/token"
	"github.com/lumenarb/flasharb/utils/math"
)

const historySize = 128

// Params is the entry-point surface of one arbitrage call. Venue types
// are wire-level integer codes: 0 = UniswapV2, 1 = SushiswapV2.
type Params struct {
	Pool              common.Address // lending pool to borrow from
	TokenBorrow       common.Address
	TokenIntermediate common.Address
	Amount            *big.Int
	DexAType          uint32
	DexAPool          common.Address
	DexBType          uint32
	DexBPool          common.Address
	MinProfitBps      uint32
	MaxSlippageBps    uint32
}

// FlashLoanExecutor orchestrates atomic flash loan arbitrage. Any
// failure after the guard is acquired rolls the ledger back to its
// pre-call snapshot, standing in for a host transaction boundary.
type FlashLoanExecutor struct {
	metrics struct {
		executions      *prometheus.CounterVec
		executionTime   prometheus.Histogram
		profitHarvested prometheus.Counter
	}

	ledger  *token.Ledger
	account common.Address // the executor's own holdings account
	loans   *flashloan.Manager
	routes  *arbitrage.Executor
	guard   security.ReentrancyGuard
	logger  *zap.Logger

	routeCounter uint32
	history      *lru.Cache

	mu          sync.RWMutex
	initialized bool
	owner       common.Address
	paused      bool
	profits     map[common.Address]*big.Int
}

// New creates a flash loan executor bound to a ledger account and a set
// of registered venues.
func New(ledger *token.Ledger, account common.Address, dexes *dex.Registry, logger *zap.Logger) *FlashLoanExecutor {
	history, _ := lru.New(historySize)

	x := &FlashLoanExecutor{
		ledger:  ledger,
		account: account,
		loans:   flashloan.NewManager(ledger, account, logger),
		routes:  arbitrage.NewExecutor(dexes, logger),
		logger:  logger,
		history: history,
		profits: make(map[common.Address]*big.Int),
	}

	x.metrics.executions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arbitrage_executions_total",
		Help: "Number of arbitrage executions by outcome",
	}, []string{"outcome"})

	x.metrics.executionTime = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "arbitrage_execution_seconds",
		Help:    "End-to-end arbitrage execution time",
		Buckets: prometheus.DefBuckets,
	})

	x.metrics.profitHarvested = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "arbitrage_profit_harvested_total",
		Help: "Cumulative net profit banked across all assets",
	})

	return x
}

// Initialize sets the contract owner. It may run exactly once.
func (x *FlashLoanExecutor) Initialize(owner common.Address) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.initialized {
		return apperror.New(apperror.CodeAlreadyInitialized, "executor.Initialize")
	}
	x.owner = owner
	x.initialized = true
	return nil
}

// Owner returns the contract owner.
func (x *FlashLoanExecutor) Owner() common.Address {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.owner
}

// Paused reports whether execution is suspended.
func (x *FlashLoanExecutor) Paused() bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.paused
}

// Pause suspends arbitrage execution. Owner only.
func (x *FlashLoanExecutor) Pause(caller common.Address) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if caller != x.owner {
		return apperror.New(apperror.CodeUnauthorized, "executor.Pause")
	}
	x.paused = true
	x.logger.Info("pause status changed", zap.Bool("paused", true))
	return nil
}

// Unpause resumes arbitrage execution. Owner only.
func (x *FlashLoanExecutor) Unpause(caller common.Address) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if caller != x.owner {
		return apperror.New(apperror.CodeUnauthorized, "executor.Unpause")
	}
	x.paused = false
	x.logger.Info("pause status changed", zap.Bool("paused", false))
	return nil
}

// ExecuteFlashLoanArbitrage runs the full cycle: borrow, two swaps,
// profit validation, repayment, profit banking. Returns the net profit
// banked for the borrowed asset.
func (x *FlashLoanExecutor) ExecuteFlashLoanArbitrage(ctx context.Context, p Params) (*big.Int, error) {
	start := time.Now()
	defer func() {
		x.metrics.executionTime.Observe(time.Since(start).Seconds())
	}()

	if x.Paused() {
		x.metrics.executions.WithLabelValues("paused").Inc()
		return nil, apperror.New(apperror.CodeContractPaused, "executor.ExecuteFlashLoanArbitrage")
	}

	release, err := x.guard.Enter()
	if err != nil {
		x.metrics.executions.WithLabelValues("reentrancy").Inc()
		return nil, err
	}
	defer release()

	// The snapshot stands in for the host's transaction boundary: every
	// failure below restores balances exactly as they were.
	snapshot := x.ledger.Snapshot()

	result, err := x.run(ctx, p)
	if err != nil {
		x.ledger.Restore(snapshot)
		x.metrics.executions.WithLabelValues("failure").Inc()
		x.logger.Warn("arbitrage aborted", zap.Error(err))
		return nil, err
	}

	if err := x.addProfit(p.TokenBorrow, result.NetProfit); err != nil {
		x.ledger.Restore(snapshot)
		x.metrics.executions.WithLabelValues("failure").Inc()
		return nil, err
	}

	x.history.Add(result.RouteID, result)
	x.metrics.executions.WithLabelValues("success").Inc()
	v, _ := new(big.Float).SetInt(result.NetProfit).Float64()
	x.metrics.profitHarvested.Add(v)

	return result.NetProfit, nil
}

// run performs the fallible middle of the operation. The caller owns the
// guard and the rollback.
func (x *FlashLoanExecutor) run(ctx context.Context, p Params) (*arbitrage.Result, error) {
	dexAType, err := dex.ParseType(p.DexAType)
	if err != nil {
		return nil, err
	}
	dexBType, err := dex.ParseType(p.DexBType)
	if err != nil {
		return nil, err
	}
	if p.Amount == nil || p.Amount.Sign() <= 0 {
		return nil, apperror.New(apperror.CodeInvalidFlashLoanAmount, "executor.run")
	}
	if p.TokenBorrow == (common.Address{}) || p.TokenIntermediate == (common.Address{}) {
		return nil, apperror.New(apperror.CodeInvalidTokenAddress, "executor.run")
	}

	loan, err := x.loans.Request(ctx, p.Pool, p.TokenBorrow, p.Amount)
	if err != nil {
		return nil, err
	}

	route := &arbitrage.Route{
		RouteID:           x.nextRouteID(),
		DexA:              arbitrage.DexConfig{Type: dexAType, Pool: p.DexAPool},
		DexB:              arbitrage.DexConfig{Type: dexBType, Pool: p.DexBPool},
		TokenBorrow:       p.TokenBorrow,
		TokenIntermediate: p.TokenIntermediate,
		Amount:            p.Amount,
		MinProfitBps:      p.MinProfitBps,
		MaxSlippageBps:    p.MaxSlippageBps,
	}

	result, err := x.routes.Execute(ctx, route, loan)
	if err != nil {
		return nil, err
	}

	if err := x.loans.Repay(ctx, loan); err != nil {
		return nil, err
	}
	return result, nil
}

// SimulateArbitrage projects the net profit of a route without touching
// any state: no slippage gate, no profit floor, no transfers.
func (x *FlashLoanExecutor) SimulateArbitrage(ctx context.Context, p Params) (*big.Int, error) {
	dexAType, err := dex.ParseType(p.DexAType)
	if err != nil {
		return nil, err
	}
	dexBType, err := dex.ParseType(p.DexBType)
	if err != nil {
		return nil, err
	}

	route := &arbitrage.Route{
		DexA:              arbitrage.DexConfig{Type: dexAType, Pool: p.DexAPool},
		DexB:              arbitrage.DexConfig{Type: dexBType, Pool: p.DexBPool},
		TokenBorrow:       p.TokenBorrow,
		TokenIntermediate: p.TokenIntermediate,
		Amount:            p.Amount,
		MinProfitBps:      0,
		MaxSlippageBps:    math.BpsDenominator,
	}
	return x.routes.Simulate(ctx, route)
}

// GetProfitBalance returns the accumulated profit for an asset.
func (x *FlashLoanExecutor) GetProfitBalance(asset common.Address) *big.Int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if p, ok := x.profits[asset]; ok {
		return new(big.Int).Set(p)
	}
	return big.NewInt(0)
}

// WithdrawProfit transfers banked profit to a recipient. Owner only; the
// ledger entry never goes below zero.
func (x *FlashLoanExecutor) WithdrawProfit(caller, asset common.Address, amount *big.Int, recipient common.Address) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if caller != x.owner {
		return apperror.New(apperror.CodeUnauthorized, "executor.WithdrawProfit")
	}
	if amount == nil || amount.Sign() <= 0 {
		return apperror.New(apperror.CodeInvalidWithdrawAmount, "executor.WithdrawProfit")
	}
	available, ok := x.profits[asset]
	if !ok || amount.Cmp(available) > 0 {
		return apperror.New(apperror.CodeInvalidWithdrawAmount, "executor.WithdrawProfit")
	}

	if err := x.ledger.Transfer(asset, x.account, recipient, amount); err != nil {
		return apperror.Wrap(apperror.CodeInvalidWithdrawAmount, "executor.WithdrawProfit", err)
	}
	x.profits[asset] = new(big.Int).Sub(available, amount)

	x.logger.Info("profit withdrawn",
		zap.String("caller", caller.Hex()),
		zap.String("token", asset.Hex()),
		zap.String("amount", amount.String()),
	)
	return nil
}

// RecentResults returns the retained results of recent routes, most
// recently used last.
func (x *FlashLoanExecutor) RecentResults() []*arbitrage.Result {
	keys := x.history.Keys()
	results := make([]*arbitrage.Result, 0, len(keys))
	for _, k := range keys {
		if v, ok := x.history.Get(k); ok {
			results = append(results, v.(*arbitrage.Result))
		}
	}
	return results
}

func (x *FlashLoanExecutor) addProfit(asset common.Address, netProfit *big.Int) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	current, ok := x.profits[asset]
	if !ok {
		current = big.NewInt(0)
	}
	total, err := math.CheckedAdd(current, netProfit)
	if err != nil {
		return err
	}
	x.profits[asset] = total
	return nil
}

func (x *FlashLoanExecutor) nextRouteID() uint32 {
	return atomic.AddUint32(&x.routeCounter, 1)
}
