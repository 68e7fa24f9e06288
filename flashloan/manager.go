// Package flashloan manages the borrow -> work -> repay lifecycle of a
// flash loan against a lending pool.
package flashloan

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"

	"github.com/lumenarb/flasharb/apperror"
	"github.com/lumenarb/flasharb/token"
	"github.com/lumenarb/flasharb/utils/math"
)

// Manager coordinates flash loan requests and repayments. The borrowed
// funds land on the executor account; repayment returns principal + fee
// to the source pool.
type Manager struct {
	metrics struct {
		requestLatency prometheus.Histogram
		activeLoans    prometheus.Gauge
		totalVolume    prometheus.Counter
		successCount   prometheus.Counter
		totalCount     prometheus.Counter
		successRate    prometheus.Gauge
		errors         prometheus.CounterVec
	}
	ledger   *token.Ledger
	executor common.Address
	logger   *zap.Logger
}

// NewManager creates a new flash loan manager
func NewManager(ledger *token.Ledger, executor common.Address, logger *zap.Logger) *Manager {
	m := &Manager{
		ledger:   ledger,
		executor: executor,
		logger:   logger,
	}

	// Initialize metrics
	m.metrics.requestLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "flashloan_request_latency_seconds",
		Help:    "Latency of flash loan requests",
		Buckets: prometheus.DefBuckets,
	})

	m.metrics.activeLoans = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "flashloan_active_loans",
		Help: "Number of currently active flash loans",
	})

	m.metrics.totalVolume = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flashloan_total_volume",
		Help: "Total volume of flash loans repaid",
	})

	m.metrics.successCount = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flashloan_success_count",
		Help: "Number of flash loans repaid in full",
	})

	m.metrics.totalCount = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flashloan_total_count",
		Help: "Total number of flash loans requested",
	})

	m.metrics.successRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "flashloan_success_rate",
		Help: "Ratio of repaid to requested flash loans",
	})

	m.metrics.errors = *prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flashloan_errors_total",
		Help: "Number of flash loan errors by type",
	}, []string{"error_type"})

	return m
}

// Request initiates a flash loan: validates the amount, checks pool
// liquidity, accrues the fee, and moves the principal from the pool to
// the executor account.
func (m *Manager) Request(ctx context.Context, pool, asset common.Address, amount *big.Int) (*Context, error) {
	start := time.Now()
	defer func() {
		m.metrics.requestLatency.Observe(time.Since(start).Seconds())
	}()
	m.metrics.totalCount.Inc()

	if amount == nil || amount.Sign() <= 0 {
		m.metrics.errors.WithLabelValues("invalid_amount").Inc()
		return nil, apperror.New(apperror.CodeInvalidFlashLoanAmount, "flashloan.Request")
	}

	poolBalance := m.ledger.Balance(asset, pool)
	if poolBalance.Cmp(amount) < 0 {
		m.metrics.errors.WithLabelValues("insufficient_liquidity").Inc()
		return nil, apperror.New(apperror.CodeInsufficientLiquidity, "flashloan.Request")
	}

	fee, err := math.FlashLoanFee(amount)
	if err != nil {
		m.metrics.errors.WithLabelValues("arithmetic").Inc()
		return nil, err
	}
	repayAmount, err := math.CheckedAdd(amount, fee)
	if err != nil {
		m.metrics.errors.WithLabelValues("arithmetic").Inc()
		return nil, err
	}

	if err := m.ledger.Transfer(asset, pool, m.executor, amount); err != nil {
		m.metrics.errors.WithLabelValues("transfer").Inc()
		return nil, apperror.Wrap(apperror.CodeInsufficientLiquidity, "flashloan.Request", err)
	}

	m.metrics.activeLoans.Inc()
	m.logger.Info("flash loan started",
		zap.String("pool", pool.Hex()),
		zap.String("token", asset.Hex()),
		zap.String("amount", amount.String()),
		zap.String("fee", fee.String()),
	)

	return &Context{
		Pool:           pool,
		Token:          asset,
		BorrowedAmount: new(big.Int).Set(amount),
		Fee:            fee,
		RepayAmount:    repayAmount,
		IsRepaid:       false,
	}, nil
}

// Repay returns principal + fee to the source pool. Idempotent: repaying
// an already-repaid context performs no second transfer and no error.
func (m *Manager) Repay(ctx context.Context, c *Context) error {
	if c.IsRepaid {
		return nil
	}

	balance := m.ledger.Balance(c.Token, m.executor)
	if !c.CanRepay(balance) {
		m.metrics.errors.WithLabelValues("repayment").Inc()
		return apperror.New(apperror.CodeRepaymentFailed, "flashloan.Repay")
	}

	if err := m.ledger.Transfer(c.Token, m.executor, c.Pool, c.RepayAmount); err != nil {
		m.metrics.errors.WithLabelValues("repayment").Inc()
		return apperror.Wrap(apperror.CodeRepaymentFailed, "flashloan.Repay", err)
	}

	c.IsRepaid = true
	m.metrics.activeLoans.Dec()
	m.metrics.successCount.Inc()
	v, _ := new(big.Float).SetInt(c.RepayAmount).Float64()
	m.metrics.totalVolume.Add(v)
	m.updateSuccessRate()

	m.logger.Info("flash loan repaid",
		zap.String("token", c.Token.Hex()),
		zap.String("amount", c.BorrowedAmount.String()),
		zap.String("fee", c.Fee.String()),
	)
	return nil
}

// updateSuccessRate recomputes the repaid/requested ratio from the
// counters' current values.
func (m *Manager) updateSuccessRate() {
	successCount := counterValue(m.metrics.successCount)
	totalCount := counterValue(m.metrics.totalCount)
	if totalCount > 0 {
		m.metrics.successRate.Set(successCount / totalCount)
	}
}

// counterValue reads a counter through the prometheus.Collector interface.
func counterValue(c prometheus.Counter) float64 {
	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	metric := <-ch
	if metric == nil {
		return 0
	}
	out := &dto.Metric{}
	if err := metric.Write(out); err != nil || out.Counter == nil {
		return 0
	}
	return *out.Counter.Value
}
