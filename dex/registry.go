package dex

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lumenarb/flasharb/apperror"
)

// Registry routes venue type tags to their adapter. Dispatch is a pure
// lookup with no side effects beyond delegating.
type Registry struct {
	mu        sync.RWMutex
	exchanges map[Type]Exchange
}

// NewRegistry creates an empty venue registry.
func NewRegistry() *Registry {
	return &Registry{
		exchanges: make(map[Type]Exchange),
	}
}

// Register binds an adapter to a venue type, replacing any previous one.
func (r *Registry) Register(t Type, ex Exchange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exchanges[t] = ex
}

// Get returns the adapter for a venue type.
func (r *Registry) Get(t Type) (Exchange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ex, ok := r.exchanges[t]
	if !ok {
		return nil, apperror.New(apperror.CodeInvalidRoute, "dex.Registry.Get")
	}
	return ex, nil
}

// ExecuteSwap dispatches a swap to the adapter for the venue type.
func (r *Registry) ExecuteSwap(ctx context.Context, t Type, pool, assetIn, assetOut common.Address, amountIn, minAmountOut *big.Int) (*big.Int, error) {
	ex, err := r.Get(t)
	if err != nil {
		return nil, err
	}
	return ex.Swap(ctx, pool, assetIn, assetOut, amountIn, minAmountOut)
}
