// Package dex defines the exchange adapter capability and the venue
// dispatch used by the route executor.
package dex

import (
	"context"
	"math/big"

	"github.com/cespare/xxhash/v2"
	"github.com/ethereum/go-ethereum/common"

	"github.com/lumenarb/flasharb/apperror"
)

// Exchange represents a decentralized exchange venue. Implementations
// must keep ExpectedOutput monotonically non-decreasing in amountIn for
// fixed reserves, and never quote more than the output-side reserve.
type Exchange interface {
	// Name returns the venue name
	Name() string

	// Reserves returns the pool's reserves for a token pair
	Reserves(ctx context.Context, pool, assetA, assetB common.Address) (*big.Int, *big.Int, error)

	// ExpectedOutput quotes the output amount for a given input
	ExpectedOutput(ctx context.Context, pool, assetIn, assetOut common.Address, amountIn *big.Int) (*big.Int, error)

	// Swap executes the exchange, enforcing minAmountOut
	Swap(ctx context.Context, pool, assetIn, assetOut common.Address, amountIn, minAmountOut *big.Int) (*big.Int, error)
}

// Type is the venue discriminant.
type Type int

const (
	TypeUniswapV2 Type = iota
	TypeSushiswapV2
)

// String returns the venue name for a type tag.
func (t Type) String() string {
	switch t {
	case TypeUniswapV2:
		return "UniswapV2"
	case TypeSushiswapV2:
		return "SushiswapV2"
	default:
		return "Unknown"
	}
}

// ParseType maps wire-level venue codes to type tags: 0 is UniswapV2,
// 1 is SushiswapV2. Unrecognized codes are an invalid route.
func ParseType(code uint32) (Type, error) {
	switch code {
	case 0:
		return TypeUniswapV2, nil
	case 1:
		return TypeSushiswapV2, nil
	default:
		return 0, apperror.New(apperror.CodeInvalidRoute, "dex.ParseType")
	}
}

// PairKey hashes an unordered asset pair into a cache key.
func PairKey(a, b common.Address) uint64 {
	if a.Hex() > b.Hex() {
		a, b = b, a
	}
	h := xxhash.New()
	h.Write(a.Bytes())
	h.Write(b.Bytes())
	return h.Sum64()
}
