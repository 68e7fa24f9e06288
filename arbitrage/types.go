package arbitrage

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lumenarb/flasharb/dex"
)

// DexConfig selects one venue leg: the venue type and the pool to trade
// against.
type DexConfig struct {
	Type dex.Type
	Pool common.Address
}

// Route describes one arbitrage attempt. Constructed per call and
// read-only afterward.
type Route struct {
	RouteID           uint32
	DexA              DexConfig
	DexB              DexConfig
	TokenBorrow       common.Address
	TokenIntermediate common.Address
	Amount            *big.Int
	MinProfitBps      uint32
	MaxSlippageBps    uint32
}

// Result is the outcome of one executed route.
type Result struct {
	Success          bool
	RouteID          uint32
	AmountIn         *big.Int
	AmountAfterSwap1 *big.Int
	AmountAfterSwap2 *big.Int
	GrossProfit      *big.Int
	NetProfit        *big.Int
	FeesPaid         *big.Int
}
