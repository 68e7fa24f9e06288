package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/lumenarb/flasharb/config"
	"github.com/lumenarb/flasharb/dex"
	"github.com/lumenarb/flasharb/dex/sushiswap"
	"github.com/lumenarb/flasharb/dex/uniswap"
	"github.com/lumenarb/flasharb/executor"
	"github.com/lumenarb/flasharb/token"
	"github.com/lumenarb/flasharb/utils/metrics"
)

// bootstrap builds the ledger, venue adapters, and executor from config,
// seeds pool reserves, and initializes the owner.
func bootstrap(cfg *config.Config, logger *zap.Logger) (*executor.FlashLoanExecutor, *token.Ledger, error) {
	ledger := token.NewLedger()
	account := cfg.ExecutorAddress()

	uni := uniswap.New(ledger, account)
	sushi := sushiswap.New(ledger, account)
	registry := dex.NewRegistry()
	registry.Register(dex.TypeUniswapV2, uni)
	registry.Register(dex.TypeSushiswapV2, sushi)

	for _, lp := range cfg.LendingPools {
		asset, err := cfg.ResolveToken(lp.Token)
		if err != nil {
			return nil, nil, err
		}
		liquidity, err := config.ParseAmount(lp.Liquidity)
		if err != nil {
			return nil, nil, fmt.Errorf("lending pool %s: %w", lp.Address, err)
		}
		if err := ledger.Mint(asset, common.HexToAddress(lp.Address), liquidity); err != nil {
			return nil, nil, fmt.Errorf("lending pool %s: %w", lp.Address, err)
		}
	}

	for _, pc := range cfg.Pools {
		token0, err := cfg.ResolveToken(pc.Token0)
		if err != nil {
			return nil, nil, err
		}
		token1, err := cfg.ResolveToken(pc.Token1)
		if err != nil {
			return nil, nil, err
		}
		reserve0, err := config.ParseAmount(pc.Reserve0)
		if err != nil {
			return nil, nil, fmt.Errorf("pool %s: %w", pc.Address, err)
		}
		reserve1, err := config.ParseAmount(pc.Reserve1)
		if err != nil {
			return nil, nil, fmt.Errorf("pool %s: %w", pc.Address, err)
		}
		pool := common.HexToAddress(pc.Address)
		if err := ledger.Mint(token0, pool, reserve0); err != nil {
			return nil, nil, fmt.Errorf("pool %s: %w", pc.Address, err)
		}
		if err := ledger.Mint(token1, pool, reserve1); err != nil {
			return nil, nil, fmt.Errorf("pool %s: %w", pc.Address, err)
		}

		switch pc.Venue {
		case "uniswap_v2":
			err = uni.RegisterPool(pool, token0, token1)
		case "sushiswap_v2":
			feeTier := pc.FeeTier
			if feeTier == 0 {
				feeTier = sushiswap.DefaultFeeTier
			}
			err = sushi.RegisterPoolWithFee(pool, token0, token1, feeTier)
		default:
			err = fmt.Errorf("unknown venue %q", pc.Venue)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("pool %s: %w", pc.Address, err)
		}
	}

	exec := executor.New(ledger, account, registry, logger)
	if err := exec.Initialize(cfg.OwnerAddress()); err != nil {
		return nil, nil, err
	}

	if cfg.Metrics.Enabled {
		metrics.Initialize(logger)
		go func() {
			if err := metrics.Serve(cfg.Metrics.Endpoint); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	return exec, ledger, nil
}
