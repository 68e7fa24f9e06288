package cmd

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lumenarb/flasharb/config"
	"github.com/lumenarb/flasharb/executor"
	"github.com/lumenarb/flasharb/utils"
)

func addr(s string) common.Address {
	return common.HexToAddress(s)
}

var executeFlags struct {
	pool           string
	tokenBorrow    string
	tokenIntermed  string
	amount         string
	dexAType       uint32
	dexAPool       string
	dexBType       uint32
	dexBPool       string
	minProfitBps   uint32
	maxSlippageBps uint32
}

var executeCmd = &cobra.Command{
	Use:   "execute",
	Short: "Execute one flash loan arbitrage",
	Run: func(cmd *cobra.Command, args []string) {
		log := utils.GetLogger()

		cfg, err := config.Load(cfgFile)
		if err != nil {
			log.Fatal("Failed to load config", zap.Error(err))
		}

		exec, _, err := bootstrap(cfg, log)
		if err != nil {
			log.Fatal("Failed to bootstrap executor", zap.Error(err))
		}

		params, err := buildParams(cfg)
		if err != nil {
			log.Fatal("Invalid parameters", zap.Error(err))
		}

		netProfit, err := exec.ExecuteFlashLoanArbitrage(cmd.Context(), params)
		if err != nil {
			log.Fatal("Arbitrage failed", zap.Error(err))
		}

		log.Info("arbitrage complete",
			zap.String("net_profit", formatAmount(netProfit, cfg.DecimalsFor(params.TokenBorrow))),
		)
	},
}

// buildParams resolves flag values against the configured token universe.
func buildParams(cfg *config.Config) (executor.Params, error) {
	var p executor.Params

	tokenBorrow, err := cfg.ResolveToken(executeFlags.tokenBorrow)
	if err != nil {
		return p, err
	}
	tokenIntermed, err := cfg.ResolveToken(executeFlags.tokenIntermed)
	if err != nil {
		return p, err
	}
	amount, err := config.ParseAmount(executeFlags.amount)
	if err != nil {
		return p, err
	}

	minProfit := executeFlags.minProfitBps
	if minProfit == 0 {
		minProfit = cfg.Defaults.MinProfitBps
	}
	maxSlippage := executeFlags.maxSlippageBps
	if maxSlippage == 0 {
		maxSlippage = cfg.Defaults.MaxSlippageBps
	}

	return executor.Params{
		Pool:              addr(executeFlags.pool),
		TokenBorrow:       tokenBorrow,
		TokenIntermediate: tokenIntermed,
		Amount:            amount,
		DexAType:          executeFlags.dexAType,
		DexAPool:          addr(executeFlags.dexAPool),
		DexBType:          executeFlags.dexBType,
		DexBPool:          addr(executeFlags.dexBPool),
		MinProfitBps:      minProfit,
		MaxSlippageBps:    maxSlippage,
	}, nil
}

func init() {
	rootCmd.AddCommand(executeCmd)
	executeCmd.Flags().StringVar(&executeFlags.pool, "pool", "", "lending pool to borrow from")
	executeCmd.Flags().StringVar(&executeFlags.tokenBorrow, "borrow", "", "token to borrow (symbol or address)")
	executeCmd.Flags().StringVar(&executeFlags.tokenIntermed, "intermediate", "", "intermediate token (symbol or address)")
	executeCmd.Flags().StringVar(&executeFlags.amount, "amount", "", "amount to borrow")
	executeCmd.Flags().Uint32Var(&executeFlags.dexAType, "dex-a", 0, "first venue type (0=UniswapV2, 1=SushiswapV2)")
	executeCmd.Flags().StringVar(&executeFlags.dexAPool, "dex-a-pool", "", "pool address on first venue")
	executeCmd.Flags().Uint32Var(&executeFlags.dexBType, "dex-b", 1, "second venue type (0=UniswapV2, 1=SushiswapV2)")
	executeCmd.Flags().StringVar(&executeFlags.dexBPool, "dex-b-pool", "", "pool address on second venue")
	executeCmd.Flags().Uint32Var(&executeFlags.minProfitBps, "min-profit-bps", 0, "minimum profit floor in basis points")
	executeCmd.Flags().Uint32Var(&executeFlags.maxSlippageBps, "max-slippage-bps", 0, "maximum slippage tolerance in basis points")
	executeCmd.MarkFlagRequired("pool")
	executeCmd.MarkFlagRequired("borrow")
	executeCmd.MarkFlagRequired("intermediate")
	executeCmd.MarkFlagRequired("amount")
}
