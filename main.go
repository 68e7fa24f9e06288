package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lumenarb/flasharb/cmd"
	"github.com/lumenarb/flasharb/config"
	"github.com/lumenarb/flasharb/utils"
)

func main() {
	_ = config.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer utils.CleanupLogger()
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
