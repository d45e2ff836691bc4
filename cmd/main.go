package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/takak2166/mailassist/internal/cli"
	"github.com/takak2166/mailassist/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		logger.Error("Command failed", err)
		stop()
		os.Exit(1)
	}
}
