package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/shiroemons/go-mushimix/internal/mushimix/app"
	"github.com/shiroemons/go-mushimix/internal/mushimix/config"
)

func main() {
	cfg := config.ParseCheckFlags()
	config.HandleVersion("cavecheck", cfg.ShowVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	checker := app.NewChecker(cfg, app.CheckOptions{})
	if err := checker.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "エラー: %v\n", err)
		stop()
		os.Exit(1)
	}
}
