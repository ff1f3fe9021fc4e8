package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/7vars/combine/internal/playground"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := playground.NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
