package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"transfer_scanner/internal/transport/cli"
	"transfer_scanner/internal/worker"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx, cli.NewRootCommand()); err != nil && !worker.IsStopped(err) {
		cancel()
		os.Exit(1)
	}
}
