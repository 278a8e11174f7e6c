package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/rnbridge/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()

	os.Exit(cmd.ExitCode(err))
}
