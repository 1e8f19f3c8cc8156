package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nhle/task-checklist/internal/cli"
	"github.com/nhle/task-checklist/internal/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.ExecuteContext(ctx)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			fmt.Fprintln(os.Stderr, "\nOperation cancelled")
		} else {
			fmt.Fprintln(os.Stderr, render.Error(err))
		}
	}
	stop()
	os.Exit(cli.ExitCode(err))
}
