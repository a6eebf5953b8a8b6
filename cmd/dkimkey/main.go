package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/tbckr/dkimkey/internal/cli"
)

func main() {
	// Handle signal cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
