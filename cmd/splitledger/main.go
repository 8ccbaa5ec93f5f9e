// Command splitledger records shared expenses and shows simplified balances.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/mmynk/splitledger/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
