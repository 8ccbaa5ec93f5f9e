// Package cli implements the splitledger command line. Commands talk to a
// LedgerService either in-process, over the configured store, or remotely with
// --server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/app"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/pkg/ledgerv1"
	"github.com/mmynk/splitledger/pkg/logging"
)

type cli struct {
	envFile string
	server  string
	output  string
	debug   bool

	ledger ledgerv1.LedgerServiceClient
	close  func() error
}

// Execute runs the command line with os.Args and returns the process exit code.
func Execute(ctx context.Context) int {
	c := &cli{}
	root := newRootCommand(c)
	err := root.ExecuteContext(ctx)
	if closeErr := c.shutdown(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errorMessage(err))
		return 1
	}
	return 0
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "splitledger",
		Short: "Track shared expenses and who owes whom",
		Long: `splitledger records shared expenses and payments between a group of
participants and shows the smallest set of debts that settles everything.

Expenses can be split equally, by exact amounts, or by percentage.

Example:
  splitledger participant add Alice Bob Carol
  splitledger expense add -d Dinner -a 90 -p Alice
  splitledger expense add -d Taxi -a 30 -p Bob --participants Alice,Bob
  splitledger balances
  splitledger settle --from Bob --to Alice --amount 15`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().StringVar(&c.envFile, "env-file", "", "env file to load (default is .env when present)")
	root.PersistentFlags().StringVar(&c.server, "server", "", "LedgerService URL; uses the local store when empty")
	root.PersistentFlags().StringVarP(&c.output, "output", "o", formatTable, "output format: table, json or yaml")
	root.PersistentFlags().BoolVar(&c.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		c.participantCommand(),
		c.expenseCommand(),
		c.settleCommand(),
		c.settlementsCommand(),
		c.balancesCommand(),
	)
	return root
}

// setup connects to the ledger once per invocation.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	if err := validateFormat(c.output); err != nil {
		return err
	}
	if c.ledger != nil {
		return nil
	}

	cfg, err := config.Load(c.envFile)
	if err != nil {
		return err
	}
	level := "warn"
	if c.debug {
		level = "debug"
	}
	logging.Setup(cmd.ErrOrStderr(), level, cfg.LogFormat)

	if c.server != "" {
		c.ledger = ledgerv1.NewLedgerServiceClient(http.DefaultClient, c.server)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	a, err := app.Open(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	c.ledger = service.NewLedgerService(a.Journal)
	c.close = a.Close
	return nil
}

func (c *cli) shutdown() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

func (c *cli) printer(cmd *cobra.Command) printer {
	return printer{w: cmd.OutOrStdout(), format: c.output}
}

// errorMessage drops the Connect code prefix from RPC errors.
func errorMessage(err error) string {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Message()
	}
	return err.Error()
}

// writeLines writes each line followed by a newline.
func writeLines(w io.Writer, lines ...string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
