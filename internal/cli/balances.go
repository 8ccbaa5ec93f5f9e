package cli

import (
	"fmt"
	"io"
	"strings"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/pkg/ledgerv1"
)

func (c *cli) balancesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show who owes whom",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.ledger.GetBalances(cmd.Context(), connect.NewRequest(&ledgerv1.GetBalancesRequest{}))
			if err != nil {
				return err
			}
			return c.printer(cmd).print(resp.Msg, func(w io.Writer) {
				writeBalances(w, resp.Msg)
			})
		},
	}
}

func writeBalances(w io.Writer, b *ledgerv1.GetBalancesResponse) {
	if len(b.Debts) == 0 {
		fmt.Fprintln(w, "All settled up! No outstanding balances.")
		return
	}

	writeLines(w, "Outstanding Balances:", strings.Repeat("-", 40))
	for _, d := range b.Debts {
		fmt.Fprintf(w, "%s owes %s: %s\n", d.From, d.To, money(d.Amount))
	}

	rule := strings.Repeat("=", 40)
	writeLines(w, "", rule, "Participant Summaries:", rule)
	for _, m := range b.Members {
		switch m.Status {
		case string(calculator.StatusGetsBack):
			fmt.Fprintf(w, "%s: Gets back %s\n", m.Name, money(m.NetBalance))
		case string(calculator.StatusOwes):
			fmt.Fprintf(w, "%s: Owes %s\n", m.Name, money(m.NetBalance.Abs()))
		default:
			fmt.Fprintf(w, "%s: Settled up\n", m.Name)
		}
	}
}
