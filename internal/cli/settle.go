package cli

import (
	"fmt"
	"io"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/pkg/ledgerv1"
)

func (c *cli) settleCommand() *cobra.Command {
	var from, to, amount, note string

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Record a payment from one participant to another",
		Long: `Record a payment from one participant to another.

Paying more than is owed is allowed; the difference becomes a debt the other way.

Example:
  splitledger settle --from Bob --to Alice --amount 15 --note "bank transfer"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q", amount)
			}
			resp, err := c.ledger.RecordSettlement(cmd.Context(), connect.NewRequest(&ledgerv1.RecordSettlementRequest{
				From:   from,
				To:     to,
				Amount: value,
				Note:   note,
			}))
			if err != nil {
				return err
			}
			s := resp.Msg.Settlement
			return c.printer(cmd).print(s, func(w io.Writer) {
				fmt.Fprintf(w, "Payment recorded: %s paid %s %s\n", s.From, s.To, money(s.Amount))
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "participant who paid")
	cmd.Flags().StringVar(&to, "to", "", "participant who received the payment")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount paid")
	cmd.Flags().StringVar(&note, "note", "", "optional note")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func (c *cli) settlementsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "settlements",
		Short: "List recorded payments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.ledger.ListSettlements(cmd.Context(), connect.NewRequest(&ledgerv1.ListSettlementsRequest{}))
			if err != nil {
				return err
			}
			settlements := resp.Msg.Settlements
			return c.printer(cmd).print(settlements, func(w io.Writer) {
				if len(settlements) == 0 {
					fmt.Fprintln(w, "No payments recorded yet!")
					return
				}
				rows := [][]string{{"ID", "FROM", "TO", "AMOUNT", "DATE", "NOTE"}}
				for _, s := range settlements {
					rows = append(rows, []string{
						fmt.Sprint(s.ID), s.From, s.To, money(s.Amount), s.CreatedAt.Format("2006-01-02"), s.Note,
					})
				}
				tabular(w, rows)
			})
		},
	}
}
