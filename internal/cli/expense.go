package cli

import (
	"fmt"
	"io"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/ledgerv1"
)

func (c *cli) expenseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expense",
		Aliases: []string{"expenses"},
		Short:   "Record and list expenses",
	}
	cmd.AddCommand(c.expenseAddCommand(), c.expenseListCommand())
	return cmd
}

func (c *cli) expenseAddCommand() *cobra.Command {
	var (
		description  string
		amount       string
		paidBy       string
		participants []string
		splitType    string
		values       map[string]string
		preview      bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense paid by one participant",
		Long: `Record an expense paid by one participant and split among several.

Without --participants the expense is split among everyone registered.
Exact and percentage splits need one --value per participant.

Example:
  splitledger expense add -d Groceries -a 60 -p Alice
  splitledger expense add -d Hotel -a 200 -p Bob -s percentage --value Alice=25,Bob=75
  splitledger expense add -d Tickets -a 80 -p Bob -s exact --value Alice=30,Bob=50 --preview`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q", amount)
			}
			parsed, err := parseValues(values)
			if err != nil {
				return err
			}

			if len(participants) == 0 {
				resp, err := c.ledger.ListParticipants(cmd.Context(), connect.NewRequest(&ledgerv1.ListParticipantsRequest{}))
				if err != nil {
					return err
				}
				for _, p := range resp.Msg.Participants {
					participants = append(participants, p.Name)
				}
			}

			if preview {
				resp, err := c.ledger.PreviewSplit(cmd.Context(), connect.NewRequest(&ledgerv1.PreviewSplitRequest{
					Amount:       total,
					PaidBy:       paidBy,
					Participants: participants,
					SplitType:    splitType,
					Values:       parsed,
				}))
				if err != nil {
					return err
				}
				shares := resp.Msg.Shares
				return c.printer(cmd).print(shares, func(w io.Writer) {
					fmt.Fprintf(w, "Preview (%s split, nothing recorded):\n", splitType)
					writeShares(w, shares)
				})
			}

			resp, err := c.ledger.CreateExpense(cmd.Context(), connect.NewRequest(&ledgerv1.CreateExpenseRequest{
				Description:  description,
				Amount:       total,
				PaidBy:       paidBy,
				Participants: participants,
				SplitType:    splitType,
				Values:       parsed,
			}))
			if err != nil {
				return err
			}
			expense := resp.Msg.Expense
			return c.printer(cmd).print(expense, func(w io.Writer) {
				fmt.Fprintf(w, "Expense #%d added: %s %s paid by %s\n", expense.ID, expense.Description, money(expense.Amount), expense.PaidBy)
				writeShares(w, expense.Shares)
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "what the expense was for")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "total amount paid")
	cmd.Flags().StringVarP(&paidBy, "paid-by", "p", "", "participant who paid")
	cmd.Flags().StringSliceVar(&participants, "participants", nil, "participants to split among (default everyone)")
	cmd.Flags().StringVarP(&splitType, "split", "s", string(models.SplitEqual), "split type: equal, exact or percentage")
	cmd.Flags().StringToStringVar(&values, "value", nil, "per-participant amount or percentage, as NAME=VALUE")
	cmd.Flags().BoolVar(&preview, "preview", false, "show the shares without recording the expense")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("paid-by")

	return cmd
}

func (c *cli) expenseListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.ledger.ListExpenses(cmd.Context(), connect.NewRequest(&ledgerv1.ListExpensesRequest{}))
			if err != nil {
				return err
			}
			expenses := resp.Msg.Expenses
			return c.printer(cmd).print(expenses, func(w io.Writer) {
				if len(expenses) == 0 {
					fmt.Fprintln(w, "No expenses recorded yet!")
					return
				}
				fmt.Fprintln(w, "All Expenses:")
				for _, e := range expenses {
					writeLines(w,
						"",
						fmt.Sprintf("#%d - %s", e.ID, e.Description),
						fmt.Sprintf("  Amount: %s", money(e.Amount)),
						fmt.Sprintf("  Paid by: %s", e.PaidBy),
						fmt.Sprintf("  Date: %s", e.CreatedAt.Format("2006-01-02")),
						fmt.Sprintf("  Split (%s):", e.SplitType),
					)
					for _, s := range e.Shares {
						fmt.Fprintf(w, "    %s: %s\n", s.Participant, money(s.Amount))
					}
				}
			})
		},
	}
}

func parseValues(values map[string]string) (map[string]decimal.Decimal, error) {
	if len(values) == 0 {
		return nil, nil
	}
	parsed := make(map[string]decimal.Decimal, len(values))
	for name, raw := range values {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q for %s", raw, name)
		}
		parsed[name] = v
	}
	return parsed, nil
}

func writeShares(w io.Writer, shares []ledgerv1.Share) {
	for _, s := range shares {
		fmt.Fprintf(w, "  %s: %s\n", s.Participant, money(s.Amount))
	}
}
