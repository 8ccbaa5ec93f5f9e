package cli

import (
	"fmt"
	"io"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/pkg/ledgerv1"
)

func (c *cli) participantCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "participant",
		Aliases: []string{"participants", "user"},
		Short:   "Manage participants",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME...",
		Short: "Register one or more participants",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var added []ledgerv1.Participant
			for _, name := range args {
				resp, err := c.ledger.AddParticipant(cmd.Context(), connect.NewRequest(&ledgerv1.AddParticipantRequest{Name: name}))
				if err != nil {
					return err
				}
				added = append(added, resp.Msg.Participant)
			}
			return c.printer(cmd).print(added, func(w io.Writer) {
				for _, p := range added {
					fmt.Fprintf(w, "Added participant %s\n", p.Name)
				}
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List participants in registration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.ledger.ListParticipants(cmd.Context(), connect.NewRequest(&ledgerv1.ListParticipantsRequest{}))
			if err != nil {
				return err
			}
			participants := resp.Msg.Participants
			return c.printer(cmd).print(participants, func(w io.Writer) {
				if len(participants) == 0 {
					fmt.Fprintln(w, "No participants yet!")
					return
				}
				rows := [][]string{{"NAME", "JOINED"}}
				for _, p := range participants {
					rows = append(rows, []string{p.Name, p.JoinedAt.Format("2006-01-02")})
				}
				tabular(w, rows)
			})
		},
	})

	return cmd
}
