package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"mediadup/internal/scan"
	"mediadup/internal/store"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past scan sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *store.Store) error {
				sessions, err := s.ListSessions(cmd.Context(), limit)
				if err != nil {
					return err
				}

				if jsonOut {
					return printJSON(cmd, sessions)
				}

				if len(sessions) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No scan sessions recorded yet")
					return nil
				}

				rows := make([]table.Row, 0, len(sessions))
				for _, session := range sessions {
					rows = append(rows, table.Row{
						shortSessionID(session),
						session.StartedAt.Local().Format("2006-01-02 15:04"),
						string(session.Status),
						session.FilesSeen,
						len(session.Groups),
						humanize.IBytes(uint64(session.ReclaimableBytes())),
						session.ErrorCount,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					table.Row{"Session", "Started", "Status", "Files", "Groups", "Reclaimable", "Errors"},
					rows, 4, 5, 6, 7))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum sessions to list (0 = all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit sessions as JSON")

	cmd.AddCommand(newHistoryClearCommand(ctx))
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded scan sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *store.Store) error {
				removed, err := s.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d session(s)\n", removed)
				return nil
			})
		},
	}
}

func shortSessionID(session *scan.Session) string {
	id := session.ID.String()
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
