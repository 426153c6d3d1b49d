package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"mediadup/internal/review"
	"mediadup/internal/store"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var (
		sessionID string
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Recommend which copy of each duplicate group to keep",
		Long: "Scores duplicate copies by media-root distribution and file size and prints a " +
			"keep-recommendation per group. Nothing is deleted; acting on the advice is up to you.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *store.Store) error {
				session, err := resolveSession(cmd.Context(), s, sessionID)
				if err != nil {
					return err
				}

				recs := review.Recommend(session)
				if jsonOut {
					return printJSON(cmd, recs)
				}

				out := cmd.OutOrStdout()
				if len(recs) == 0 {
					fmt.Fprintln(out, "No duplicate groups in this session")
					return nil
				}

				rows := make([]table.Row, 0, len(recs))
				conflicts := 0
				for i, rec := range recs {
					group := session.Groups[i]
					note := rec.Reason
					if rec.QualityConflict {
						note += " (larger copy discarded)"
						conflicts++
					}
					rows = append(rows, table.Row{
						i + 1,
						shortDigest(rec.Digest),
						len(group.Files),
						humanize.IBytes(uint64(group.Files[rec.KeepIndex].Size)),
						rec.KeepPath,
						note,
					})
				}
				fmt.Fprintln(out, renderTable(
					table.Row{"#", "Digest", "Copies", "Size", "Keep", "Why"},
					rows, 1, 3, 4))
				if conflicts > 0 {
					fmt.Fprintf(out, "%d recommendation(s) discard a larger copy; double-check those before deleting anything.\n", conflicts)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (full or prefix; default latest)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit recommendations as JSON")
	return cmd
}
