package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mediadup/internal/report"
	"mediadup/internal/scan"
	"mediadup/internal/store"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var (
		sessionID string
		jsonOut   bool
		rewrite   bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the report for a recorded scan session",
		Long:  "Renders the duplicate report for a session from history. Defaults to the most recent session.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withStore(func(s *store.Store) error {
				session, err := resolveSession(cmd.Context(), s, sessionID)
				if err != nil {
					return err
				}

				if rewrite {
					jsonPath, summaryPath, err := report.Write(cfg.Paths.ReportDir, session)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", jsonPath)
					fmt.Fprintf(cmd.OutOrStdout(), "Summary written to %s\n", summaryPath)
					return nil
				}

				if jsonOut {
					return printJSON(cmd, report.BuildDocument(session))
				}
				fmt.Fprint(cmd.OutOrStdout(), report.RenderSummary(session))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (full or prefix; default latest)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the report as JSON")
	cmd.Flags().BoolVar(&rewrite, "write", false, "Write report files instead of printing")
	return cmd
}

// resolveSession finds a session by full ID, by unique prefix, or falls back
// to the most recent one.
func resolveSession(ctx context.Context, s *store.Store, idArg string) (*scan.Session, error) {
	idArg = strings.TrimSpace(idArg)
	if idArg == "" {
		latest, err := s.LatestSession(ctx)
		if err != nil {
			return nil, err
		}
		if latest == nil {
			return nil, errors.New("no scan sessions recorded yet")
		}
		return latest, nil
	}

	if id, err := uuid.Parse(idArg); err == nil {
		session, err := s.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, fmt.Errorf("session %s not found", idArg)
		}
		return session, nil
	}

	sessions, err := s.ListSessions(ctx, 0)
	if err != nil {
		return nil, err
	}
	var match *scan.Session
	for _, session := range sessions {
		if strings.HasPrefix(session.ID.String(), strings.ToLower(idArg)) {
			if match != nil {
				return nil, fmt.Errorf("session prefix %q is ambiguous", idArg)
			}
			match = session
		}
	}
	if match == nil {
		return nil, fmt.Errorf("session %s not found", idArg)
	}
	return match, nil
}
