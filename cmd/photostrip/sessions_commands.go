package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"photostrip/internal/api"
	"photostrip/internal/filter"
	"photostrip/internal/store"
)

const sessionTimeFormat = "2006-01-02 15:04:05"

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session"},
		Short:   "Inspect and manage stored sessions",
	}

	sessionsCmd.AddCommand(newSessionsListCommand(ctx))
	sessionsCmd.AddCommand(newSessionsShowCommand(ctx))
	sessionsCmd.AddCommand(newSessionsDeleteCommand(ctx))

	return sessionsCmd
}

func newSessionsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored sessions, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			records, err := st.List(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				resp := api.SessionListResponse{Sessions: make([]api.Session, len(records))}
				for i, rec := range records {
					resp.Sessions[i] = api.FromRecord(rec)
				}
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No sessions stored")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Label", "Layout", "Filter", "Photos", "Created"},
				sessionRows(records),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func sessionRows(records []store.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			shortID(rec.ID),
			rec.Label,
			rec.Layout,
			filter.DisplayName(rec.Filter),
			photoCountText(rec),
			rec.CreatedAt.Local().Format(sessionTimeFormat),
		})
	}
	return rows
}

func photoCountText(rec store.Record) string {
	text := fmt.Sprintf("%d/%d", rec.Captured, rec.Expected)
	if rec.Partial() {
		text += " (partial)"
	}
	return text
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newSessionsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <session>",
		Short: "Show one session by id or label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			rec, err := st.Get(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, api.FromRecord(rec))
			}

			rows := [][]string{
				{"ID", rec.ID},
				{"Label", rec.Label},
				{"Layout", rec.Layout},
				{"Filter", filter.DisplayName(rec.Filter)},
				{"Filter applied at capture", yesNo(rec.FilterApplied)},
				{"Photos", photoCountText(rec)},
				{"Created", rec.CreatedAt.Local().Format(sessionTimeFormat)},
			}
			if len(rec.Skipped) > 0 {
				rows = append(rows, []string{"Skipped", formatSlots(rec.Skipped)})
			}
			base := strings.TrimRight(cfg.Export.PublicBaseURL, "/")
			for _, path := range api.FromRecord(rec).Artifacts {
				rows = append(rows, []string{"Artifact", base + path})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newSessionsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <session>...",
		Aliases: []string{"rm", "retake"},
		Short:   "Delete sessions so they can be retaken",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, ref := range args {
				ref = strings.TrimSpace(ref)
				if err := st.Delete(cmd.Context(), ref); err != nil {
					return fmt.Errorf("delete %s: %w", strconv.Quote(ref), err)
				}
				fmt.Fprintf(out, "Deleted session %s\n", ref)
			}
			return nil
		},
	}
}
