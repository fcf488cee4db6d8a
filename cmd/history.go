package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/scholarnav/internal/history"
	"github.com/abhisek/scholarnav/internal/report"
	"github.com/abhisek/scholarnav/internal/ui/theme"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage saved profiles",
	}
	cmd.AddCommand(
		newHistoryListCmd(),
		newHistoryShowCmd(),
		newHistoryDeleteCmd(),
		newHistoryClearCmd(),
	)
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved profiles, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, sessionOpts{records: true})
			if err != nil {
				return err
			}
			defer s.Close()

			records := s.history.Load(cmd.Context())
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No saved profiles yet.")
				return nil
			}

			fmt.Fprintf(out, "%-8s  %-17s  %-24s  %-8s  %-16s  %s\n",
				"ID", "Saved", "Name", "Category", "Status", "Approval")
			fmt.Fprintln(out, strings.Repeat("─", 90))
			for _, rec := range records {
				fmt.Fprintf(out, "%-8s  %-17s  %-24s  %-8s  %-16s  %d%%\n",
					truncate(rec.ID, 8),
					rec.SavedAt().Local().Format("2006-01-02 15:04"),
					truncate(rec.StudentInfo.Name, 24),
					rec.StudentInfo.Category,
					truncate(rec.Analysis.EligibilityStatus, 16),
					rec.Analysis.AcceptanceProbability,
				)
			}
			return nil
		},
	}
}

func newHistoryShowCmd() *cobra.Command {
	var (
		asJSON bool
		width  int
	)
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the report of a saved profile",
		Long:  "Show the report of a saved profile. Any unique prefix of the ID is accepted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(cmd, sessionOpts{records: true})
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := findRecord(s.history.Load(ctx), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rec)
			}

			theme.Use(theme.ByName(string(s.prefs.Theme(ctx))))
			return printReport(cmd.OutOrStdout(), report.Report{
				Profile: rec.StudentInfo,
				Result:  rec.Analysis,
				SavedAt: rec.SavedAt(),
			}, width)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the saved record as JSON")
	cmd.Flags().IntVar(&width, "width", 80, "Report width in columns")
	return cmd
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(cmd, sessionOpts{records: true})
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := findRecord(s.history.Load(ctx), args[0])
			if err != nil {
				return err
			}
			if err := s.history.Delete(ctx, rec.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted saved profile for %s.\n", rec.StudentInfo.Name)
			return nil
		},
	}
}

func newHistoryClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(cmd, sessionOpts{records: true})
			if err != nil {
				return err
			}
			defer s.Close()

			n := len(s.history.Load(ctx))
			if n > 0 && !yes {
				return fmt.Errorf("refusing to delete %d saved profiles without --yes", n)
			}
			if err := s.history.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d saved profiles.\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// findRecord resolves an ID or a unique ID prefix.
func findRecord(records []history.SavedRecord, ref string) (history.SavedRecord, error) {
	if ref == "" {
		return history.SavedRecord{}, fmt.Errorf("an ID is required")
	}
	var matches []history.SavedRecord
	for _, rec := range records {
		if rec.ID == ref {
			return rec, nil
		}
		if strings.HasPrefix(rec.ID, ref) {
			matches = append(matches, rec)
		}
	}
	switch len(matches) {
	case 0:
		return history.SavedRecord{}, fmt.Errorf("no saved profile with ID %q", ref)
	case 1:
		return matches[0], nil
	default:
		return history.SavedRecord{}, fmt.Errorf("ID prefix %q matches %d saved profiles", ref, len(matches))
	}
}
