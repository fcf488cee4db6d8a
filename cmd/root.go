package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/scholarnav/internal/app"
	"github.com/abhisek/scholarnav/internal/screens"
	"github.com/abhisek/scholarnav/internal/ui/theme"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scholarnav",
		Short: "Scholarship eligibility navigator",
		Long: "scholarnav checks a student's profile against Indian scholarship schemes, " +
			"estimates the chance of approval and flags the technical reasons applications get rejected.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runApp,
	}

	pf := root.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides SCHOLARNAV_DB env var)")
	pf.String("config", "", "Path to a YAML config file")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	root.Flags().Bool("no-splash", false, "Skip the welcome screen")

	root.AddCommand(
		newAnalyzeCmd(),
		newHistoryCmd(),
		newThemeCmd(),
		newLLMCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line.
func Execute() error {
	return newRootCmd().Execute()
}

// runApp opens the session, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(cmd, sessionOpts{tui: true, records: true})
	if err != nil {
		return err
	}
	defer s.Close()

	theme.Use(theme.ByName(string(s.prefs.Theme(ctx))))

	opts := app.Options{
		Deps: screens.Deps{
			History: s.history,
			Prefs:   s.prefs,
			Logger:  s.logger,
		},
	}
	opts.SkipSplash, _ = cmd.Flags().GetBool("no-splash")

	analyzer, err := s.analyzer(ctx)
	if err != nil {
		s.logger.Warn("analysis provider not configured", zap.Error(err))
		opts.Deps.AnalyzerErr = err
	} else {
		opts.Deps.Analyzer = analyzer
		opts.Provider = s.cfg.LLM.Provider
	}

	return app.Run(opts)
}
