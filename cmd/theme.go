package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/scholarnav/internal/prefs"
)

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Print or set the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(prefs.ThemeDark), string(prefs.ThemeLight)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(cmd, sessionOpts{records: true})
			if err != nil {
				return err
			}
			defer s.Close()

			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), s.prefs.Theme(ctx))
				return nil
			}

			t, err := prefs.ParseTheme(args[0])
			if err != nil {
				return err
			}
			if err := s.prefs.SetTheme(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s.\n", t)
			return nil
		},
	}
}
