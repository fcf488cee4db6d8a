package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/abhisek/scholarnav/internal/report"
	"github.com/abhisek/scholarnav/internal/scholarship"
	"github.com/abhisek/scholarnav/internal/ui/theme"
)

// profileField binds a command-line flag to a profile field.
type profileField struct {
	flag     string
	usage    string
	required bool
	field    func(*scholarship.StudentProfile) *string
}

var profileFields = []profileField{
	{"name", "Student's full name", true, func(p *scholarship.StudentProfile) *string { return &p.Name }},
	{"state", "State of domicile", true, func(p *scholarship.StudentProfile) *string { return &p.State }},
	{"income", "Annual family income in INR", true, func(p *scholarship.StudentProfile) *string { return &p.AnnualIncome }},
	{"class", "Last class passed, e.g. 12th", true, func(p *scholarship.StudentProfile) *string { return &p.LastClass }},
	{"percentage", "Percentage scored in the last class", true, func(p *scholarship.StudentProfile) *string { return &p.Percentage }},
	{"course", "Current course, e.g. B.Tech", true, func(p *scholarship.StudentProfile) *string { return &p.CurrentCourse }},
	{"situation", "Anything else about the student's situation", false, func(p *scholarship.StudentProfile) *string { return &p.SituationPrompt }},
}

func newAnalyzeCmd() *cobra.Command {
	var (
		flagProfile scholarship.StudentProfile
		category    string
		profilePath string
		save        bool
		asJSON      bool
		width       int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a student profile and print the eligibility report",
		Example: `  scholarnav analyze --name "Asha Verma" --state "Uttar Pradesh" --category EWS \
      --income 180000 --class 12th --percentage 86 --course "B.Sc Nursing"
  scholarnav analyze --profile asha.yaml --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := buildProfile(cmd.Flags(), flagProfile, category, profilePath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s, err := openSession(cmd, sessionOpts{records: true})
			if err != nil {
				return err
			}
			defer s.Close()

			analyzer, err := s.analyzer(ctx)
			if err != nil {
				return fmt.Errorf("analysis provider: %w", err)
			}

			res, err := analyzer.Analyze(ctx, profile)
			if err != nil {
				return err
			}

			var savedAt time.Time
			if save {
				rec, err := s.history.Add(ctx, profile, *res)
				if err != nil {
					return fmt.Errorf("save analysis: %w", err)
				}
				savedAt = rec.SavedAt()
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved as %s\n", rec.ID)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			theme.Use(theme.ByName(string(s.prefs.Theme(ctx))))
			return printReport(cmd.OutOrStdout(), report.Report{
				Profile: profile,
				Result:  *res,
				SavedAt: savedAt,
			}, width)
		},
	}

	f := cmd.Flags()
	for _, pf := range profileFields {
		f.StringVar(pf.field(&flagProfile), pf.flag, "", pf.usage)
	}
	f.StringVar(&category, "category", "", "Reservation category: "+categoryList()+" (default General)")
	f.StringVar(&profilePath, "profile", "", "Read the profile from a YAML or JSON file; flags override its fields")
	f.BoolVar(&save, "save", false, "Save the profile and analysis")
	f.BoolVar(&asJSON, "json", false, "Print the analysis as JSON")
	f.IntVar(&width, "width", 80, "Report width in columns")
	return cmd
}

// buildProfile merges the profile file, if any, with the flags that were
// set and checks the required fields.
func buildProfile(flags *pflag.FlagSet, fromFlags scholarship.StudentProfile, category, path string) (scholarship.StudentProfile, error) {
	var p scholarship.StudentProfile
	if path != "" {
		loaded, err := scholarship.LoadProfile(path)
		if err != nil {
			return p, err
		}
		p = loaded
	}

	for _, pf := range profileFields {
		if flags.Changed(pf.flag) {
			*pf.field(&p) = *pf.field(&fromFlags)
		}
	}

	if flags.Changed("category") {
		c, err := parseCategory(category)
		if err != nil {
			return p, err
		}
		p.Category = c
	} else if p.Category == "" {
		p.Category = scholarship.CategoryGeneral
	}

	var missing []string
	for _, pf := range profileFields {
		if pf.required && strings.TrimSpace(*pf.field(&p)) == "" {
			missing = append(missing, "--"+pf.flag)
		}
	}
	if len(missing) > 0 {
		return p, fmt.Errorf("missing required profile fields: %s", strings.Join(missing, ", "))
	}
	return p, nil
}

func parseCategory(s string) (scholarship.Category, error) {
	for _, c := range scholarship.Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (want one of %s)", s, categoryList())
}

func categoryList() string {
	names := make([]string, len(scholarship.Categories))
	for i, c := range scholarship.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// printReport writes the styled report, downsampling colors to what w
// supports.
func printReport(w io.Writer, r report.Report, width int) error {
	_, err := lipgloss.Fprintln(w, report.Render(r, width))
	return err
}
