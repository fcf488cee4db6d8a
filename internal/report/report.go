// Package report renders an analysis as styled terminal text. The TUI
// report screen and the CLI both print through it.
package report

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/scholarnav/internal/scholarship"
	"github.com/abhisek/scholarnav/internal/ui/components"
	"github.com/abhisek/scholarnav/internal/ui/theme"
)

const (
	riskHeading      = "Critical: Why Applications Still Get Rejected"
	riskIntro        = "Even after a correct document upload, portals like UP Scholarship and NSP often reject candidates at the department level for these hidden failures:"
	npciHeading      = "Essential Fix: The NPCI Factor"
	npciAdvice       = "Check your Aadhaar-Bank Mapping on the NPCI website immediately. If your bank account is not mapped for Direct Benefit Transfer (DBT), the scholarship will be rejected by PFMS even if the application is 100% correct."
	linksHeading     = "Official Scholarship Links"
	noLinks          = "No specific portal matches found for this profile."
	reasoningHeading = "Detailed Analysis"
	checklistHeading = "Essential Checklist"
	missingHeading   = "Missing Information"
)

// Report is what gets rendered.
type Report struct {
	Profile scholarship.StudentProfile
	Result  scholarship.AnalysisResult
	SavedAt time.Time // zero for an unsaved analysis
}

// Render returns the report laid out for width columns using the active
// theme.
func Render(r Report, width int) string {
	width = max(width, 40)
	inner := width - 4

	sections := []string{
		header(r, inner),
		verdict(r.Result, inner),
		risks(r.Result.RiskFactors, inner),
		links(r.Result.MatchedScholarships, inner),
		section(reasoningHeading, paragraph(r.Result.DetailedReasoning, inner)),
		checklist(r.Result.ActionPlan.EssentialDocuments),
	}
	if len(r.Result.MissingInformation) > 0 {
		sections = append(sections, section(missingHeading, bullets(r.Result.MissingInformation, "?", theme.Warning, inner)))
	}

	return strings.Join(sections, "\n\n")
}

// StatusColor is the badge color for a verdict.
func StatusColor(status string) color.Color {
	switch scholarship.NormalizeStatus(status) {
	case scholarship.StatusEligible:
		return theme.Success
	case scholarship.StatusNotEligible:
		return theme.Error
	}
	return theme.Warning
}

// BandColor is the bar color for a probability band.
func BandColor(b scholarship.Band) color.Color {
	switch b {
	case scholarship.BandHigh:
		return theme.Success
	case scholarship.BandMedium:
		return theme.Warning
	}
	return theme.Error
}

func header(r Report, width int) string {
	name := r.Profile.Name
	if strings.TrimSpace(name) == "" {
		name = "Unnamed student"
	}
	title := theme.Heading.Render(name)

	var facts []string
	for _, f := range []string{r.Profile.State, string(r.Profile.Category), r.Profile.CurrentCourse} {
		if strings.TrimSpace(f) != "" {
			facts = append(facts, f)
		}
	}
	if r.Profile.Percentage != "" {
		facts = append(facts, r.Profile.Percentage+"% marks")
	}
	if r.Profile.AnnualIncome != "" {
		facts = append(facts, "income "+r.Profile.AnnualIncome)
	}

	out := title
	if len(facts) > 0 {
		out += "\n" + lipgloss.NewStyle().Width(width).Foreground(theme.TextDim).Render(strings.Join(facts, " · "))
	}
	if !r.SavedAt.IsZero() {
		out += "\n" + theme.Hint.Render("Saved "+r.SavedAt.Format("02 Jan 2006, 15:04"))
	}
	return out
}

func verdict(res scholarship.AnalysisResult, width int) string {
	status := res.EligibilityStatus
	if strings.TrimSpace(status) == "" {
		status = "Unknown"
	}
	badge := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.BgCard).
		Background(StatusColor(res.EligibilityStatus)).
		Padding(0, 1).
		Render(status)

	bar := components.NewProgressBar(
		"Approval Probability",
		res.AcceptanceProbability,
		min(width, 60),
		BandColor(scholarship.ProbabilityBand(res.AcceptanceProbability)),
	).View()

	apply := lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("✓ Recommended to apply")
	if !res.ActionPlan.ShouldApply {
		apply = lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("✗ Not recommended to apply")
	}

	body := lipgloss.NewStyle().Foreground(theme.TextDim).Render("Final Verdict") + "  " + badge +
		"\n\n" + bar +
		"\n\n" + apply
	if res.ActionPlan.Reason != "" {
		body += "\n" + paragraph(res.ActionPlan.Reason, width)
	}
	return theme.Card.Width(width + 4).Render(body)
}

func risks(factors []string, width int) string {
	var b strings.Builder
	b.WriteString(paragraph(riskIntro, width))
	b.WriteString("\n")
	if len(factors) == 0 {
		b.WriteString(theme.Hint.Render("  No specific risks identified."))
	} else {
		b.WriteString(bullets(factors, "•", theme.Error, width))
	}

	advice := lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(theme.Primary).
		PaddingLeft(1).
		Render(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(npciHeading) +
			"\n" + lipgloss.NewStyle().Foreground(theme.Text).Render(npciAdvice))

	heading := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("⚠ " + riskHeading)
	return heading + "\n" + b.String() + "\n\n" + advice
}

func links(matches []scholarship.MatchedScholarship, width int) string {
	if len(matches) == 0 {
		return section(linksHeading, theme.Hint.Render("  "+noLinks))
	}

	var b strings.Builder
	for i, m := range matches {
		if i > 0 {
			b.WriteString("\n")
		}
		line := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Name)
		if m.Provider != "" {
			line += lipgloss.NewStyle().Foreground(theme.TextDim).Render(" · " + m.Provider)
		}
		b.WriteString("  " + line + "\n")
		if m.Amount != "" {
			b.WriteString("    " + lipgloss.NewStyle().Foreground(theme.Success).Render(m.Amount) + "\n")
		}
		b.WriteString("    " + lipgloss.NewStyle().Foreground(theme.Secondary).Underline(true).Render(m.URL))
	}
	return section(linksHeading, b.String())
}

func checklist(docs []string) string {
	if len(docs) == 0 {
		return section(checklistHeading, theme.Hint.Render("  No documents listed."))
	}
	lines := make([]string, len(docs))
	for i, d := range docs {
		lines[i] = fmt.Sprintf("  ☐ %s", lipgloss.NewStyle().Foreground(theme.Text).Render(d))
	}
	return section(checklistHeading, strings.Join(lines, "\n"))
}

func section(title, body string) string {
	return theme.Heading.Render(title) + "\n" + body
}

func paragraph(text string, width int) string {
	return lipgloss.NewStyle().Width(width).Foreground(theme.Text).Render(text)
}

func bullets(items []string, mark string, markColor color.Color, width int) string {
	m := lipgloss.NewStyle().Foreground(markColor).Render(mark)
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "  " + m + " " + lipgloss.NewStyle().Width(max(width-4, 10)).Foreground(theme.Text).Render(it)
	}
	return strings.Join(lines, "\n")
}
