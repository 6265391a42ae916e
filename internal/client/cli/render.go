package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/gastrolog/internal/client/models"
	"github.com/dmitrijs2005/gastrolog/internal/client/services"
	"github.com/dmitrijs2005/gastrolog/internal/client/stats"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dayStyle     = lipgloss.NewStyle().Width(4).Align(lipgloss.Right)
	loggedStyle  = dayStyle.Foreground(lipgloss.Color("42")).Bold(true)
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	ingChipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
)

const barWidth = 24

// renderRecord formats one log line; ingredients covered by the safe-list
// are hidden by filter.
func renderRecord(r models.LogRecord, filter stats.Filter) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(r.Date))
	b.WriteString(" ")
	b.WriteString(mutedStyle.Render(r.CreatedAt.Local().Format("15:04")))
	if !r.IsSynced() {
		b.WriteString(" " + warnStyle.Render("(unsynced)"))
	}
	if r.Image != "" {
		b.WriteString(" [photo]")
	}
	b.WriteString("\n  id: " + mutedStyle.Render(r.ID))
	if r.Memo != "" {
		b.WriteString("\n  " + r.Memo)
	}
	ings := r.Ingredients
	if filter != nil {
		ings = filter(ings)
	}
	if len(ings) > 0 {
		chips := make([]string, len(ings))
		for i, ing := range ings {
			chips[i] = ingChipStyle.Render(ing)
		}
		b.WriteString("\n  ! " + strings.Join(chips, ", "))
	}
	if l := r.Life; l != nil {
		var parts []string
		add := func(label, v string) {
			if v != "" {
				parts = append(parts, label+" "+v)
			}
		}
		add("sleep", l.SleepTime)
		add("quality", l.SleepQuality)
		add("meds", l.Medication)
		add("exercise", l.Exercise)
		add("steps", l.Steps)
		if l.Stress != nil {
			parts = append(parts, fmt.Sprintf("stress %d/5", *l.Stress))
		}
		if len(parts) > 0 {
			b.WriteString("\n  " + mutedStyle.Render(strings.Join(parts, " · ")))
		}
	}
	return b.String()
}

func renderCalendar(g stats.MonthGrid) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %d", g.Month, g.Year)))
	b.WriteString("\n")
	for _, wd := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		b.WriteString(dayStyle.Render(wd))
	}
	for _, week := range g.Weeks() {
		b.WriteString("\n")
		for _, d := range week {
			switch {
			case d == nil:
				b.WriteString(dayStyle.Render(""))
			case d.Count > 0:
				b.WriteString(loggedStyle.Render(fmt.Sprintf("%d*", d.Day)))
			default:
				b.WriteString(dayStyle.Render(fmt.Sprint(d.Day)))
			}
		}
	}
	return b.String()
}

func renderRanking(counts []stats.Count, month, total int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Ingredient ranking"))
	if len(counts) == 0 {
		b.WriteString("\n  " + mutedStyle.Render("no data"))
	} else {
		top := counts[0].Count
		for i, c := range counts {
			n := c.Count * barWidth / top
			if n < 1 {
				n = 1
			}
			fmt.Fprintf(&b, "\n%d. %-20s %s %d", i+1, c.Name, barStyle.Render(strings.Repeat("█", n)), c.Count)
		}
	}
	fmt.Fprintf(&b, "\n\nThis month: %d   Total: %d", month, total)
	return b.String()
}

func renderAnalysis(res services.AnalysisResult) string {
	if res.Kind == services.MessageWarning {
		return warnStyle.Render(res.Message()+": ") + strings.Join(res.Flagged, ", ")
	}
	return okStyle.Render(res.Message())
}

func renderError(err error) string {
	return errStyle.Render("Error: " + err.Error())
}
