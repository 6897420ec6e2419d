package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/openkraft/autograder/internal/domain"
	"github.com/openkraft/autograder/internal/domain/rubric"
)

// ── warm palette ──
var (
	accent    = lipgloss.Color("#D97706") // amber
	fg        = lipgloss.Color("#E8E6E3") // warm light gray
	dim       = lipgloss.Color("#6B7280") // muted gray
	faint     = lipgloss.Color("#3F3F46") // very dim
	success   = lipgloss.Color("#22C55E") // green
	danger    = lipgloss.Color("#EF4444") // red
	warning   = lipgloss.Color("#F59E0B") // amber-yellow
	lime      = lipgloss.Color("#A3E635")
	skipColor = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	statusStyles = map[domain.Status]lipgloss.Style{
		domain.StatusGraded:        lipgloss.NewStyle().Foreground(success),
		domain.StatusCompileFailed: lipgloss.NewStyle().Foreground(danger),
		domain.StatusExecuteFailed: lipgloss.NewStyle().Foreground(warning),
		domain.StatusToolError:     lipgloss.NewStyle().Foreground(danger).Bold(true),
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	skipStyle     = lipgloss.NewStyle().Foreground(skipColor)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	unitStyle     = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

var statusLabels = map[domain.Status]string{
	domain.StatusGraded:        "graded",
	domain.StatusCompileFailed: "compile failed",
	domain.StatusExecuteFailed: "execute failed",
	domain.StatusToolError:     "tool error",
}

// RenderBatch formats the summary shown after the streamed grading output.
func RenderBatch(result *domain.BatchResult) string {
	var b strings.Builder
	sum := result.Summary()

	// ── Header ──
	title := headerStyle.Render("autograder")
	subtitle := dimStyle.Render("Batch Summary")
	avg := int(sum.AverageTotal + 0.5)
	avgStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(scoreColor(avg)).
		Render(fmt.Sprintf("avg %.1f / %d", sum.AverageTotal, domain.MaxTotal))
	counts := dimStyle.Render(fmt.Sprintf("%d of %d graded", sum.Graded, sum.Units))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + avgStyled + "  " + counts))
	b.WriteString("\n\n")

	if len(result.Reports) == 0 {
		b.WriteString("  " + dimStyle.Render("No units graded.") + "\n\n")
		return b.String()
	}

	// ── Units ──
	for _, r := range result.Reports {
		renderReport(&b, r)
	}

	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	// ── Failures ──
	failures := sum.CompileFailed + sum.ExecuteFailed + sum.ToolErrors
	if failures == 0 {
		b.WriteString("  " + passStyle.Render("Every unit was graded.") + "\n")
	} else {
		b.WriteString("  ")
		b.WriteString(titleStyle.Render("Not graded"))
		b.WriteString("  ")
		if sum.CompileFailed > 0 {
			b.WriteString(errorTagStyle.Render(fmt.Sprintf("%d compile failed", sum.CompileFailed)))
			b.WriteString("  ")
		}
		if sum.ExecuteFailed > 0 {
			b.WriteString(warnTagStyle.Render(fmt.Sprintf("%d execute failed", sum.ExecuteFailed)))
			b.WriteString("  ")
		}
		if sum.ToolErrors > 0 {
			b.WriteString(errorTagStyle.Render(fmt.Sprintf("%d tool errors", sum.ToolErrors)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	return b.String()
}

func renderReport(b *strings.Builder, r domain.GradeReport) {
	name := unitStyle.Render(padRight(r.Unit.File, 24))

	if r.Status != domain.StatusGraded {
		tag := statusStyle(r.Status).Render(statusLabel(r.Status))
		fmt.Fprintf(b, "  %s %s\n", name, tag)
		if r.Error != "" {
			fmt.Fprintf(b, "    %s\n", faintStyle.Render(r.Error))
		}
		return
	}

	total := r.Total()
	scoreText := lipgloss.NewStyle().Bold(true).Foreground(scoreColor(total)).Render(fmt.Sprintf("%d", total))
	fmt.Fprintf(b, "  %s %s  %s %s\n", name, coloredBar(total, 20), scoreText, dimStyle.Render(fmt.Sprintf("/%d", domain.MaxTotal)))

	var marks []string
	for _, c := range rubric.Criteria {
		if rubric.Value(*r.Rubric, c.Key) > 0 {
			marks = append(marks, passStyle.Render("●")+" "+c.Label())
		} else {
			marks = append(marks, skipStyle.Render("○")+" "+dimStyle.Render(c.Label()))
		}
	}
	fmt.Fprintf(b, "    %s\n", strings.Join(marks, "  "))
}

func statusStyle(s domain.Status) lipgloss.Style {
	if st, ok := statusStyles[s]; ok {
		return st
	}
	return dimStyle
}

func statusLabel(s domain.Status) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func coloredBar(score, width int) string {
	filled := max(0, min(score*width/domain.MaxTotal, width))
	empty := width - filled

	color := scoreColor(score)
	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func scoreColor(score int) lipgloss.Color {
	switch {
	case score >= 80:
		return success
	case score >= 60:
		return lime
	case score >= 40:
		return warning
	default:
		return danger
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderHistory formats batch history for terminal output.
func RenderHistory(entries []domain.BatchEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No grading history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Grading History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}

		date := e.Timestamp
		if len(date) > 10 {
			date = date[:10]
		}

		avgStyled := lipgloss.NewStyle().
			Foreground(scoreColor(int(e.Summary.AverageTotal + 0.5))).
			Render(fmt.Sprintf("avg %5.1f", e.Summary.AverageTotal))

		line := fmt.Sprintf("  %s  %s  %s  %s",
			dimStyle.Render(date),
			faintStyle.Render(hash),
			fmt.Sprintf("%d/%d graded", e.Summary.Graded, e.Summary.Units),
			avgStyled,
		)

		if i > 0 {
			diff := e.Summary.AverageTotal - entries[i-1].Summary.AverageTotal
			if diff > 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↑%.1f", diff))
			} else if diff < 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↓%.1f", -diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
