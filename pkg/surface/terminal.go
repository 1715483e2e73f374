package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/eqcoach/eqcoach/pkg/assessment"
)

// TerminalRenderer renders a Result as styled terminal output. Color is
// detected from w unless ForceColor is set; NO_COLOR is honored.
type TerminalRenderer struct {
	ForceColor bool
}

type styles struct {
	header lipgloss.Style
	good   lipgloss.Style
	fair   lipgloss.Style
	low    lipgloss.Style
	dim    lipgloss.Style
	bold   lipgloss.Style
}

func newStyles(re *lipgloss.Renderer) styles {
	return styles{
		header: re.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		good:   re.NewStyle().Foreground(lipgloss.Color("10")),
		fair:   re.NewStyle().Foreground(lipgloss.Color("3")),
		low:    re.NewStyle().Foreground(lipgloss.Color("9")),
		dim:    re.NewStyle().Foreground(lipgloss.Color("8")),
		bold:   re.NewStyle().Bold(true),
	}
}

// scoreStyle picks a color by the share of the maximum reached.
func (s styles) scoreStyle(score, max int) lipgloss.Style {
	if max <= 0 {
		return s.bold
	}
	pct := score * 100 / max
	switch {
	case pct > 60:
		return s.good
	case pct > 40:
		return s.fair
	default:
		return s.low
	}
}

func (r *TerminalRenderer) Render(w io.Writer, result *assessment.Result) error {
	re := lipgloss.NewRenderer(w)
	if r.ForceColor {
		re.SetColorProfile(termenv.ANSI)
	}
	st := newStyles(re)

	total := st.scoreStyle(result.TotalScore, result.TotalMax).
		Render(fmt.Sprintf("%d / %d", result.TotalScore, result.TotalMax))
	fmt.Fprintf(w, "%s %s\n\n", st.header.Render("EQ Score:"), total)

	for _, line := range wrapText(result.Interpretation, 72) {
		fmt.Fprintf(w, "%s\n", line)
	}
	fmt.Fprintln(w)

	width := 0
	for _, ds := range result.DomainScores {
		if len(ds.Domain) > width {
			width = len(ds.Domain)
		}
	}

	fmt.Fprintln(w, st.bold.Render("Domains:"))
	for _, ds := range result.DomainScores {
		score := st.scoreStyle(ds.RawScore, ds.Max).Render(fmt.Sprintf("%2d / %d", ds.RawScore, ds.Max))
		fmt.Fprintf(w, "  %-*s  %s", width, ds.Domain, score)
		if ds.BelowThreshold {
			fmt.Fprintf(w, "  %s", st.low.Render("needs attention"))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	recs := result.Recommendations()
	if len(recs) == 0 {
		fmt.Fprintln(w, st.dim.Render("No recommendations. Every domain is at or above its threshold."))
		fmt.Fprintln(w)
		return nil
	}

	fmt.Fprintln(w, st.bold.Render("Recommendations:"))
	for _, ds := range result.DomainScores {
		if !ds.BelowThreshold {
			continue
		}
		fmt.Fprintf(w, "  • %s\n", ds.Domain)
		for _, line := range wrapText(ds.Recommendation, 70) {
			fmt.Fprintf(w, "    %s\n", st.dim.Render(line))
		}
	}
	fmt.Fprintln(w)

	return nil
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
