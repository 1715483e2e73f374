package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/eqcoach/eqcoach/pkg/assessment"
)

// MarkdownRenderer produces a Markdown report, suitable for pasting into
// notes or a journal.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, result *assessment.Result) error {
	_, err := io.WriteString(w, BuildMarkdown(result))
	return err
}

// BuildMarkdown formats result as a Markdown document.
func BuildMarkdown(result *assessment.Result) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## EQ Score: %d / %d\n\n", result.TotalScore, result.TotalMax))
	sb.WriteString(result.Interpretation)
	sb.WriteString("\n\n")

	sb.WriteString("### Domains\n\n")
	sb.WriteString("| Domain | Score | Status |\n|--------|-------|--------|\n")
	for _, ds := range result.DomainScores {
		status := "ok"
		if ds.BelowThreshold {
			status = "needs attention"
		}
		sb.WriteString(fmt.Sprintf("| %s | %d / %d | %s |\n", ds.Domain, ds.RawScore, ds.Max, status))
	}
	sb.WriteString("\n")

	if recs := result.Recommendations(); len(recs) > 0 {
		sb.WriteString("### Recommendations\n\n")
		for _, ds := range result.DomainScores {
			if ds.BelowThreshold {
				sb.WriteString(fmt.Sprintf("- **%s**: %s\n", ds.Domain, ds.Recommendation))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
