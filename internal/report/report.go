// Package report prints the one-line run summary.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Summary is the one-line run summary.
func Summary(changed int) string {
	return fmt.Sprintf("Primary Risks standardized for %d company(ies).", changed)
}

// Reporter prints run summaries. Styling is applied only when the writer is a
// colour terminal; redirected output stays plain text.
type Reporter struct {
	out   io.Writer
	style lipgloss.Style
}

// New creates a reporter writing to out.
func New(out io.Writer) *Reporter {
	renderer := lipgloss.NewRenderer(out)
	return &Reporter{
		out:   out,
		style: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")),
	}
}

// Report writes the summary line for a run.
func (r *Reporter) Report(changed int) error {
	_, err := fmt.Fprintln(r.out, r.style.Render(Summary(changed)))
	return err
}
