package render

import (
	"bytes"
	"fmt"

	"github.com/fatih/color"

	"github.com/dshills/proposalcheck/internal/schema"
)

var (
	colorPass   = color.New(color.FgGreen, color.Bold)
	colorFail   = color.New(color.FgRed, color.Bold)
	colorWarn   = color.New(color.FgYellow)
	colorDetail = color.New(color.FgCyan)
)

// textRenderer prints a short terminal summary. Colour is dropped
// automatically when stdout is not a terminal or NO_COLOR is set.
type textRenderer struct{}

func (r *textRenderer) Render(report *schema.Report) ([]byte, error) {
	var buf bytes.Buffer
	res := report.Result

	status := colorPass.Sprint("PASS")
	if !res.Success {
		status = colorFail.Sprint("FAIL")
	}
	fmt.Fprintf(&buf, "%s %s %s\n", status, report.Input.Script, colorDetail.Sprint(report.Input.Document))
	fmt.Fprintf(&buf, "  %s\n", res.Message)

	if b := res.BudgetFindings; b != nil {
		fmt.Fprintf(&buf, "  keywords: %d/%d\n", b.Summary.KeywordsFound, b.Summary.TotalKeywords)
		writeList(&buf, "issue", b.Issues, colorFail)
		writeList(&buf, "warning", b.Warnings, colorWarn)
	}
	if c := res.ComplianceFindings; c != nil {
		fmt.Fprintf(&buf, "  score: %d%%\n", c.ComplianceScore)
		writeList(&buf, "missing section", c.MissingSections, colorWarn)
		writeList(&buf, "missing keyword", c.MissingKeywords, colorWarn)
	}
	if q := res.QualityFindings; q != nil {
		fmt.Fprintf(&buf, "  score: %d%% (%d words, %d chars)\n", q.QualityScore, q.Metrics.WordCount, q.Metrics.CharCount)
		writeList(&buf, "recommendation", q.Recommendations, colorWarn)
	}
	return buf.Bytes(), nil
}

func writeList(buf *bytes.Buffer, label string, items []string, c *color.Color) {
	for _, item := range items {
		fmt.Fprintf(buf, "  %s: %s\n", c.Sprint(label), item)
	}
}
