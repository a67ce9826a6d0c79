package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/dshills/proposalcheck/internal/schema"
)

type markdownRenderer struct{}

var mdTemplate = template.Must(template.New("report").Parse(`# Proposal Analysis: {{ .Input.Script }}

**Document:** {{ .Input.Document }}
**Stage:** {{ .Input.Stage }}
**Status:** {{ if .Result.Success }}PASS{{ else }}FAIL{{ end }}

{{ .Result.Message }}
{{ with .Result.BudgetFindings }}
## Budget

**Budget section found:** {{ .Summary.BudgetSectionFound }}
**Keywords found:** {{ .Summary.KeywordsFound }}/{{ .Summary.TotalKeywords }}
{{ if .Issues }}
### Issues
{{ range .Issues }}- {{ . }}
{{ end }}{{ end }}{{ if .Warnings }}
### Warnings
{{ range .Warnings }}- {{ . }}
{{ end }}{{ end }}{{ end }}{{ with .Result.ComplianceFindings }}
## RFP Compliance

**Compliance score:** {{ .ComplianceScore }}%
{{ if .MissingSections }}
### Missing Sections
{{ range .MissingSections }}- {{ . }}
{{ end }}{{ end }}{{ if .MissingKeywords }}
### Missing Keywords
{{ range .MissingKeywords }}- {{ . }}
{{ end }}{{ end }}{{ end }}{{ with .Result.QualityFindings }}
## Quality

**Quality score:** {{ .QualityScore }}%

| Metric | Value |
|---|---|
| Words | {{ .Metrics.WordCount }} |
| Characters | {{ .Metrics.CharCount }} |
| Executive summary | {{ .Metrics.HasExecutiveSummary }} |
| Timeline | {{ .Metrics.HasTimeline }} |
| Budget | {{ .Metrics.HasBudget }} |
| Team info | {{ .Metrics.HasTeamInfo }} |
{{ if .Recommendations }}
### Recommendations
{{ range .Recommendations }}- {{ . }}
{{ end }}{{ end }}{{ end }}
---
*{{ .Tool }} {{ .Version }} | {{ .Input.DocumentHash }}*
`))

func (r *markdownRenderer) Render(report *schema.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}
