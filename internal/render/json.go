package render

import (
	"encoding/json"

	"github.com/dshills/proposalcheck/internal/schema"
)

type jsonRenderer struct{}

func (r *jsonRenderer) Render(report *schema.Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// resultRenderer emits only the analysis result, in the shape the calling
// workflow consumes.
type resultRenderer struct{}

func (r *resultRenderer) Render(report *schema.Report) ([]byte, error) {
	return json.MarshalIndent(report.Result, "", "  ")
}
