package render

import (
	"fmt"

	"github.com/dshills/proposalcheck/internal/schema"
)

// Renderer formats a Report into bytes for output.
type Renderer interface {
	Render(report *schema.Report) ([]byte, error)
}

// NewRenderer returns a Renderer for the given format string.
// Supported formats: "json" (default), "result", "md", "text".
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "json", "":
		return &jsonRenderer{}, nil
	case "result":
		return &resultRenderer{}, nil
	case "md":
		return &markdownRenderer{}, nil
	case "text":
		return &textRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: supported formats are json, result, md, text", format)
	}
}
