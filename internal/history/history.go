package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dshills/proposalcheck/internal/schema"
)

// Run is one recorded analysis of a document.
type Run struct {
	ID           int64
	Document     string
	DocumentHash string
	Script       string
	Stage        string
	Success      bool
	Message      string
	Score        int
	Result       json.RawMessage
	RecordedAt   time.Time
}

// Store persists analysis runs.
type Store interface {
	Record(ctx context.Context, run Run) error
	List(ctx context.Context, documentHash string, limit int) ([]Run, error)
	Close()
}

// NewRun builds a Run from a finished report.
func NewRun(report *schema.Report, now time.Time) (Run, error) {
	raw, err := json.Marshal(report.Result)
	if err != nil {
		return Run{}, fmt.Errorf("encoding result: %w", err)
	}
	return Run{
		Document:     report.Input.Document,
		DocumentHash: report.Input.DocumentHash,
		Script:       report.Input.Script,
		Stage:        report.Input.Stage,
		Success:      report.Result.Success,
		Message:      report.Result.Message,
		Score:        report.Result.Score(),
		Result:       raw,
		RecordedAt:   now.UTC(),
	}, nil
}
