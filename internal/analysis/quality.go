package analysis

import (
	"fmt"
	"strings"

	"github.com/dshills/proposalcheck/internal/proposal"
	"github.com/dshills/proposalcheck/internal/schema"
)

// Quality scoring: 20 points per structural signal plus 20 for length.
const (
	qualitySignalPoints = 20
	qualityPassingMin   = 60
	expansiveWordCount  = 1000
)

// AnalyzeQuality computes a 0-100 heuristic score from section presence and
// document length, with recommendations for what is missing. stage is not used.
//
// Team information contributes to the score but never produces a
// recommendation.
func AnalyzeQuality(data proposal.Data, stage proposal.Stage) schema.Result {
	doc := newCorpus(data.DocumentText)
	m := schema.QualityMetrics{
		WordCount:           doc.wordCount(),
		CharCount:           doc.charCount(),
		HasExecutiveSummary: doc.contains("executive summary"),
		HasTimeline:         doc.containsAny("timeline", "schedule"),
		HasBudget:           doc.contains("budget"),
		HasTeamInfo:         doc.containsAny("team", "qualifications"),
	}

	score := 0
	for _, ok := range []bool{m.HasExecutiveSummary, m.HasTimeline, m.HasBudget, m.HasTeamInfo, m.WordCount > expansiveWordCount} {
		if ok {
			score += qualitySignalPoints
		}
	}

	recs := []string{}
	if !m.HasExecutiveSummary {
		recs = append(recs, "Add an executive summary section")
	}
	if !m.HasTimeline {
		recs = append(recs, "Include a project timeline or schedule")
	}
	if !m.HasBudget {
		recs = append(recs, "Add a budget section")
	}
	if m.WordCount < expansiveWordCount {
		recs = append(recs, "Consider expanding the proposal content")
	}

	msg := fmt.Sprintf("Quality score: %d%%", score)
	if len(recs) > 0 {
		msg += ". Recommendations: " + strings.Join(recs, "; ")
	}

	return schema.Result{
		Success:    score >= qualityPassingMin,
		Message:    msg,
		CheckType:  schema.CheckTypeCustom,
		ScriptName: string(ScriptQuality),
		QualityFindings: &schema.QualityFindings{
			QualityScore:    score,
			Metrics:         m,
			Recommendations: recs,
		},
	}
}
