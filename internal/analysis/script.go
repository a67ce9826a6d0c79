package analysis

import (
	"github.com/dshills/proposalcheck/internal/proposal"
	"github.com/dshills/proposalcheck/internal/schema"
)

// Script identifies one of the analysis scripts the workflow can request.
type Script string

const (
	ScriptBudget     Script = "budget-analysis"
	ScriptCompliance Script = "rfp-compliance"
	ScriptQuality    Script = "quality-analysis"
)

// Func is the signature shared by every analysis.
type Func func(data proposal.Data, stage proposal.Stage) schema.Result

// Info describes a script in the catalog.
type Info struct {
	Script      Script
	Description string
}

var catalog = []Info{
	{ScriptBudget, "Check for a budget section and coverage of common budget elements"},
	{ScriptCompliance, "Check required RFP sections and keywords and compute a compliance score"},
	{ScriptQuality, "Compute a heuristic quality score with recommendations"},
}

var registry = map[Script]Func{
	ScriptBudget:     AnalyzeBudget,
	ScriptCompliance: ValidateRFPCompliance,
	ScriptQuality:    AnalyzeQuality,
}

// Scripts returns the script catalog in declaration order.
func Scripts() []Info {
	out := make([]Info, len(catalog))
	copy(out, catalog)
	return out
}

// ParseScript converts a workflow script name to a Script.
func ParseScript(name string) (Script, bool) {
	s := Script(name)
	_, ok := registry[s]
	return s, ok
}

// Run executes the script. It panics if s was not obtained from ParseScript
// or one of the Script constants.
func (s Script) Run(data proposal.Data, stage proposal.Stage) schema.Result {
	fn, ok := registry[s]
	if !ok {
		panic("analysis: unregistered script " + string(s))
	}
	return fn(data, stage)
}

// ExecuteCustomAnalysis dispatches to the analysis registered under scriptName.
// An unknown name yields a failed result carrying only a message.
func ExecuteCustomAnalysis(scriptName string, data proposal.Data, stage proposal.Stage) schema.Result {
	s, ok := ParseScript(scriptName)
	if !ok {
		return schema.Result{
			Success: false,
			Message: "Unknown script name: " + scriptName,
		}
	}
	return s.Run(data, stage)
}
