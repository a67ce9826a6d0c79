package schema

// CheckTypeCustom tags results produced by the custom analysis scripts.
const CheckTypeCustom = "custom"

// Result is the record returned to the calling workflow.
// Exactly one findings block is set for a known script. A result for an
// unknown script name carries only Success and Message.
type Result struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	CheckType  string `json:"checkType,omitempty"`
	ScriptName string `json:"scriptName,omitempty"`

	*BudgetFindings
	*ComplianceFindings
	*QualityFindings
}

// BudgetFindings holds the budget-analysis specific fields.
type BudgetFindings struct {
	Issues   []string      `json:"issues"`
	Warnings []string      `json:"warnings"`
	Summary  BudgetSummary `json:"summary"`
}

// BudgetSummary reports budget keyword coverage.
type BudgetSummary struct {
	BudgetSectionFound bool `json:"budgetSectionFound"`
	KeywordsFound      int  `json:"keywordsFound"`
	TotalKeywords      int  `json:"totalKeywords"`
}

// ComplianceFindings holds the rfp-compliance specific fields.
// ComplianceScore starts at 100 and has no floor.
type ComplianceFindings struct {
	MissingSections []string `json:"missingSections"`
	MissingKeywords []string `json:"missingKeywords"`
	ComplianceScore int      `json:"complianceScore"`
}

// QualityFindings holds the quality-analysis specific fields.
type QualityFindings struct {
	QualityScore    int            `json:"qualityScore"`
	Metrics         QualityMetrics `json:"metrics"`
	Recommendations []string       `json:"recommendations"`
}

// QualityMetrics are the structural and length signals behind the quality score.
type QualityMetrics struct {
	WordCount           int  `json:"wordCount"`
	CharCount           int  `json:"charCount"`
	HasExecutiveSummary bool `json:"hasExecutiveSummary"`
	HasTimeline         bool `json:"hasTimeline"`
	HasBudget           bool `json:"hasBudget"`
	HasTeamInfo         bool `json:"hasTeamInfo"`
}

// Score returns the headline number for a result: the compliance or quality
// score, or the count of budget keywords found. Unknown-script results score 0.
func (r Result) Score() int {
	switch {
	case r.ComplianceFindings != nil:
		return r.ComplianceScore
	case r.QualityFindings != nil:
		return r.QualityScore
	case r.BudgetFindings != nil:
		return r.Summary.KeywordsFound
	}
	return 0
}

// Report wraps a Result with the parameters of the run that produced it.
type Report struct {
	Tool    string `json:"tool"`
	Version string `json:"version"`
	Input   Input  `json:"input"`
	Result  Result `json:"result"`
}

// Input captures the parameters used for this run.
type Input struct {
	Document         string   `json:"document"`
	DocumentHash     string   `json:"document_hash"` // SHA-256 of the source file bytes
	Script           string   `json:"script"`
	Stage            string   `json:"stage"`
	RequiredKeywords []string `json:"required_keywords"`
}
