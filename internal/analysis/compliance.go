package analysis

import (
	"fmt"
	"strings"

	"github.com/dshills/proposalcheck/internal/proposal"
	"github.com/dshills/proposalcheck/internal/schema"
)

// requiredSections are the section phrases every RFP response must contain,
// in the order they are reported when missing.
var requiredSections = []string{
	"executive summary",
	"technical approach",
	"project team",
	"project timeline",
	"budget",
	"company background",
}

// Compliance scoring: start at 100, -15 per missing section, -5 per missing
// keyword, no floor. A score of 70 or more passes.
const (
	complianceBase       = 100
	missingSectionCost   = 15
	missingKeywordCost   = 5
	compliancePassingMin = 70
)

// ValidateRFPCompliance checks the document for the required sections and the
// caller's required keywords and computes a compliance score. stage is not used.
func ValidateRFPCompliance(data proposal.Data, stage proposal.Stage) schema.Result {
	doc := newCorpus(data.DocumentText)
	findings := &schema.ComplianceFindings{
		MissingSections: []string{},
		MissingKeywords: []string{},
		ComplianceScore: complianceBase,
	}

	for _, section := range requiredSections {
		if !doc.contains(section) {
			findings.MissingSections = append(findings.MissingSections, section)
			findings.ComplianceScore -= missingSectionCost
		}
	}

	for _, kw := range data.RequiredKeywords {
		if !doc.contains(kw) {
			// Report the keyword as the caller spelled it.
			findings.MissingKeywords = append(findings.MissingKeywords, kw)
			findings.ComplianceScore -= missingKeywordCost
		}
	}

	success := findings.ComplianceScore >= compliancePassingMin
	var msg string
	if success {
		msg = fmt.Sprintf("RFP compliance check passed. Score: %d%%", findings.ComplianceScore)
	} else {
		missing := make([]string, 0, len(findings.MissingSections)+len(findings.MissingKeywords))
		missing = append(missing, findings.MissingSections...)
		missing = append(missing, findings.MissingKeywords...)
		msg = fmt.Sprintf("RFP compliance check failed. Score: %d%%. Missing: %s",
			findings.ComplianceScore, strings.Join(missing, ", "))
	}

	return schema.Result{
		Success:            success,
		Message:            msg,
		CheckType:          schema.CheckTypeCustom,
		ScriptName:         string(ScriptCompliance),
		ComplianceFindings: findings,
	}
}
