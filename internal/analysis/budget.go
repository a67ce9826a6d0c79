package analysis

import (
	"fmt"
	"strings"

	"github.com/dshills/proposalcheck/internal/proposal"
	"github.com/dshills/proposalcheck/internal/schema"
)

// budgetSectionTerms indicate that a budget section exists at all.
var budgetSectionTerms = []string{"budget", "pricing", "cost"}

// budgetKeywords are the elements a complete budget is expected to cover.
var budgetKeywords = []string{"labor", "materials", "overhead", "profit", "total"}

// minBudgetKeywords is the coverage below which a warning is raised.
const minBudgetKeywords = 3

// AnalyzeBudget checks that the document has a budget section and reports how
// many of the expected budget elements it mentions. stage is not used.
func AnalyzeBudget(data proposal.Data, stage proposal.Stage) schema.Result {
	doc := newCorpus(data.DocumentText)
	findings := &schema.BudgetFindings{
		Issues:   []string{},
		Warnings: []string{},
	}
	success := true

	if !doc.containsAny(budgetSectionTerms...) {
		findings.Issues = append(findings.Issues, "Budget section not found")
		success = false
	}

	found := []string{}
	for _, kw := range budgetKeywords {
		if doc.contains(kw) {
			found = append(found, kw)
		}
	}
	if len(found) < minBudgetKeywords {
		findings.Warnings = append(findings.Warnings,
			"Budget section may be incomplete. Found only: "+strings.Join(found, ", "))
	}

	findings.Summary = schema.BudgetSummary{
		BudgetSectionFound: len(findings.Issues) == 0,
		KeywordsFound:      len(found),
		TotalKeywords:      len(budgetKeywords),
	}

	var msg string
	if success {
		msg = fmt.Sprintf("Budget analysis passed. Found %d budget elements.", len(found))
	} else {
		msg = "Budget analysis failed: " + strings.Join(findings.Issues, ", ")
	}

	return schema.Result{
		Success:        success,
		Message:        msg,
		CheckType:      schema.CheckTypeCustom,
		ScriptName:     string(ScriptBudget),
		BudgetFindings: findings,
	}
}
