package compare

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns diff-match-patch patch text turning before into after, headed
// by "# diff for <label>". Both inputs are normalized first so that line
// endings and trailing whitespace never show up as changes. The result is
// empty when the normalized inputs are equal.
func Diff(label, before, after string) string {
	normBefore := normalize(before)
	normAfter := normalize(after)
	if normBefore == normAfter {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(normBefore, normAfter, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	patchText := dmp.PatchToText(dmp.PatchMake(normBefore, diffs))
	if patchText == "" {
		return ""
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("# diff for %s\n", label))
	out.WriteString(patchText)
	out.WriteString("\n")
	return out.String()
}

// Changed reports whether two texts differ after normalization.
func Changed(before, after string) bool {
	return normalize(before) != normalize(after)
}

// normalize trims trailing whitespace from each line and converts CRLF to LF.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.Join(lines, "\n")
}
