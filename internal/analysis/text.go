package analysis

import (
	"regexp"
	"strings"
)

// whitespace matches runs of ECMAScript \s characters, which include \v,
// the Unicode space separators and the byte order mark.
var whitespace = regexp.MustCompile(`[\t\n\v\f\r\p{Z}\x{FEFF}]+`)

// dottedCapitalI keeps U+0130 from folding to a plain ASCII i. Its full
// lowercase mapping is i followed by a combining dot above.
var dottedCapitalI = strings.NewReplacer("\u0130", "i\u0307")

// corpus is a document prepared for case-insensitive substring checks.
// The text is lower-cased once and reused by every check.
type corpus struct {
	raw   string
	lower string
}

func newCorpus(text string) corpus {
	return corpus{raw: text, lower: lower(text)}
}

func lower(s string) string {
	return strings.ToLower(dottedCapitalI.Replace(s))
}

// contains reports whether phrase occurs in the document, ignoring case.
func (c corpus) contains(phrase string) bool {
	return strings.Contains(c.lower, lower(phrase))
}

// containsAny reports whether any of the phrases occurs in the document.
func (c corpus) containsAny(phrases ...string) bool {
	for _, p := range phrases {
		if c.contains(p) {
			return true
		}
	}
	return false
}

// wordCount splits the raw text on whitespace runs and counts the pieces.
// Leading or trailing whitespace contributes an empty piece, and the empty
// string counts as one word.
func (c corpus) wordCount() int {
	return len(whitespace.Split(c.raw, -1))
}

// charCount returns the length of the raw text in UTF-16 code units.
func (c corpus) charCount() int {
	n := 0
	for _, r := range c.raw {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
