package insights

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kinds of insight derived from document text.
const (
	KindDeadline    = "deadline"
	KindBudget      = "budget"
	KindRequirement = "requirement"
	KindContact     = "contact"
)

// MaxPerKind caps how many insights of one kind a document produces.
const MaxPerKind = 10

// maxContentRunes bounds stored content; longer lines are cut on a rune boundary.
const maxContentRunes = 300

var (
	deadlineCue = regexp.MustCompile(`(?i)\b(due|deadline|closing|closes|submission|submit(ted)? by|no later than|briefing)\b`)
	datePattern = regexp.MustCompile(`(?i)\b(\d{1,2}(st|nd|rd|th)?\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?,?\s+\d{4}|(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(st|nd|rd|th)?,?\s+\d{4}|\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{2,4})\b`)
	amountPattern   = regexp.MustCompile(`(?:\b(?:R|ZAR|USD|EUR|GBP|AUD)\s?|[$€£]\s?)\d[\d,]*(?:\.\d+)?(?:\s?(?:million|billion|bn|m|k)\b)?`)
	requirementCue  = regexp.MustCompile(`(?i)\b(must|shall|required|mandatory)\b`)
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	whitespaceRunRe = regexp.MustCompile(`\s+`)
)

// Draft is an insight before it is attached to a tender and document.
type Draft struct {
	Kind    string
	Content string
}

// Extract runs the local pass over text. Output order is deterministic: by kind
// (deadline, budget, requirement, contact), then by first appearance.
func Extract(text string) []Draft {
	lines := splitLines(text)
	c := newCollector()

	for _, line := range lines {
		if deadlineCue.MatchString(line) && datePattern.MatchString(line) {
			c.add(KindDeadline, line)
		}
	}
	for _, line := range lines {
		for _, m := range amountPattern.FindAllString(line, -1) {
			c.add(KindBudget, strings.TrimRight(m, ", "))
		}
	}
	for _, line := range lines {
		if len(line) >= 15 && requirementCue.MatchString(line) {
			c.add(KindRequirement, line)
		}
	}
	for _, m := range emailPattern.FindAllString(text, -1) {
		c.add(KindContact, strings.ToLower(strings.TrimRight(m, ".")))
	}
	return c.out
}

type collector struct {
	out    []Draft
	seen   map[string]struct{}
	counts map[string]int
}

func newCollector() *collector {
	return &collector{seen: make(map[string]struct{}), counts: make(map[string]int)}
}

func (c *collector) add(kind, content string) {
	content = strings.TrimSpace(content)
	if content == "" || c.counts[kind] >= MaxPerKind {
		return
	}
	content = clip(content, maxContentRunes)
	key := kind + "\x00" + strings.ToLower(content)
	if _, ok := c.seen[key]; ok {
		return
	}
	c.seen[key] = struct{}{}
	c.counts[kind]++
	c.out = append(c.out, Draft{Kind: kind, Content: content})
}

func clip(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return strings.TrimSpace(s[:i]) + "…"
		}
		n++
	}
	return s
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(whitespaceRunRe.ReplaceAllString(l, " "))
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
