// Package classify assigns a category and a display document type to an uploaded
// file from its name alone. Rules are evaluated top to bottom and the first match
// wins, so earlier rules shadow later ones for names carrying several keywords.
package classify

import (
	"strings"
	"unicode"
)

// Category is the coarse routing class of a document.
type Category string

const (
	CategoryTender     Category = "tender"
	CategorySupporting Category = "supporting"
	CategoryCompany    Category = "company"
)

// DefaultDocumentType is returned when no type rule matches.
const DefaultDocumentType = "General Document"

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryTender, CategorySupporting, CategoryCompany:
		return true
	default:
		return false
	}
}

// IsGlobal reports whether documents of this category are pooled across tenders.
func (c Category) IsGlobal() bool {
	return c == CategorySupporting || c == CategoryCompany
}

// Rule maps any of its keywords to a result. A keyword is one or more words and
// matches a run of consecutive name tokens; a trailing "s" on a token is ignored.
type Rule[T any] struct {
	Name     string
	Keywords []string
	Result   T
}

// Matches reports whether tokens contain any keyword phrase.
func (r Rule[T]) Matches(tokens []string) bool {
	for _, kw := range r.Keywords {
		if containsPhrase(tokens, strings.Fields(kw)) {
			return true
		}
	}
	return false
}

// CategoryRules is the priority order for categories. Anything unmatched is a tender document.
var CategoryRules = []Rule[Category]{
	{
		Name: "supporting",
		Keywords: []string{
			"certificate", "certification", "iso", "compliance", "bbbee", "b bbee", "bee",
			"tax", "vat", "cidb", "cipc", "company registration", "vat registration",
			"license", "licence", "insurance", "financial statement", "annual financial",
			"audited", "audit report", "bank statement", "bank letter", "bank confirmation",
		},
		Result: CategorySupporting,
	},
	{
		Name: "company",
		Keywords: []string{
			"company", "profile", "proposal", "response", "brochure", "portfolio",
			"capability", "about us",
		},
		Result: CategoryCompany,
	},
	{
		Name: "tender",
		Keywords: []string{
			"rfq", "rfp", "rft", "rfi", "tender", "bid", "procurement", "quotation",
			"solicitation", "eoi", "expression of interest", "invitation",
		},
		Result: CategoryTender,
	},
}

// TypeRules is the priority order for document type labels.
var TypeRules = []Rule[string]{
	{Name: "iso", Keywords: []string{"iso"}, Result: "ISO Certificate"},
	{Name: "bbbee", Keywords: []string{"bbbee", "b bbee", "bee"}, Result: "B-BBEE Certificate"},
	{Name: "tax", Keywords: []string{"tax"}, Result: "Tax Clearance Certificate"},
	{Name: "vat", Keywords: []string{"vat"}, Result: "VAT Registration"},
	{Name: "cidb", Keywords: []string{"cidb"}, Result: "CIDB Registration"},
	{Name: "insurance", Keywords: []string{"insurance"}, Result: "Insurance Certificate"},
	{Name: "financial", Keywords: []string{"financial statement", "annual financial", "audited", "audit report", "bank statement"}, Result: "Financial Statement"},
	{Name: "bank", Keywords: []string{"bank letter", "bank confirmation"}, Result: "Bank Confirmation Letter"},
	{Name: "license", Keywords: []string{"license", "licence"}, Result: "License"},
	{Name: "registration", Keywords: []string{"company registration", "cipc"}, Result: "Company Registration"},
	{Name: "compliance", Keywords: []string{"compliance"}, Result: "Compliance Document"},
	{Name: "certificate", Keywords: []string{"certificate", "certification"}, Result: "Certificate"},
	{Name: "rfq", Keywords: []string{"rfq", "quotation"}, Result: "Request for Quotation"},
	{Name: "rfp", Keywords: []string{"rfp"}, Result: "Request for Proposal"},
	{Name: "rfi", Keywords: []string{"rfi"}, Result: "Request for Information"},
	{Name: "eoi", Keywords: []string{"eoi", "expression of interest"}, Result: "Expression of Interest"},
	{Name: "rft", Keywords: []string{"rft", "tender"}, Result: "Tender Document"},
	{Name: "specification", Keywords: []string{"specification", "spec", "technical"}, Result: "Technical Specification"},
	{Name: "scope", Keywords: []string{"scope", "terms of reference", "tor", "sow", "statement of work"}, Result: "Scope of Work"},
	{Name: "pricing", Keywords: []string{"pricing", "price", "boq", "bill of quantities"}, Result: "Pricing Schedule"},
	{Name: "contract", Keywords: []string{"contract", "agreement"}, Result: "Contract"},
	{Name: "bid", Keywords: []string{"bid"}, Result: "Bid Document"},
	{Name: "company_profile", Keywords: []string{"profile"}, Result: "Company Profile"},
	{Name: "brochure", Keywords: []string{"brochure"}, Result: "Company Brochure"},
	{Name: "capability", Keywords: []string{"capability"}, Result: "Capability Statement"},
	{Name: "proposal", Keywords: []string{"proposal"}, Result: "Proposal"},
	{Name: "response", Keywords: []string{"response"}, Result: "Tender Response"},
	{Name: "portfolio", Keywords: []string{"portfolio"}, Result: "Project Portfolio"},
}

// Tokens splits a file name into lowercase words. Any non-alphanumeric rune
// separates words, as does a switch between letters and digits ("iso9001" is
// "iso", "9001").
func Tokens(fileName string) []string {
	var (
		out  []string
		cur  []rune
		prev rune
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range strings.ToLower(fileName) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			prev = 0
			continue
		}
		if prev != 0 && unicode.IsDigit(prev) != unicode.IsDigit(r) {
			flush()
		}
		cur = append(cur, r)
		prev = r
	}
	flush()
	return out
}

func containsPhrase(tokens, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(tokens) {
		return false
	}
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		matched := true
		for j, word := range phrase {
			if !tokenIs(tokens[i+j], word) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

func tokenIs(token, word string) bool {
	return token == word || token == word+"s"
}

// Result is the outcome of classifying one file name.
type Result struct {
	Category     Category `json:"category"`
	DocumentType string   `json:"documentType"`
}

// Classify returns the category and document type for fileName. It is total and
// deterministic: the same name always yields the same result.
func Classify(fileName string) Result {
	tokens := Tokens(fileName)
	return Result{
		Category:     firstMatch(CategoryRules, tokens, CategoryTender),
		DocumentType: firstMatch(TypeRules, tokens, DefaultDocumentType),
	}
}

func firstMatch[T any](rules []Rule[T], tokens []string, fallback T) T {
	for _, r := range rules {
		if r.Matches(tokens) {
			return r.Result
		}
	}
	return fallback
}
