// Package analyzer runs a fixed set of heuristics over listing descriptions.
// It reports problems as codes; rendering them is up to the caller.
package analyzer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinDescriptionLength = 50
	MaxDescriptionLength = 2000

	// minDetailStems is how many distinct keyword stems a description
	// needs before it counts as detailed.
	minDetailStems = 2
)

// Issue identifies a problem found in a description.
type Issue string

const (
	IssueTooShort           Issue = "too_short"
	IssueTooLong            Issue = "too_long"
	IssueMissingPrice       Issue = "missing_price"
	IssuePriceNotRecognized Issue = "price_not_recognized"
	IssueFewDetails         Issue = "few_details"
)

// Suggestion is the fix paired with an Issue at the same index.
type Suggestion string

const (
	SuggestAddDetail       Suggestion = "add_detail"
	SuggestShorten         Suggestion = "shorten"
	SuggestStatePrice      Suggestion = "state_price"
	SuggestExplicitPrice   Suggestion = "explicit_price"
	SuggestMentionFeatures Suggestion = "mention_features"
)

// Result is the outcome of Analyze. Issues and Suggestions have equal length.
type Result struct {
	Issues         []Issue      `json:"issues,omitempty"`
	Suggestions    []Suggestion `json:"suggestions,omitempty"`
	ExtractedPrice float64      `json:"extractedPrice,omitempty"`
}

// IsValid is true when no issue was found.
func (r Result) IsValid() bool {
	return len(r.Issues) == 0
}

// HasPrice reports whether a positive price was extracted.
func (r Result) HasPrice() bool {
	return r.ExtractedPrice > 0
}

// HasIssue reports whether r contains issue.
func (r Result) HasIssue(issue Issue) bool {
	for _, i := range r.Issues {
		if i == issue {
			return true
		}
	}
	return false
}

func (r *Result) add(issue Issue, suggestion Suggestion) {
	r.Issues = append(r.Issues, issue)
	r.Suggestions = append(r.Suggestions, suggestion)
}

// pricePatterns are tried in order against lowercased text. The first group
// of each pattern is the digit run.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d[\d ]*)\s*(?:сум|so'm|sum|usd|доллар|dollar)`),
	regexp.MustCompile(`(?:цена|price|narx)\s*:\s*(\d[\d ]*)`),
	regexp.MustCompile(`(\d[\d ]*)\s*(?:₽|\$|€)`),
	regexp.MustCompile(`(?:стоимость|cost|narxi)\s*:?\s*(\d[\d ]*)`),
}

// detailStems are matched as substrings of the lowercased text. Each entry
// lists the spellings of one stem across supported languages.
var detailStems = [][]string{
	{"комнат", "room", "xona"},
	{"площад", "area", "maydon"},
	{"метр", "м²", "м2", "m2", "sqm", "kv.m"},
	{"этаж", "floor", "qavat"},
	{"район", "district", "tuman"},
}

// Analyze checks text for length, price and detail problems. It is pure.
func Analyze(text string) Result {
	var res Result

	length := utf8.RuneCountInString(text)
	if length < MinDescriptionLength {
		res.add(IssueTooShort, SuggestAddDetail)
	} else if length > MaxDescriptionLength {
		res.add(IssueTooLong, SuggestShorten)
	}

	if !containsDigit(text) {
		res.add(IssueMissingPrice, SuggestStatePrice)
	} else if price, ok := ExtractPrice(text); ok {
		res.ExtractedPrice = price
	} else {
		res.add(IssuePriceNotRecognized, SuggestExplicitPrice)
	}

	if countDetailStems(text) < minDetailStems {
		res.add(IssueFewDetails, SuggestMentionFeatures)
	}

	return res
}

// ExtractPrice returns the first price found by the ordered patterns. A match
// that does not parse to a positive number is skipped.
func ExtractPrice(text string) (float64, bool) {
	lower := strings.ToLower(asciiDigits(text))
	for _, re := range pricePatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		price, err := strconv.ParseFloat(stripSpaces(m[1]), 64)
		if err != nil || price <= 0 || math.IsInf(price, 0) {
			continue
		}
		return price, true
	}
	return 0, false
}

func containsDigit(text string) bool {
	for _, r := range text {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// asciiDigits rewrites decimal digits of any script ("٥٠٠٠٠") as 0-9, which
// is all the price patterns match.
func asciiDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r < utf8.RuneSelf || !unicode.IsDigit(r) {
			return r
		}
		if d, ok := digitValue(r); ok {
			return '0' + d
		}
		return r
	}, s)
}

// digitValue relies on every Nd range starting at a zero digit.
func digitValue(r rune) (rune, bool) {
	for _, rg := range unicode.Nd.R16 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return (r - lo) % 10, true
		}
	}
	for _, rg := range unicode.Nd.R32 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return (r - lo) % 10, true
		}
	}
	return 0, false
}

func countDetailStems(text string) int {
	lower := strings.ToLower(text)
	found := 0
	for _, spellings := range detailStems {
		for _, s := range spellings {
			if strings.Contains(lower, s) {
				found++
				break
			}
		}
	}
	return found
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
