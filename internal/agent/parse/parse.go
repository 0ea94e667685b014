// Package parse holds the deterministic, stateless text helpers the dialog
// controller is built on: tracking-identifier extraction, accent/case
// folding, free-text list splitting, item matching, and the regex cue
// detectors for language, affirmation, negation, and intent.
package parse

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// trackingTokenRx matches a candidate tracking token: 3 to 14 characters of
// letters, digits, and dashes, bounded by word boundaries. Candidates without
// a digit are rejected after the match.
var trackingTokenRx = regexp.MustCompile(`\b[A-Za-z0-9-]{3,14}\b`)

var digitRx = regexp.MustCompile(`\d`)

// ExtractTrackingID returns the first tracking-shaped token in the text, or
// "" when none is present. The grounding-context builder relies on this
// exact function so the controller and the retrieval layer agree on what a
// tracking identifier looks like.
func ExtractTrackingID(text string) string {
	if text == "" {
		return ""
	}
	for _, candidate := range trackingTokenRx.FindAllString(text, -1) {
		if digitRx.MatchString(candidate) {
			return candidate
		}
	}
	return ""
}

// foldMarks strips combining diacritical marks after NFD decomposition.
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var whitespaceRx = regexp.MustCompile(`\s+`)

// NormalizeToken canonicalizes text for accent- and case-insensitive
// comparison: diacritics removed, runs of whitespace collapsed to single
// spaces, trimmed, lowercased.
func NormalizeToken(text string) string {
	if text == "" {
		return ""
	}
	folded, _, err := transform.String(foldMarks, text)
	if err != nil {
		folded = text
	}
	collapsed := whitespaceRx.ReplaceAllString(folded, " ")
	return strings.ToLower(strings.TrimSpace(collapsed))
}

var conjunctionRx = regexp.MustCompile(`(?i)\b(y|and|&)\b`)

var listSeparatorRx = regexp.MustCompile(`[,\n]+`)

// SplitList turns free text like "Widget A, Widget B and Widget C" into the
// individual names, in order of appearance. Conjunctions ("y", "and", "&")
// act as separators; empty fragments are dropped.
func SplitList(text string) []string {
	if text == "" {
		return nil
	}
	cleaned := conjunctionRx.ReplaceAllString(text, ",")
	var names []string
	for _, part := range listSeparatorRx.Split(cleaned, -1) {
		if p := strings.TrimSpace(part); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// MatchItems maps user-provided product names onto the canonical item names
// of an order, comparing normalized forms. Unmatched names are silently
// dropped; the caller observes mismatches by comparing input and output
// sizes.
func MatchItems(requested, orderItems []string) []string {
	if len(requested) == 0 || len(orderItems) == 0 {
		return nil
	}
	canonical := make(map[string]string, len(orderItems))
	for _, item := range orderItems {
		canonical[NormalizeToken(item)] = item
	}
	var matched []string
	for _, r := range requested {
		if name, ok := canonical[NormalizeToken(r)]; ok {
			matched = append(matched, name)
		}
	}
	return matched
}
