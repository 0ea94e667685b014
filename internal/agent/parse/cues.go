package parse

import "regexp"

// Cues classifies short user utterances through fixed bilingual
// vocabularies. It is deliberately a small interface so the regex strategy
// can be swapped for a classifier without touching the state machine.
type Cues interface {
	// DetectLanguage returns "es", "en", or "" when no choice is recognizable.
	DetectLanguage(text string) string
	// Affirms reports agreement ("yes", "ok", "claro", ...).
	Affirms(text string) bool
	// Declines reports refusal ("no", "nope", "negativo", ...).
	Declines(text string) bool
	// MentionsReturn reports that the user wants to return items.
	MentionsReturn(text string) bool
	// MentionsAnotherOrder reports intent to review a different order. A
	// reference word ("another"/"otra"/"otro") and an order word
	// ("order"/"orden") must both occur somewhere in the text, not
	// necessarily adjacent.
	MentionsAnotherOrder(text string) bool
}

// Vocabularies are matched against NormalizeToken output, so the patterns
// stay ASCII while "sí", "inglés", and "devolución" still hit. RE2 word
// boundaries only understand ASCII word characters, which makes matching the
// accented forms directly unreliable.
var (
	spanishRx      = regexp.MustCompile(`\b(espanol|spanish)\b`)
	englishRx      = regexp.MustCompile(`\b(ingles|english)\b`)
	affirmRx       = regexp.MustCompile(`\b(si|yes|yeah|yup|ok|okay|sure|claro|adelante)\b`)
	declineRx      = regexp.MustCompile(`\b(no|nop|nope|negativo)\b`)
	returnIntentRx = regexp.MustCompile(`\b(devolver|devolucion|return|retornar)\b`)
	anotherRx      = regexp.MustCompile(`\b(otra|otro|another)\b`)
	orderWordRx    = regexp.MustCompile(`\b(orden|order)\b`)
)

// RegexCues is the default whole-word regex implementation of Cues.
//
// Affirmation and negation are independent matches, not mutually exclusive:
// text containing both ("yes, no problem") satisfies both detectors. Every
// call site checks Affirms first, so affirmation wins by precedence. That
// ordering is a documented contract, not an accident; keep it when changing
// the controller.
type RegexCues struct{}

func (RegexCues) DetectLanguage(text string) string {
	if text == "" {
		return ""
	}
	folded := NormalizeToken(text)
	if spanishRx.MatchString(folded) {
		return "es"
	}
	if englishRx.MatchString(folded) {
		return "en"
	}
	return ""
}

func (RegexCues) Affirms(text string) bool {
	return affirmRx.MatchString(NormalizeToken(text))
}

func (RegexCues) Declines(text string) bool {
	return declineRx.MatchString(NormalizeToken(text))
}

func (RegexCues) MentionsReturn(text string) bool {
	return returnIntentRx.MatchString(NormalizeToken(text))
}

func (RegexCues) MentionsAnotherOrder(text string) bool {
	folded := NormalizeToken(text)
	return anotherRx.MatchString(folded) && orderWordRx.MatchString(folded)
}

var _ Cues = RegexCues{}
