// Package returns evaluates item-level return eligibility against delivery
// date, catalog metadata, and the category exclusions of the returns policy.
package returns

import (
	"strings"
	"time"

	"github.com/dannysmp/genai-customer-support-agent/internal/store"
)

// Reason is the fixed enumeration of verdict codes.
type Reason string

const (
	ReasonOK                 Reason = "ok"
	ReasonInsufficientWindow Reason = "insufficient_window_info"
	ReasonInvalidWindow      Reason = "invalid_window_value"
	ReasonWindowExceeded     Reason = "time_window_exceeded"
	ReasonPerishable         Reason = "perishable_not_returnable"
	ReasonForbiddenCategory  Reason = "category_not_returnable"
)

// Verdict is the per-product validation outcome. Meta carries diagnostic
// fields (elapsed days, catalog window, category, perishable flag) with the
// literal "unknown" standing in for anything that could not be determined
// at the point of failure, so a verdict can be audited without re-running
// validation.
type Verdict struct {
	Product  string         `json:"product"`
	Eligible bool           `json:"eligible"`
	Reason   Reason         `json:"reason"`
	Meta     map[string]any `json:"meta"`
}

// Validator applies the eligibility rules in a fixed order with early exit.
// The forbidden-category set is loaded once per process and treated as
// immutable.
type Validator struct {
	forbidden map[string]struct{}
}

func NewValidator(forbiddenCategories map[string]struct{}) *Validator {
	if forbiddenCategories == nil {
		forbiddenCategories = map[string]struct{}{}
	}
	return &Validator{forbidden: forbiddenCategories}
}

// itemFacts is the evaluation context for a single product.
type itemFacts struct {
	deliveredAt  string
	deliveredOK  bool
	elapsedDays  int
	window       store.ReturnWindow
	windowDays   int
	windowParsed bool
	category     string
	perishable   bool
}

// rule rejects an item with its reason when the predicate fires. Rules run
// in declaration order and the first failure wins; no cumulative reasons.
type rule struct {
	reason Reason
	failed func(v *Validator, f *itemFacts) bool
}

var rules = []rule{
	{ReasonInsufficientWindow, func(_ *Validator, f *itemFacts) bool {
		return !f.deliveredOK || !f.window.IsSet()
	}},
	{ReasonInvalidWindow, func(_ *Validator, f *itemFacts) bool {
		return !f.windowParsed
	}},
	{ReasonWindowExceeded, func(_ *Validator, f *itemFacts) bool {
		return f.elapsedDays > f.windowDays
	}},
	{ReasonPerishable, func(_ *Validator, f *itemFacts) bool {
		return f.perishable
	}},
	{ReasonForbiddenCategory, func(v *Validator, f *itemFacts) bool {
		if f.category == "" {
			return false
		}
		_, forbidden := v.forbidden[f.category]
		return forbidden
	}},
}

// Validate evaluates each product independently, in input order; duplicate
// inputs produce duplicate verdicts. deliveredAt is an ISO calendar date
// ("2006-01-02"); an unparseable value is treated as absent. today is
// injected by the caller, which keeps the only wall-clock dependence of the
// dialog core explicit.
func (v *Validator) Validate(products []string, deliveredAt string, catalog map[string]store.CatalogEntry, today time.Time) []Verdict {
	deliveredAt = strings.TrimSpace(deliveredAt)
	deliveredDate, err := time.Parse("2006-01-02", deliveredAt)
	deliveredOK := deliveredAt != "" && err == nil

	verdicts := make([]Verdict, 0, len(products))
	for _, name := range products {
		entry := catalog[strings.ToLower(strings.TrimSpace(name))]

		facts := itemFacts{
			deliveredAt: deliveredAt,
			deliveredOK: deliveredOK,
			window:      entry.ReturnWindowDays,
			category:    strings.ToLower(strings.TrimSpace(entry.Category)),
			perishable:  entry.IsPerishable,
		}
		if deliveredOK {
			facts.elapsedDays = elapsedCalendarDays(deliveredDate, today)
		}
		if days, err := facts.window.Days(); err == nil {
			facts.windowDays = days
			facts.windowParsed = true
		}

		verdicts = append(verdicts, v.evaluate(name, &facts))
	}
	return verdicts
}

func (v *Validator) evaluate(name string, f *itemFacts) Verdict {
	for _, r := range rules {
		if r.failed(v, f) {
			return Verdict{Product: name, Eligible: false, Reason: r.reason, Meta: metaFor(f)}
		}
	}
	return Verdict{Product: name, Eligible: true, Reason: ReasonOK, Meta: metaFor(f)}
}

// metaFor snapshots the diagnostics, substituting "unknown" for anything
// undetermined at the point the verdict was reached.
func metaFor(f *itemFacts) map[string]any {
	meta := map[string]any{
		"is_perishable": f.perishable,
	}

	if f.category != "" {
		meta["category"] = f.category
	} else {
		meta["category"] = "unknown"
	}

	if f.deliveredOK {
		meta["elapsed_days"] = f.elapsedDays
	} else {
		meta["elapsed_days"] = "unknown"
	}

	switch {
	case f.windowParsed:
		meta["catalog_window_days"] = f.windowDays
	case f.window.IsSet():
		meta["catalog_window_days"] = string(f.window)
	default:
		meta["catalog_window_days"] = "unknown"
	}

	if f.deliveredAt != "" {
		meta["delivered_at"] = f.deliveredAt
	} else {
		meta["delivered_at"] = "unknown"
	}
	return meta
}

// elapsedCalendarDays counts whole calendar days between two dates,
// ignoring the time-of-day components.
func elapsedCalendarDays(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay).Hours() / 24)
}

// AnyEligible reports whether at least one verdict passed.
func AnyEligible(verdicts []Verdict) bool {
	for _, v := range verdicts {
		if v.Eligible {
			return true
		}
	}
	return false
}

// NoneEligible reports whether the verdict set is non-empty and every item
// was rejected.
func NoneEligible(verdicts []Verdict) bool {
	return len(verdicts) > 0 && !AnyEligible(verdicts)
}
