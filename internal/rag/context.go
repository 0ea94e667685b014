package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dannysmp/genai-customer-support-agent/internal/agent/parse"
	"github.com/dannysmp/genai-customer-support-agent/internal/agent/returns"
	"github.com/dannysmp/genai-customer-support-agent/internal/store"
)

// maxContextChars bounds the assembled context block injected into prompts.
const maxContextChars = 1800

// Builder assembles the grounding block for one user query: deterministic
// order facts first, then eligibility signals, then semantic snippets in
// whatever budget remains.
type Builder struct {
	store     *store.Service
	validator *returns.Validator
	index     *Index
	now       func() time.Time
}

func NewBuilder(st *store.Service, validator *returns.Validator, index *Index, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{store: st, validator: validator, index: index, now: now}
}

// BuildContext returns the formatted context block for a query, or "" when
// nothing relevant is available. The ORDER_LOOKUP and eligibility blocks
// are emitted before semantic snippets and are never truncated; snippets
// absorb whatever character budget remains.
func (b *Builder) BuildContext(ctx context.Context, query string) string {
	var bullets []string
	var order *store.Order

	if candidate := parse.ExtractTrackingID(query); candidate != "" {
		if o, ok := b.store.OrderByTracking(candidate); ok {
			order = o
			bullets = append(bullets, store.FormatOrderContext(o))
		} else {
			bullets = append(bullets, "ORDER_LOOKUP: NOT_FOUND\ntracking_id: "+candidate)
		}
	}
	if order != nil {
		if block := b.signalsBlock(order); block != "" {
			bullets = append(bullets, block)
		}
	}

	header := "Retrieved Context:\n"
	budget := maxContextChars - len(header) - 16
	for _, s := range bullets {
		budget -= len(s) + 2
	}
	for _, snippet := range b.index.Search(ctx, query, defaultTopK) {
		if budget <= 0 {
			break
		}
		if len(snippet) > budget {
			snippet = snippet[:budget]
		}
		if snippet == "" {
			continue
		}
		bullets = append(bullets, snippet)
		budget -= len(snippet) + 2
	}

	if len(bullets) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(header)
	for _, s := range bullets {
		sb.WriteString("- ")
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	block := sb.String()
	if len(block) > maxContextChars {
		block = block[:maxContextChars-3] + "..."
	}
	return block
}

// signalsBlock renders one RETURN_ELIGIBILITY_SIGNALS record per item on
// the order, reusing the validator so the retrieval layer and the dialog
// core can never disagree on a verdict.
func (b *Builder) signalsBlock(order *store.Order) string {
	items := order.ItemNames()
	if len(items) == 0 {
		return ""
	}

	today := b.now()
	todayStr := "unknown"
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(order.DeliveredAt)); err == nil {
		todayStr = today.Format("2006-01-02")
	}

	verdicts := b.validator.Validate(items, order.DeliveredAt, b.store.CatalogMap(), today)
	lines := make([]string, 0, len(verdicts))
	for _, v := range verdicts {
		var sb strings.Builder
		sb.WriteString("RETURN_ELIGIBILITY_SIGNALS\n")
		fmt.Fprintf(&sb, "product: %s\n", v.Product)
		fmt.Fprintf(&sb, "delivered_at: %v\n", v.Meta["delivered_at"])
		fmt.Fprintf(&sb, "today: %s\n", todayStr)
		fmt.Fprintf(&sb, "elapsed_days: %v\n", v.Meta["elapsed_days"])
		fmt.Fprintf(&sb, "catalog_window_days: %v\n", v.Meta["catalog_window_days"])
		fmt.Fprintf(&sb, "is_perishable: %v\n", v.Meta["is_perishable"])
		fmt.Fprintf(&sb, "category: %v\n", v.Meta["category"])
		fmt.Fprintf(&sb, "policy_category_exclusion_hint: %t\n", v.Reason == returns.ReasonForbiddenCategory)
		fmt.Fprintf(&sb, "eligible: %t\n", v.Eligible)
		fmt.Fprintf(&sb, "reason: %s", v.Reason)
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}
