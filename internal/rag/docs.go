// Package rag builds the retrieval layer that grounds generated replies in
// the local knowledge base. It flattens the orders database, product
// catalog, returns policy, and FAQ documents into retrievable snippets,
// serves top-k full-text search over them, and assembles a bounded context
// block for prompt injection with the deterministic order facts emitted
// first so truncation can never cut them.
package rag

import (
	"fmt"
	"strings"

	"github.com/dannysmp/genai-customer-support-agent/internal/store"
)

// knowledge source labels carried on each document
const (
	sourcePolicy  = "returns_policy"
	sourceFAQ     = "faqs"
	sourceCatalog = "product_catalog"
	sourceOrders  = "orders"
)

// Document is one retrievable knowledge snippet.
type Document struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Body   string `json:"body"`
}

// BuildDocuments flattens every knowledge source into index-ready documents.
// Empty sources contribute nothing; the result may be empty.
func BuildDocuments(st *store.Service) []Document {
	var docs []Document
	docs = append(docs, policyDocs(st.PolicyText())...)
	docs = append(docs, faqDocs(st.FAQText())...)
	docs = append(docs, productDocs(st.Catalog())...)
	docs = append(docs, orderDocs(st.Orders())...)
	return docs
}

// policyDocs keeps the full policy as one document and additionally splits
// out each "## " section so narrow questions can match a single clause.
func policyDocs(md string) []Document {
	md = strings.TrimSpace(md)
	if md == "" {
		return nil
	}
	docs := []Document{{ID: "policy-full", Source: sourcePolicy, Body: md}}
	for i, chunk := range strings.Split(md, "\n## ") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" || chunk == md {
			continue
		}
		docs = append(docs, Document{
			ID:     fmt.Sprintf("policy-%d", i),
			Source: sourcePolicy,
			Body:   "## " + chunk,
		})
	}
	return docs
}

// faqDocs splits the FAQ document into one document per "### " question.
func faqDocs(md string) []Document {
	if strings.TrimSpace(md) == "" {
		return nil
	}
	var docs []Document
	var current []string
	flush := func() {
		body := strings.TrimSpace(strings.Join(current, "\n"))
		if body != "" {
			docs = append(docs, Document{
				ID:     fmt.Sprintf("faq-%d", len(docs)),
				Source: sourceFAQ,
				Body:   body,
			})
		}
		current = current[:0]
	}
	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(line, "### ") {
			flush()
		}
		current = append(current, line)
	}
	flush()
	return docs
}

func productDocs(catalog []store.CatalogEntry) []Document {
	docs := make([]Document, 0, len(catalog))
	for i, p := range catalog {
		window := "unknown"
		if p.ReturnWindowDays.IsSet() {
			window = string(p.ReturnWindowDays)
		}
		body := fmt.Sprintf(
			"Product: %s\nSKU: %s\nCategory: %s\nPerishable: %t\nReturn window (days): %s\nNotes: %s",
			p.Name, p.SKU, p.Category, p.IsPerishable, window, p.Notes,
		)
		docs = append(docs, Document{
			ID:     fmt.Sprintf("product-%d", i),
			Source: sourceCatalog,
			Body:   body,
		})
	}
	return docs
}

// orderDocs renders each order as a compact summary with its item list, so
// queries mentioning a tracking code or product name can surface the order.
func orderDocs(orders []store.Order) []Document {
	docs := make([]Document, 0, len(orders))
	for i, o := range orders {
		lines := []string{fmt.Sprintf(
			"Order #%s - Status: %s, Carrier: %s, ETA: %s",
			o.TrackingID, o.Status, o.Carrier, o.ETA,
		)}
		if o.DeliveredAt != "" {
			lines = append(lines, "Delivered at: "+o.DeliveredAt)
		}
		for _, it := range o.Items {
			qty := it.Quantity
			if qty == 0 {
				qty = 1
			}
			lines = append(lines, fmt.Sprintf("- Item: %s (qty: %d)", it.Name, qty))
		}
		docs = append(docs, Document{
			ID:     fmt.Sprintf("order-%d", i),
			Source: sourceOrders,
			Body:   strings.Join(lines, "\n"),
		})
	}
	return docs
}
