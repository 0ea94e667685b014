// Package store provides deterministic, file-backed access to the orders
// database, the product catalog, and the returns policy. It performs no
// semantic retrieval and carries no business rules; the dialog controller
// and the grounding-context builder both consume it as a plain lookup
// service.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	logx "github.com/dannysmp/genai-customer-support-agent/pkg/logger"
)

const (
	ordersFile  = "orders_db.json"
	catalogFile = "product_catalog_db.json"
	policyFile  = "returns_policy.md"
	faqsFile    = "faqs.md"
)

// Service reads the local data directory on demand. Orders and catalog are
// re-read per call so edits to the data files show up without a restart;
// the forbidden-category set is parsed once and held for the process
// lifetime.
type Service struct {
	dataDir string

	forbiddenOnce sync.Once
	forbidden     map[string]struct{}
}

func NewService(dataDir string) *Service {
	return &Service{dataDir: dataDir}
}

func (s *Service) path(name string) string {
	return filepath.Join(s.dataDir, name)
}

func (s *Service) readJSON(name string, v any) error {
	b, err := os.ReadFile(s.path(name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *Service) readText(name string) string {
	b, err := os.ReadFile(s.path(name))
	if err != nil {
		return ""
	}
	return string(b)
}

// Orders returns every record from the orders database. A missing or
// corrupted file degrades to an empty list.
func (s *Service) Orders() []Order {
	var orders []Order
	if err := s.readJSON(ordersFile, &orders); err != nil {
		logx.Warn().Err(err).Msg("orders database unavailable")
		return nil
	}
	return orders
}

// OrderByTracking looks up a single order by exact tracking identifier.
func (s *Service) OrderByTracking(trackingID string) (*Order, bool) {
	candidate := strings.TrimSpace(trackingID)
	for _, o := range s.Orders() {
		if o.TrackingID == candidate {
			order := o
			return &order, true
		}
	}
	return nil, false
}

// Catalog returns the raw product catalog records.
func (s *Service) Catalog() []CatalogEntry {
	var entries []CatalogEntry
	if err := s.readJSON(catalogFile, &entries); err != nil {
		logx.Warn().Err(err).Msg("product catalog unavailable")
		return nil
	}
	return entries
}

// CatalogMap keys the catalog by normalized (lowercased, trimmed) product
// name for item-level eligibility lookups.
func (s *Service) CatalogMap() map[string]CatalogEntry {
	catalog := s.Catalog()
	m := make(map[string]CatalogEntry, len(catalog))
	for _, e := range catalog {
		key := strings.ToLower(strings.TrimSpace(e.Name))
		if key == "" {
			continue
		}
		m[key] = e
	}
	return m
}

// PolicyText returns the returns policy document, or "" when missing.
func (s *Service) PolicyText() string {
	return s.readText(policyFile)
}

// FAQText returns the FAQ document, or "" when missing.
func (s *Service) FAQText() string {
	return s.readText(faqsFile)
}

// OrderContext renders the deterministic ORDER_LOOKUP grounding block for a
// tracking identifier, or "" when no order matches. The block leads with
// machine-readable facts so downstream prompt truncation never cuts them.
func (s *Service) OrderContext(trackingID string) string {
	order, ok := s.OrderByTracking(trackingID)
	if !ok {
		return ""
	}
	return FormatOrderContext(order)
}

// FormatOrderContext builds the canonical multi-line order summary shared by
// the retrieval pipeline and the conversational agent.
func FormatOrderContext(order *Order) string {
	status := strings.TrimSpace(order.Status)
	delivered := order.IsDelivered()
	reason := "status_not_delivered"
	action := "deny"
	if delivered {
		reason = "status_delivered"
		action = "offer"
	}

	var b strings.Builder
	b.WriteString("ORDER_LOOKUP: FOUND\n")
	fmt.Fprintf(&b, "tracking_id: %s\n", order.TrackingID)
	fmt.Fprintf(&b, "status: %s\n", status)
	fmt.Fprintf(&b, "carrier: %s\n", order.Carrier)
	fmt.Fprintf(&b, "eta: %s\n", order.ETA)
	fmt.Fprintf(&b, "return_eligible: %t\n", delivered)
	fmt.Fprintf(&b, "return_eligibility_reason: %s\n", reason)
	fmt.Fprintf(&b, "return_action: %s\n", action)
	b.WriteString("items:\n")
	for _, it := range order.Items {
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		fmt.Fprintf(&b, "- %s (qty: %d)\n", it.Name, qty)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Order #%s - Status: %s, Carrier: %s, ETA: %s",
		order.TrackingID, status, order.Carrier, order.ETA)
	if order.DeliveredAt != "" {
		fmt.Fprintf(&b, "\nDelivered at: %s", order.DeliveredAt)
	}
	return b.String()
}
