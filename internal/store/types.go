package store

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Order is a single record from the orders database. Records are read-only
// from the dialog core's perspective and fetched fresh on every lookup.
type Order struct {
	TrackingID  string      `json:"tracking_id"`
	Status      string      `json:"status"`
	Carrier     string      `json:"carrier"`
	ETA         string      `json:"eta"`
	DeliveredAt string      `json:"delivered_at,omitempty"`
	Items       []OrderItem `json:"items"`
	Customer    *Customer   `json:"customer,omitempty"`
}

type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Customer struct {
	Email string `json:"email"`
}

// ItemNames returns the trimmed item names in order, skipping blanks.
func (o *Order) ItemNames() []string {
	names := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		if n := strings.TrimSpace(it.Name); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// IsDelivered reports whether the order status equals "delivered",
// case-insensitively.
func (o *Order) IsDelivered() bool {
	return strings.EqualFold(strings.TrimSpace(o.Status), "delivered")
}

// CatalogEntry carries the return-policy metadata for one product.
type CatalogEntry struct {
	SKU              string       `json:"sku"`
	Name             string       `json:"name"`
	Category         string       `json:"category"`
	IsPerishable     bool         `json:"is_perishable"`
	ReturnWindowDays ReturnWindow `json:"return_window_days"`
	Notes            string       `json:"notes,omitempty"`
}

// ReturnWindow holds the raw return-window value from the catalog. The
// source data is not trusted: the field may be missing, a number, or a
// malformed string, and the eligibility validator must distinguish the
// three states. The zero value means absent.
type ReturnWindow string

// UnmarshalJSON accepts a JSON number, string, or null and preserves the
// textual value so malformed windows survive decoding.
func (w *ReturnWindow) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*w = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*w = ReturnWindow(strings.TrimSpace(s))
		return nil
	}
	*w = ReturnWindow(string(data))
	return nil
}

// MarshalJSON renders numeric windows as numbers and anything else verbatim
// as a string, mirroring the source data.
func (w ReturnWindow) MarshalJSON() ([]byte, error) {
	if !w.IsSet() {
		return []byte("null"), nil
	}
	if _, err := strconv.Atoi(string(w)); err == nil {
		return []byte(w), nil
	}
	return json.Marshal(string(w))
}

// IsSet reports whether a window value is present at all.
func (w ReturnWindow) IsSet() bool {
	return strings.TrimSpace(string(w)) != ""
}

// Days parses the window as a whole number of days.
func (w ReturnWindow) Days() (int, error) {
	return strconv.Atoi(strings.TrimSpace(string(w)))
}
