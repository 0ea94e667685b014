package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrders = `[
	{
		"tracking_id": "1001",
		"status": "Delivered",
		"carrier": "GreenExpress",
		"eta": "2025-08-09",
		"delivered_at": "2025-08-10",
		"items": [
			{"name": "Bamboo Toothbrush", "quantity": 2},
			{"name": "Organic Cotton Tote"}
		],
		"customer": {"email": "maria.rodriguez@ecomarket.test"}
	},
	{
		"tracking_id": "1003",
		"status": "In transit",
		"carrier": "GreenExpress",
		"eta": "2025-09-18",
		"items": [{"name": "Natural Toothpaste", "quantity": 1}]
	}
]`

const testCatalog = `[
	{"sku": "BT-001", "name": "Bamboo Toothbrush", "category": "oral care", "is_perishable": false, "return_window_days": 30},
	{"sku": "SS-050", "name": "Stainless Steel Bottle", "category": "kitchen", "is_perishable": false, "return_window_days": "n/a"},
	{"sku": "BW-060", "name": "Beeswax Wraps", "category": "kitchen", "is_perishable": false}
]`

const testPolicy = `# Returns Policy

## Non-returnable items

We cannot accept returns on products in categories such as hygiene, personal care, intimate apparel.
`

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		ordersFile:  testOrders,
		catalogFile: testCatalog,
		policyFile:  testPolicy,
		faqsFile:    "### How do I track my order?\n\nShare your tracking ID.\n",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return NewService(dir)
}

func TestOrderByTracking(t *testing.T) {
	s := newTestService(t)

	order, ok := s.OrderByTracking("1001")
	require.True(t, ok)
	assert.Equal(t, "Delivered", order.Status)
	assert.True(t, order.IsDelivered())
	assert.Equal(t, []string{"Bamboo Toothbrush", "Organic Cotton Tote"}, order.ItemNames())
	require.NotNil(t, order.Customer)
	assert.Equal(t, "maria.rodriguez@ecomarket.test", order.Customer.Email)

	_, ok = s.OrderByTracking("9999")
	assert.False(t, ok)
}

func TestOrdersMissingFileDegradesToEmpty(t *testing.T) {
	s := NewService(t.TempDir())
	assert.Empty(t, s.Orders())
	assert.Empty(t, s.Catalog())
	assert.Empty(t, s.PolicyText())
	assert.Empty(t, s.FAQText())
}

func TestCatalogMapNormalizesNames(t *testing.T) {
	s := newTestService(t)

	m := s.CatalogMap()
	entry, ok := m["bamboo toothbrush"]
	require.True(t, ok)
	assert.Equal(t, "BT-001", entry.SKU)
	_, ok = m["Bamboo Toothbrush"]
	assert.False(t, ok)
}

func TestReturnWindowDecoding(t *testing.T) {
	s := newTestService(t)
	m := s.CatalogMap()

	numeric := m["bamboo toothbrush"].ReturnWindowDays
	require.True(t, numeric.IsSet())
	days, err := numeric.Days()
	require.NoError(t, err)
	assert.Equal(t, 30, days)

	malformed := m["stainless steel bottle"].ReturnWindowDays
	require.True(t, malformed.IsSet())
	_, err = malformed.Days()
	assert.Error(t, err)
	assert.Equal(t, "n/a", string(malformed))

	absent := m["beeswax wraps"].ReturnWindowDays
	assert.False(t, absent.IsSet())
}

func TestReturnWindowMarshalRoundTrip(t *testing.T) {
	entry := CatalogEntry{Name: "X", ReturnWindowDays: "30"}
	b, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"return_window_days":30`)

	entry.ReturnWindowDays = "n/a"
	b, err = json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"return_window_days":"n/a"`)

	entry.ReturnWindowDays = ""
	b, err = json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"return_window_days":null`)
}

func TestForbiddenCategoriesFromPolicy(t *testing.T) {
	s := newTestService(t)

	set := s.ForbiddenCategorySet()
	assert.Len(t, set, 3)
	assert.Contains(t, set, "hygiene")
	assert.Contains(t, set, "personal care")
	assert.Contains(t, set, "intimate apparel")
}

func TestForbiddenCategoriesFallback(t *testing.T) {
	t.Run("missing policy file", func(t *testing.T) {
		s := NewService(t.TempDir())
		set := s.ForbiddenCategorySet()
		assert.Contains(t, set, "hygiene")
		assert.Contains(t, set, "personal care")
		assert.Contains(t, set, "intimate apparel")
	})

	t.Run("no exclusion sentence", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, policyFile), []byte("# Policy\n\nAll sales final.\n"), 0o644))
		s := NewService(dir)
		assert.Contains(t, s.ForbiddenCategorySet(), "hygiene")
	})
}

func TestOrderContext(t *testing.T) {
	s := newTestService(t)

	ctx := s.OrderContext("1001")
	assert.Contains(t, ctx, "ORDER_LOOKUP: FOUND")
	assert.Contains(t, ctx, "tracking_id: 1001")
	assert.Contains(t, ctx, "return_eligible: true")
	assert.Contains(t, ctx, "return_eligibility_reason: status_delivered")
	assert.Contains(t, ctx, "return_action: offer")
	assert.Contains(t, ctx, "- Bamboo Toothbrush (qty: 2)")
	// missing quantity renders as 1
	assert.Contains(t, ctx, "- Organic Cotton Tote (qty: 1)")
	assert.Contains(t, ctx, "Order #1001 - Status: Delivered, Carrier: GreenExpress, ETA: 2025-08-09")
	assert.Contains(t, ctx, "Delivered at: 2025-08-10")

	assert.Empty(t, s.OrderContext("9999"))
}

func TestOrderContextNotDelivered(t *testing.T) {
	s := newTestService(t)

	ctx := s.OrderContext("1003")
	assert.Contains(t, ctx, "return_eligible: false")
	assert.Contains(t, ctx, "return_eligibility_reason: status_not_delivered")
	assert.Contains(t, ctx, "return_action: deny")
	assert.NotContains(t, ctx, "Delivered at:")
}
