package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dannysmp/genai-customer-support-agent/internal/agent/returns"
)

func TestFormatValidationConfirmation(t *testing.T) {
	verdicts := []returns.Verdict{
		{Product: "Bamboo Toothbrush", Eligible: true, Reason: returns.ReasonOK},
		{Product: "Organic Granola", Eligible: false, Reason: returns.ReasonPerishable},
	}
	requested := []string{"Bamboo Toothbrush", "Organic Granola"}

	en := formatValidationConfirmation(requested, verdicts, "en")
	assert.Contains(t, en, "Bamboo Toothbrush — Eligible for return.")
	assert.Contains(t, en, "Perishable items can’t be returned.")
	assert.Contains(t, en, "Would you like to proceed with the return now?")

	es := formatValidationConfirmation(requested, verdicts, "es")
	assert.Contains(t, es, "Es elegible para devolución.")
	assert.Contains(t, es, "Los artículos perecederos no se pueden devolver.")
	assert.Contains(t, es, "¿Deseas proceder con la devolución ahora?")
}

func TestFormatValidationConfirmationUnknownLangFallsBack(t *testing.T) {
	verdicts := []returns.Verdict{{Product: "Bamboo Toothbrush", Eligible: true}}
	out := formatValidationConfirmation([]string{"Bamboo Toothbrush"}, verdicts, "fr")
	assert.Contains(t, out, "Eligible for return.")
}

func TestFormatNoEligibleMessage(t *testing.T) {
	order := &OrderInfo{TrackingID: "1009", Status: "Delivered", Carrier: "EcoShip", DeliveredAt: "2025-09-03"}
	details := []ItemDetail{{Name: "Natural Deodorant", Quantity: 1}}
	verdicts := []returns.Verdict{
		{Product: "Natural Deodorant", Eligible: false, Reason: returns.ReasonForbiddenCategory},
	}

	en := formatNoEligibleMessage(order, details, verdicts, "en")
	assert.Contains(t, en, "order 1009")
	assert.Contains(t, en, "Natural Deodorant")
	assert.Contains(t, en, "This category is not eligible for returns.")
	assert.Contains(t, en, "Would you like to check another order?")

	es := formatNoEligibleMessage(order, details, verdicts, "es")
	assert.Contains(t, es, "Esta categoría no es elegible para devoluciones.")
	assert.Contains(t, es, "¿Deseas revisar otra orden?")
}

func TestFormatNoEligibleMessageWithoutOrder(t *testing.T) {
	verdicts := []returns.Verdict{
		{Product: "Natural Deodorant", Eligible: false, Reason: returns.ReasonForbiddenCategory},
	}
	out := formatNoEligibleMessage(nil, nil, verdicts, "en")
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "Would you like to check another order?")
}
