package agent

import (
	"fmt"
	"strings"

	"github.com/dannysmp/genai-customer-support-agent/internal/agent/returns"
)

// The validation summaries are the only turns rendered inside the core
// rather than by the NLG layer: their wording must track the verdict codes
// exactly, so the text is produced next to the data instead of being left to
// a model.

type messageText struct {
	reasonTexts     map[returns.Reason]string
	defaultReason   string
	eligibleText    string
	validationIntro string
	proceedQuestion string
	reviewQuestion  string
	noItemsBullet   string
	qtyLabel        string
	sectionTitle    string
}

var messageTexts = map[string]messageText{
	"en": {
		reasonTexts: map[returns.Reason]string{
			returns.ReasonInsufficientWindow: "Missing delivery date or return window, so we can’t process the return.",
			returns.ReasonInvalidWindow:      "Return window data is invalid for this product.",
			returns.ReasonWindowExceeded:     "The return window has already passed.",
			returns.ReasonPerishable:         "Perishable items can’t be returned.",
			returns.ReasonForbiddenCategory:  "This category is not eligible for returns.",
		},
		defaultReason:   "Not eligible for return.",
		eligibleText:    "Eligible for return.",
		validationIntro: "Validation for the selected items:",
		proceedQuestion: "Would you like to proceed with the return now?",
		reviewQuestion:  "Would you like to check another order?",
		noItemsBullet:   "No items were identified for validation.",
		qtyLabel:        "qty",
		sectionTitle:    "Order items:",
	},
	"es": {
		reasonTexts: map[returns.Reason]string{
			returns.ReasonInsufficientWindow: "Falta la fecha de entrega o la ventana de devoluciones, así que no podemos procesar la devolución.",
			returns.ReasonInvalidWindow:      "La información de la ventana de devolución es inválida para este producto.",
			returns.ReasonWindowExceeded:     "La ventana de devolución ya venció.",
			returns.ReasonPerishable:         "Los artículos perecederos no se pueden devolver.",
			returns.ReasonForbiddenCategory:  "Esta categoría no es elegible para devoluciones.",
		},
		defaultReason:   "No es elegible para devolución.",
		eligibleText:    "Es elegible para devolución.",
		validationIntro: "Validación de artículos seleccionados:",
		proceedQuestion: "¿Deseas proceder con la devolución ahora?",
		reviewQuestion:  "¿Deseas revisar otra orden?",
		noItemsBullet:   "No se identificaron artículos para validar.",
		qtyLabel:        "cant",
		sectionTitle:    "Artículos de la orden:",
	},
}

func textsFor(lang string) messageText {
	if t, ok := messageTexts[lang]; ok {
		return t
	}
	return messageTexts["en"]
}

func verdictMap(verdicts []returns.Verdict) map[string]returns.Verdict {
	m := make(map[string]returns.Verdict, len(verdicts))
	for _, v := range verdicts {
		m[strings.TrimSpace(v.Product)] = v
	}
	return m
}

// formatValidationConfirmation summarizes the per-item verdicts for the
// items the user selected and asks whether to proceed.
func formatValidationConfirmation(requested []string, verdicts []returns.Verdict, lang string) string {
	t := textsFor(lang)
	byProduct := verdictMap(verdicts)

	var bullets []string
	for _, name := range requested {
		clean := strings.TrimSpace(name)
		if clean == "" {
			continue
		}
		v, ok := byProduct[clean]
		if !ok {
			continue
		}
		if v.Eligible {
			bullets = append(bullets, fmt.Sprintf("•  %s — %s  ", clean, t.eligibleText))
			continue
		}
		reason, ok := t.reasonTexts[v.Reason]
		if !ok {
			reason = t.defaultReason
		}
		bullets = append(bullets, fmt.Sprintf("•  %s — %s  ", clean, reason))
	}
	if len(bullets) == 0 {
		bullets = append(bullets, fmt.Sprintf("•  %s  ", t.noItemsBullet))
	}

	lines := append([]string{t.validationIntro, ""}, bullets...)
	lines = append(lines, "", t.proceedQuestion)
	return strings.Join(lines, "\n")
}

// formatNoEligibleMessage explains, item by item, why nothing in the order
// qualifies for return, then asks about reviewing another order.
func formatNoEligibleMessage(order *OrderInfo, itemsDetail []ItemDetail, verdicts []returns.Verdict, lang string) string {
	t := textsFor(lang)
	byProduct := verdictMap(verdicts)

	var header []string
	var intro string
	if order == nil {
		order = &OrderInfo{}
	}
	status := strings.TrimSpace(order.Status)
	carrier := strings.TrimSpace(order.Carrier)
	deliveredAt := strings.TrimSpace(order.DeliveredAt)
	eta := strings.TrimSpace(order.ETA)
	trackingID := strings.TrimSpace(order.TrackingID)

	if lang == "es" {
		if status != "" {
			header = append(header, fmt.Sprintf("Estado de la orden: %s.  ", status))
		}
		if carrier != "" {
			header = append(header, fmt.Sprintf("Transportista: %s.  ", carrier))
		}
		if deliveredAt != "" {
			header = append(header, fmt.Sprintf("Entregada el %s.  ", deliveredAt))
		} else if eta != "" {
			header = append(header, fmt.Sprintf("Fecha estimada de entrega: %s.  ", eta))
		}
		ref := "la orden"
		if trackingID != "" {
			ref = "la orden " + trackingID
		}
		intro = fmt.Sprintf("Ningún artículo de %s es elegible para devolución.", ref)
	} else {
		if status != "" {
			header = append(header, fmt.Sprintf("Order status: %s.  ", status))
		}
		if carrier != "" {
			header = append(header, fmt.Sprintf("Carrier: %s.  ", carrier))
		}
		if deliveredAt != "" {
			header = append(header, fmt.Sprintf("Delivered on %s.  ", deliveredAt))
		} else if eta != "" {
			header = append(header, fmt.Sprintf("Estimated arrival: %s.  ", eta))
		}
		ref := "this order"
		if trackingID != "" {
			ref = "order " + trackingID
		}
		intro = fmt.Sprintf("No items from %s are eligible for return.", ref)
	}

	var bullets []string
	for _, item := range itemsDetail {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		reason := t.defaultReason
		if v, ok := byProduct[name]; ok {
			if r, ok := t.reasonTexts[v.Reason]; ok {
				reason = r
			}
		}
		bullets = append(bullets, fmt.Sprintf("•  %s (%s: %d) — %s  ", name, t.qtyLabel, item.Quantity, reason))
	}

	var lines []string
	lines = append(lines, header...)
	if len(header) > 0 {
		lines = append(lines, "")
	}
	lines = append(lines, intro, "", t.sectionTitle, "")
	lines = append(lines, bullets...)
	if len(bullets) > 0 {
		lines = append(lines, "")
	}
	lines = append(lines, t.reviewQuestion)
	return strings.Join(lines, "\n")
}

// MaskEmail produces a privacy-safe rendering of a customer email for the
// confirmation message: the first two characters of the local part followed
// by "***@...". Unparseable input degrades to "...@...".
func MaskEmail(email string) string {
	if email == "" || !strings.Contains(email, "@") {
		return "...@..."
	}
	local := strings.TrimSpace(strings.SplitN(email, "@", 2)[0])
	head := local
	if len(local) >= 2 {
		head = local[:2]
	}
	return head + "***@..."
}
