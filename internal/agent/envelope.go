package agent

import (
	"strings"

	"github.com/dannysmp/genai-customer-support-agent/internal/agent/returns"
	"github.com/dannysmp/genai-customer-support-agent/internal/store"
)

// Dialog intents. This vocabulary is a stable contract with the
// text-generation layer; do not grow it silently.
const (
	IntentAskLanguagePreference            = "ask_language_preference"
	IntentRequestTrackingID                = "request_tracking_id"
	IntentPresentDeliveredAskReturn        = "present_order_delivered_ask_return_intent"
	IntentPresentNotDeliveredAskReview     = "present_order_not_delivered_ask_review_another"
	IntentOrderNotFoundAskReview           = "order_not_found_ask_review_another"
	IntentAskItemsToReturn                 = "ask_items_to_return"
	IntentAskItemsToReturnRetry            = "ask_items_to_return_retry"
	IntentShowValidationAskProceed         = "show_validation_and_ask_proceed"
	IntentShowValidationNoneEligible       = "show_validation_none_eligible_ask_review_another"
	IntentConfirmProceedAskReview          = "confirm_proceed_and_ask_review_another"
	IntentDeclineProceedAskReview          = "decline_proceed_and_ask_review_another"
	IntentAskProceedRetry                  = "ask_proceed_retry"
	IntentAskReturnIntent                  = "ask_return_intent"
	IntentDeclineReturnAskReview           = "decline_return_ask_review_another"
	IntentAskReviewAnother                 = "ask_review_another"
	IntentFarewell                         = "farewell"
)

// Slot names for Envelope.NextExpected.
const (
	SlotLanguage       = "language"
	SlotTrackingID     = "tracking_id"
	SlotReturnIntent   = "return_intent"
	SlotReturnItems    = "return_items"
	SlotConfirmProceed = "confirm_proceed"
	SlotReviewAnother  = "review_another"
)

// OrderInfo is the minimal order subobject included in envelope payloads.
// On a failed lookup only TrackingID is populated, echoing the candidate
// token back for transparency.
type OrderInfo struct {
	TrackingID  string `json:"tracking_id,omitempty"`
	Status      string `json:"status,omitempty"`
	Carrier     string `json:"carrier,omitempty"`
	ETA         string `json:"eta,omitempty"`
	DeliveredAt string `json:"delivered_at,omitempty"`
}

// ItemDetail is a render-ready item line with quantity.
type ItemDetail struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Envelope is the structured response the controller returns each turn,
// consumed by the NLG layer. Every optional field is declared here; there is
// no open payload map.
//
// NLG control: Nlg true means a higher layer renders the user text;
// UserMessage carries pre-rendered text when Nlg is false; EndSession closes
// the conversation. Dialog control: Intent names the next action,
// NextExpected names the slot the controller waits for.
type Envelope struct {
	Nlg         bool   `json:"nlg"`
	UserMessage string `json:"user_message,omitempty"`
	EndSession  bool   `json:"end_session"`

	Intent       string `json:"intent"`
	NextExpected string `json:"next_expected,omitempty"`

	Lang             string            `json:"lang,omitempty"`
	OrderContext     string            `json:"order_context,omitempty"`
	Order            *OrderInfo        `json:"order,omitempty"`
	Items            []string          `json:"items,omitempty"`
	ItemsDetail      []ItemDetail      `json:"items_detail,omitempty"`
	RequestedItems   []string          `json:"requested_items,omitempty"`
	ReturnValidation []returns.Verdict `json:"return_validation,omitempty"`
	MaskedEmail      string            `json:"masked_email,omitempty"`
}

func orderInfoFrom(order *store.Order) *OrderInfo {
	return &OrderInfo{
		TrackingID:  order.TrackingID,
		Status:      order.Status,
		Carrier:     order.Carrier,
		ETA:         order.ETA,
		DeliveredAt: order.DeliveredAt,
	}
}

func itemsDetailFrom(order *store.Order) []ItemDetail {
	details := make([]ItemDetail, 0, len(order.Items))
	for _, it := range order.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			continue
		}
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		details = append(details, ItemDetail{Name: name, Quantity: qty})
	}
	return details
}
