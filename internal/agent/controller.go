// Package agent implements the deterministic dialog controller for the
// order-status and returns workflow. Given raw user text and the session for
// the current conversation, the controller resolves the next dialog stage,
// consults the order and catalog lookup service, runs return-eligibility
// validation when applicable, mutates the session, and emits exactly one
// response envelope for the text-generation layer.
//
// The controller never errors across its boundary: malformed or
// unrecognized input degrades to a re-prompt in the same logical state, and
// missing external data surfaces as reason codes or dedicated intents inside
// the envelope. Identical (session, input) pairs always produce identical
// (session', envelope) pairs; the only wall-clock dependence is the explicit
// elapsed-days computation inside the eligibility validator.
package agent

import (
	"strings"
	"time"

	"github.com/dannysmp/genai-customer-support-agent/internal/agent/parse"
	"github.com/dannysmp/genai-customer-support-agent/internal/agent/returns"
	"github.com/dannysmp/genai-customer-support-agent/internal/store"
	logx "github.com/dannysmp/genai-customer-support-agent/pkg/logger"
)

// Lookup is the read-only data contract the controller consumes. Lookups
// are fast, synchronous in-process reads; the controller fetches order data
// fresh on every tracking-token hit.
type Lookup interface {
	OrderByTracking(trackingID string) (*store.Order, bool)
	CatalogMap() map[string]store.CatalogEntry
	OrderContext(trackingID string) string
}

// Config wires the controller's collaborators. Cues and Now default to the
// regex detectors and the wall clock.
type Config struct {
	Store     Lookup
	Validator *returns.Validator
	Cues      parse.Cues
	Now       func() time.Time
}

// Controller is stateless across calls: all conversation state lives in the
// Session handed to Handle by the transport.
type Controller struct {
	store     Lookup
	validator *returns.Validator
	cues      parse.Cues
	now       func() time.Time
}

func NewController(cfg Config) *Controller {
	c := &Controller{
		store:     cfg.Store,
		validator: cfg.Validator,
		cues:      cfg.Cues,
		now:       cfg.Now,
	}
	if c.cues == nil {
		c.cues = parse.RegexCues{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// emit finalizes an envelope: the session language is injected unless the
// branch set one explicitly, and NLG rendering is requested exactly when the
// core produced no literal text of its own.
func (c *Controller) emit(sess *Session, env Envelope) *Envelope {
	if env.Lang == "" {
		env.Lang = sess.Lang
	}
	env.Nlg = env.UserMessage == ""
	return &env
}

// Handle advances the dialog by one turn. It always mutates the session as
// a side effect and always returns exactly one envelope.
func (c *Controller) Handle(sess *Session, userText string) *Envelope {
	text := strings.TrimSpace(userText)

	// Stage 0: the conversation opens with language selection.
	if sess.Lang == "" {
		if choice := c.cues.DetectLanguage(text); choice != "" {
			sess.Lang = choice
			sess.AwaitingTrackingID = true
			return c.emit(sess, Envelope{
				Intent:       IntentRequestTrackingID,
				NextExpected: SlotTrackingID,
			})
		}
		return c.emit(sess, Envelope{
			Intent:       IntentAskLanguagePreference,
			NextExpected: SlotLanguage,
		})
	}

	// A recognizable tracking token pre-empts whatever stage the dialog is
	// in: the user is steering to a (possibly different) order.
	if tid := parse.ExtractTrackingID(text); tid != "" {
		return c.switchOrder(sess, tid)
	}

	// The review-another question can be pending regardless of the delivery
	// status of the previous order, and also after a failed lookup when no
	// order is cached at all.
	if sess.AwaitingReviewAnother {
		return c.reviewAnotherTurn(sess, text)
	}

	// First request, or the turn after agreeing to review another order.
	if sess.TrackingID == "" || sess.AwaitingTrackingID {
		sess.AwaitingTrackingID = true
		return c.emit(sess, Envelope{
			Intent:       IntentRequestTrackingID,
			NextExpected: SlotTrackingID,
		})
	}

	// An undelivered order offers nothing beyond its status; keep the
	// dialog aligned on the review-another question.
	if sess.OrderStatus != "delivered" {
		sess.AwaitingReviewAnother = true
		return c.emit(sess, Envelope{
			Intent:       IntentAskReviewAnother,
			NextExpected: SlotReviewAnother,
		})
	}

	if sess.AwaitingItemsSelection {
		return c.itemsSelectionTurn(sess, text)
	}

	if sess.AwaitingConfirmProceed {
		return c.confirmProceedTurn(sess, text)
	}

	// Delivered order, no pending question: resolve the return intent.
	// Affirmation is deliberately checked before negation; see parse.RegexCues.
	if c.cues.MentionsReturn(text) || c.cues.Affirms(text) {
		sess.AwaitingItemsSelection = true
		return c.emit(sess, Envelope{
			Intent:       IntentAskItemsToReturn,
			NextExpected: SlotReturnItems,
			Items:        sess.LastOrderItems,
		})
	}
	if c.cues.Declines(text) {
		sess.AwaitingReviewAnother = true
		return c.emit(sess, Envelope{
			Intent:       IntentDeclineReturnAskReview,
			NextExpected: SlotReviewAnother,
		})
	}
	return c.emit(sess, Envelope{
		Intent:       IntentAskReturnIntent,
		NextExpected: SlotReturnIntent,
	})
}

// switchOrder is the single transition for every tracking-token interrupt:
// lookup, session rebind, and the delivery-status branch. Selecting a new
// order always starts from a clean slate; only the language survives.
func (c *Controller) switchOrder(sess *Session, trackingID string) *Envelope {
	order, found := c.store.OrderByTracking(trackingID)
	if !found {
		logx.Debug().Str("tracking_id", trackingID).Msg("order lookup miss")
		sess.ResetForNewOrder()
		sess.AwaitingReviewAnother = true
		return c.emit(sess, Envelope{
			Intent:       IntentOrderNotFoundAskReview,
			NextExpected: SlotReviewAnother,
			Order:        &OrderInfo{TrackingID: trackingID},
		})
	}

	sess.ResetForNewOrder()
	sess.TrackingID = order.TrackingID
	sess.OrderStatus = strings.ToLower(strings.TrimSpace(order.Status))
	sess.DeliveredAt = strings.TrimSpace(order.DeliveredAt)
	sess.LastOrderItems = order.ItemNames()
	sess.LastOrder = order

	details := itemsDetailFrom(order)

	if sess.OrderStatus != "delivered" {
		sess.AwaitingReviewAnother = true
		return c.emit(sess, Envelope{
			Intent:       IntentPresentNotDeliveredAskReview,
			NextExpected: SlotReviewAnother,
			OrderContext: c.store.OrderContext(order.TrackingID),
			Order:        orderInfoFrom(order),
			Items:        sess.LastOrderItems,
			ItemsDetail:  details,
		})
	}

	// Delivered: do not offer returns when every item is already ineligible
	// by time, perishability, or category policy.
	if len(sess.LastOrderItems) > 0 {
		verdicts := c.validator.Validate(sess.LastOrderItems, sess.DeliveredAt, c.store.CatalogMap(), c.now())
		if returns.NoneEligible(verdicts) {
			sess.AwaitingReviewAnother = true
			info := orderInfoFrom(order)
			return c.emit(sess, Envelope{
				Intent:           IntentShowValidationNoneEligible,
				NextExpected:     SlotReviewAnother,
				OrderContext:     c.store.OrderContext(order.TrackingID),
				Order:            info,
				Items:            sess.LastOrderItems,
				ItemsDetail:      details,
				RequestedItems:   sess.LastOrderItems,
				ReturnValidation: verdicts,
				UserMessage:      formatNoEligibleMessage(info, details, verdicts, sess.Lang),
			})
		}
	}

	return c.emit(sess, Envelope{
		Intent:       IntentPresentDeliveredAskReturn,
		NextExpected: SlotReturnIntent,
		OrderContext: c.store.OrderContext(order.TrackingID),
		Order:        orderInfoFrom(order),
		Items:        sess.LastOrderItems,
		ItemsDetail:  details,
	})
}

// reviewAnotherTurn resolves the pending "review another order?" question.
// Tracking tokens never reach here; Handle intercepts them first.
func (c *Controller) reviewAnotherTurn(sess *Session, text string) *Envelope {
	if c.cues.Affirms(text) || c.cues.MentionsAnotherOrder(text) {
		sess.AwaitingReviewAnother = false
		sess.AwaitingTrackingID = true
		return c.emit(sess, Envelope{
			Intent:       IntentRequestTrackingID,
			NextExpected: SlotTrackingID,
		})
	}
	if c.cues.Declines(text) {
		sess.AwaitingReviewAnother = false
		return c.emit(sess, Envelope{
			Intent:     IntentFarewell,
			EndSession: true,
		})
	}
	return c.emit(sess, Envelope{
		Intent:       IntentAskReviewAnother,
		NextExpected: SlotReviewAnother,
	})
}

// itemsSelectionTurn matches the user's free-text item list against the
// cached order and validates the matched subset.
func (c *Controller) itemsSelectionTurn(sess *Session, text string) *Envelope {
	requested := parse.SplitList(text)
	matched := parse.MatchItems(requested, sess.LastOrderItems)

	if len(matched) == 0 {
		// Echo the unmatched list back so the user can correct it.
		return c.emit(sess, Envelope{
			Intent:         IntentAskItemsToReturnRetry,
			NextExpected:   SlotReturnItems,
			Items:          sess.LastOrderItems,
			RequestedItems: requested,
		})
	}

	verdicts := c.validator.Validate(matched, sess.DeliveredAt, c.store.CatalogMap(), c.now())
	sess.LastRequestedItems = matched

	if returns.AnyEligible(verdicts) {
		// Proceeding applies only to the eligible subset, never the full
		// requested list.
		sess.AwaitingItemsSelection = false
		sess.AwaitingConfirmProceed = true
		return c.emit(sess, Envelope{
			Intent:           IntentShowValidationAskProceed,
			NextExpected:     SlotConfirmProceed,
			Items:            sess.LastOrderItems,
			RequestedItems:   matched,
			ReturnValidation: verdicts,
			UserMessage:      formatValidationConfirmation(matched, verdicts, sess.Lang),
		})
	}

	sess.AwaitingItemsSelection = false
	sess.AwaitingReviewAnother = true

	env := Envelope{
		Intent:           IntentShowValidationNoneEligible,
		NextExpected:     SlotReviewAnother,
		RequestedItems:   matched,
		ReturnValidation: verdicts,
	}
	var info *OrderInfo
	var details []ItemDetail
	if sess.LastOrder != nil {
		info = orderInfoFrom(sess.LastOrder)
		details = itemsDetailFrom(sess.LastOrder)
		env.OrderContext = c.store.OrderContext(sess.LastOrder.TrackingID)
		env.Order = info
		env.Items = sess.LastOrder.ItemNames()
		env.ItemsDetail = details
	}
	env.UserMessage = formatNoEligibleMessage(info, details, verdicts, sess.Lang)
	return c.emit(sess, env)
}

// confirmProceedTurn resolves the pending proceed confirmation after a
// validation summary.
func (c *Controller) confirmProceedTurn(sess *Session, text string) *Envelope {
	if c.cues.Affirms(text) {
		sess.AwaitingConfirmProceed = false
		sess.AwaitingReviewAnother = true

		email := ""
		if sess.LastOrder != nil && sess.LastOrder.Customer != nil {
			email = sess.LastOrder.Customer.Email
		}
		return c.emit(sess, Envelope{
			Intent:         IntentConfirmProceedAskReview,
			NextExpected:   SlotReviewAnother,
			RequestedItems: sess.LastRequestedItems,
			MaskedEmail:    MaskEmail(email),
		})
	}
	if c.cues.Declines(text) {
		sess.AwaitingConfirmProceed = false
		sess.AwaitingReviewAnother = true
		return c.emit(sess, Envelope{
			Intent:         IntentDeclineProceedAskReview,
			NextExpected:   SlotReviewAnother,
			RequestedItems: sess.LastRequestedItems,
		})
	}
	return c.emit(sess, Envelope{
		Intent:         IntentAskProceedRetry,
		NextExpected:   SlotConfirmProceed,
		RequestedItems: sess.LastRequestedItems,
	})
}
