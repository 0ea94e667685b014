package agent

import "github.com/dannysmp/genai-customer-support-agent/internal/store"

// Session is the in-memory state for a single conversation. Its lifecycle is
// owned by the calling transport, which provisions one instance per logical
// conversation and passes it into the controller on every call; the core
// carries no concurrency primitives and assumes exclusive access for the
// duration of one Handle call.
//
// The Awaiting* flags are mutually exclusive in practice: the controller
// clears the previous flag before setting a new one, and exactly one flag
// drives the next branch at a time.
type Session struct {
	// Lang is the two-letter language code, set once and never cleared by
	// order switches.
	Lang string

	// Cached from the most recently loaded order.
	TrackingID     string
	OrderStatus    string // lowercased
	DeliveredAt    string
	LastOrderItems []string
	LastOrder      *store.Order

	// Dialog-stage flags.
	AwaitingTrackingID     bool
	AwaitingItemsSelection bool
	AwaitingConfirmProceed bool
	AwaitingReviewAnother  bool

	// LastRequestedItems is the matched, validated subset the user selected
	// for return.
	LastRequestedItems []string
}

func NewSession() *Session {
	return &Session{}
}

// ResetForNewOrder clears every transient field ahead of a new order
// selection. Language survives; everything else starts from a clean slate.
func (s *Session) ResetForNewOrder() {
	s.TrackingID = ""
	s.OrderStatus = ""
	s.DeliveredAt = ""
	s.LastOrderItems = nil
	s.LastOrder = nil
	s.AwaitingTrackingID = false
	s.AwaitingItemsSelection = false
	s.AwaitingConfirmProceed = false
	s.AwaitingReviewAnother = false
	s.LastRequestedItems = nil
}

// Reset clears all state unconditionally, language included. Idempotent:
// calling it twice leaves the session identical to calling it once.
func (s *Session) Reset() {
	*s = Session{}
}
