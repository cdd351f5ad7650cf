// internal/models/reply.go
package models

// Intent is the closed set of categories a customer query can fall into.
type Intent string

const (
	IntentOrderStatus      Intent = "ORDER_STATUS"
	IntentShippingTracking Intent = "SHIPPING_TRACKING"
	IntentReturnRefund     Intent = "RETURN_REFUND"
	IntentProductInquiry   Intent = "PRODUCT_INQUIRY"
	IntentComplaintIssue   Intent = "COMPLAINT_ISSUE"
	IntentGeneralInquiry   Intent = "GENERAL_INQUIRY"
)

// Urgency levels derived from query text.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Reply sources.
const (
	SourceGenerative = "generative"
	SourceFallback   = "fallback"
)

// EvidenceResponse is a previously recorded query/response pair judged
// similar to the current query. The evidence store discards anything with
// similarity at or below 0.5 before it reaches the core.
type EvidenceResponse struct {
	Query      string  `json:"query"`
	Response   string  `json:"response"`
	Similarity float64 `json:"similarity"`
	Category   Intent  `json:"category"`
}

// GeneratedReply is the core's output for one inbound message. Created once,
// never mutated, handed to the mailbox writer and to persistence.
//
// Escalate is the audit flag ("needs quality flagging"); the delivery
// decision (send now vs. hold for review) is carried separately on the
// escalation Decision so the two cannot be conflated.
type GeneratedReply struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Escalate   bool    `json:"escalate"`
	Reasoning  string  `json:"reasoning"`
	Source     string  `json:"source"`
	TokensUsed int     `json:"tokensUsed"`
	Intent     Intent  `json:"intent"`
	Urgency    string  `json:"urgency"`
}
