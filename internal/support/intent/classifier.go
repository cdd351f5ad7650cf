// internal/support/intent/classifier.go
package intent

import (
	"regexp"
	"strings"

	"support-inbox/internal/models"
)

// Classification is the result of analyzing one customer query.
type Classification struct {
	Intent             models.Intent `json:"intent"`
	Keywords           []string      `json:"keywords"`
	OrderNumber        string        `json:"orderNumber,omitempty"`
	Urgency            string        `json:"urgency"`
	RequiresEscalation bool          `json:"requiresEscalation"`
}

// Lexicons are evaluated in a fixed precedence order; a later match
// overrides the intent chosen by an earlier one.
var (
	shippingStatusTerms = []string{
		"where is my order", "order status", "shipped", "shipping",
		"delivery", "delivered", "arrive", "arrived", "dispatch", "status",
	}
	trackingTerms = []string{
		"track", "tracking", "tracking number", "carrier",
	}
	returnRefundTerms = []string{
		"return", "refund", "exchange", "money back", "broken", "damaged",
		"defective", "wrong item",
	}
	productTerms = []string{
		"lens", "lenses", "frame", "frames", "fit", "size",
		"prescription", "color", "colour", "material",
	}
	complaintTerms = []string{
		"disappointed", "terrible", "awful", "angry", "unacceptable",
		"worst", "horrible", "frustrated", "complaint",
	}
	urgencyTerms = []string{
		"urgent", "asap", "immediately", "emergency", "right away",
	}
)

var (
	hashOrderPattern = regexp.MustCompile(`#([A-Za-z0-9][A-Za-z0-9-]*)`)
	wordOrderPattern = regexp.MustCompile(`(?i)\border\s*(?:number|no\.?|id)?\s*(?:is|was)?\s*[:#]?\s*([A-Za-z0-9-]*\d[A-Za-z0-9-]*)`)
)

// Classify maps free-text customer queries to an intent and extracts the
// salient entities. Pure function; unmatched text yields defaults, it never
// fails.
func Classify(text string) Classification {
	lower := strings.ToLower(text)

	result := Classification{
		Intent:  models.IntentGeneralInquiry,
		Urgency: UrgencyDefault,
	}

	shipping := matchTerms(lower, shippingStatusTerms)
	tracking := matchTerms(lower, trackingTerms)
	if len(shipping) > 0 || len(tracking) > 0 {
		result.Intent = models.IntentOrderStatus
		result.Keywords = append(result.Keywords, shipping...)
		if len(tracking) > 0 {
			result.Intent = models.IntentShippingTracking
			result.Keywords = append(result.Keywords, tracking...)
		}
	}

	if matched := matchTerms(lower, returnRefundTerms); len(matched) > 0 {
		result.Intent = models.IntentReturnRefund
		result.Keywords = append(result.Keywords, matched...)
		result.RequiresEscalation = true
	}

	if matched := matchTerms(lower, productTerms); len(matched) > 0 {
		result.Intent = models.IntentProductInquiry
		result.Keywords = append(result.Keywords, matched...)
	}

	if matched := matchTerms(lower, complaintTerms); len(matched) > 0 {
		result.Intent = models.IntentComplaintIssue
		result.Keywords = append(result.Keywords, matched...)
		result.Urgency = models.UrgencyHigh
		result.RequiresEscalation = true
	}

	// Urgency terms apply regardless of which intent won.
	if matched := matchTerms(lower, urgencyTerms); len(matched) > 0 {
		result.Keywords = append(result.Keywords, matched...)
		result.Urgency = models.UrgencyHigh
		result.RequiresEscalation = true
	}

	result.OrderNumber = ExtractOrderNumber(text)

	return result
}

// UrgencyDefault is the urgency assigned when no signal is present.
const UrgencyDefault = models.UrgencyMedium

// ExtractOrderNumber returns the first order identifier found in the text,
// either a #-prefixed token or one following an "order" marker. Empty string
// when nothing matches.
func ExtractOrderNumber(text string) string {
	if m := hashOrderPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := wordOrderPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func matchTerms(lower string, terms []string) []string {
	var matched []string
	for _, term := range terms {
		if strings.Contains(lower, term) {
			matched = append(matched, term)
		}
	}
	return matched
}
