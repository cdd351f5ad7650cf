// internal/support/composer/composer.go

// Package composer produces deterministic, template-driven replies. It is
// both the fallback path when the generation provider is unavailable and a
// source of grounding context for the generative path.
package composer

import (
	"fmt"
	"strings"

	"support-inbox/internal/models"
)

// Input carries everything a strategy may use. Orders may be empty and
// OrderNumber may be blank; every strategy handles both.
type Input struct {
	Intent       models.Intent
	QueryText    string
	OrderNumber  string
	Orders       []models.OrderSnapshot
	CustomerName string
}

// Compose selects the strategy for the classified intent and returns a
// personalized reply. Total over the intent enum; always returns non-empty
// text, performs no I/O.
func Compose(in Input) string {
	switch in.Intent {
	case models.IntentOrderStatus:
		return composeOrderStatus(in)
	case models.IntentShippingTracking:
		return composeShippingTracking(in)
	case models.IntentReturnRefund:
		return composeReturnRefund(in)
	case models.IntentProductInquiry:
		return composeProductInquiry(in)
	case models.IntentComplaintIssue:
		return composeComplaint(in)
	default:
		return composeGeneral(in)
	}
}

func greeting(name string) string {
	if name != "" {
		return fmt.Sprintf("Hi %s,", firstName(name))
	}
	return "Hello,"
}

func firstName(name string) string {
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}

const signature = "Best regards,\nThe Customer Care Team"

func composeOrderStatus(in Input) string {
	if len(in.Orders) > 0 {
		order := in.Orders[0]
		statusLine := orderStatusLine(order.FulfillmentStatus)
		return fmt.Sprintf(
			"%s\n\nThank you for reaching out about your order %s. Its current status is %s. %s\n\nIf there is anything else you need, just reply to this email.\n\n%s",
			greeting(in.CustomerName), order.OrderNumber, order.FulfillmentStatus, statusLine, signature,
		)
	}

	if in.OrderNumber != "" {
		return fmt.Sprintf(
			"%s\n\nThank you for reaching out about order %s. I couldn't locate it right away, so I'm checking with our fulfillment team and will get back to you within 30 minutes with an update.\n\n%s",
			greeting(in.CustomerName), in.OrderNumber, signature,
		)
	}

	return fmt.Sprintf(
		"%s\n\nThank you for reaching out about your order. Could you share your order number (it starts with # and is in your confirmation email)? I'll look it up right away.\n\n%s",
		greeting(in.CustomerName), signature,
	)
}

func orderStatusLine(fulfillmentStatus string) string {
	switch strings.ToLower(fulfillmentStatus) {
	case "shipped", "partial":
		return "Your package is on its way to you."
	case "delivered", "fulfilled":
		return "Our records show it has been delivered. If you haven't received it, please let us know and we'll investigate."
	case "pending", "processing", "unfulfilled", "":
		return "It is being prepared for shipment and should leave our warehouse shortly."
	default:
		return "We're keeping an eye on it and will notify you of any changes."
	}
}

func composeShippingTracking(in Input) string {
	for _, order := range in.Orders {
		for _, f := range order.Fulfillments {
			if len(f.TrackingNumbers) == 0 {
				continue
			}
			carrier := f.TrackingCompany
			if carrier == "" {
				carrier = "our shipping partner"
			}
			eta := ""
			if f.EstimatedDeliveryAt != "" {
				eta = fmt.Sprintf(" Estimated delivery: %s.", f.EstimatedDeliveryAt)
			}
			return fmt.Sprintf(
				"%s\n\nThank you for reaching out. Your order %s has shipped with %s, tracking number %s.%s You can follow the package on the carrier's website.\n\n%s",
				greeting(in.CustomerName), order.OrderNumber, carrier, f.TrackingNumbers[0], eta, signature,
			)
		}
	}

	if len(in.Orders) > 0 {
		return fmt.Sprintf(
			"%s\n\nThank you for reaching out about tracking for order %s. It hasn't shipped yet; tracking information will be emailed to you within 1-2 business days once the carrier picks it up.\n\n%s",
			greeting(in.CustomerName), in.Orders[0].OrderNumber, signature,
		)
	}

	return fmt.Sprintf(
		"%s\n\nThank you for reaching out. I'd be happy to help you track your package. Could you share your order number so I can pull up the shipment details?\n\n%s",
		greeting(in.CustomerName), signature,
	)
}

func composeReturnRefund(in Input) string {
	return fmt.Sprintf(
		"%s\n\nThank you for contacting us, and I'm sorry the order didn't work out. We accept returns within 30 days of delivery for a full refund or exchange. A member of our team will follow up within 2 hours with a prepaid return label and the next steps.\n\n%s",
		greeting(in.CustomerName), signature,
	)
}

func composeProductInquiry(in Input) string {
	lower := strings.ToLower(in.QueryText)
	extra := ""
	if strings.Contains(lower, "blue light") {
		extra = " Our blue light lenses filter high-energy visible light and work well for long screen sessions; they can be added to any frame."
	} else if strings.Contains(lower, "prescription") {
		extra = " We fill single-vision, progressive, and reader prescriptions; you can upload yours at checkout or email it to us after ordering."
	}
	return fmt.Sprintf(
		"%s\n\nThanks for your interest in our products! I'd be glad to help you find the right fit.%s If you tell me a bit more about what you're looking for, I can send over specific recommendations.\n\n%s",
		greeting(in.CustomerName), extra, signature,
	)
}

func composeComplaint(in Input) string {
	return fmt.Sprintf(
		"%s\n\nI'm truly sorry about this experience, and I appreciate you taking the time to let us know. This isn't the standard we hold ourselves to. I've flagged your message for one of our senior representatives, who will reach out personally within 1 hour to make this right.\n\n%s",
		greeting(in.CustomerName), signature,
	)
}

func composeGeneral(in Input) string {
	lower := strings.ToLower(in.QueryText)

	switch {
	case strings.Contains(lower, "hours") || strings.Contains(lower, "open"):
		return fmt.Sprintf(
			"%s\n\nThank you for reaching out! Our support team is available Monday through Friday, 9am to 6pm EST, and we answer every email within one business day.\n\n%s",
			greeting(in.CustomerName), signature,
		)
	case strings.Contains(lower, "policy") || strings.Contains(lower, "warranty"):
		return fmt.Sprintf(
			"%s\n\nThank you for reaching out! All orders come with a 30-day return window and a 12-month warranty against manufacturing defects. Full details are on the Policies page of our site, and I'm happy to answer anything specific.\n\n%s",
			greeting(in.CustomerName), signature,
		)
	case strings.Contains(lower, "prescription"):
		return fmt.Sprintf(
			"%s\n\nThank you for reaching out! We accept prescriptions from any licensed optometrist; just upload a photo of it during checkout or reply to your order confirmation with it attached.\n\n%s",
			greeting(in.CustomerName), signature,
		)
	case strings.Contains(lower, "shipping cost") || strings.Contains(lower, "shipping fee") || strings.Contains(lower, "delivery cost"):
		return fmt.Sprintf(
			"%s\n\nThank you for reaching out! Standard shipping is free on orders over $50, and expedited options are shown at checkout with exact pricing for your address.\n\n%s",
			greeting(in.CustomerName), signature,
		)
	}

	return fmt.Sprintf(
		"%s\n\nThank you for contacting us about \"%s\". A member of our support team is reviewing your message and will get back to you shortly with a complete answer.\n\n%s",
		greeting(in.CustomerName), truncate(in.QueryText, 50), signature,
	)
}

// truncate cuts on runes so a multi-byte character in the echoed query is
// never split into invalid UTF-8.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
