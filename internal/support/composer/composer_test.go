// internal/support/composer/composer_test.go
package composer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"support-inbox/internal/models"
)

func TestCompose_OrderStatus(t *testing.T) {
	tests := []struct {
		name     string
		input    Input
		contains []string
	}{
		{
			name: "order found includes status",
			input: Input{
				Intent:       models.IntentOrderStatus,
				CustomerName: "Jane Doe",
				Orders: []models.OrderSnapshot{
					{OrderNumber: "1001", FulfillmentStatus: "shipped"},
				},
			},
			contains: []string{"Hi Jane,", "1001", "shipped", "on its way"},
		},
		{
			name: "delivered order offers to investigate",
			input: Input{
				Intent: models.IntentOrderStatus,
				Orders: []models.OrderSnapshot{
					{OrderNumber: "1002", FulfillmentStatus: "delivered"},
				},
			},
			contains: []string{"Hello,", "1002", "investigate"},
		},
		{
			name: "pending order is being prepared",
			input: Input{
				Intent: models.IntentOrderStatus,
				Orders: []models.OrderSnapshot{
					{OrderNumber: "1003", FulfillmentStatus: "pending"},
				},
			},
			contains: []string{"being prepared"},
		},
		{
			name: "number mentioned but order not found promises followup",
			input: Input{
				Intent:      models.IntentOrderStatus,
				OrderNumber: "BLG-77",
			},
			contains: []string{"BLG-77", "30 minutes"},
		},
		{
			name:     "no number asks for it",
			input:    Input{Intent: models.IntentOrderStatus},
			contains: []string{"order number", "confirmation email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := Compose(tt.input)
			for _, s := range tt.contains {
				assert.Contains(t, text, s)
			}
			assert.Contains(t, text, signature)
		})
	}
}

func TestCompose_ShippingTracking(t *testing.T) {
	t.Run("shipped order includes carrier and tracking number", func(t *testing.T) {
		text := Compose(Input{
			Intent:       models.IntentShippingTracking,
			CustomerName: "Marta Ruiz",
			Orders: []models.OrderSnapshot{
				{
					OrderNumber: "2001",
					Fulfillments: []models.Fulfillment{
						{
							TrackingCompany:     "FedEx",
							TrackingNumbers:     []string{"123"},
							EstimatedDeliveryAt: "2026-09-05",
						},
					},
				},
			},
		})

		assert.Contains(t, text, "Hi Marta,")
		assert.Contains(t, text, "FedEx")
		assert.Contains(t, text, "123")
		assert.Contains(t, text, "Estimated delivery: 2026-09-05")
	})

	t.Run("unshipped order promises tracking soon", func(t *testing.T) {
		text := Compose(Input{
			Intent: models.IntentShippingTracking,
			Orders: []models.OrderSnapshot{{OrderNumber: "2002"}},
		})

		assert.Contains(t, text, "2002")
		assert.Contains(t, text, "1-2 business days")
	})

	t.Run("no order asks for the number", func(t *testing.T) {
		text := Compose(Input{Intent: models.IntentShippingTracking})
		assert.Contains(t, text, "order number")
	})

	t.Run("missing carrier falls back to generic name", func(t *testing.T) {
		text := Compose(Input{
			Intent: models.IntentShippingTracking,
			Orders: []models.OrderSnapshot{
				{
					OrderNumber: "2003",
					Fulfillments: []models.Fulfillment{
						{TrackingNumbers: []string{"ZZ9"}},
					},
				},
			},
		})
		assert.Contains(t, text, "our shipping partner")
		assert.Contains(t, text, "ZZ9")
	})
}

func TestCompose_ReturnRefund(t *testing.T) {
	text := Compose(Input{Intent: models.IntentReturnRefund, CustomerName: "Ben"})

	assert.Contains(t, text, "Hi Ben,")
	assert.Contains(t, text, "30 days")
	assert.Contains(t, text, "2 hours")
}

func TestCompose_ProductInquiry(t *testing.T) {
	t.Run("blue light detail", func(t *testing.T) {
		text := Compose(Input{
			Intent:    models.IntentProductInquiry,
			QueryText: "Do you sell blue light glasses?",
		})
		assert.Contains(t, text, "blue light lenses")
	})

	t.Run("prescription detail", func(t *testing.T) {
		text := Compose(Input{
			Intent:    models.IntentProductInquiry,
			QueryText: "Can I order with my prescription?",
		})
		assert.Contains(t, text, "progressive")
	})

	t.Run("generic product question", func(t *testing.T) {
		text := Compose(Input{
			Intent:    models.IntentProductInquiry,
			QueryText: "What frames do you recommend?",
		})
		assert.Contains(t, text, "recommendations")
	})
}

func TestCompose_Complaint(t *testing.T) {
	text := Compose(Input{Intent: models.IntentComplaintIssue})

	assert.Contains(t, text, "sorry")
	assert.Contains(t, text, "senior representatives")
	assert.Contains(t, text, "1 hour")
}

func TestCompose_General(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		contains string
	}{
		{"opening hours", "What are your hours?", "Monday through Friday"},
		{"policy question", "What is your warranty policy?", "30-day return window"},
		{"prescription question", "How do I send my prescription?", "licensed optometrist"},
		{"shipping cost question", "How much is the shipping cost?", "free on orders over $50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := Compose(Input{Intent: models.IntentGeneralInquiry, QueryText: tt.query})
			assert.Contains(t, text, tt.contains)
		})
	}

	t.Run("unmatched question echoes a truncated query", func(t *testing.T) {
		long := strings.Repeat("question ", 10)
		text := Compose(Input{Intent: models.IntentGeneralInquiry, QueryText: long})

		assert.Contains(t, text, long[:50]+"...")
		assert.NotContains(t, text, long)
	})

	t.Run("truncation never splits a multi-byte character", func(t *testing.T) {
		long := strings.Repeat("ü", 60)
		text := Compose(Input{Intent: models.IntentGeneralInquiry, QueryText: long})

		assert.True(t, utf8.ValidString(text))
		assert.Contains(t, text, strings.Repeat("ü", 50)+"...")
	})
}

func TestCompose_UnknownIntentDefaultsToGeneral(t *testing.T) {
	text := Compose(Input{Intent: models.Intent("SOMETHING_ELSE"), QueryText: "hello there"})

	assert.Contains(t, text, "hello there")
	assert.Contains(t, text, signature)
}

func TestGreeting(t *testing.T) {
	assert.Equal(t, "Hi Jane,", greeting("Jane Doe"))
	assert.Equal(t, "Hi Cher,", greeting("Cher"))
	assert.Equal(t, "Hello,", greeting(""))
}
