// internal/support/responder/responder_test.go
package responder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"support-inbox/internal/common/logger"
	"support-inbox/internal/genai"
	"support-inbox/internal/models"
)

type fakeProvider struct {
	completion *genai.Completion
	err        error
	lastPrompt string
}

func (f *fakeProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (*genai.Completion, error) {
	f.lastPrompt = userPrompt
	if f.err != nil {
		return nil, f.err
	}
	return f.completion, nil
}

func newTestResponder(t *testing.T, provider Provider) *Responder {
	return New(DefaultConfig(), provider, logger.NewTestLogger(t))
}

func TestRespond_GenerativeSuccess(t *testing.T) {
	provider := &fakeProvider{
		completion: &genai.Completion{
			Text:       "Thank you for reaching out. Your order 1001 has shipped and tracking is on its way.",
			TokensUsed: 50,
		},
	}
	r := newTestResponder(t, provider)

	query := &models.InboundQuery{
		Text:          "Where is my order #1001?",
		CustomerEmail: "jane@example.com",
		CustomerName:  "Jane Doe",
	}
	orders := []models.OrderSnapshot{{OrderNumber: "1001", FulfillmentStatus: "shipped"}}

	reply := r.Respond(context.Background(), query, orders, nil)

	require.NotNil(t, reply)
	assert.Equal(t, models.SourceGenerative, reply.Source)
	assert.Equal(t, provider.completion.Text, reply.Text)
	assert.Equal(t, 50, reply.TokensUsed)
	assert.Equal(t, models.IntentOrderStatus, reply.Intent)
	// 0.5 base + 0.3 order data + 0.1 specifics
	assert.InDelta(t, 0.9, reply.Confidence, 0.0001)
	assert.False(t, reply.Escalate)
}

func TestRespond_LowConfidenceGenerativeEscalates(t *testing.T) {
	provider := &fakeProvider{
		completion: &genai.Completion{Text: "We will look into this matter and respond to you as soon as we can today."},
	}
	r := newTestResponder(t, provider)

	query := &models.InboundQuery{Text: "I have a question", CustomerEmail: "a@b.com"}
	reply := r.Respond(context.Background(), query, nil, nil)

	assert.Equal(t, models.SourceGenerative, reply.Source)
	// 0.5 base only, below the 0.7 threshold
	assert.InDelta(t, 0.5, reply.Confidence, 0.0001)
	assert.True(t, reply.Escalate)
}

func TestRespond_PromptCarriesContext(t *testing.T) {
	provider := &fakeProvider{
		completion: &genai.Completion{Text: "Thank you for reaching out. The shipping details for your order are below."},
	}
	r := newTestResponder(t, provider)

	query := &models.InboundQuery{
		Text:          "Where is my package?",
		CustomerEmail: "jane@example.com",
		CustomerName:  "Jane Doe",
	}
	orders := []models.OrderSnapshot{{OrderNumber: "1001"}}
	evidence := []models.EvidenceResponse{
		{Query: "package late", Response: "It ships in 2 days.", Similarity: 0.8},
	}

	r.Respond(context.Background(), query, orders, evidence)

	assert.Contains(t, provider.lastPrompt, "Where is my package?")
	assert.Contains(t, provider.lastPrompt, "Jane Doe")
	assert.Contains(t, provider.lastPrompt, "1001")
	assert.Contains(t, provider.lastPrompt, "It ships in 2 days.")
}

func TestRespond_FallbackOnAnyFailureClass(t *testing.T) {
	failures := []error{
		&genai.APIError{Status: 429},
		&genai.APIError{Status: 401},
		&genai.APIError{Status: 503},
		&genai.APIError{Status: 400, Message: "bad payload"},
		&genai.APIError{Status: 400, Message: "maximum context length exceeded"},
		context.DeadlineExceeded,
		errors.New("something odd"),
	}

	for _, failure := range failures {
		r := newTestResponder(t, &fakeProvider{err: failure})

		query := &models.InboundQuery{Text: "Where is my order #55?", CustomerEmail: "a@b.com"}
		reply := r.Respond(context.Background(), query, nil, nil)

		require.NotNil(t, reply, "failure %v must still produce a reply", failure)
		assert.Equal(t, models.SourceFallback, reply.Source)
		assert.NotEmpty(t, reply.Text)
		assert.Equal(t, models.IntentOrderStatus, reply.Intent)
	}
}

func TestRespond_FallbackConfidencePerIntent(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedIntent models.Intent
		expectedConf   float64
		expectEscalate bool
	}{
		{
			name:           "order status fallback clears the threshold",
			query:          "Where is my order #99?",
			expectedIntent: models.IntentOrderStatus,
			expectedConf:   0.75,
			expectEscalate: false,
		},
		{
			name:           "tracking fallback clears the threshold",
			query:          "Can you send my tracking number? My order shipped last week.",
			expectedIntent: models.IntentShippingTracking,
			expectedConf:   0.75,
			expectEscalate: false,
		},
		{
			name:           "tracking fallback without shipping terms",
			query:          "Can you give me tracking for my order?",
			expectedIntent: models.IntentShippingTracking,
			expectedConf:   0.75,
			expectEscalate: false,
		},
		{
			name:           "return fallback escalates on classifier flag",
			query:          "I want to return these glasses for a refund",
			expectedIntent: models.IntentReturnRefund,
			expectedConf:   0.70,
			expectEscalate: true,
		},
		{
			name:           "product fallback escalates below threshold",
			query:          "Do these frames fit a narrow face?",
			expectedIntent: models.IntentProductInquiry,
			expectedConf:   0.65,
			expectEscalate: true,
		},
		{
			name:           "complaint fallback escalates despite high confidence",
			query:          "This is the worst service I have ever had",
			expectedIntent: models.IntentComplaintIssue,
			expectedConf:   0.80,
			expectEscalate: true,
		},
		{
			name:           "general fallback escalates below threshold",
			query:          "Hello, quick question about my account",
			expectedIntent: models.IntentGeneralInquiry,
			expectedConf:   0.60,
			expectEscalate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResponder(t, &fakeProvider{err: &genai.APIError{Status: 503}})

			reply := r.Respond(context.Background(), &models.InboundQuery{Text: tt.query, CustomerEmail: "a@b.com"}, nil, nil)

			assert.Equal(t, tt.expectedIntent, reply.Intent)
			assert.InDelta(t, tt.expectedConf, reply.Confidence, 0.0001)
			assert.Equal(t, tt.expectEscalate, reply.Escalate)
			assert.Equal(t, models.SourceFallback, reply.Source)
		})
	}
}

func TestRespond_FallbackUsesOrderData(t *testing.T) {
	r := newTestResponder(t, &fakeProvider{err: &genai.APIError{Status: 429}})

	query := &models.InboundQuery{Text: "Where is my order?", CustomerEmail: "a@b.com", CustomerName: "Ben Ray"}
	orders := []models.OrderSnapshot{{OrderNumber: "4242", FulfillmentStatus: "shipped"}}

	reply := r.Respond(context.Background(), query, orders, nil)

	assert.Equal(t, models.SourceFallback, reply.Source)
	assert.Contains(t, reply.Text, "Hi Ben,")
	assert.Contains(t, reply.Text, "4242")
	assert.Contains(t, reply.Text, "on its way")
}

func TestRespond_FallbackSurfacesTrackingDetails(t *testing.T) {
	r := newTestResponder(t, &fakeProvider{err: &genai.APIError{Status: 503}})

	query := &models.InboundQuery{Text: "Can you give me tracking for my order?", CustomerEmail: "a@b.com"}
	orders := []models.OrderSnapshot{{
		OrderNumber:       "1001",
		FulfillmentStatus: "shipped",
		Fulfillments: []models.Fulfillment{{
			TrackingCompany: "FedEx",
			TrackingNumbers: []string{"123"},
		}},
	}}

	reply := r.Respond(context.Background(), query, orders, nil)

	assert.Equal(t, models.SourceFallback, reply.Source)
	assert.Equal(t, models.IntentShippingTracking, reply.Intent)
	assert.InDelta(t, 0.75, reply.Confidence, 0.0001)
	assert.Contains(t, reply.Text, "FedEx")
	assert.Contains(t, reply.Text, "123")
}
