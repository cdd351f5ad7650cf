// internal/support/intent/classifier_test.go
package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"support-inbox/internal/models"
)

func TestClassify_IntentPrecedence(t *testing.T) {
	tests := []struct {
		name               string
		text               string
		expectedIntent     models.Intent
		expectedUrgency    string
		expectedEscalation bool
	}{
		{
			name:            "plain order status question",
			text:            "Hi, where is my order? It's been a week.",
			expectedIntent:  models.IntentOrderStatus,
			expectedUrgency: models.UrgencyMedium,
		},
		{
			name:            "tracking refines shipping status",
			text:            "My order shipped but the tracking number doesn't work",
			expectedIntent:  models.IntentShippingTracking,
			expectedUrgency: models.UrgencyMedium,
		},
		{
			name:            "tracking question without shipping terms",
			text:            "Can you give me tracking for my order?",
			expectedIntent:  models.IntentShippingTracking,
			expectedUrgency: models.UrgencyMedium,
		},
		{
			name:               "return beats shipping mention",
			text:               "The glasses arrived damaged, I want a refund",
			expectedIntent:     models.IntentReturnRefund,
			expectedUrgency:    models.UrgencyMedium,
			expectedEscalation: true,
		},
		{
			name:            "product question about lenses",
			text:            "Do your frames come with blue light lenses?",
			expectedIntent:  models.IntentProductInquiry,
			expectedUrgency: models.UrgencyMedium,
		},
		{
			name:               "complaint overrides shipping terms",
			text:               "My order shipped two weeks ago and I'm extremely disappointed with your service",
			expectedIntent:     models.IntentComplaintIssue,
			expectedUrgency:    models.UrgencyHigh,
			expectedEscalation: true,
		},
		{
			name:               "complaint overrides return terms",
			text:               "This is unacceptable, the item is broken and nobody answers",
			expectedIntent:     models.IntentComplaintIssue,
			expectedUrgency:    models.UrgencyHigh,
			expectedEscalation: true,
		},
		{
			name:            "no lexicon match falls back to general",
			text:            "Hello, I have a quick question about my account",
			expectedIntent:  models.IntentGeneralInquiry,
			expectedUrgency: models.UrgencyMedium,
		},
		{
			name:            "empty text yields defaults",
			text:            "",
			expectedIntent:  models.IntentGeneralInquiry,
			expectedUrgency: models.UrgencyMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.text)
			assert.Equal(t, tt.expectedIntent, result.Intent)
			assert.Equal(t, tt.expectedUrgency, result.Urgency)
			assert.Equal(t, tt.expectedEscalation, result.RequiresEscalation)
		})
	}
}

func TestClassify_UrgencyIndependentOfIntent(t *testing.T) {
	result := Classify("I need this order status update ASAP please")

	assert.Equal(t, models.IntentOrderStatus, result.Intent)
	assert.Equal(t, models.UrgencyHigh, result.Urgency)
	assert.True(t, result.RequiresEscalation)
}

func TestClassify_KeywordsRecorded(t *testing.T) {
	result := Classify("Where is my order? I want tracking info")

	assert.Contains(t, result.Keywords, "where is my order")
	assert.Contains(t, result.Keywords, "tracking")
}

func TestExtractOrderNumber(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "hash prefixed alphanumeric",
			text:     "Checking on #BLG-2024-001 please",
			expected: "BLG-2024-001",
		},
		{
			name:     "order keyword with number",
			text:     "my order number is 48213",
			expected: "48213",
		},
		{
			name:     "order keyword with colon",
			text:     "Order: 12345 hasn't arrived",
			expected: "12345",
		},
		{
			name:     "hash wins over order keyword",
			text:     "order 999 is wrong, I mean #1001",
			expected: "1001",
		},
		{
			name:     "no identifier present",
			text:     "Can I get tracking for my order?",
			expected: "",
		},
		{
			name:     "word after order is not an identifier",
			text:     "my order hasn't arrived yet",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractOrderNumber(tt.text))
		})
	}
}
