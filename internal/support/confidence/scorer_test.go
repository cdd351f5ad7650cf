// internal/support/confidence/scorer_test.go
package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"support-inbox/internal/models"
)

const longNeutralText = "Thank you for contacting us. A member of our support team is reviewing your message right now."

func TestScore(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		hasOrderData bool
		evidence     []models.EvidenceResponse
		expected     float64
	}{
		{
			name:     "base score for plain long text",
			text:     longNeutralText,
			expected: 0.5,
		},
		{
			name:         "order data adds its bonus",
			text:         longNeutralText,
			hasOrderData: true,
			expected:     0.8,
		},
		{
			name: "evidence adds mean similarity times weight",
			text: longNeutralText,
			evidence: []models.EvidenceResponse{
				{Similarity: 0.8},
				{Similarity: 0.6},
			},
			expected: 0.64, // 0.5 + 0.7*0.2
		},
		{
			name:     "short text is penalized",
			text:     "Thanks for reaching out.",
			expected: 0.3,
		},
		{
			name:     "placeholder marker is penalized",
			text:     "Your package update is here: [TRACKING NUMBER] will arrive soon, thank you for waiting patiently.",
			expected: 0.3, // 0.5 - 0.3 marker + 0.1 specifics ("TRACKING")
		},
		{
			name:         "specifics bonus for tracking language",
			text:         "Your order has shipped and the tracking number is on its way to your inbox shortly.",
			hasOrderData: true,
			expected:     0.9, // 0.5 + 0.3 + 0.1
		},
		{
			name:     "score never drops below zero",
			text:     "[x]",
			expected: 0, // 0.5 - 0.2 - 0.3
		},
		{
			name:         "score never exceeds one",
			text:         "Your order 12345 has shipped with tracking and delivery details attached below, thank you.",
			hasOrderData: true,
			evidence: []models.EvidenceResponse{
				{Similarity: 0.95},
			},
			expected: 1, // 0.5+0.3+0.19+0.1 clamped
		},
		{
			name:     "empty text gets short penalty only",
			text:     "",
			expected: 0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Score(tt.text, tt.hasOrderData, tt.evidence), 0.0001)
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-0.2))
	assert.Equal(t, 1.0, Clamp(1.7))
	assert.Equal(t, 0.42, Clamp(0.42))
}
