// internal/support/notify/notifier_test.go
package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"support-inbox/internal/common/config"
	"support-inbox/internal/common/logger"
	"support-inbox/internal/models"
)

func TestUrgencyQualifies(t *testing.T) {
	tests := []struct {
		name      string
		threshold string
		urgency   string
		expected  bool
	}{
		{"empty threshold allows everything", "", models.UrgencyLow, true},
		{"low threshold allows high", models.UrgencyLow, models.UrgencyHigh, true},
		{"medium threshold blocks low", models.UrgencyMedium, models.UrgencyLow, false},
		{"medium threshold allows medium", models.UrgencyMedium, models.UrgencyMedium, true},
		{"high threshold blocks medium", models.UrgencyHigh, models.UrgencyMedium, false},
		{"high threshold allows high", models.UrgencyHigh, models.UrgencyHigh, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config.NotificationConfig
			cfg.SMS.UrgencyOnly = tt.threshold
			n := New(cfg, nil, nil, logger.NewTestLogger(t))
			assert.Equal(t, tt.expected, n.urgencyQualifies(tt.urgency))
		})
	}
}

func TestBuildEmailBody(t *testing.T) {
	n := New(config.NotificationConfig{}, nil, nil, logger.NewTestLogger(t))

	msg := &models.Message{Subject: "Angry customer", FromEmail: "ben@example.com"}
	reply := &models.GeneratedReply{
		Text:       "I'm truly sorry about this experience.",
		Intent:     models.IntentComplaintIssue,
		Urgency:    models.UrgencyHigh,
		Source:     models.SourceFallback,
		Confidence: 0.8,
	}

	body := n.buildEmailBody(msg, reply, []string{"flagged by response generation"})

	assert.Contains(t, body, "ben@example.com")
	assert.Contains(t, body, "COMPLAINT_ISSUE")
	assert.Contains(t, body, "high")
	assert.Contains(t, body, "flagged by response generation")
	assert.Contains(t, body, "I'm truly sorry about this experience.")
}

func TestReviewNeeded_DisabledChannelsDoNothing(t *testing.T) {
	var cfg config.NotificationConfig
	n := New(cfg, nil, nil, logger.NewTestLogger(t))

	// Both channels disabled and both clients nil; must not panic.
	n.ReviewNeeded(context.Background(), &models.Message{ID: "m1"}, &models.GeneratedReply{}, nil)
}
