// internal/support/notify/notifier.go

// Package notify alerts the support team when a reply is held for human
// review. Email goes out for every held reply; SMS only at or above the
// configured urgency so pagers stay quiet for routine drafts.
package notify

import (
	"context"
	"fmt"
	"strings"

	"support-inbox/internal/common/aws"
	"support-inbox/internal/common/config"
	"support-inbox/internal/common/errors"
	"support-inbox/internal/common/logger"
	"support-inbox/internal/models"
)

type Notifier struct {
	config config.NotificationConfig
	ses    *aws.SESClient
	sns    *aws.SNSClient
	logger logger.Logger
}

// New builds the notifier. ses or sns may be nil when the matching channel
// is disabled.
func New(cfg config.NotificationConfig, ses *aws.SESClient, sns *aws.SNSClient, log logger.Logger) *Notifier {
	return &Notifier{
		config: cfg,
		ses:    ses,
		sns:    sns,
		logger: log.WithFields(map[string]interface{}{
			"component": "notify",
		}),
	}
}

// ReviewNeeded alerts the team that a reply was drafted instead of sent.
// Notification failures are logged, not returned: the draft already exists
// and the pipeline outcome must not depend on the alert channel.
func (n *Notifier) ReviewNeeded(ctx context.Context, msg *models.Message, reply *models.GeneratedReply, reasons []string) {
	if n.config.Email.Enabled && n.ses != nil {
		subject := fmt.Sprintf("[Support Review] %s reply held for %s", reply.Intent, msg.FromEmail)
		body := n.buildEmailBody(msg, reply, reasons)

		if _, err := n.ses.SendPlainEmail(ctx, n.config.Email.FromEmail, n.config.Email.TeamEmail, subject, body); err != nil {
			n.logger.Error("review email failed", map[string]interface{}{
				"messageId": msg.ID,
				"error":     errors.NewNotificationSendFailedError("email", err).Error(),
			})
		}
	}

	if n.config.SMS.Enabled && n.sns != nil && n.urgencyQualifies(reply.Urgency) {
		text := fmt.Sprintf("Support review needed: %s message from %s (%s)", reply.Urgency, msg.FromEmail, reply.Intent)
		if _, err := n.sns.PublishSMS(ctx, n.config.SMS.TeamPhone, text); err != nil {
			n.logger.Error("review SMS failed", map[string]interface{}{
				"messageId": msg.ID,
				"error":     errors.NewNotificationSendFailedError("sms", err).Error(),
			})
		}
	}
}

func (n *Notifier) buildEmailBody(msg *models.Message, reply *models.GeneratedReply, reasons []string) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("A reply to %s was drafted and needs review.\n\n", msg.FromEmail))
	builder.WriteString(fmt.Sprintf("Subject: %s\n", msg.Subject))
	builder.WriteString(fmt.Sprintf("Intent: %s\n", reply.Intent))
	builder.WriteString(fmt.Sprintf("Urgency: %s\n", reply.Urgency))
	builder.WriteString(fmt.Sprintf("Source: %s\n", reply.Source))
	builder.WriteString(fmt.Sprintf("Confidence: %.2f\n", reply.Confidence))

	if len(reasons) > 0 {
		builder.WriteString("\nReasons:\n")
		for _, r := range reasons {
			builder.WriteString(fmt.Sprintf("- %s\n", r))
		}
	}

	builder.WriteString("\nDrafted reply:\n")
	builder.WriteString(reply.Text)
	builder.WriteString("\n")

	return builder.String()
}

func (n *Notifier) urgencyQualifies(urgency string) bool {
	switch n.config.SMS.UrgencyOnly {
	case "", models.UrgencyLow:
		return true
	case models.UrgencyMedium:
		return urgency == models.UrgencyMedium || urgency == models.UrgencyHigh
	case models.UrgencyHigh:
		return urgency == models.UrgencyHigh
	}
	return false
}
