// internal/support/responder/responder.go

// Package responder orchestrates reply generation. It tries the generative
// provider once per message; any failure is classified and routed to the
// rule-based composer. Respond never returns an error: every inbound query
// yields a reply, and the quality signal travels in Confidence and Escalate.
package responder

import (
	"context"
	"fmt"

	"support-inbox/internal/common/logger"
	"support-inbox/internal/common/metrics"
	"support-inbox/internal/genai"
	"support-inbox/internal/models"
	"support-inbox/internal/support/composer"
	"support-inbox/internal/support/confidence"
	"support-inbox/internal/support/intent"
)

// Provider is the generative backend. Satisfied by *genai.Client.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (*genai.Completion, error)
}

// fallbackConfidence is the base confidence per intent when the reply comes
// from the composer. Deterministic template replies for well-understood
// intents score higher than the generic catch-all.
var fallbackConfidence = map[models.Intent]float64{
	models.IntentOrderStatus:      0.75,
	models.IntentShippingTracking: 0.75,
	models.IntentReturnRefund:     0.70,
	models.IntentProductInquiry:   0.65,
	models.IntentComplaintIssue:   0.80,
	models.IntentGeneralInquiry:   0.60,
}

type Responder struct {
	config   *Config
	provider Provider
	logger   logger.Logger
}

func New(config *Config, provider Provider, log logger.Logger) *Responder {
	return &Responder{
		config:   config,
		provider: provider,
		logger: log.WithFields(map[string]interface{}{
			"component": "responder",
		}),
	}
}

// Respond produces a reply for one inbound query. orders and evidence may be
// empty; the pipeline degrades rather than blocks when enrichment fails.
func (r *Responder) Respond(ctx context.Context, query *models.InboundQuery, orders []models.OrderSnapshot, evidence []models.EvidenceResponse) *models.GeneratedReply {
	classification := intent.Classify(query.Text)

	completion, err := r.provider.Complete(ctx, systemPrompt, r.buildPrompt(query, orders, evidence), r.config.MaxTokens, r.config.Temperature)
	if err != nil {
		class := genai.Classify(err)
		metrics.ProviderFailures.WithLabelValues(string(class)).Inc()
		r.logger.Warn("provider failed, composing fallback", map[string]interface{}{
			"failureClass": class,
			"intent":       classification.Intent,
			"error":        err.Error(),
		})
		reply := r.fallback(query, orders, classification, class)
		metrics.RepliesGenerated.WithLabelValues(reply.Source, string(reply.Intent)).Inc()
		return reply
	}

	score := confidence.Score(completion.Text, len(orders) > 0, evidence)

	reply := &models.GeneratedReply{
		Text:       completion.Text,
		Confidence: score,
		Escalate:   score < r.config.ConfidenceThreshold,
		Reasoning:  fmt.Sprintf("generated reply scored %.2f against threshold %.2f", score, r.config.ConfidenceThreshold),
		Source:     models.SourceGenerative,
		TokensUsed: completion.TokensUsed,
		Intent:     classification.Intent,
		Urgency:    classification.Urgency,
	}

	metrics.RepliesGenerated.WithLabelValues(reply.Source, string(reply.Intent)).Inc()
	return reply
}

func (r *Responder) fallback(query *models.InboundQuery, orders []models.OrderSnapshot, classification intent.Classification, class genai.FailureClass) *models.GeneratedReply {
	text := composer.Compose(composer.Input{
		Intent:       classification.Intent,
		QueryText:    query.Text,
		OrderNumber:  classification.OrderNumber,
		Orders:       orders,
		CustomerName: query.CustomerName,
	})

	score, ok := fallbackConfidence[classification.Intent]
	if !ok {
		score = fallbackConfidence[models.IntentGeneralInquiry]
	}
	score = confidence.Clamp(score)

	return &models.GeneratedReply{
		Text:       text,
		Confidence: score,
		Escalate:   classification.RequiresEscalation || score < r.config.ConfidenceThreshold,
		Reasoning:  fmt.Sprintf("provider failure %s, composed %s fallback", class, classification.Intent),
		Source:     models.SourceFallback,
		Intent:     classification.Intent,
		Urgency:    classification.Urgency,
	}
}
