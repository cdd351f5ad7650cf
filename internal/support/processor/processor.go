// internal/support/processor/processor.go

// Package processor runs the per-message pipeline: claim the message, enrich
// it with order data and past responses, generate a reply, validate it, and
// either send it or file a draft for review. Every collaborator sits behind
// a small interface so the pipeline can be tested with fakes.
package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	commonerrors "support-inbox/internal/common/errors"
	"support-inbox/internal/common/logger"
	"support-inbox/internal/common/metrics"
	"support-inbox/internal/common/observability"
	"support-inbox/internal/models"
	"support-inbox/internal/support/escalation"
	"support-inbox/internal/support/intent"
	"support-inbox/internal/support/responder"
	"support-inbox/internal/support/store"
	"support-inbox/internal/support/validator"
)

// Pipeline outcomes.
const (
	StatusReplied          = "replied"
	StatusDrafted          = "drafted"
	StatusAlreadyProcessed = "already_processed"
)

type MailboxReader interface {
	ListUnread(ctx context.Context, max int) ([]models.Message, error)
}

type MailboxWriter interface {
	SendReply(ctx context.Context, msg *models.Message, text string) error
	CreateDraft(ctx context.Context, msg *models.Message, text string) error
	MarkRead(ctx context.Context, messageID string) error
}

type OrderLookup interface {
	FindByEmail(ctx context.Context, email string) ([]models.OrderSnapshot, error)
	FindByNumber(ctx context.Context, orderNumber string) ([]models.OrderSnapshot, error)
}

type EvidenceStore interface {
	Search(ctx context.Context, query string, k int) ([]models.EvidenceResponse, error)
	Add(ctx context.Context, records []models.EvidenceResponse) error
}

type ConversationStore interface {
	SaveResponse(ctx context.Context, msg *models.Message, reply *models.GeneratedReply, autoSent bool) (*store.ResponseRecord, error)
	AlreadyProcessed(ctx context.Context, messageID string) (bool, error)
}

type DedupGuard interface {
	Claim(ctx context.Context, messageID string) (bool, error)
	Release(ctx context.Context, messageID string) error
}

type Notifier interface {
	ReviewNeeded(ctx context.Context, msg *models.Message, reply *models.GeneratedReply, reasons []string)
}

// Result is the outcome of processing one message.
type Result struct {
	Status string
	Reply  *models.GeneratedReply
}

type Processor struct {
	mailbox       MailboxWriter
	orders        OrderLookup
	evidence      EvidenceStore
	conversations ConversationStore
	dedup         DedupGuard
	notifier      Notifier
	responder     *responder.Responder
	policy        escalation.Policy
	obs           *observability.Observability
	logger        logger.Logger
	evidenceK     int
}

func New(
	mailbox MailboxWriter,
	orders OrderLookup,
	evidence EvidenceStore,
	conversations ConversationStore,
	dedup DedupGuard,
	notifier Notifier,
	resp *responder.Responder,
	policy escalation.Policy,
	obs *observability.Observability,
	log logger.Logger,
) *Processor {
	return &Processor{
		mailbox:       mailbox,
		orders:        orders,
		evidence:      evidence,
		conversations: conversations,
		dedup:         dedup,
		notifier:      notifier,
		responder:     resp,
		policy:        policy,
		obs:           obs,
		logger: log.WithFields(map[string]interface{}{
			"component": "processor",
		}),
		evidenceK: 3,
	}
}

// ProcessMessage runs the full pipeline for one inbound message.
func (p *Processor) ProcessMessage(ctx context.Context, msg *models.Message) (*Result, error) {
	start := time.Now()
	metrics.MessagesActive.Inc()
	defer metrics.MessagesActive.Dec()

	if p.obs != nil {
		var end func()
		ctx, end = p.obs.StartSpan(ctx, "process-message")
		defer end()
	}

	log := p.logger.WithFields(map[string]interface{}{
		"messageId": msg.ID,
		"from":      msg.FromEmail,
	})

	claimed, err := p.dedup.Claim(ctx, msg.ID)
	if err != nil {
		// Claim errors degrade to the durable check below.
		log.Warn("dedup claim failed, falling back to store check", map[string]interface{}{
			"error": err.Error(),
		})
	} else if !claimed {
		log.Info("message already claimed", nil)
		return p.finish(ctx, start, &Result{Status: StatusAlreadyProcessed})
	}

	processed, err := p.conversations.AlreadyProcessed(ctx, msg.ID)
	if err != nil {
		p.release(ctx, msg.ID)
		return nil, fmt.Errorf("check processed state: %w", err)
	}
	if processed {
		// Claimed but already durable: a previous run died after saving.
		// Clear the unread marker and move on.
		if err := p.mailbox.MarkRead(ctx, msg.ID); err != nil {
			log.Warn("mark read failed for processed message", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return p.finish(ctx, start, &Result{Status: StatusAlreadyProcessed})
	}

	query := &models.InboundQuery{
		Text:          buildQueryText(msg),
		CustomerEmail: msg.FromEmail,
		CustomerName:  msg.FromName,
	}

	orders := p.lookupOrders(ctx, query, log)
	evidence := p.searchEvidence(ctx, query.Text, log)

	reply := p.responder.Respond(ctx, query, orders, evidence)
	validation := validator.Validate(reply.Text)
	decision := p.policy.Decide(reply.Escalate, validation, reply.Source)

	status, err := p.deliver(ctx, msg, reply, decision)
	if err != nil {
		p.release(ctx, msg.ID)
		return nil, err
	}

	if err := p.mailbox.MarkRead(ctx, msg.ID); err != nil {
		// The reply is out; an unread marker left behind is recoverable by
		// the idempotency guards on the next poll.
		log.Warn("mark read failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if _, err := p.conversations.SaveResponse(ctx, msg, reply, decision.AutoSend); err != nil {
		if errors.Is(err, store.ErrAlreadyProcessed) {
			return p.finish(ctx, start, &Result{Status: StatusAlreadyProcessed, Reply: reply})
		}
		return nil, fmt.Errorf("save response: %w", err)
	}

	if decision.AutoSend {
		// Only delivered replies become retrieval evidence for future
		// messages. Drafts may be rewritten by the reviewer.
		if err := p.evidence.Add(ctx, []models.EvidenceResponse{{
			Query:    query.Text,
			Response: reply.Text,
			Category: reply.Intent,
		}}); err != nil {
			log.Warn("evidence indexing failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	if decision.NeedsHumanReview && p.notifier != nil {
		p.notifier.ReviewNeeded(ctx, msg, reply, decision.Reasons)
	}

	metrics.RepliesEscalated.WithLabelValues(string(reply.Intent), fmt.Sprintf("%t", decision.AutoSend)).Inc()

	log.Info("message processed", map[string]interface{}{
		"status":     status,
		"intent":     reply.Intent,
		"source":     reply.Source,
		"confidence": reply.Confidence,
	})

	return p.finish(ctx, start, &Result{Status: status, Reply: reply})
}

func (p *Processor) deliver(ctx context.Context, msg *models.Message, reply *models.GeneratedReply, decision escalation.Decision) (string, error) {
	if decision.AutoSend {
		if err := p.mailbox.SendReply(ctx, msg, reply.Text); err != nil {
			return "", fmt.Errorf("send reply: %w", err)
		}
		return StatusReplied, nil
	}

	if err := p.mailbox.CreateDraft(ctx, msg, reply.Text); err != nil {
		return "", fmt.Errorf("create draft: %w", err)
	}
	return StatusDrafted, nil
}

// lookupOrders enriches by customer email first, then by an order number
// mentioned in the text. Lookup failures degrade to no order data.
func (p *Processor) lookupOrders(ctx context.Context, query *models.InboundQuery, log logger.Logger) []models.OrderSnapshot {
	orders, err := p.orders.FindByEmail(ctx, query.CustomerEmail)
	if err != nil {
		log.Warn("order lookup by email failed", errorFields(err))
		orders = nil
	}
	if len(orders) > 0 {
		return orders
	}

	if number := intent.ExtractOrderNumber(query.Text); number != "" {
		orders, err = p.orders.FindByNumber(ctx, number)
		if err != nil {
			fields := errorFields(err)
			fields["orderNumber"] = number
			log.Warn("order lookup by number failed", fields)
			return nil
		}
	}

	return orders
}

// searchEvidence degrades to no evidence on failure.
func (p *Processor) searchEvidence(ctx context.Context, text string, log logger.Logger) []models.EvidenceResponse {
	evidence, err := p.evidence.Search(ctx, text, p.evidenceK)
	if err != nil {
		log.Warn("evidence search failed", errorFields(err))
		return nil
	}
	return evidence
}

func (p *Processor) release(ctx context.Context, messageID string) {
	if err := p.dedup.Release(ctx, messageID); err != nil {
		p.logger.Warn("dedup release failed", map[string]interface{}{
			"messageId": messageID,
			"error":     err.Error(),
		})
	}
}

func (p *Processor) finish(ctx context.Context, start time.Time, result *Result) (*Result, error) {
	metrics.MessagesProcessed.WithLabelValues(result.Status).Inc()
	metrics.PipelineDuration.WithLabelValues(result.Status).Observe(time.Since(start).Seconds())
	if p.obs != nil {
		p.obs.RecordMessageProcessed(ctx, result.Status)
		p.obs.RecordMessageDuration(ctx, time.Since(start), result.Status)
	}
	return result, nil
}

// errorFields builds log fields for a degraded enrichment step, carrying
// the error category when the adapter surfaced a StandardError.
func errorFields(err error) map[string]interface{} {
	fields := map[string]interface{}{
		"error": err.Error(),
	}
	var stdErr *commonerrors.StandardError
	if errors.As(err, &stdErr) {
		fields["category"] = commonerrors.GetErrorCategory(stdErr.Code)
		fields["retryable"] = commonerrors.IsRetryableErrorCode(stdErr.Code)
		fields["retryCount"] = commonerrors.GetRetryCount(stdErr.Code)
	}
	return fields
}

// buildQueryText folds the subject into the query so short bodies still
// carry the topic.
func buildQueryText(msg *models.Message) string {
	subject := strings.TrimSpace(msg.Subject)
	body := strings.TrimSpace(msg.Body)

	if subject == "" {
		return body
	}
	if body == "" {
		return subject
	}
	return subject + "\n\n" + body
}
