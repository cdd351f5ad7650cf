// internal/support/store/postgres.go

// Package store persists processed messages and guards against handling the
// same message twice. Postgres is the durable record; Redis is a fast
// short-lived claim taken before the pipeline runs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"support-inbox/internal/common/logger"
	"support-inbox/internal/models"
)

var (
	ErrAlreadyProcessed = errors.New("DUPLICATE_MESSAGE")
	ErrInsertFailed     = errors.New("DATABASE_INSERT_FAILED")
)

// ResponseRecord is one processed message with the reply that was produced
// for it and how it was delivered.
type ResponseRecord struct {
	ID            string
	MessageID     string
	ThreadID      string
	CustomerEmail string
	Intent        string
	Urgency       string
	Source        string
	Confidence    float64
	Escalated     bool
	AutoSent      bool
	ReplyText     string
	CreatedAt     time.Time
}

type ConversationStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewConversationStore(db *sql.DB, log logger.Logger) *ConversationStore {
	return &ConversationStore{
		db: db,
		logger: log.WithFields(map[string]interface{}{
			"component": "conversation-store",
		}),
	}
}

// SaveResponse records one processed message. The message_id unique
// constraint makes this the idempotency anchor: a second insert for the same
// message changes nothing and returns ErrAlreadyProcessed.
func (s *ConversationStore) SaveResponse(ctx context.Context, msg *models.Message, reply *models.GeneratedReply, autoSent bool) (*ResponseRecord, error) {
	record := &ResponseRecord{
		ID:            uuid.New().String(),
		MessageID:     msg.ID,
		ThreadID:      msg.ThreadID,
		CustomerEmail: msg.FromEmail,
		Intent:        string(reply.Intent),
		Urgency:       reply.Urgency,
		Source:        reply.Source,
		Confidence:    reply.Confidence,
		Escalated:     reply.Escalate,
		AutoSent:      autoSent,
		ReplyText:     reply.Text,
		CreatedAt:     time.Now().UTC(),
	}

	query := `
		INSERT INTO support_responses (
			id, message_id, thread_id, customer_email, intent, urgency,
			source, confidence, escalated, auto_sent, reply_text, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (message_id) DO NOTHING`

	result, err := s.db.ExecContext(ctx, query,
		record.ID, record.MessageID, record.ThreadID, record.CustomerEmail,
		record.Intent, record.Urgency, record.Source, record.Confidence,
		record.Escalated, record.AutoSent, record.ReplyText, record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}
	if rows == 0 {
		return nil, ErrAlreadyProcessed
	}

	s.logger.Info("response recorded", map[string]interface{}{
		"recordId":  record.ID,
		"messageId": record.MessageID,
		"intent":    record.Intent,
		"autoSent":  record.AutoSent,
	})

	return record, nil
}

// AlreadyProcessed reports whether a durable record exists for the message.
func (s *ConversationStore) AlreadyProcessed(ctx context.Context, messageID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM support_responses WHERE message_id = $1)`
	if err := s.db.QueryRowContext(ctx, query, messageID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check processed: %w", err)
	}
	return exists, nil
}
