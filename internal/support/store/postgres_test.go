// internal/support/store/postgres_test.go
package store

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"support-inbox/internal/common/logger"
	"support-inbox/internal/models"
)

func testMessage() *models.Message {
	return &models.Message{
		ID:        "msg-1",
		ThreadID:  "thread-1",
		Subject:   "Where is my order?",
		FromEmail: "jane@example.com",
		FromName:  "Jane Doe",
	}
}

func testReply() *models.GeneratedReply {
	return &models.GeneratedReply{
		Text:       "Thank you for reaching out. Your order 1001 shipped yesterday.",
		Confidence: 0.85,
		Source:     models.SourceGenerative,
		Intent:     models.IntentOrderStatus,
		Urgency:    models.UrgencyMedium,
	}
}

func TestConversationStore_SaveResponse(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO support_responses").
		WithArgs(
			sqlmock.AnyArg(), "msg-1", "thread-1", "jane@example.com",
			"ORDER_STATUS", "medium", "generative", 0.85,
			false, true, sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewConversationStore(db, logger.NewTestLogger(t))
	record, err := s.SaveResponse(context.Background(), testMessage(), testReply(), true)

	require.NoError(t, err)
	assert.Equal(t, "msg-1", record.MessageID)
	assert.Equal(t, "ORDER_STATUS", record.Intent)
	assert.True(t, record.AutoSent)
	assert.NotEmpty(t, record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationStore_SaveResponse_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// ON CONFLICT DO NOTHING reports zero affected rows for a duplicate.
	mock.ExpectExec("INSERT INTO support_responses").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewConversationStore(db, logger.NewTestLogger(t))
	_, err = s.SaveResponse(context.Background(), testMessage(), testReply(), true)

	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationStore_AlreadyProcessed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("msg-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	s := NewConversationStore(db, logger.NewTestLogger(t))
	processed, err := s.AlreadyProcessed(context.Background(), "msg-1")

	require.NoError(t, err)
	assert.True(t, processed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
