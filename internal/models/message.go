// internal/models/message.go
package models

import "time"

// Message is one mailbox message as surfaced by the mailbox reader.
type Message struct {
	ID         string    `json:"id"`
	ThreadID   string    `json:"threadId"`
	Subject    string    `json:"subject"`
	FromEmail  string    `json:"fromEmail"`
	FromName   string    `json:"fromName,omitempty"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// InboundQuery is the immutable input to the response core, built from a
// mailbox message by the ingestion side.
type InboundQuery struct {
	Text          string `json:"text"`
	CustomerEmail string `json:"customerEmail"`
	CustomerName  string `json:"customerName,omitempty"`
	Category      Intent `json:"category,omitempty"`
	ContextNote   string `json:"contextNote,omitempty"`
}
