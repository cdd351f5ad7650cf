// internal/common/gmail/client.go

// Package gmail is the mailbox adapter over the Gmail REST API. It reads
// unread inbox messages, sends threaded replies, files drafts for human
// review, and clears the unread marker once a message is handled.
package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"

	"support-inbox/internal/common/config"
	"support-inbox/internal/common/errors"
	commonhttp "support-inbox/internal/common/http"
	"support-inbox/internal/common/logger"
	"support-inbox/internal/models"
)

type Client struct {
	baseURL     string
	accessToken string
	userID      string
	supportAddr string
	httpClient  *commonhttp.Client
	logger      logger.Logger
}

func NewClient(cfg config.GmailConfig, log logger.Logger) *Client {
	userID := cfg.UserID
	if userID == "" {
		userID = "me"
	}
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		userID:      userID,
		supportAddr: cfg.SupportAddr,
		httpClient:  commonhttp.NewClient(timeout),
		logger: log.WithFields(map[string]interface{}{
			"component": "gmail",
		}),
	}
}

// ListUnread returns up to max unread inbox messages, oldest first.
func (c *Client) ListUnread(ctx context.Context, max int) ([]models.Message, error) {
	if max <= 0 {
		max = 25
	}

	listURL := fmt.Sprintf("%s/gmail/v1/users/%s/messages?q=%s&maxResults=%d",
		c.baseURL, c.userID, url.QueryEscape("is:unread in:inbox"), max)

	var listResp struct {
		Messages []struct {
			ID       string `json:"id"`
			ThreadID string `json:"threadId"`
		} `json:"messages"`
	}
	if err := c.doJSON(ctx, http.MethodGet, listURL, nil, &listResp); err != nil {
		return nil, errors.NewMailboxListFailedError(err)
	}

	messages := make([]models.Message, 0, len(listResp.Messages))
	for _, ref := range listResp.Messages {
		msg, err := c.getMessage(ctx, ref.ID)
		if err != nil {
			// One unparseable message should not block the batch.
			c.logger.Warn("skipping unreadable message", map[string]interface{}{
				"messageId": ref.ID,
				"error":     err.Error(),
			})
			continue
		}
		messages = append(messages, *msg)
	}

	// Gmail lists newest first; the pipeline answers oldest first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

type payloadPart struct {
	MimeType string `json:"mimeType"`
	Body     struct {
		Data string `json:"data"`
	} `json:"body"`
	Parts []payloadPart `json:"parts"`
}

func (c *Client) getMessage(ctx context.Context, id string) (*models.Message, error) {
	url := fmt.Sprintf("%s/gmail/v1/users/%s/messages/%s?format=full", c.baseURL, c.userID, id)

	var msgResp struct {
		ID           string `json:"id"`
		ThreadID     string `json:"threadId"`
		InternalDate string `json:"internalDate"`
		Payload      struct {
			Headers []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"headers"`
			payloadPart
		} `json:"payload"`
	}
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &msgResp); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:       msgResp.ID,
		ThreadID: msgResp.ThreadID,
	}

	for _, h := range msgResp.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "subject":
			msg.Subject = h.Value
		case "from":
			if addr, err := mail.ParseAddress(h.Value); err == nil {
				msg.FromEmail = addr.Address
				msg.FromName = addr.Name
			} else {
				msg.FromEmail = h.Value
			}
		}
	}

	if ms, err := strconv.ParseInt(msgResp.InternalDate, 10, 64); err == nil {
		msg.ReceivedAt = time.UnixMilli(ms).UTC()
	}

	msg.Body = extractBody(msgResp.Payload.payloadPart)

	return msg, nil
}

// extractBody walks the MIME tree and returns the first text/plain part,
// falling back to the top-level body.
func extractBody(part payloadPart) string {
	if part.Body.Data != "" && (part.MimeType == "text/plain" || part.MimeType == "") {
		return decodeBody(part.Body.Data)
	}
	for _, p := range part.Parts {
		if p.MimeType == "text/plain" && p.Body.Data != "" {
			return decodeBody(p.Body.Data)
		}
	}
	for _, p := range part.Parts {
		if body := extractBody(p); body != "" {
			return body
		}
	}
	return decodeBody(part.Body.Data)
}

func decodeBody(data string) string {
	if data == "" {
		return ""
	}
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(decoded)
}

// MarkRead removes the unread marker so the message is not picked up again.
func (c *Client) MarkRead(ctx context.Context, messageID string) error {
	url := fmt.Sprintf("%s/gmail/v1/users/%s/messages/%s/modify", c.baseURL, c.userID, messageID)
	body := map[string]interface{}{
		"removeLabelIds": []string{"UNREAD"},
	}
	if err := c.doJSON(ctx, http.MethodPost, url, body, nil); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

// SendReply sends text as a threaded reply to msg.
func (c *Client) SendReply(ctx context.Context, msg *models.Message, text string) error {
	url := fmt.Sprintf("%s/gmail/v1/users/%s/messages/send", c.baseURL, c.userID)
	body := map[string]interface{}{
		"raw":      c.buildReplyRaw(msg, text),
		"threadId": msg.ThreadID,
	}
	if err := c.doJSON(ctx, http.MethodPost, url, body, nil); err != nil {
		return errors.NewMailboxSendFailedError(err)
	}

	c.logger.Info("reply sent", map[string]interface{}{
		"messageId": msg.ID,
		"threadId":  msg.ThreadID,
	})
	return nil
}

// CreateDraft files text as a reply draft for a human to review and send.
func (c *Client) CreateDraft(ctx context.Context, msg *models.Message, text string) error {
	url := fmt.Sprintf("%s/gmail/v1/users/%s/drafts", c.baseURL, c.userID)
	body := map[string]interface{}{
		"message": map[string]interface{}{
			"raw":      c.buildReplyRaw(msg, text),
			"threadId": msg.ThreadID,
		},
	}
	if err := c.doJSON(ctx, http.MethodPost, url, body, nil); err != nil {
		return errors.NewDraftCreateFailedError(err)
	}

	c.logger.Info("draft created", map[string]interface{}{
		"messageId": msg.ID,
		"threadId":  msg.ThreadID,
	})
	return nil
}

func (c *Client) buildReplyRaw(msg *models.Message, text string) string {
	subject := msg.Subject
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("From: %s\r\n", c.supportAddr))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", msg.FromEmail))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(text)

	return base64.URLEncoding.EncodeToString([]byte(builder.String()))
}

func (c *Client) doJSON(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
