// internal/support/responder/prompt.go
package responder

import (
	"encoding/json"
	"fmt"
	"strings"

	"support-inbox/internal/models"
)

const systemPrompt = "You are a customer care agent for an online eyewear store. " +
	"Answer the customer's email based ONLY on the provided data."

func (r *Responder) buildPrompt(query *models.InboundQuery, orders []models.OrderSnapshot, evidence []models.EvidenceResponse) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("\nCustomer Email:\n%s", query.Text))
	if query.CustomerName != "" {
		parts = append(parts, fmt.Sprintf("Customer Name: %s", query.CustomerName))
	}
	if query.ContextNote != "" {
		parts = append(parts, fmt.Sprintf("Context: %s", query.ContextNote))
	}

	if len(orders) > 0 {
		if len(orders) > r.config.MaxPromptOrders {
			orders = orders[:r.config.MaxPromptOrders]
		}
		ordersJSON, _ := json.MarshalIndent(orders, "", "  ")
		parts = append(parts, "\nCustomer Order Data:")
		parts = append(parts, string(ordersJSON))
	}

	if len(evidence) > 0 {
		if len(evidence) > r.config.MaxPromptEvidence {
			evidence = evidence[:r.config.MaxPromptEvidence]
		}
		parts = append(parts, "\nSimilar Past Responses:")
		for _, ev := range evidence {
			parts = append(parts, fmt.Sprintf("- Q: %s", ev.Query))
			parts = append(parts, fmt.Sprintf("  A: %s", ev.Response))
		}
	}

	parts = append(parts, "\nInstructions:")
	parts = append(parts, "- Use the order data for any status, tracking, or delivery details")
	parts = append(parts, "- Match the tone of the past responses")
	parts = append(parts, "- If the data is insufficient, ask the customer for what is missing")
	parts = append(parts, "- Keep the reply concise, warm, and professional")
	parts = append(parts, "- Never invent order numbers, tracking numbers, or dates")

	parts = append(parts, "\nReply:")

	return strings.Join(parts, "\n")
}
