// internal/support/escalation/policy.go

// Package escalation combines the upstream escalation flag with validation
// signals and turns them into a delivery decision. The review flag and the
// delivery decision are deliberately separate fields: a reply can be flagged
// for quality review and still be sent automatically.
package escalation

import (
	"support-inbox/internal/models"
	"support-inbox/internal/support/validator"
)

// Policy holds the tunable thresholds and the intelligent-fallback switch.
type Policy struct {
	// ValidationThreshold is the minimum validation score below which a
	// reply is held for review even when it passed every hard rule.
	ValidationThreshold float64

	// AutoSendFallback allows fallback-composed replies to be delivered
	// immediately even when flagged for review. The flag is still recorded
	// for audit. Trades strict review gating for continuity of service.
	AutoSendFallback bool
}

// DefaultPolicy mirrors production behavior: validation threshold 0.6,
// fallback auto-send enabled.
func DefaultPolicy() Policy {
	return Policy{
		ValidationThreshold: 0.6,
		AutoSendFallback:    true,
	}
}

// Decision is the outcome for one reply.
type Decision struct {
	// NeedsHumanReview marks the reply for quality review. Audit flag only;
	// it does not by itself decide delivery.
	NeedsHumanReview bool `json:"needsHumanReview"`

	// AutoSend is the delivery decision: send the reply now rather than
	// holding it as a draft.
	AutoSend bool `json:"autoSend"`

	Reasons []string `json:"reasons,omitempty"`
}

// Decide combines the orchestrator's escalation flag (which already folds in
// the confidence threshold) with the validation outcome. It does not re-read
// the raw confidence.
func (p Policy) Decide(shouldEscalate bool, v validator.Result, source string) Decision {
	var reasons []string

	if shouldEscalate {
		reasons = append(reasons, "flagged by response generation")
	}
	if !v.IsValid {
		reasons = append(reasons, "failed response validation")
	}
	if v.Score < p.ValidationThreshold {
		reasons = append(reasons, "validation score below threshold")
	}

	needsReview := len(reasons) > 0

	autoSend := !needsReview
	if needsReview && source == models.SourceFallback && p.AutoSendFallback && v.IsValid {
		// Intelligent fallback: the composed text is deterministic and has
		// passed the hard validation rules, so it ships while the review
		// flag is kept for audit.
		autoSend = true
	}

	return Decision{
		NeedsHumanReview: needsReview,
		AutoSend:         autoSend,
		Reasons:          reasons,
	}
}
