// internal/support/confidence/scorer.go

// Package confidence computes a heuristic quality score for a candidate
// reply. The score is not a calibrated probability; it only orders replies
// against the escalation threshold.
package confidence

import (
	"regexp"
	"strings"

	"support-inbox/internal/models"
)

const (
	base            = 0.5
	orderDataBonus  = 0.3
	evidenceWeight  = 0.2
	shortPenalty    = 0.2
	markerPenalty   = 0.3
	specificsBonus  = 0.1
	shortTextLength = 50
)

var specificsPattern = regexp.MustCompile(`(?i)(tracking|order\s*#?[A-Za-z0-9-]*\d|deliver|shipping|shipped)`)

// Score rates a candidate reply in [0,1] given the supporting evidence.
// Deterministic and pure; the result is always clamped.
func Score(text string, hasOrderData bool, evidence []models.EvidenceResponse) float64 {
	score := base

	if hasOrderData {
		score += orderDataBonus
	}

	if len(evidence) > 0 {
		var sum float64
		for _, e := range evidence {
			sum += e.Similarity
		}
		score += (sum / float64(len(evidence))) * evidenceWeight
	}

	if len(text) < shortTextLength {
		score -= shortPenalty
	}

	if hasPlaceholderMarker(text) {
		score -= markerPenalty
	}

	if specificsPattern.MatchString(text) {
		score += specificsBonus
	}

	return Clamp(score)
}

func hasPlaceholderMarker(text string) bool {
	return strings.Contains(text, "[") ||
		strings.Contains(text, "{{") ||
		strings.Contains(text, "PLACEHOLDER")
}

// Clamp bounds a score to [0,1].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
