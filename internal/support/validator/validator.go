// internal/support/validator/validator.go

// Package validator checks candidate replies against structural and quality
// rules, independent of how the reply was produced.
package validator

import (
	"regexp"
	"strings"
)

// Result is the outcome of validating one candidate reply. Issues make the
// reply invalid; warnings only lower the score.
type Result struct {
	IsValid  bool     `json:"isValid"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
	Score    float64  `json:"score"`
}

const (
	minLength = 30
	maxLength = 1000

	issueWeight   = 0.3
	warningWeight = 0.1
)

var (
	bracketPlaceholder = regexp.MustCompile(`\[[^\]]*\]`)
	bracePlaceholder   = regexp.MustCompile(`\{\{[^}]*\}\}`)
	orderRefPattern    = regexp.MustCompile(`(?i)#?[A-Za-z]*\d[A-Za-z0-9-]{2,}`)

	courtesyWords = []string{
		"thank you", "appreciate", "help", "assist", "sorry", "apologize",
	}
	placeholderTokens = []string{"PLACEHOLDER", "TODO", "XXX"}
)

// Validate applies every rule to the text and returns the combined result.
func Validate(text string) Result {
	var issues, warnings []string

	if len(text) < minLength {
		issues = append(issues, "response too short")
	}

	if bracketPlaceholder.MatchString(text) || bracePlaceholder.MatchString(text) {
		issues = append(issues, "response contains unfilled placeholder")
	}
	for _, token := range placeholderTokens {
		if strings.Contains(text, token) {
			issues = append(issues, "response contains placeholder token "+token)
			break
		}
	}

	if len(text) > maxLength {
		warnings = append(warnings, "response unusually long")
	}

	lower := strings.ToLower(text)
	if !containsAny(lower, courtesyWords) {
		warnings = append(warnings, "response lacks a courtesy phrase")
	}

	if strings.Contains(lower, "your order") && !orderRefPattern.MatchString(text) {
		warnings = append(warnings, "mentions an order without a concrete order number")
	}

	score := 1.0 - issueWeight*float64(len(issues)) - warningWeight*float64(len(warnings))
	if score < 0 {
		score = 0
	}

	return Result{
		IsValid:  len(issues) == 0,
		Issues:   issues,
		Warnings: warnings,
		Score:    score,
	}
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
