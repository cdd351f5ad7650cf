// internal/support/responder/config.go
package responder

type Config struct {
	MaxTokens           int
	Temperature         float64
	ConfidenceThreshold float64
	MaxPromptOrders     int
	MaxPromptEvidence   int
}

func DefaultConfig() *Config {
	return &Config{
		MaxTokens:           500,
		Temperature:         0.7,
		ConfidenceThreshold: 0.7,
		MaxPromptOrders:     3,
		MaxPromptEvidence:   3,
	}
}
