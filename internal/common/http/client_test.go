// internal/common/http/client_test.go
package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewClient_TimeoutFallback(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		expected time.Duration
	}{
		{name: "explicit timeout kept", timeout: 5 * time.Second, expected: 5 * time.Second},
		{name: "zero falls back to default", timeout: 0, expected: defaultTimeout},
		{name: "negative falls back to default", timeout: -time.Second, expected: defaultTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.timeout)
			assert.Equal(t, tt.expected, c.httpClient.Timeout)
		})
	}
}
