package respond

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "openai key",
			in:   "401 unauthorized: key sk-abcdefghij1234567890 rejected",
			want: "401 unauthorized: key sk-**** rejected",
		},
		{
			name: "anthropic key",
			in:   "invalid x-api-key sk-ant-api03-abc_def-123",
			want: "invalid x-api-key sk-ant-****",
		},
		{
			name: "newsapi key in url",
			in:   `get "https://newsapi.org/v2/top-headlines?apiKey=secret123&category=science": timeout`,
			want: `get "https://newsapi.org/v2/top-headlines?apiKey=****&category=science": timeout`,
		},
		{
			name: "plain message untouched",
			in:   "article not found",
			want: "article not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeError(errors.New(tt.in)))
		})
	}
}

func TestSanitizeError_Nil(t *testing.T) {
	assert.Empty(t, SanitizeError(nil))
}
