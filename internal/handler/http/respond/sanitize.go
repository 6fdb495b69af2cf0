package respond

import (
	"regexp"
)

var (
	// The Anthropic pattern must run before the OpenAI one since "sk-ant-"
	// is a prefix of "sk-".
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	openaiKeyPattern    = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)

	// NewsAPI keys leak through request URLs embedded in error messages.
	newsAPIKeyPattern = regexp.MustCompile(`(apiKey=)[^&\s"]+`)
)

// SanitizeError returns the error message with credentials masked.
// Upstream clients embed API keys in request URLs and error payloads,
// so raw errors must never reach logs unmasked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = newsAPIKeyPattern.ReplaceAllString(msg, "${1}****")

	return msg
}
