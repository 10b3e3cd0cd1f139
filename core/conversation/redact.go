package conversation

import "regexp"

const redactedPlaceholder = "[REDACTED]"

// secretPatterns match credentials a user might paste into a turn. Logged
// prompts and completions pass through redact; the transcript itself keeps
// the original text.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`(?i)aws_secret_access_key\s*[=:]\s*[A-Za-z0-9/+=]{40}`),
	regexp.MustCompile(`gh[ps]_[A-Za-z0-9_]{36,}`),
	regexp.MustCompile(`sk-(proj-)?[A-Za-z0-9_-]{20,}`),
	regexp.MustCompile(`-----BEGIN (RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`),
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[=:]\s*['"][A-Za-z0-9]{16,}['"]`),
}

// redact replaces every secret match in s with [REDACTED].
func redact(s string) string {
	for _, p := range secretPatterns {
		s = p.ReplaceAllString(s, redactedPlaceholder)
	}
	return s
}
