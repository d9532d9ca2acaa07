package translate

import "fmt"

// ConfigurationError means required credentials or settings are absent; no
// translation work can start.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("translation not configured: %s missing", e.Missing)
}

// TranslationError means a batch response came back but could not be parsed
// into the expected {"items": [...]} shape. Recoverable at batch granularity.
type TranslationError struct {
	Detail string
	Raw    string
}

func (e *TranslationError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("malformed translation response: %s (raw: %s)", e.Detail, truncate(e.Raw, 200))
	}
	return fmt.Sprintf("malformed translation response: %s", e.Detail)
}

// UpstreamError means the remote service call itself failed (network, auth,
// rate limit). Fatal for the language being translated.
type UpstreamError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("translation service error (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("translation service unreachable: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
