package audit

import "strings"

// RedactedMarker replaces the value of any denylisted key before it reaches
// the ledger.
const RedactedMarker = "[REDACTED]"

var denylist = map[string]struct{}{
	"password":      {},
	"passwd":        {},
	"token":         {},
	"secret":        {},
	"apikey":        {},
	"api_key":       {},
	"authorization": {},
}

// Sanitize returns a shallow copy of record with every sensitive value
// replaced by RedactedMarker. It is applied to everything written to the
// ledger, never to the payloads sent to the repositories.
func Sanitize(record map[string]interface{}) map[string]interface{} {
	if record == nil {
		return nil
	}
	out := make(map[string]interface{}, len(record))
	for key, value := range record {
		if isSensitiveKey(key) {
			out[key] = RedactedMarker
			continue
		}
		out[key] = value
	}
	return out
}

// isSensitiveKey matches denylisted keys case-insensitively, including
// composed forms like accessToken and userPassword.
func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	if _, ok := denylist[lower]; ok {
		return true
	}
	return strings.Contains(lower, "password") || strings.Contains(lower, "token")
}
