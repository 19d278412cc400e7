package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

const redacted = "[REDACTED]"

var (
	secretKeyParts = []string{"token", "authorization", "password", "secret", "cookie", "api_key", "apikey", "bot_key"}
	// telegram ids identify a person outside this system, so they are treated like user ids.
	identityKeyParts = []string{"user_id", "session_id", "telegram_id"}
)

// redactor scrubs log fields. A nil or disabled redactor passes fields through.
type redactor struct {
	enabled bool
	salt    string
}

func redactorFromEnv() *redactor {
	r := &redactor{enabled: true, salt: strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_REDACTION_ENABLED"))) {
	case "0", "false", "no", "off":
		r.enabled = false
	}
	return r
}

func (r *redactor) fields(kv []interface{}) []interface{} {
	if r == nil || !r.enabled || len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		name := stringify(kv[i])
		out = append(out, name, r.value(strings.ToLower(strings.TrimSpace(name)), kv[i+1]))
	}
	if len(kv)%2 == 1 {
		out = append(out, kv[len(kv)-1])
	}
	return out
}

func (r *redactor) value(key string, v interface{}) interface{} {
	switch {
	case key == "":
		return v
	case containsAny(key, secretKeyParts):
		return redacted
	case containsAny(key, identityKeyParts):
		return r.hash(v)
	}
	switch t := v.(type) {
	case string:
		if jwtShaped(t) {
			return redacted
		}
	case map[string]interface{}:
		nested := make(map[string]interface{}, len(t))
		for k, inner := range t {
			nested[k] = r.value(strings.ToLower(strings.TrimSpace(k)), inner)
		}
		return nested
	}
	return v
}

func (r *redactor) hash(v interface{}) string {
	raw := stringify(v)
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(r.salt + raw))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}

func containsAny(s string, parts []string) bool {
	for _, p := range parts {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func jwtShaped(s string) bool {
	segs := strings.Split(s, ".")
	return len(segs) == 3 && len(segs[0]) > 10 && len(segs[1]) > 10
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
