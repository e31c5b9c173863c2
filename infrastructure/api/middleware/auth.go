package middleware

import (
	"crypto/subtle"
	"net/http"
	"slices"
)

// APIKeyHeader carries the API key on mutating requests.
const APIKeyHeader = "X-API-KEY"

// AuthConfig is the set of accepted API keys. An empty set disables checks.
type AuthConfig struct {
	keys [][]byte
}

// NewAuthConfigWithKeys builds an AuthConfig, ignoring empty keys.
func NewAuthConfigWithKeys(apiKeys []string) AuthConfig {
	var c AuthConfig
	for _, k := range apiKeys {
		if k != "" {
			c.keys = append(c.keys, []byte(k))
		}
	}
	return c
}

// Enabled reports whether any key is configured.
func (c AuthConfig) Enabled() bool { return len(c.keys) > 0 }

// Valid reports whether key matches a configured key, in constant time per key.
func (c AuthConfig) Valid(key string) bool {
	return slices.ContainsFunc(c.keys, func(k []byte) bool {
		return subtle.ConstantTimeCompare(k, []byte(key)) == 1
	})
}

// WriteProtect requires a valid X-API-KEY on requests that can change the
// tracker log or the workbook. GET, HEAD and OPTIONS always pass.
func WriteProtect(config AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled() || safeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			switch key := r.Header.Get(APIKeyHeader); {
			case key == "":
				WriteError(w, r, NewAuthenticationError(APIKeyHeader+" header is required"), nil)
			case !config.Valid(key):
				WriteError(w, r, NewAuthenticationError("invalid API key"), nil)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// WriteProtectAuth is WriteProtect for a list of keys.
func WriteProtectAuth(apiKeys []string) func(http.Handler) http.Handler {
	return WriteProtect(NewAuthConfigWithKeys(apiKeys))
}

func safeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}
