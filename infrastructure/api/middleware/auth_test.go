package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serve(h http.Handler, method, key string) int {
	req := httptest.NewRequest(method, "/", nil)
	if key != "" {
		req.Header.Set("X-API-KEY", key)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code
}

func TestWriteProtect(t *testing.T) {
	handler := WriteProtect(NewAuthConfigWithKeys([]string{"secret"}))(okHandler())

	tests := []struct {
		method string
		key    string
		want   int
	}{
		{http.MethodGet, "", http.StatusOK},
		{http.MethodHead, "", http.StatusOK},
		{http.MethodOptions, "", http.StatusOK},
		{http.MethodPost, "", http.StatusUnauthorized},
		{http.MethodPut, "", http.StatusUnauthorized},
		{http.MethodPatch, "", http.StatusUnauthorized},
		{http.MethodDelete, "", http.StatusUnauthorized},
		{http.MethodPost, "wrong", http.StatusUnauthorized},
		{http.MethodPost, "secret", http.StatusOK},
		{http.MethodDelete, "secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.method+"_"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(handler, tt.method, tt.key))
		})
	}
}

func TestWriteProtect_Disabled(t *testing.T) {
	for _, keys := range [][]string{nil, {""}} {
		config := NewAuthConfigWithKeys(keys)
		assert.False(t, config.Enabled())

		handler := WriteProtect(config)(okHandler())
		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
			assert.Equal(t, http.StatusOK, serve(handler, method, ""))
		}
	}
}

func TestWriteProtect_RejectionIsJSONAPI(t *testing.T) {
	handler := WriteProtectAuth([]string{"secret"})(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/vnd.api+json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "X-API-KEY header is required")
}
