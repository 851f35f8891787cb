package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func protectedHandler(user, pass string) http.Handler {
	return BasicAuth(user, pass)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestBasicAuth_ValidCredentials(t *testing.T) {
	h := protectedHandler("svc", "secret")

	req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
	req.SetBasicAuth("svc", "secret")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBasicAuth_MissingCredentials(t *testing.T) {
	h := protectedHandler("svc", "secret")

	req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
}

func TestBasicAuth_WrongPassword(t *testing.T) {
	h := protectedHandler("svc", "secret")

	req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
	req.SetBasicAuth("svc", "wrong")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBasicAuth_DisabledWhenUnconfigured(t *testing.T) {
	h := protectedHandler("", "")

	req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
