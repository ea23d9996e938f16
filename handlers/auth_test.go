package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkup/services"
	"linkup/store"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	SetService(services.New(store.NewMemory()))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/signup", Signup)
	r.POST("/api/login", Login)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignupAndLogin(t *testing.T) {
	r := newAuthRouter(t)

	w := postJSON(t, r, "/api/signup", gin.H{
		"email":    "alice@example.com",
		"password": "secret123",
		"name":     "Alice",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var signupResp struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signupResp))
	assert.NotEmpty(t, signupResp.Token)
	assert.NotEmpty(t, signupResp.UserID)

	w = postJSON(t, r, "/api/login", gin.H{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/api/login", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignupDuplicateEmail(t *testing.T) {
	r := newAuthRouter(t)

	body := gin.H{"email": "bob@example.com", "password": "secret123", "name": "Bob"}
	w := postJSON(t, r, "/api/signup", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/signup", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSignupValidation(t *testing.T) {
	r := newAuthRouter(t)

	w := postJSON(t, r, "/api/signup", gin.H{"email": "not-an-email", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/api/signup", gin.H{"email": "ok@example.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	r := newAuthRouter(t)

	w := postJSON(t, r, "/api/login", gin.H{"email": "ghost@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
