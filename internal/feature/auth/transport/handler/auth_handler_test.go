package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social_backend/internal/feature/auth/domain/entity"
	"social_backend/internal/feature/auth/usecase"
)

type mockRegistration struct {
	RegisterFunc func(email, username, password string) error
	ResendFunc   func(email string) error
	PromoteFunc  func(email, code string) (*entity.Account, error)
}

func (m *mockRegistration) Register(_ context.Context, email, username, password string) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(email, username, password)
	}
	return nil
}

func (m *mockRegistration) ResendCode(_ context.Context, email string) error {
	if m.ResendFunc != nil {
		return m.ResendFunc(email)
	}
	return nil
}

func (m *mockRegistration) Promote(_ context.Context, email, code string) (*entity.Account, error) {
	if m.PromoteFunc != nil {
		return m.PromoteFunc(email, code)
	}
	return nil, errors.New("not configured")
}

type mockAuth struct {
	LoginFunc   func(email, password string, meta usecase.SessionMeta) (*usecase.TokenPair, error)
	RefreshFunc func(token string) (*usecase.TokenPair, error)
	LogoutFunc  func(token string) error
}

func (m *mockAuth) Login(_ context.Context, email, password string, meta usecase.SessionMeta) (*usecase.TokenPair, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(email, password, meta)
	}
	return nil, usecase.ErrInvalidCredentials
}

func (m *mockAuth) Refresh(_ context.Context, token string, _ usecase.SessionMeta) (*usecase.TokenPair, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(token)
	}
	return nil, usecase.ErrInvalidRefreshToken
}

func (m *mockAuth) Logout(_ context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(token)
	}
	return nil
}

type mockPassword struct {
	ForgotFunc func(email string) error
	ResetFunc  func(email, code, newPassword string) error
}

func (m *mockPassword) ForgotPassword(_ context.Context, email string) error {
	if m.ForgotFunc != nil {
		return m.ForgotFunc(email)
	}
	return nil
}

func (m *mockPassword) ResetPassword(_ context.Context, email, code, newPassword string) error {
	if m.ResetFunc != nil {
		return m.ResetFunc(email, code, newPassword)
	}
	return nil
}

func newTestRouter(reg *mockRegistration, auth *mockAuth, pw *mockPassword) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(reg, auth, pw)
	r := gin.New()
	g := r.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/verify-registration-otp", h.VerifyRegistration)
	g.POST("/resend-registration-otp", h.ResendRegistrationCode)
	g.POST("/login", h.Login)
	g.POST("/refresh", h.Refresh)
	g.POST("/logout", h.Logout)
	g.POST("/forgot-password", h.ForgotPassword)
	g.POST("/reset-password", h.ResetPassword)
	return r
}

func doJSON(t *testing.T, r http.Handler, path string, body any) (*httptest.ResponseRecorder, gin.H) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var res gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return w, res
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name         string
		body         gin.H
		registerErr  error
		expectedCode int
		errorCode    string
	}{
		{
			name:         "success: pending registration",
			body:         gin.H{"email": "alice@example.com", "username": "alice", "password": "password123"},
			expectedCode: http.StatusOK,
		},
		{
			name:         "failure: invalid email address",
			body:         gin.H{"email": "invalid-email", "username": "alice", "password": "password123"},
			expectedCode: http.StatusBadRequest,
			errorCode:    "VALIDATION_FAILED",
		},
		{
			name:         "failure: short password",
			body:         gin.H{"email": "alice@example.com", "username": "alice", "password": "short"},
			expectedCode: http.StatusBadRequest,
			errorCode:    "VALIDATION_FAILED",
		},
		{
			name:         "failure: account exists",
			body:         gin.H{"email": "alice@example.com", "username": "alice", "password": "password123"},
			registerErr:  usecase.ErrAccountExists,
			expectedCode: http.StatusConflict,
			errorCode:    "ACCOUNT_EXISTS",
		},
		{
			name:         "failure: storage error is not leaked",
			body:         gin.H{"email": "alice@example.com", "username": "alice", "password": "password123"},
			registerErr:  errors.New("pq: connection refused"),
			expectedCode: http.StatusInternalServerError,
			errorCode:    "INTERNAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &mockRegistration{RegisterFunc: func(string, string, string) error { return tt.registerErr }}
			w, res := doJSON(t, newTestRouter(reg, &mockAuth{}, &mockPassword{}), "/auth/register", tt.body)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.errorCode != "" {
				assert.Equal(t, tt.errorCode, res["code"])
				assert.NotContains(t, res["error"], "pq:")
			}
		})
	}
}

func TestAuthHandler_VerifyRegistration(t *testing.T) {
	activated := time.Now()
	tests := []struct {
		name         string
		promoteErr   error
		expectedCode int
		errorCode    string
	}{
		{"success: account created", nil, http.StatusCreated, ""},
		{"failure: invalid code", usecase.ErrInvalidOrExpiredCode, http.StatusBadRequest, "INVALID_OR_EXPIRED_CODE"},
		{"failure: no pending registration", usecase.ErrPendingNotFound, http.StatusNotFound, "REGISTRATION_NOT_FOUND"},
		{"failure: conflict", usecase.ErrAccountExists, http.StatusConflict, "ACCOUNT_EXISTS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &mockRegistration{PromoteFunc: func(email, code string) (*entity.Account, error) {
				if tt.promoteErr != nil {
					return nil, tt.promoteErr
				}
				return &entity.Account{ID: 1, Username: "alice", Email: email, Active: true, ActivatedAt: &activated}, nil
			}}
			w, res := doJSON(t, newTestRouter(reg, &mockAuth{}, &mockPassword{}),
				"/auth/verify-registration-otp", gin.H{"email": "alice@example.com", "code": "ABC123"})

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.errorCode != "" {
				assert.Equal(t, tt.errorCode, res["code"])
				return
			}
			assert.Equal(t, "alice", res["username"])
			assert.Equal(t, true, res["active"])
			assert.NotContains(t, res, "password")
		})
	}
}

func TestAuthHandler_ResendRegistrationCode(t *testing.T) {
	reg := &mockRegistration{ResendFunc: func(string) error { return usecase.ErrPendingNotFound }}
	w, _ := doJSON(t, newTestRouter(reg, &mockAuth{}, &mockPassword{}),
		"/auth/resend-registration-otp", gin.H{"email": "alice@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, newTestRouter(&mockRegistration{}, &mockAuth{}, &mockPassword{}),
		"/auth/resend-registration-otp", gin.H{"email": "alice@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	pair := &usecase.TokenPair{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresIn:    15 * time.Minute,
		Account:      &entity.Account{ID: 3, Username: "alice", Email: "alice@example.com", Active: true},
	}

	t.Run("success: user login", func(t *testing.T) {
		var gotMeta usecase.SessionMeta
		auth := &mockAuth{LoginFunc: func(_, _ string, meta usecase.SessionMeta) (*usecase.TokenPair, error) {
			gotMeta = meta
			return pair, nil
		}}
		w, res := doJSON(t, newTestRouter(&mockRegistration{}, auth, &mockPassword{}),
			"/auth/login", gin.H{"email": "alice@example.com", "password": "password123"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "access", res["access_token"])
		assert.Equal(t, "refresh", res["refresh_token"])
		assert.Equal(t, "Bearer", res["token_type"])
		assert.Equal(t, float64(900), res["expires_in"])
		assert.NotEmpty(t, gotMeta.IPAddress)
	})

	for name, err := range map[string]error{
		"failure: invalid credentials": usecase.ErrInvalidCredentials,
		"failure: inactive account":    usecase.ErrAccountInactive,
	} {
		t.Run(name, func(t *testing.T) {
			auth := &mockAuth{LoginFunc: func(string, string, usecase.SessionMeta) (*usecase.TokenPair, error) {
				return nil, err
			}}
			w, _ := doJSON(t, newTestRouter(&mockRegistration{}, auth, &mockPassword{}),
				"/auth/login", gin.H{"email": "alice@example.com", "password": "password123"})
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthHandler_RefreshAndLogout(t *testing.T) {
	auth := &mockAuth{RefreshFunc: func(token string) (*usecase.TokenPair, error) {
		if token != "good" {
			return nil, usecase.ErrInvalidRefreshToken
		}
		return &usecase.TokenPair{AccessToken: "a2", RefreshToken: "r2", Account: &entity.Account{ID: 1}}, nil
	}}
	r := newTestRouter(&mockRegistration{}, auth, &mockPassword{})

	w, res := doJSON(t, r, "/auth/refresh", gin.H{"refresh_token": "good"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r2", res["refresh_token"])

	w, res = doJSON(t, r, "/auth/refresh", gin.H{"refresh_token": "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", res["code"])

	w, _ = doJSON(t, r, "/auth/logout", gin.H{"refresh_token": "anything"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, "/auth/logout", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_PasswordReset(t *testing.T) {
	var resetArgs []string
	pw := &mockPassword{ResetFunc: func(email, code, newPassword string) error {
		resetArgs = []string{email, code, newPassword}
		if code != "ABC123" {
			return usecase.ErrInvalidOrExpiredCode
		}
		return nil
	}}
	r := newTestRouter(&mockRegistration{}, &mockAuth{}, pw)

	w, _ := doJSON(t, r, "/auth/forgot-password", gin.H{"email": "alice@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, "/auth/forgot-password", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, "/auth/reset-password",
		gin.H{"email": "alice@example.com", "code": "ABC123", "new_password": "new-password"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"alice@example.com", "ABC123", "new-password"}, resetArgs)

	w, res := doJSON(t, r, "/auth/reset-password",
		gin.H{"email": "alice@example.com", "code": "WRONG1", "new_password": "new-password"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_OR_EXPIRED_CODE", res["code"])

	w, _ = doJSON(t, r, "/auth/reset-password",
		gin.H{"email": "alice@example.com", "code": "ABC123", "new_password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ログにメールアドレスをそのまま出さない
func TestAuthHandler_LogsMaskedEmail(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	reg := &mockRegistration{ResendFunc: func(string) error { return usecase.ErrPendingNotFound }}
	r := newTestRouter(reg, &mockAuth{}, &mockPassword{})

	doJSON(t, r, "/auth/register", gin.H{"email": "alice@example.com", "username": "alice", "password": "password123"})
	doJSON(t, r, "/auth/resend-registration-otp", gin.H{"email": "alice@example.com"})

	assert.Contains(t, buf.String(), "a***@example.com")
	assert.NotContains(t, buf.String(), "alice@example.com")
}
