package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/adapter"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTokenService struct {
	claims *adapter.TokenClaims
	err    error
}

func (s *stubTokenService) IssueToken(_ context.Context, _ uuid.UUID, _ string) (*adapter.IssuedToken, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTokenService) ValidateAccessToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	if token != "valid-token" {
		if s.err != nil {
			return nil, s.err
		}
		return nil, domainerror.ErrInvalidToken
	}
	return s.claims, nil
}

func (s *stubTokenService) RevokeSession(_ context.Context, _ uuid.UUID) error {
	return nil
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestAuthenticate(t *testing.T) {
	claims := &adapter.TokenClaims{
		UserID:    uuid.New(),
		Email:     "test@example.com",
		SessionID: uuid.New(),
	}

	tests := []struct {
		name           string
		header         string
		validationErr  error
		expectedStatus int
		expectedCode   domainerror.AuthErrorCode
	}{
		{name: "missing header", header: "", expectedStatus: http.StatusUnauthorized, expectedCode: domainerror.ErrCodeMissingToken},
		{name: "wrong scheme", header: "Basic abc", expectedStatus: http.StatusUnauthorized, expectedCode: domainerror.ErrCodeInvalidToken},
		{name: "empty bearer token", header: "Bearer ", expectedStatus: http.StatusUnauthorized, expectedCode: domainerror.ErrCodeMissingToken},
		{name: "invalid token", header: "Bearer garbage", expectedStatus: http.StatusUnauthorized, expectedCode: domainerror.ErrCodeInvalidToken},
		{
			name:           "revoked session",
			header:         "Bearer revoked",
			validationErr:  fmt.Errorf("validate: %w", domainerror.ErrSessionRevoked),
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   domainerror.ErrCodeExpiredToken,
		},
		{name: "valid token", header: "Bearer valid-token", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthMiddleware(&stubTokenService{claims: claims, err: tt.validationErr})

			router := gin.New()
			router.GET("/protected", m.Authenticate(), func(c *gin.Context) {
				userID, ok := GetUserIDFromContext(c)
				if !ok || userID != claims.UserID {
					t.Errorf("expected user id %s in context, got %s", claims.UserID, userID)
				}
				sessionID, ok := GetSessionIDFromContext(c)
				if !ok || sessionID != claims.SessionID {
					t.Errorf("expected session id %s in context, got %s", claims.SessionID, sessionID)
				}
				email, ok := GetUserEmailFromContext(c)
				if !ok || email != claims.Email {
					t.Errorf("expected email %s in context, got %s", claims.Email, email)
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedCode != "" {
				resp := decodeError(t, w)
				if resp.Code != string(tt.expectedCode) {
					t.Errorf("expected code %s, got %s", tt.expectedCode, resp.Code)
				}
			}
		})
	}
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, ok := GetUserIDFromContext(c); ok {
		t.Error("expected no user id in an unauthenticated context")
	}
	if _, ok := GetSessionIDFromContext(c); ok {
		t.Error("expected no session id in an unauthenticated context")
	}
}

type countingStore struct {
	counts map[string]int
	err    error
}

func (s *countingStore) Allow(_ context.Context, key string, maxAttempts int, _ time.Duration) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.counts[key]++
	return s.counts[key] <= maxAttempts, nil
}

func newLimitedRouter(store adapter.RateLimitStore, maxAttempts int) *gin.Engine {
	limiter := NewRateLimiterWithConfig(store, "login:", maxAttempts, time.Minute)
	router := gin.New()
	router.POST("/login", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func postLogin(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("E2E_MODE", "false")

	t.Run("blocks after max attempts", func(t *testing.T) {
		store := &countingStore{counts: map[string]int{}}
		router := newLimitedRouter(store, 2)

		for i := 0; i < 2; i++ {
			if w := postLogin(router, "10.0.0.1:1234"); w.Code != http.StatusOK {
				t.Fatalf("attempt %d: expected status 200, got %d", i+1, w.Code)
			}
		}

		w := postLogin(router, "10.0.0.1:1234")
		if w.Code != http.StatusTooManyRequests {
			t.Fatalf("expected status 429, got %d", w.Code)
		}
		if resp := decodeError(t, w); resp.Code != string(domainerror.ErrCodeRateLimited) {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeRateLimited, resp.Code)
		}
		if store.counts["login:10.0.0.1"] != 3 {
			t.Errorf("expected key login:10.0.0.1 to be counted 3 times, got %d", store.counts["login:10.0.0.1"])
		}
	})

	t.Run("clients are limited independently", func(t *testing.T) {
		router := newLimitedRouter(&countingStore{counts: map[string]int{}}, 1)

		postLogin(router, "10.0.0.1:1234")
		if w := postLogin(router, "10.0.0.2:1234"); w.Code != http.StatusOK {
			t.Errorf("expected status 200 for a second client, got %d", w.Code)
		}
	})

	t.Run("store failure lets requests through", func(t *testing.T) {
		router := newLimitedRouter(&countingStore{err: errors.New("connection refused")}, 1)

		for i := 0; i < 3; i++ {
			if w := postLogin(router, "10.0.0.1:1234"); w.Code != http.StatusOK {
				t.Fatalf("attempt %d: expected status 200, got %d", i+1, w.Code)
			}
		}
	})
}

func TestRateLimiter_SkippedInTestEnvironment(t *testing.T) {
	t.Setenv("ENV", "test")

	router := newLimitedRouter(&countingStore{counts: map[string]int{}}, 1)
	for i := 0; i < 3; i++ {
		if w := postLogin(router, "10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected status 200, got %d", i+1, w.Code)
		}
	}
}
