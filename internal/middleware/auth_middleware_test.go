package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JackLockhart04/course-genius/internal/pkg/apperrors"
	"github.com/JackLockhart04/course-genius/internal/pkg/identity"
)

// stubVerifier accepts exactly one token string.
type stubVerifier struct {
	token string
	ident identity.Identity
}

func (s *stubVerifier) Verify(_ context.Context, token string) (*identity.Identity, error) {
	if token != s.token {
		return nil, apperrors.ErrTokenInvalid
	}
	ident := s.ident
	return &ident, nil
}

func authTestRouter(verifier identity.Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(verifier)

	router := gin.New()
	router.Use(m.Authenticate())
	router.GET("/open", func(c *gin.Context) {
		_, ok := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})

	protected := router.Group("", m.RequireUser())
	protected.GET("/protected", func(c *gin.Context) {
		ident, _ := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"id": ident.ID.String()})
	})

	return router
}

func TestAuthenticateResolvesIdentity(t *testing.T) {
	callerID := uuid.New()
	router := authTestRouter(&stubVerifier{
		token: "good-token",
		ident: identity.Identity{ID: callerID, Email: "student@example.edu"},
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
}

func TestRequireUserRejectsAnonymous(t *testing.T) {
	router := authTestRouter(&stubVerifier{token: "good-token"})

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not bearer", header: "Basic dXNlcjpwYXNz"},
		{name: "empty bearer", header: "Bearer "},
		{name: "unverifiable token", header: "Bearer forged"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestAuthenticateNeverAborts(t *testing.T) {
	router := authTestRouter(&stubVerifier{token: "good-token"})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer forged")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200: unverifiable tokens mean anonymous, not failure", w.Code)
	}
}

func TestHandleAPIErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: apperrors.ErrCourseNotFound, wantStatus: http.StatusNotFound},
		{name: "wrapped not found", err: apperrors.NewNotFoundError("gone"), wantStatus: http.StatusNotFound},
		{name: "expired token", err: apperrors.ErrTokenExpired, wantStatus: http.StatusUnauthorized},
		{name: "validation", err: apperrors.NewValidationError("bad credits"), wantStatus: http.StatusBadRequest},
		{name: "unknown", err: errors.New("connection reset"), wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			HandleAPIError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
