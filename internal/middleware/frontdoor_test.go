package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func frontDoorRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(FrontDoor(secret))
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestFrontDoor(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		presented  string
		wantStatus int
	}{
		{name: "disabled", secret: "", presented: "", wantStatus: http.StatusOK},
		{name: "disabled ignores header", secret: "", presented: "anything", wantStatus: http.StatusOK},
		{name: "match", secret: "hunter2", presented: "hunter2", wantStatus: http.StatusOK},
		{name: "mismatch", secret: "hunter2", presented: "hunter3", wantStatus: http.StatusUnauthorized},
		{name: "missing header", secret: "hunter2", presented: "", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := frontDoorRouter(tt.secret)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.presented != "" {
				req.Header.Set(FrontDoorHeader, tt.presented)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
