package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JackLockhart04/course-genius/internal/app/models/dto"
	"github.com/JackLockhart04/course-genius/internal/pkg/identity"
	"github.com/JackLockhart04/course-genius/internal/pkg/logger"
)

// identityKey is the context key the resolved caller identity lives under.
const identityKey = "callerIdentity"

// AuthMiddleware resolves bearer tokens into caller identities.
type AuthMiddleware struct {
	verifier identity.Verifier
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier identity.Verifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Authenticate resolves the Authorization header to an identity or to
// anonymous. A missing header, an unverifiable token, and a provider network
// failure all mean anonymous; this middleware never aborts a request itself.
// Route groups that need a caller add RequireUser on top.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		token, ok := extractBearerToken(authHeader)
		if !ok {
			c.Next()
			return
		}

		ident, err := m.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			// Unverifiable is anonymous, not an error response.
			logger.Debug().Err(err).Msg("Bearer token did not verify, treating caller as anonymous")
			c.Next()
			return
		}

		c.Set(identityKey, *ident)
		c.Next()
	}
}

// RequireUser aborts anonymous requests with 401. It must run after
// Authenticate.
func (m *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentIdentity(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse("authentication required"))
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the verified caller of the request, if any.
func CurrentIdentity(c *gin.Context) (identity.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return identity.Identity{}, false
	}
	ident, ok := value.(identity.Identity)
	return ident, ok
}

// extractBearerToken pulls the token out of an Authorization header value.
func extractBearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", false
	}
	return token, true
}
