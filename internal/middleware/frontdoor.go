package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JackLockhart04/course-genius/internal/app/models/dto"
)

// FrontDoorHeader carries the shared secret set by the trusted reverse proxy.
const FrontDoorHeader = "X-Front-Door-Secret"

// FrontDoor rejects requests that did not come through the configured front
// door. An empty secret disables the check entirely.
func FrontDoor(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		presented := c.GetHeader(FrontDoorHeader)
		if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse("request did not come through the front door"))
			return
		}
		c.Next()
	}
}
