package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-social-graph/internal/domain/identity"
	"github.com/oksasatya/go-ddd-social-graph/pkg/response"
)

// CtxIdentityKey holds the caller's identity-provider user id.
const CtxIdentityKey = "identityID"

// Auth validates the provider session token sent as "Authorization: Bearer <token>"
// and sets identityID in the Gin context on success.
func Auth(v identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		id, err := v.Verify(c.Request.Context(), token)
		if err != nil || id == "" {
			response.Abort(c, http.StatusUnauthorized, "invalid session token", nil)
			return
		}
		c.Set(CtxIdentityKey, id)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
