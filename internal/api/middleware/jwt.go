package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/resumatch/resumatch/internal/auth"
	"github.com/resumatch/resumatch/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

// AccessTokenCookie is the cookie browser clients authenticate with;
// API clients use an Authorization bearer header instead.
const AccessTokenCookie = "access_token"

func JWTAuth(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			if v, err := c.Cookie(AccessTokenCookie); err == nil {
				raw = v
			}
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "missing access token",
			})
			return
		}

		userID, err := issuer.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "invalid token",
			})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// OptionalJWT sets user_id when the request carries a valid token and
// passes the request through otherwise. Routes that serve anonymous
// clients use it so per-client state is keyed by account whenever the
// caller is logged in, instead of falling back to the request IP.
func OptionalJWT(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			if v, err := c.Cookie(AccessTokenCookie); err == nil {
				raw = v
			}
		}
		if raw != "" {
			if userID, err := issuer.Verify(raw); err == nil {
				c.Set("user_id", userID)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
