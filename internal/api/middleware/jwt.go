package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/codewithwan/erecruitment/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

type AuthConfig struct {
	// Secret verifies HS256 signatures. It is required: a token whose
	// signature was not checked never resolves a candidate.
	Secret   string
	Issuer   string
	Audience string
}

type candidateClaims struct {
	jwt.RegisteredClaims
	AppMetadata map[string]any `json:"app_metadata"` // {"role":"candidate"}
}

func (c *candidateClaims) appRole() string {
	if c.AppMetadata != nil {
		if v, ok := c.AppMetadata["role"].(string); ok && v != "" {
			return v
		}
	}
	return "candidate"
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
		Code:    utils.CodeUnauthorized,
		Message: msg,
	})
}

// JWTAuth resolves the candidate from the bearer token and keeps the raw
// token so it can be forwarded to the candidate API. The websocket route
// may pass it as ?access_token= since browsers cannot set headers there.
func JWTAuth(cfg AuthConfig) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		if cfg.Secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Code:    utils.CodeInternal,
				Message: "JWT secret is not set",
			})
			return
		}

		raw := bearer(c)
		if raw == "" {
			unauthorized(c, "missing bearer token")
			return
		}

		claims := &candidateClaims{}
		tok, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return []byte(cfg.Secret), nil
		})
		if errors.Is(err, jwt.ErrTokenExpired) {
			unauthorized(c, "token expired")
			return
		}
		if err != nil || tok == nil || !tok.Valid {
			unauthorized(c, "invalid token")
			return
		}

		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			unauthorized(c, "invalid token issuer")
			return
		}
		if cfg.Audience != "" && !slices.Contains(claims.Audience, cfg.Audience) {
			unauthorized(c, "invalid token audience")
			return
		}

		userID := claims.Subject
		if userID == "" {
			unauthorized(c, "missing subject")
			return
		}

		c.Set("user_id", userID)
		c.Set("role", claims.appRole())
		c.Set("token", raw)
		c.Next()
	}
}

func bearer(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return strings.TrimSpace(c.Query("access_token"))
	}
	return ""
}
