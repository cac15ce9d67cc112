package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func authEngine(cfg AuthConfig, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuth(cfg)}, mw...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("role"),
			"token":   c.GetString("token"),
		})
	})
	r.GET("/me", handlers...)
	return r
}

func call(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthVerifiesSignature(t *testing.T) {
	r := authEngine(AuthConfig{Secret: "s3cret", Issuer: "portal"})

	good := sign(t, "s3cret", jwt.MapClaims{"sub": "42", "iss": "portal", "exp": time.Now().Add(time.Hour).Unix()})
	w := call(r, good)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"42"`)
	assert.Contains(t, w.Body.String(), `"role":"candidate"`)
	assert.Contains(t, w.Body.String(), good)

	forged := sign(t, "other", jwt.MapClaims{"sub": "42", "iss": "portal"})
	assert.Equal(t, http.StatusUnauthorized, call(r, forged).Code)

	wrongIssuer := sign(t, "s3cret", jwt.MapClaims{"sub": "42", "iss": "elsewhere"})
	assert.Equal(t, http.StatusUnauthorized, call(r, wrongIssuer).Code)

	assert.Equal(t, http.StatusUnauthorized, call(r, "").Code)
}

func TestJWTAuthRejectsWhenSecretMissing(t *testing.T) {
	r := authEngine(AuthConfig{Audience: "wizard"})

	forged := sign(t, "anything", jwt.MapClaims{"sub": "7", "aud": "wizard"})
	w := call(r, forged)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), `"user_id"`)
}

func TestJWTAuthClaimChecks(t *testing.T) {
	r := authEngine(AuthConfig{Secret: "s3cret", Audience: "wizard"})

	tok := sign(t, "s3cret", jwt.MapClaims{"sub": "7", "aud": "wizard", "app_metadata": map[string]any{"role": "admin"}})
	w := call(r, tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)

	expired := sign(t, "s3cret", jwt.MapClaims{"sub": "7", "aud": "wizard", "exp": time.Now().Add(-time.Minute).Unix()})
	w = call(r, expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token expired")

	noSubject := sign(t, "s3cret", jwt.MapClaims{"aud": "wizard"})
	assert.Equal(t, http.StatusUnauthorized, call(r, noSubject).Code)

	otherAudience := sign(t, "s3cret", jwt.MapClaims{"sub": "7", "aud": "admin-panel"})
	assert.Equal(t, http.StatusUnauthorized, call(r, otherAudience).Code)
}

func TestJWTAuthWebsocketQueryToken(t *testing.T) {
	r := authEngine(AuthConfig{Secret: "s3cret"})
	tok := sign(t, "s3cret", jwt.MapClaims{"sub": "42"})

	req := httptest.NewRequest(http.MethodGet, "/me?access_token="+tok, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me?access_token="+tok, nil)
	req.Header.Set("Upgrade", "websocket")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireCandidate(t *testing.T) {
	r := authEngine(AuthConfig{Secret: "s3cret"}, RequireCandidate([]string{"Candidate"}))

	candidate := sign(t, "s3cret", jwt.MapClaims{"sub": "1"})
	assert.Equal(t, http.StatusOK, call(r, candidate).Code)

	recruiter := sign(t, "s3cret", jwt.MapClaims{"sub": "2", "app_metadata": map[string]any{"role": "recruiter"}})
	assert.Equal(t, http.StatusForbidden, call(r, recruiter).Code)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(nil))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get("X-Request-Id"))
	assert.Equal(t, "req-1", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}
