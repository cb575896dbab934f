package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/dinein/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func whoAmI(c *gin.Context) {
	role := ""
	if claims := GetClaims(c); claims != nil {
		role = claims.Role
	}
	c.String(http.StatusOK, role)
}

func request(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sign(t *testing.T, issuer *utils.TokenIssuer, claims utils.Claims) string {
	t.Helper()
	token, err := issuer.Sign(claims)
	require.NoError(t, err)
	return token
}

func TestAuthAndRoles(t *testing.T) {
	issuer := utils.NewTokenIssuer("mw-secret", time.Hour)
	r := gin.New()
	r.GET("/kitchen", AuthMiddleware(issuer), RequireRole(utils.RoleKitchen), RequireBranch(), whoAmI)

	w := request(r, "/kitchen", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(r, "/kitchen", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	captain := sign(t, issuer, utils.Claims{Role: utils.RoleCaptain, BranchID: "b1"})
	w = request(r, "/kitchen", captain)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), string(utils.KindInsufficientRole))

	unbound := sign(t, issuer, utils.Claims{Role: utils.RoleKitchen})
	w = request(r, "/kitchen", unbound)
	assert.Equal(t, http.StatusForbidden, w.Code)

	kitchen := sign(t, issuer, utils.Claims{Role: utils.RoleKitchen, BranchID: "b1"})
	w = request(r, "/kitchen", kitchen)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, utils.RoleKitchen, w.Body.String())
}

func TestOptionalAuthIgnoresBadTokens(t *testing.T) {
	issuer := utils.NewTokenIssuer("mw-secret", time.Hour)
	r := gin.New()
	r.GET("/orders", OptionalAuth(issuer), whoAmI)

	w := request(r, "/orders", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = request(r, "/orders", "garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	customer := sign(t, issuer, utils.Claims{Role: utils.RoleCustomer, SessionID: "s1", Scope: utils.ScopeSession})
	w = request(r, "/orders", customer)
	assert.Equal(t, utils.RoleCustomer, w.Body.String())
}

func TestWebSocketAuthReadsQueryToken(t *testing.T) {
	issuer := utils.NewTokenIssuer("mw-secret", time.Hour)
	r := gin.New()
	r.GET("/ws", WebSocketAuthMiddleware(issuer), whoAmI)

	assert.Equal(t, http.StatusUnauthorized, request(r, "/ws", "").Code)

	token := sign(t, issuer, utils.Claims{Role: utils.RoleCaptain, BranchID: "b1"})
	w := request(r, "/ws?token="+token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, utils.RoleCaptain, w.Body.String())
}

func TestRateLimiterPerSession(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2, SessionClientKey)
	r := gin.New()
	r.GET("/sessions/:session_id/otp/verify", limiter.RateLimit(), whoAmI)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, request(r, "/sessions/a/otp/verify", "").Code)
	}
	w := request(r, "/sessions/a/otp/verify", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), string(utils.KindRateLimited))

	// another session has its own bucket
	assert.Equal(t, http.StatusOK, request(r, "/sessions/b/otp/verify", "").Code)
}

func TestRateLimiterSweepsIdleKeys(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, 1, ClientIPKey)
	limiter.Now = func() time.Time { return now }

	assert.True(t, limiter.allow("a"))
	assert.True(t, limiter.allow("b"))
	assert.Equal(t, 2, limiter.Len())

	now = now.Add(limiter.IdleTTL + time.Second)
	assert.True(t, limiter.allow("c"))
	assert.Equal(t, 1, limiter.Len())
}

func TestRateLimiterKeepsDrainedIdleKeys(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(0.001, 1, ClientIPKey)
	limiter.Now = func() time.Time { return now }

	assert.True(t, limiter.allow("a"))
	assert.False(t, limiter.allow("a"))

	// idle past the TTL but still far from refilled
	now = now.Add(limiter.IdleTTL + time.Second)
	assert.True(t, limiter.allow("b"))
	assert.Equal(t, 2, limiter.Len())
	assert.False(t, limiter.allow("a"))
}

func TestSecurityAndCORSHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(), CORSMiddlewares("https://pos.example.com"))
	r.GET("/ping", whoAmI)

	w := request(r, "/ping", "")
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "https://pos.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
