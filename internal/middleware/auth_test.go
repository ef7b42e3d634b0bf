package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims JWTClaims) string {
	t.Helper()
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func authRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{JWTAuth(testSecret)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"tenant": TenantID(c).String(),
			"name":   Performer(c),
		})
	})
	r.GET("/probe", handlers...)
	return r
}

func doProbe(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	tenant := uuid.NewString()
	token := signToken(t, JWTClaims{
		UserID: uuid.NewString(), Username: "ana", Name: "Ana", Role: "cashier", TenantID: tenant,
	})

	w := doProbe(authRouter(), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), tenant)
	assert.Contains(t, w.Body.String(), "Ana")
}

func TestJWTAuthRejectsMissingAndMalformedTokens(t *testing.T) {
	r := authRouter()

	assert.Equal(t, http.StatusUnauthorized, doProbe(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doProbe(r, "not-a-token").Code)

	wrongKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		Name: "Ana", TenantID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doProbe(r, wrongKey).Code)
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	token := signToken(t, JWTClaims{
		Name: "Ana", TenantID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	})
	assert.Equal(t, http.StatusUnauthorized, doProbe(authRouter(), token).Code)
}

func TestJWTAuthRequiresTenantContext(t *testing.T) {
	r := authRouter()

	noTenant := signToken(t, JWTClaims{Name: "Ana", TenantID: "nope"})
	assert.Equal(t, http.StatusUnauthorized, doProbe(r, noTenant).Code)

	noName := signToken(t, JWTClaims{TenantID: uuid.NewString()})
	assert.Equal(t, http.StatusUnauthorized, doProbe(r, noName).Code)
}

func TestRequireRole(t *testing.T) {
	r := authRouter("supervisor", "admin")

	cashier := signToken(t, JWTClaims{Name: "Ana", Role: "cashier", TenantID: uuid.NewString()})
	assert.Equal(t, http.StatusForbidden, doProbe(r, cashier).Code)

	supervisor := signToken(t, JWTClaims{Name: "Ben", Role: "supervisor", TenantID: uuid.NewString()})
	assert.Equal(t, http.StatusOK, doProbe(r, supervisor).Code)
}
