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

const testSecret = "secreto-de-prueba"

func tokenFor(t *testing.T, esStaff bool, expira time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id":  "3f2e9c51-0000-0000-0000-000000000001",
		"username": "vendedor",
		"es_staff": esStaff,
		"exp":      time.Now().Add(expira).Unix(),
		"iat":      time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newAuthRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuth(testSecret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"puede_ver_costos": CanViewCosts(c)})
	})
	r.GET("/protegido", handlers...)
	return r
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_SinToken(t *testing.T) {
	w := doGet(newAuthRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_TokenInvalido(t *testing.T) {
	w := doGet(newAuthRouter(), "Bearer no-es-un-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_TokenExpirado(t *testing.T) {
	token := tokenFor(t, true, -time.Hour)
	w := doGet(newAuthRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_TokenValido(t *testing.T) {
	token := tokenFor(t, false, time.Hour)
	w := doGet(newAuthRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"puede_ver_costos":false`)
}

func TestCanViewCosts_Staff(t *testing.T) {
	token := tokenFor(t, true, time.Hour)
	w := doGet(newAuthRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"puede_ver_costos":true`)
}

func TestRequireStaff_RechazaNoStaff(t *testing.T) {
	token := tokenFor(t, false, time.Hour)
	w := doGet(newAuthRouter(RequireStaff()), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireStaff_PermiteStaff(t *testing.T) {
	token := tokenFor(t, true, time.Hour)
	w := doGet(newAuthRouter(RequireStaff()), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}
