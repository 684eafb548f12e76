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

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c), "is_admin": IsAdmin(c)})
	})
	r.GET("/", handlers...)
	return r
}

func do(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantBody   string
	}{
		{"missing", "", http.StatusUnauthorized, ""},
		{"garbage", "not-a-jwt", http.StatusUnauthorized, ""},
		{"wrong algorithm", signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": exp}), http.StatusUnauthorized, ""},
		{"expired", signToken(t, jwt.SigningMethodHS512, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized, ""},
		{"no subject", signToken(t, jwt.SigningMethodHS512, jwt.MapClaims{"exp": exp}), http.StatusUnauthorized, ""},
		{"user", signToken(t, jwt.SigningMethodHS512, jwt.MapClaims{"sub": "u1", "exp": exp}), http.StatusOK, `{"is_admin":false,"user_id":"u1"}`},
		{"admin", signToken(t, jwt.SigningMethodHS512, jwt.MapClaims{"sub": "a1", "roles": []string{"USER", "ADMIN"}, "exp": exp}), http.StatusOK, `{"is_admin":true,"user_id":"a1"}`},
	}

	r := newRouter(JWTAuth(testSecret))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.token)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	r := newRouter(JWTAuth(testSecret), RequireAdmin())

	user := signToken(t, jwt.SigningMethodHS512, jwt.MapClaims{"sub": "u1", "roles": "USER", "exp": exp})
	assert.Equal(t, http.StatusForbidden, do(r, user).Code)

	admin := signToken(t, jwt.SigningMethodHS512, jwt.MapClaims{"sub": "a1", "roles": "ADMIN", "exp": exp})
	assert.Equal(t, http.StatusOK, do(r, admin).Code)
}

func TestOptionalJWTAuth(t *testing.T) {
	r := newRouter(OptionalJWTAuth(testSecret))

	w := do(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"is_admin":false,"user_id":""}`, w.Body.String())

	w = do(r, "broken")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"is_admin":false,"user_id":""}`, w.Body.String())

	tok := signToken(t, jwt.SigningMethodHS512, jwt.MapClaims{"sub": "u3", "exp": time.Now().Add(time.Hour).Unix()})
	assert.JSONEq(t, `{"is_admin":false,"user_id":"u3"}`, do(r, tok).Body.String())
}

func TestJWTAuth_EmptySecretRejectsEverything(t *testing.T) {
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub":   "u1",
		"roles": []string{"ADMIN"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(""))
	require.NoError(t, err)

	r := newRouter(JWTAuth(""), RequireAdmin())
	assert.Equal(t, http.StatusUnauthorized, do(r, forged).Code)

	optional := newRouter(OptionalJWTAuth(""))
	assert.JSONEq(t, `{"is_admin":false,"user_id":""}`, do(optional, forged).Body.String())
}
