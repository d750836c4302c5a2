package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushshivam48/edulytix-api/internal/models"
	appErrors "github.com/ayushshivam48/edulytix-api/pkg/errors"
)

type stubValidator struct {
	claims *models.JWTClaims
	err    error
	seen   string
}

func (s *stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	s.seen = token
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func performAuth(t *testing.T, v TokenValidator, prepare func(r *http.Request)) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if prepare != nil {
		prepare(c.Request)
	}

	Authentication(v, "token")(c)
	return w, c
}

func TestAuthenticationFromCookie(t *testing.T) {
	v := &stubValidator{claims: &models.JWTClaims{UserID: "u1", Role: models.RoleStudent}}

	_, c := performAuth(t, v, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "token", Value: "cookie-token"})
	})

	assert.Equal(t, "cookie-token", v.seen)
	claims, ok := CurrentClaims(c)
	require.True(t, ok)
	assert.Equal(t, "u1", claims.UserID)
}

func TestAuthenticationCookieBeatsBearer(t *testing.T) {
	v := &stubValidator{claims: &models.JWTClaims{UserID: "u1", Role: models.RoleStudent}}

	performAuth(t, v, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "token", Value: "cookie-token"})
		r.Header.Set("Authorization", "Bearer header-token")
	})

	assert.Equal(t, "cookie-token", v.seen)
}

func TestAuthenticationBearerFallback(t *testing.T) {
	v := &stubValidator{claims: &models.JWTClaims{UserID: "u1", Role: models.RoleTeacher}}

	_, c := performAuth(t, v, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer header-token")
	})

	assert.Equal(t, "header-token", v.seen)
	claims, ok := CurrentClaims(c)
	require.True(t, ok)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestAuthenticationMissingToken(t *testing.T) {
	v := &stubValidator{}

	w, c := performAuth(t, v, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
	assert.Empty(t, v.seen)
}

func TestAuthenticationExpiredTokenStatus(t *testing.T) {
	v := &stubValidator{err: appErrors.ErrTokenExpired}

	w, c := performAuth(t, v, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "token", Value: "stale"})
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}
