package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ayushshivam48/edulytix-api/internal/models"
)

func performWithClaims(t *testing.T, claims *models.JWTClaims, params gin.Params, handlers ...gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = params
	if claims != nil {
		c.Set(ContextUserKey, claims)
	}

	for _, h := range handlers {
		h(c)
		if c.IsAborted() {
			break
		}
	}
	return w
}

func TestRequireRolesAllows(t *testing.T) {
	var reached bool
	w := performWithClaims(t,
		&models.JWTClaims{UserID: "u1", Role: models.RoleAdmin},
		nil,
		RequireRoles(models.RoleAdmin, models.RoleTeacher),
		func(c *gin.Context) { reached = true; c.Status(http.StatusOK) },
	)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesForbids(t *testing.T) {
	var reached bool
	w := performWithClaims(t,
		&models.JWTClaims{UserID: "u1", Role: models.RoleStudent},
		nil,
		RequireRoles(models.RoleAdmin),
		func(c *gin.Context) { reached = true },
	)

	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesUnauthenticated(t *testing.T) {
	w := performWithClaims(t, nil, nil, RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSelfOrRolesSelfMatch(t *testing.T) {
	var reached bool
	w := performWithClaims(t,
		&models.JWTClaims{UserID: "u1", Role: models.RoleStudent},
		gin.Params{{Key: "id", Value: "u1"}},
		RequireSelfOrRoles("id", models.RoleAdmin),
		func(c *gin.Context) { reached = true; c.Status(http.StatusOK) },
	)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireSelfOrRolesOtherUserForbidden(t *testing.T) {
	w := performWithClaims(t,
		&models.JWTClaims{UserID: "u1", Role: models.RoleStudent},
		gin.Params{{Key: "id", Value: "u2"}},
		RequireSelfOrRoles("id", models.RoleAdmin),
	)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireSelfOrRolesAdminBypass(t *testing.T) {
	var reached bool
	performWithClaims(t,
		&models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin},
		gin.Params{{Key: "id", Value: "u2"}},
		RequireSelfOrRoles("id", models.RoleAdmin),
		func(c *gin.Context) { reached = true },
	)

	assert.True(t, reached)
}
