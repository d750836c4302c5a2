package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayushshivam48/edulytix-api/internal/models"
	"github.com/ayushshivam48/edulytix-api/internal/service"
	"github.com/ayushshivam48/edulytix-api/pkg/config"
)

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = "u-new"
	return nil
}

func (s *stubUserRepo) CreateWithStudent(ctx context.Context, user *models.User, student *models.Student) error {
	user.ID = "u-new"
	return nil
}

func (s *stubUserRepo) CreateWithTeacher(ctx context.Context, user *models.User, teacher *models.Teacher) error {
	user.ID = "u-new"
	return nil
}

type stubStudentRepo struct{}

func (s *stubStudentRepo) FindByEnrollment(ctx context.Context, enrollment string) (*models.Student, error) {
	return nil, sql.ErrNoRows
}

func (s *stubStudentRepo) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	return nil, sql.ErrNoRows
}

type stubTeacherRepo struct{}

func (s *stubTeacherRepo) FindByCode(ctx context.Context, code string) (*models.Teacher, error) {
	return nil, sql.ErrNoRows
}

func (s *stubTeacherRepo) FindByUserID(ctx context.Context, userID string) (*models.Teacher, error) {
	return nil, sql.ErrNoRows
}

func newTestAuthHandler(t *testing.T, password string) *AuthHandler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	users := &stubUserRepo{user: &models.User{
		ID:           "u1",
		Name:         "Asha",
		Email:        "asha@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}}
	jwtCfg := config.JWTConfig{Secret: "test-secret", Expiration: 168 * time.Hour, CookieName: "token", Issuer: "edulytix-api"}
	svc := service.NewAuthService(users, &stubStudentRepo{}, &stubTeacherRepo{}, jwtCfg, zap.NewNop())

	return NewAuthHandler(svc, "token", int(jwtCfg.Expiration.Seconds()), false)
}

func performJSON(t *testing.T, h gin.HandlerFunc, method, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	c.Request = httptest.NewRequest(method, target, &body)
	c.Request.Header.Set("Content-Type", "application/json")

	h(c)
	return w
}

func TestAuthHandlerLoginSetsCookie(t *testing.T) {
	h := newTestAuthHandler(t, "password")

	w := performJSON(t, h.Login, http.MethodPost, "/api/auth/login", models.LoginRequest{
		Email:    "asha@example.com",
		Password: "password",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "token", cookie.Name)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int(168*time.Hour/time.Second), cookie.MaxAge)

	var envelope struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, cookie.Value, envelope.Data.Token)
	assert.Equal(t, "u1", envelope.Data.User.ID)
}

func TestAuthHandlerLoginWrongPasswordNoCookie(t *testing.T) {
	h := newTestAuthHandler(t, "password")

	w := performJSON(t, h.Login, http.MethodPost, "/api/auth/login", models.LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}

func TestAuthHandlerLogoutClearsCookie(t *testing.T) {
	h := newTestAuthHandler(t, "password")

	w := performJSON(t, h.Logout, http.MethodPost, "/api/auth/logout", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestAuthHandlerSignupCreated(t *testing.T) {
	h := newTestAuthHandler(t, "password")

	w := performJSON(t, h.Signup, http.MethodPost, "/api/auth/signup", models.SignupRequest{
		Name:     "Ravi Kumar",
		Email:    "ravi@example.com",
		Password: "secret123",
		Role:     "student",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "ravi@example.com")
	assert.NotContains(t, w.Body.String(), "secret123")
}

func TestAuthHandlerSignupBadBody(t *testing.T) {
	h := newTestAuthHandler(t, "password")

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewBufferString("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Signup(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
