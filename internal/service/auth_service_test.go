package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayushshivam48/edulytix-api/internal/models"
	"github.com/ayushshivam48/edulytix-api/pkg/config"
	appErrors "github.com/ayushshivam48/edulytix-api/pkg/errors"
)

type mockUserRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User

	createdUser    *models.User
	createdStudent *models.Student
	createdTeacher *models.Teacher
	createErr      error
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.byEmail[strings.ToLower(email)]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.byID[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "u-new"
	m.createdUser = user
	return nil
}

func (m *mockUserRepo) CreateWithStudent(ctx context.Context, user *models.User, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "u-new"
	m.createdUser = user
	m.createdStudent = student
	return nil
}

func (m *mockUserRepo) CreateWithTeacher(ctx context.Context, user *models.User, teacher *models.Teacher) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "u-new"
	m.createdUser = user
	m.createdTeacher = teacher
	return nil
}

type mockStudentRepo struct {
	byEnrollment map[string]*models.Student
	byUserID     map[string]*models.Student
}

func (m *mockStudentRepo) FindByEnrollment(ctx context.Context, enrollment string) (*models.Student, error) {
	if student, ok := m.byEnrollment[strings.ToUpper(enrollment)]; ok {
		return student, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	if student, ok := m.byUserID[userID]; ok {
		return student, nil
	}
	return nil, sql.ErrNoRows
}

type mockTeacherRepo struct {
	byCode   map[string]*models.Teacher
	byUserID map[string]*models.Teacher
}

func (m *mockTeacherRepo) FindByCode(ctx context.Context, code string) (*models.Teacher, error) {
	if teacher, ok := m.byCode[strings.ToUpper(code)]; ok {
		return teacher, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) FindByUserID(ctx context.Context, userID string) (*models.Teacher, error) {
	if teacher, ok := m.byUserID[userID]; ok {
		return teacher, nil
	}
	return nil, sql.ErrNoRows
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:     "test-secret",
		Expiration: 168 * time.Hour,
		CookieName: "token",
		Issuer:     "edulytix-api",
	}
}

func newTestAuthService(users *mockUserRepo, students *mockStudentRepo, teachers *mockTeacherRepo) *AuthService {
	if users == nil {
		users = &mockUserRepo{}
	}
	if students == nil {
		students = &mockStudentRepo{}
	}
	if teachers == nil {
		teachers = &mockTeacherRepo{}
	}
	return NewAuthService(users, students, teachers, testJWTConfig(), zap.NewNop())
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthServiceLoginByEmail(t *testing.T) {
	user := &models.User{ID: "u1", Name: "Asha", Email: "asha@example.com", PasswordHash: hashOf(t, "password"), Role: models.RoleAdmin}
	users := &mockUserRepo{byEmail: map[string]*models.User{"asha@example.com": user}, byID: map[string]*models.User{"u1": user}}
	svc := newTestAuthService(users, nil, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "asha@example.com", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, int64(168*3600), res.ExpiresIn)
	assert.Equal(t, "u1", res.User.ID)
	assert.Equal(t, models.RoleAdmin, res.User.Role)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceLoginByEnrollmentCaseInsensitive(t *testing.T) {
	user := &models.User{ID: "u2", Email: "ravi@example.com", PasswordHash: hashOf(t, "password"), Role: models.RoleStudent}
	users := &mockUserRepo{byID: map[string]*models.User{"u2": user}}
	student := &models.Student{ID: "s1", UserID: "u2", Enrollment: "EN2024001"}
	students := &mockStudentRepo{
		byEnrollment: map[string]*models.Student{"EN2024001": student},
		byUserID:     map[string]*models.Student{"u2": student},
	}
	svc := newTestAuthService(users, students, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "en2024001", Password: "password", SelectedRole: "student"})
	require.NoError(t, err)
	assert.Equal(t, "u2", res.User.ID)
}

func TestAuthServiceLoginByTeacherCode(t *testing.T) {
	user := &models.User{ID: "u3", Email: "meera@example.com", PasswordHash: hashOf(t, "password"), Role: models.RoleTeacher}
	users := &mockUserRepo{byID: map[string]*models.User{"u3": user}}
	teacher := &models.Teacher{ID: "t1", UserID: "u3", TeacherCode: "TCH-42"}
	teachers := &mockTeacherRepo{
		byCode:   map[string]*models.Teacher{"TCH-42": teacher},
		byUserID: map[string]*models.Teacher{"u3": teacher},
	}
	svc := newTestAuthService(users, nil, teachers)

	res, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "tch-42", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, res.User.Role)
}

func TestAuthServiceLoginIdentifierMustMatchEnrollment(t *testing.T) {
	user := &models.User{ID: "u2", Email: "ravi@example.com", PasswordHash: hashOf(t, "password"), Role: models.RoleStudent}
	users := &mockUserRepo{byEmail: map[string]*models.User{"ravi@example.com": user}, byID: map[string]*models.User{"u2": user}}
	student := &models.Student{ID: "s1", UserID: "u2", Enrollment: "EN2024001"}
	students := &mockStudentRepo{
		byEnrollment: map[string]*models.Student{"EN2024001": student},
		byUserID:     map[string]*models.Student{"u2": student},
	}
	svc := newTestAuthService(users, students, nil)

	// The student's own email resolves the account, but an identifier login
	// only passes when it equals the enrollment.
	_, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "ravi@example.com", Password: "password"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginIdentifierMustMatchTeacherCode(t *testing.T) {
	user := &models.User{ID: "u3", Email: "meera@example.com", PasswordHash: hashOf(t, "password"), Role: models.RoleTeacher}
	users := &mockUserRepo{byEmail: map[string]*models.User{"meera@example.com": user}, byID: map[string]*models.User{"u3": user}}
	teacher := &models.Teacher{ID: "t1", UserID: "u3", TeacherCode: "TCH-42"}
	teachers := &mockTeacherRepo{
		byCode:   map[string]*models.Teacher{"TCH-42": teacher},
		byUserID: map[string]*models.Teacher{"u3": teacher},
	}
	svc := newTestAuthService(users, nil, teachers)

	_, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "meera@example.com", Password: "password"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginEnrollmentWithWrongSelectedRole(t *testing.T) {
	user := &models.User{ID: "u2", Email: "ravi@example.com", PasswordHash: hashOf(t, "password"), Role: models.RoleStudent}
	users := &mockUserRepo{byID: map[string]*models.User{"u2": user}}
	student := &models.Student{ID: "s1", UserID: "u2", Enrollment: "EN2024001"}
	students := &mockStudentRepo{
		byEnrollment: map[string]*models.Student{"EN2024001": student},
		byUserID:     map[string]*models.Student{"u2": student},
	}
	svc := newTestAuthService(users, students, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "EN2024001", Password: "password", SelectedRole: "teacher"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrRoleMismatch.Code, appErr.Code)
	assert.Equal(t, `Please select "Student" role to login with student credentials`, appErr.Message)
}

func TestAuthServiceLoginEmailWinsOverIdentifier(t *testing.T) {
	user := &models.User{ID: "u1", Email: "asha@example.com", PasswordHash: hashOf(t, "password"), Role: models.RoleAdmin}
	users := &mockUserRepo{byEmail: map[string]*models.User{"asha@example.com": user}}
	svc := newTestAuthService(users, nil, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Email:      "asha@example.com",
		Identifier: "no-such-enrollment",
		Password:   "password",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", res.User.ID)
}

func TestAuthServiceLoginRoleMismatchMessage(t *testing.T) {
	user := &models.User{ID: "u2", Email: "ravi@example.com", PasswordHash: hashOf(t, "password"), Role: models.RoleStudent}
	users := &mockUserRepo{byEmail: map[string]*models.User{"ravi@example.com": user}}
	svc := newTestAuthService(users, nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ravi@example.com", Password: "password", SelectedRole: "teacher"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrRoleMismatch.Code, appErr.Code)
	assert.Equal(t, `Please select "Student" role to login with student credentials`, appErr.Message)
}

func TestAuthServiceLoginRoleMismatchRequiresCorrectPassword(t *testing.T) {
	user := &models.User{ID: "u2", Email: "ravi@example.com", PasswordHash: hashOf(t, "password"), Role: models.RoleStudent}
	users := &mockUserRepo{byEmail: map[string]*models.User{"ravi@example.com": user}}
	svc := newTestAuthService(users, nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ravi@example.com", Password: "wrong-password", SelectedRole: "teacher"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginUnknownIdentifier(t *testing.T) {
	svc := newTestAuthService(nil, nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "nobody", Password: "password"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	user := &models.User{ID: "u1", Email: "asha@example.com", PasswordHash: hashOf(t, "password"), Role: models.RoleAdmin}
	users := &mockUserRepo{byEmail: map[string]*models.User{"asha@example.com": user}}
	svc := newTestAuthService(users, nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "asha@example.com", Password: "nope-nope"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceValidateTokenExpired(t *testing.T) {
	user := &models.User{ID: "u1", Email: "asha@example.com", PasswordHash: hashOf(t, "password"), Role: models.RoleAdmin}
	users := &mockUserRepo{byEmail: map[string]*models.User{"asha@example.com": user}}
	svc := newTestAuthService(users, nil, nil)
	svc.now = func() time.Time { return time.Now().Add(-200 * time.Hour) }

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "asha@example.com", Password: "password"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.Token)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrTokenExpired.Code, appErr.Code)
}

func TestAuthServiceValidateTokenGarbage(t *testing.T) {
	svc := newTestAuthService(nil, nil, nil)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthServiceSignupStudentDefaults(t *testing.T) {
	users := &mockUserRepo{}
	svc := newTestAuthService(users, nil, nil)

	user, err := svc.Signup(context.Background(), models.SignupRequest{
		Name:     "Ravi Kumar",
		Email:    "Ravi@Example.com",
		Password: "secret123",
		Role:     "student",
	})
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", user.Email)
	assert.Equal(t, models.RoleStudent, user.Role)

	require.NotNil(t, users.createdStudent)
	assert.Equal(t, "B.Tech", users.createdStudent.Course)
	assert.Equal(t, 1, users.createdStudent.Semester)
	assert.True(t, strings.HasPrefix(users.createdStudent.Enrollment, "TEMP-"))

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
}

func TestAuthServiceSignupTeacherUppercasesCode(t *testing.T) {
	users := &mockUserRepo{}
	svc := newTestAuthService(users, nil, nil)

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		Name:      "Meera Iyer",
		Email:     "meera@example.com",
		Password:  "secret123",
		Role:      "teacher",
		TeacherID: "tch-42",
	})
	require.NoError(t, err)
	require.NotNil(t, users.createdTeacher)
	assert.Equal(t, "TCH-42", users.createdTeacher.TeacherCode)
}

func TestAuthServiceSignupRejectsInvalidRole(t *testing.T) {
	svc := newTestAuthService(nil, nil, nil)

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		Name:     "Nobody",
		Email:    "nobody@example.com",
		Password: "secret123",
		Role:     "superuser",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAuthServiceMeFreshRead(t *testing.T) {
	user := &models.User{ID: "u2", Name: "Ravi", Email: "ravi@example.com", Role: models.RoleStudent}
	users := &mockUserRepo{byID: map[string]*models.User{"u2": user}}
	students := &mockStudentRepo{byUserID: map[string]*models.Student{"u2": {ID: "s1", UserID: "u2", Enrollment: "EN2024001"}}}
	svc := newTestAuthService(users, students, nil)

	me, err := svc.Me(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", me.User.Email)
	require.NotNil(t, me.Student)
	assert.Equal(t, "EN2024001", me.Student.Enrollment)
}

func TestAuthServiceMeDeletedAccount(t *testing.T) {
	svc := newTestAuthService(nil, nil, nil)

	_, err := svc.Me(context.Background(), "gone")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}
