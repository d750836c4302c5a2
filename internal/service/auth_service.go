package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayushshivam48/edulytix-api/internal/models"
	"github.com/ayushshivam48/edulytix-api/pkg/config"
	appErrors "github.com/ayushshivam48/edulytix-api/pkg/errors"
)

// AuthUserRepository defines the account operations needed by AuthService.
type AuthUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	CreateWithStudent(ctx context.Context, user *models.User, student *models.Student) error
	CreateWithTeacher(ctx context.Context, user *models.User, teacher *models.Teacher) error
}

// AuthStudentRepository resolves student identities during login.
type AuthStudentRepository interface {
	FindByEnrollment(ctx context.Context, enrollment string) (*models.Student, error)
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

// AuthTeacherRepository resolves teacher identities during login.
type AuthTeacherRepository interface {
	FindByCode(ctx context.Context, code string) (*models.Teacher, error)
	FindByUserID(ctx context.Context, userID string) (*models.Teacher, error)
}

// AuthService implements signup, login, token validation and session
// introspection.
type AuthService struct {
	users    AuthUserRepository
	students AuthStudentRepository
	teachers AuthTeacherRepository
	jwtCfg   config.JWTConfig
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(users AuthUserRepository, students AuthStudentRepository, teachers AuthTeacherRepository, jwtCfg config.JWTConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:    users,
		students: students,
		teachers: teachers,
		jwtCfg:   jwtCfg,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// Signup registers an account. Students and teachers get their identity row
// created in the same transaction as the account; a missing enrollment or
// teacher ID is backfilled with a TEMP placeholder an admin can correct later.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	role := models.UserRole(req.Role)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         role,
	}

	dob, err := parseOptionalDate(req.DOB)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid dob")
	}

	switch role {
	case models.RoleStudent:
		enrollment := strings.ToUpper(strings.TrimSpace(req.Enrollment))
		if enrollment == "" {
			enrollment = tempIdentifier()
		}
		course := strings.TrimSpace(req.Course)
		if course == "" {
			course = "B.Tech"
		}
		semester := req.Semester
		if semester < 1 {
			semester = 1
		}
		student := &models.Student{
			Enrollment: enrollment,
			Course:     course,
			Semester:   semester,
			Phone:      optionalString(req.Phone),
			Address:    optionalString(req.Address),
			DOB:        dob,
		}
		if err := s.users.CreateWithStudent(ctx, user, student); err != nil {
			return nil, err
		}
	case models.RoleTeacher:
		code := strings.ToUpper(strings.TrimSpace(req.TeacherID))
		if code == "" {
			code = tempIdentifier()
		}
		teacher := &models.Teacher{
			TeacherCode:    code,
			Specialization: optionalString(req.Specialization),
			Phone:          optionalString(req.Phone),
			Address:        optionalString(req.Address),
			DOB:            dob,
		}
		if err := s.users.CreateWithTeacher(ctx, user, teacher); err != nil {
			return nil, err
		}
	default:
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	s.logger.Info("account created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Login resolves the credentials, verifies the password and issues a session
// token. The email field wins when both email and identifier are supplied.
// Identifier resolution order is fixed: email, then student enrollment, then
// teacher ID. All resolution and password failures collapse into the same
// invalid-credentials error.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	email := strings.TrimSpace(req.Email)
	identifier := strings.TrimSpace(req.Identifier)
	lookup := email
	if lookup == "" {
		lookup = identifier
	}
	if lookup == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email or identifier is required")
	}

	user, err := s.resolveUser(ctx, lookup)
	if err != nil {
		return nil, err
	}

	// A supplied identifier must equal the account's own enrollment or
	// teacher ID, even when it resolved through the email path.
	if identifier != "" {
		if err := s.verifyIdentifier(ctx, user, identifier); err != nil {
			return nil, err
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	// Role selection is checked only after the password verifies.
	if req.SelectedRole != "" && models.UserRole(req.SelectedRole) != user.Role {
		return nil, appErrors.Clone(appErrors.ErrRoleMismatch, roleMismatchMessage(user.Role))
	}

	token, issuedAt, err := s.issueToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("login succeeded", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.jwtCfg.Expiration.Seconds()),
		IssuedAt:  issuedAt,
		User: models.UserInfo{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

// resolveUser maps an identifier onto an account. A student enrollment must
// belong to a student account and a teacher ID to a teacher account; a match
// in the wrong table reads as no match at all.
func (s *AuthService) resolveUser(ctx context.Context, identifier string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resolve by email: %w", err)
	}

	student, err := s.students.FindByEnrollment(ctx, identifier)
	if err == nil {
		owner, err := s.users.FindByID(ctx, student.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.ErrInvalidCredentials
			}
			return nil, fmt.Errorf("resolve student account: %w", err)
		}
		if owner.Role != models.RoleStudent {
			return nil, appErrors.ErrInvalidCredentials
		}
		return owner, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resolve by enrollment: %w", err)
	}

	teacher, err := s.teachers.FindByCode(ctx, identifier)
	if err == nil {
		owner, err := s.users.FindByID(ctx, teacher.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.ErrInvalidCredentials
			}
			return nil, fmt.Errorf("resolve teacher account: %w", err)
		}
		if owner.Role != models.RoleTeacher {
			return nil, appErrors.ErrInvalidCredentials
		}
		return owner, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resolve by teacher code: %w", err)
	}

	return nil, appErrors.ErrInvalidCredentials
}

// verifyIdentifier cross-checks a login identifier against the role identity
// of the resolved account. Students must present their enrollment and teachers
// their teacher ID; anything else reads as bad credentials. Admin accounts
// carry no role identity and skip the check.
func (s *AuthService) verifyIdentifier(ctx context.Context, user *models.User, identifier string) error {
	switch user.Role {
	case models.RoleStudent:
		student, err := s.students.FindByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.ErrInvalidCredentials
			}
			return fmt.Errorf("load student identity: %w", err)
		}
		if !strings.EqualFold(student.Enrollment, identifier) {
			return appErrors.ErrInvalidCredentials
		}
	case models.RoleTeacher:
		teacher, err := s.teachers.FindByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.ErrInvalidCredentials
			}
			return fmt.Errorf("load teacher identity: %w", err)
		}
		if !strings.EqualFold(teacher.TeacherCode, identifier) {
			return appErrors.ErrInvalidCredentials
		}
	}
	return nil
}

// ValidateToken parses and verifies a session token, returning its claims.
// Expired tokens surface ErrTokenExpired; everything else is ErrUnauthorized.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtCfg.Secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.ErrTokenExpired
		}
		return nil, appErrors.ErrUnauthorized
	}
	if !token.Valid || !claims.Role.Valid() {
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}

// Me returns the authenticated account from a fresh store read together with
// its role identity, if any. A deleted account reads as an invalid session.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.MeResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	resp := &models.MeResponse{
		User: models.UserInfo{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}

	switch user.Role {
	case models.RoleStudent:
		student, err := s.students.FindByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("load student identity: %w", err)
		}
		resp.Student = student
	case models.RoleTeacher:
		teacher, err := s.teachers.FindByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("load teacher identity: %w", err)
		}
		resp.Teacher = teacher
	}

	return resp, nil
}

func (s *AuthService) issueToken(user *models.User) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	claims := models.JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtCfg.Issuer,
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.jwtCfg.Expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}

func roleMismatchMessage(actual models.UserRole) string {
	switch actual {
	case models.RoleStudent:
		return `Please select "Student" role to login with student credentials`
	case models.RoleTeacher:
		return `Please select "Teacher" role to login with teacher credentials`
	case models.RoleAdmin:
		return `Please select "Admin" role to login with admin credentials`
	default:
		return "invalid role selection"
	}
}

func tempIdentifier() string {
	return "TEMP-" + strings.ToUpper(uuid.NewString()[:8])
}

func optionalString(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseOptionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
