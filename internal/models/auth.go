package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignupRequest carries account creation data plus role-specific identity fields.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin teacher student"`

	Phone   string `json:"phone" validate:"omitempty"`
	DOB     string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Address string `json:"address"`

	// Student identity fields.
	Enrollment string `json:"enrollment"`
	Course     string `json:"course"`
	Semester   int    `json:"semester" validate:"omitempty,min=1"`

	// Teacher identity fields.
	TeacherID      string `json:"teacherId"`
	Specialization string `json:"specification"`
}

// LoginRequest holds credentials for authenticating a user. Exactly one of
// Email or Identifier must be supplied; Identifier may be an email, a student
// enrollment number, or a teacher ID.
type LoginRequest struct {
	Email        string `json:"email" validate:"omitempty"`
	Identifier   string `json:"identifier" validate:"omitempty"`
	Password     string `json:"password" validate:"required,min=6"`
	SelectedRole string `json:"selectedRole" validate:"omitempty,oneof=admin teacher student"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"`
	IssuedAt  time.Time `json:"issued_at"`
	User      UserInfo  `json:"user"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// MeResponse describes the authenticated account with its role identity. It
// is assembled from a fresh store read, not from token claims.
type MeResponse struct {
	User    UserInfo `json:"user"`
	Student *Student `json:"student,omitempty"`
	Teacher *Teacher `json:"teacher,omitempty"`
}

// JWTClaims represents the JWT payload for session tokens. Role is trusted as
// of issuance time; it is not re-checked against the account on every request.
type JWTClaims struct {
	UserID string   `json:"userId"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}
