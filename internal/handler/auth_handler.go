package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayushshivam48/edulytix-api/internal/middleware"
	"github.com/ayushshivam48/edulytix-api/internal/models"
	"github.com/ayushshivam48/edulytix-api/internal/service"
	appErrors "github.com/ayushshivam48/edulytix-api/pkg/errors"
	"github.com/ayushshivam48/edulytix-api/pkg/response"
)

// AuthHandler serves signup, login, logout and session introspection.
type AuthHandler struct {
	auth         *service.AuthService
	cookieName   string
	cookieMaxAge int
	cookieSecure bool
}

// NewAuthHandler creates a new instance of AuthHandler.
func NewAuthHandler(auth *service.AuthService, cookieName string, cookieMaxAge int, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		cookieName:   cookieName,
		cookieMaxAge: cookieMaxAge,
		cookieSecure: cookieSecure,
	}
}

// Signup godoc
// @Summary Register an account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.SignupRequest true "Signup payload"
// @Success 201 {object} response.Envelope{data=models.User}
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, user)
}

// Login godoc
// @Summary Authenticate and start a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope{data=models.LoginResponse}
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, result.Token, h.cookieMaxAge, "/", "", h.cookieSecure, true)

	response.JSON(c, http.StatusOK, result, nil)
}

// Logout godoc
// @Summary End the current session
// @Tags auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", h.cookieSecure, true)

	response.JSON(c, http.StatusOK, gin.H{"ok": true}, nil)
}

// Me godoc
// @Summary Return the authenticated account
// @Tags auth
// @Produce json
// @Success 200 {object} response.Envelope{data=models.MeResponse}
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	me, err := h.auth.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, me, nil)
}
