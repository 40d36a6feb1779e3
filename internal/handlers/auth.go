package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/seowalex/cvwo/internal/auth"
	dom "github.com/seowalex/cvwo/internal/domain"
	"github.com/seowalex/cvwo/internal/dto"
	"github.com/seowalex/cvwo/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles login, register and logout.
type AuthHandler struct {
	tokens   *auth.TokenManager
	resolver *auth.TokenResolver
	userSvc  *service.UserService
	log      *slog.Logger
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(tokens *auth.TokenManager, resolver *auth.TokenResolver, userSvc *service.UserService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{tokens: tokens, resolver: resolver, userSvc: userSvc, log: log}
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.TokenResponse
// @Failure      400   {object}  dto.ErrorDocument
// @Failure      401   {object}  dto.ErrorDocument
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := bindDocument(c, &req); err != nil {
		writeError(c, h.log, err)
		return
	}
	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeErrors(c, http.StatusUnauthorized, dto.NewError(http.StatusUnauthorized, "invalid email or password"))
			return
		}
		writeError(c, h.log, err)
		return
	}
	h.issue(c, http.StatusOK, user)
}

// Register godoc
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Credentials"
// @Success      201   {object}  dto.TokenResponse
// @Failure      400   {object}  dto.ErrorDocument
// @Failure      409   {object}  dto.ErrorDocument
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := bindDocument(c, &req); err != nil {
		writeError(c, h.log, err)
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(c, h.log, dom.NewFieldError("email", "and password are required"))
		case errors.Is(err, service.ErrEmailTaken):
			writeErrors(c, http.StatusConflict, dto.NewError(http.StatusConflict, "email already registered"))
		default:
			writeError(c, h.log, err)
		}
		return
	}
	h.log.InfoContext(c.Request.Context(), "user registered", "user_id", user.ID)
	h.issue(c, http.StatusCreated, user)
}

func (h *AuthHandler) issue(c *gin.Context, status int, user dom.User) {
	token, claims, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(status, dto.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: claims.ExpiresAt.Time,
		User:      dto.UserResponse{ID: user.ID, Email: user.Email, Name: user.Name},
	})
}

// Logout godoc
// @Summary      Logout, revoking the bearer token
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  dto.ErrorDocument
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.resolver.Revoke(c.Request.Context(), identity(c)); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
