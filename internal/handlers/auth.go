package handlers

import (
	"log/slog"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/tactache/tactache-api/internal/constants"
	"github.com/tactache/tactache-api/internal/dto"
	apierrors "github.com/tactache/tactache-api/internal/errors"
	"github.com/tactache/tactache-api/internal/middleware"
	"github.com/tactache/tactache-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	log         *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

// Register creates a new account. It does not open a session.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		apierrors.RespondWithServiceError(c, h.log, err)
		return
	}

	h.log.InfoContext(c.Request.Context(), "user registered",
		slog.Uint64("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	apierrors.Success(c, dto.ToAccountDTO(*user))
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Identifier: req.UsernameOrEmail,
		Password:   req.Password,
	})
	if err != nil {
		apierrors.RespondWithServiceError(c, h.log, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	session.Set(constants.ContextKeyUserRole, string(user.Role))
	if err := session.Save(); err != nil {
		h.log.ErrorContext(c.Request.Context(), "failed to save session", slog.Any("error", err))
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	apierrors.Success(c, dto.ToAccountDTO(*user))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		h.log.ErrorContext(c.Request.Context(), "failed to clear session", slog.Any("error", err))
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	apierrors.Success(c, nil)
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		apierrors.RespondWithServiceError(c, h.log, err)
		return
	}

	apierrors.Success(c, dto.ToAccountDTO(*user))
}

// ListUsers returns every user for the assignee picker.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		apierrors.RespondWithServiceError(c, h.log, err)
		return
	}

	apierrors.Success(c, dto.ToUserDTOs(users))
}
