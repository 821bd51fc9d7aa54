package handler

import (
	"log/slog"
	"net/http"

	httpmiddleware "pfm/internal/delivery/http/middleware"
	"pfm/internal/delivery/http/response"
	"pfm/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	SessionUC usecase.SessionUsecase
	Logger    *slog.Logger
}

// AuthHandler holds dependencies for session-related handlers
type AuthHandler struct {
	sessionUC usecase.SessionUsecase
	logger    *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		sessionUC: params.SessionUC,
		logger:    params.Logger,
	}
}

// CreateSessionRequest carries the identity-provider ID token obtained
// by the client during sign-in.
type CreateSessionRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// RefreshRequest carries the refresh token being rotated.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// PasswordResetRequest carries the email to send a reset link to.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// CreateSession exchanges a verified ID token for a session token pair.
func (h *AuthHandler) CreateSession(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid session input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	session, err := h.sessionUC.ExchangeIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, session, "Session created successfully")
}

// Refresh rotates the session token pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	session, err := h.sessionUC.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, session, "Session refreshed successfully")
}

// PasswordReset dispatches a password reset link via the identity provider.
func (h *AuthHandler) PasswordReset(c echo.Context) error {
	var req PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password reset input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if _, err := h.sessionUC.PasswordReset(c.Request().Context(), req.Email); err != nil {
		return response.HandleAppError(c, err)
	}

	// The link itself is only ever delivered by email.
	return response.Success(c, http.StatusOK, nil, "Password reset email sent")
}

// Logout tears down the caller's server-side session state.
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	if err := h.sessionUC.Logout(c.Request().Context(), userID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Logged out successfully")
}

// getUserID extracts the authenticated user ID from the context.
func getUserID(c echo.Context) (string, error) {
	userID, ok := c.Get(httpmiddleware.ContextKeyUserID).(string)
	if !ok || userID == "" {
		return "", response.Unauthorized(c, "INVALID_TOKEN", "User ID missing from token")
	}

	return userID, nil
}
