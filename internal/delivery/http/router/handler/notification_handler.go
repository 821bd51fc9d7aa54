package handler

import (
	"log/slog"
	"net/http"

	"pfm/internal/delivery/http/response"
	"pfm/internal/usecase"

	"github.com/labstack/echo/v4"
)

// NotificationHandler holds dependencies for notification-related handlers
type NotificationHandler struct {
	uc     usecase.NotificationUsecase
	logger *slog.Logger
}

// NewNotificationHandler is the constructor for NotificationHandler
func NewNotificationHandler(uc usecase.NotificationUsecase, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		uc:     uc,
		logger: logger,
	}
}

// RegisterTokenRequest carries the push token issued to the client app
type RegisterTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// RegisterToken stores a push token so feeding alerts reach this client.
func (h *NotificationHandler) RegisterToken(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req RegisterTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid token input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if err := h.uc.RegisterToken(c.Request().Context(), userID, req.Token); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Notification token registered successfully")
}
