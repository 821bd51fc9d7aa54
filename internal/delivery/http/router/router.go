// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"pfm/internal/delivery/http/middleware"
	"pfm/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler         *handler.AuthHandler
	DeviceHandler       *handler.DeviceHandler
	NotificationHandler *handler.NotificationHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler         *handler.AuthHandler
	deviceHandler       *handler.DeviceHandler
	notificationHandler *handler.NotificationHandler
	authMiddleware      *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:         params.AuthHandler,
		deviceHandler:       params.DeviceHandler,
		notificationHandler: params.NotificationHandler,
		authMiddleware:      params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/session", r.authHandler.CreateSession)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/password-reset", r.authHandler.PasswordReset)
		authGroup.POST("/logout", r.authHandler.Logout, r.authMiddleware.Authenticate)
	}

	// API routes that require authentication
	apiGroup := e.Group("/api")
	apiGroup.Use(r.authMiddleware.Authenticate) // Apply JWT authentication middleware
	{
		apiGroup.GET("/devices", r.deviceHandler.ListDevices)
		apiGroup.POST("/devices", r.deviceHandler.RegisterDevice)
		apiGroup.POST("/devices/pair", r.deviceHandler.PairDevice)
		apiGroup.GET("/devices/:id/qr", r.deviceHandler.PairingQR)
		apiGroup.PATCH("/devices/:id/settings", r.deviceHandler.UpdateSettings)
		apiGroup.POST("/devices/:id/touch", r.deviceHandler.SetTouchControl)
		apiGroup.POST("/devices/:id/timer/start", r.deviceHandler.StartTimer)
		apiGroup.POST("/devices/:id/timer/stop", r.deviceHandler.StopTimer)
		apiGroup.GET("/devices/:id/timer", r.deviceHandler.TimerStatus)
		apiGroup.POST("/devices/:id/schedules", r.deviceHandler.AddSchedule)
		apiGroup.DELETE("/devices/:id/schedules/:sid", r.deviceHandler.RemoveSchedule)
		apiGroup.POST("/devices/:id/schedules/:sid/toggle", r.deviceHandler.ToggleSchedule)

		apiGroup.POST("/notifications/token", r.notificationHandler.RegisterToken)
	}
}
