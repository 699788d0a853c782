// Package router wires the API handlers to their routes.
package router

import (
	"estate/internal/delivery/api/middleware"
	"estate/internal/delivery/api/router/handler"
	"estate/internal/domain/entity"
	"estate/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// APIPrefix is the path prefix of every JSON route.
const APIPrefix = "/api"

type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	AdminHandler    *handler.AdminHandler
	PropertyHandler *handler.PropertyHandler
	AuthMiddleware  *middleware.AuthMiddleware
	Recorder        *metrics.Recorder `optional:"true"`
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler     *handler.AuthHandler
	adminHandler    *handler.AdminHandler
	propertyHandler *handler.PropertyHandler
	authMiddleware  *middleware.AuthMiddleware
	recorder        *metrics.Recorder
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:     params.AuthHandler,
		adminHandler:    params.AdminHandler,
		propertyHandler: params.PropertyHandler,
		authMiddleware:  params.AuthMiddleware,
		recorder:        params.Recorder,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	if r.recorder != nil {
		e.GET("/metrics", echo.WrapHandler(r.recorder.Handler()))
	}

	api := e.Group(APIPrefix)
	api.GET("/health", handler.HealthCheck)

	userGroup := api.Group("/user")
	{
		userGroup.POST("/signup", r.authHandler.Signup)
		userGroup.POST("/verify/:token", r.authHandler.VerifyEmail)
		userGroup.GET("/verify/:token", r.authHandler.VerifyEmail)
		userGroup.POST("/login", r.authHandler.Login)
		userGroup.POST("/verify-otp", r.authHandler.VerifyOTP)
		userGroup.POST("/resend-otp", r.authHandler.ResendOTP)
		userGroup.POST("/refresh-token", r.authHandler.RefreshToken)
		userGroup.POST("/logout", r.authHandler.Logout)
		userGroup.GET("/me", r.authHandler.Me, r.authMiddleware.Authenticate)
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
	{
		adminGroup.GET("/agents", r.adminHandler.ListAgents)
		adminGroup.PATCH("/agents/:id/approve", r.adminHandler.ApproveAgent)
		adminGroup.PATCH("/agents/:id/reject", r.adminHandler.RejectAgent)
		adminGroup.GET("/properties", r.adminHandler.ListProperties)
		adminGroup.PATCH("/properties/:id/approve", r.adminHandler.ApproveProperty)
		adminGroup.PATCH("/properties/:id/reject", r.adminHandler.RejectProperty)
	}

	agentOnly := []echo.MiddlewareFunc{
		r.authMiddleware.Authenticate,
		r.authMiddleware.RequireRole(entity.RoleAgent),
		r.authMiddleware.RequireApproved,
	}
	propertyGroup := api.Group("/properties")
	{
		propertyGroup.POST("", r.propertyHandler.Create, agentOnly...)
		propertyGroup.GET("/mine", r.propertyHandler.ListMine, agentOnly...)
		propertyGroup.PUT("/:id", r.propertyHandler.Update, agentOnly...)
		propertyGroup.GET("/:id", r.propertyHandler.Get)
		propertyGroup.GET("/:id/qr", r.propertyHandler.ShareQR)
	}
}
