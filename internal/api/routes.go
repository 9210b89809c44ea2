package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/profitpilotai/controlplane/internal/middleware"
	"github.com/profitpilotai/controlplane/internal/service"
	"github.com/profitpilotai/controlplane/internal/ws"
)

func SetupRoutes(r *gin.Engine, sessions service.SessionService, admin service.AdminService, settings service.SettingsService, bots *service.BotService, audit service.AuditService, wsHandler *ws.Handler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	authHandler := NewAuthHandler(sessions, audit)
	adminHandler := NewAdminHandler(admin, audit)
	settingsHandler := NewSettingsHandler(settings, audit)
	botHandler := NewBotHandler(bots, audit)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "controlplane"})
	})

	r.StaticFile("/docs/swagger.json", "./docs/swagger.json")
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/docs/swagger.json")))

	r.POST("/auth/login", authHandler.Login)

	authed := r.Group("/").Use(middleware.AuthMiddleware(sessions))
	{
		authed.GET("/auth/me", authHandler.Me)
		authed.POST("/auth/logout", authHandler.Logout)

		authed.GET("/pairs", settingsHandler.GetPairs)
		authed.GET("/user/settings", settingsHandler.GetSettings)
		authed.POST("/user/settings", settingsHandler.SaveSettings)

		authed.POST("/bot/start", botHandler.Start)
		authed.POST("/bot/pause", botHandler.Pause)
		authed.POST("/bot/stop", botHandler.Stop)
		authed.GET("/bot/status", botHandler.Status)

		authed.GET("/ws/:login_id", wsHandler.HandleConnection)
	}

	adminGroup := r.Group("/admin").Use(middleware.AuthMiddleware(sessions), middleware.AdminMiddleware())
	{
		adminGroup.GET("/users", adminHandler.ListUsers)
		adminGroup.POST("/users", adminHandler.CreateUser)
		adminGroup.PUT("/users/:login_id", adminHandler.UpdateUser)
		adminGroup.DELETE("/users/:login_id", adminHandler.DeleteUser)
		adminGroup.GET("/logs", adminHandler.ListLogs)
	}
}
