package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tactache/tactache-api/internal/middleware"
	"github.com/tactache/tactache-api/internal/services"
)

// Services groups what the HTTP layer calls into.
type Services struct {
	Auth     *services.AuthService
	Tasks    *services.TaskService
	Comments *services.CommentService
}

// RegisterRoutes mounts every endpoint on r. Session middleware must
// already be installed.
func RegisterRoutes(r *gin.Engine, svc Services, log *slog.Logger, loc *time.Location) {
	authHandler := NewAuthHandler(svc.Auth, log)
	taskHandler := NewTaskHandler(svc.Tasks, log, loc)
	commentHandler := NewCommentHandler(svc.Comments, log, loc)
	exportHandler := NewExportHandler(svc.Tasks, svc.Auth, log, loc)
	taskAccess := middleware.RequireTaskAccess(svc.Tasks, log)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "TacTâche API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		api.GET("/users", middleware.RequireAuth(), authHandler.ListUsers)
		api.GET("/calendar", middleware.RequireAuth(), taskHandler.Calendar)

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/export", exportHandler.ExportTasks)
			tasks.GET("/:id", taskAccess, taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id/due-date", taskHandler.RescheduleTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.GET("/:id/comments", taskAccess, commentHandler.ListComments)
			tasks.POST("/:id/comments", taskAccess, commentHandler.AddComment)
		}
	}
}
