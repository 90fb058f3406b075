// Package api exposes the quiz over HTTP.
package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/mcqbot/internal/api/handler"
	"github.com/abhisek/mcqbot/internal/api/middleware"
	"github.com/abhisek/mcqbot/internal/store"
)

// Deps are the collaborators behind the routes.
type Deps struct {
	Questions handler.QuestionService
	Users     store.UserRepo
	Stats     store.StatsRepo
	Logger    *slog.Logger
	Version   string
}

// NewRouter sets up all API routes.
func NewRouter(deps Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(logger))

	healthHandler := handler.NewHealthHandler(deps.Version)
	userHandler := handler.NewUserHandler(deps.Users, deps.Stats, logger)
	questionHandler := handler.NewQuestionHandler(deps.Questions, deps.Users, logger)

	router.GET("/health", healthHandler.Check)

	api := router.Group("/api")
	{
		api.GET("/topics", handler.ListTopics)
		api.POST("/users", userHandler.Register)
	}

	users := router.Group("/api/users/:id")
	{
		users.GET("/preferences", userHandler.GetPreferences)
		users.PUT("/preferences", userHandler.UpdatePreferences)
		users.PUT("/active", userHandler.SetActive)
		users.GET("/stats", userHandler.GetStats)
		users.DELETE("/stats", userHandler.ResetStats)

		users.POST("/questions", questionHandler.RequestQuestion)
		users.GET("/question", questionHandler.ActiveQuestion)
		users.POST("/answers", questionHandler.SubmitAnswer)
	}

	return router
}
