package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/ayush17112005/TaskWiseAI/api/handler"
)

type Handlers struct {
	Auth         *apiHandler.AuthHandler
	Team         *apiHandler.TeamHandler
	Project      *apiHandler.ProjectHandler
	Task         *apiHandler.TaskHandler
	Analytics    *apiHandler.AnalyticsHandler
	AI           *apiHandler.AIHandler
	Notification *apiHandler.NotificationHandler
	Health       *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)
	r.POST("/api/v1/auth/logout", handlers.Auth.Logout)
	r.GET("/api/v1/auth/profile", authMiddleware(handlers.Auth.Profile))
	r.PUT("/api/v1/auth/profile", authMiddleware(handlers.Auth.UpdateProfile))
	r.PUT("/api/v1/auth/password", authMiddleware(handlers.Auth.ChangePassword))

	// Teams
	r.POST("/api/v1/teams", authMiddleware(handlers.Team.Create))
	r.GET("/api/v1/teams", authMiddleware(handlers.Team.List))
	r.GET("/api/v1/teams/{id}", authMiddleware(handlers.Team.Get))
	r.PUT("/api/v1/teams/{id}", authMiddleware(handlers.Team.Update))
	r.DELETE("/api/v1/teams/{id}", authMiddleware(handlers.Team.Delete))
	r.POST("/api/v1/teams/{id}/members", authMiddleware(handlers.Team.AddMember))
	r.DELETE("/api/v1/teams/{id}/members/{userId}", authMiddleware(handlers.Team.RemoveMember))
	r.PUT("/api/v1/teams/{id}/members/{userId}/role", authMiddleware(handlers.Team.ChangeRole))

	// Projects
	r.POST("/api/v1/projects", authMiddleware(handlers.Project.Create))
	r.GET("/api/v1/projects", authMiddleware(handlers.Project.List))
	r.GET("/api/v1/projects/{id}", authMiddleware(handlers.Project.Get))
	r.PUT("/api/v1/projects/{id}", authMiddleware(handlers.Project.Update))
	r.DELETE("/api/v1/projects/{id}", authMiddleware(handlers.Project.Delete))

	// Tasks
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.Create))
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.List))
	r.GET("/api/v1/tasks/my/assigned", authMiddleware(handlers.Task.MyAssigned))
	r.GET("/api/v1/tasks/my/created", authMiddleware(handlers.Task.MyCreated))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Get))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Update))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Delete))
	r.POST("/api/v1/tasks/{id}/comments", authMiddleware(handlers.Task.AddComment))
	r.POST("/api/v1/tasks/{id}/dependencies", authMiddleware(handlers.Task.AddDependency))
	r.DELETE("/api/v1/tasks/{id}/dependencies/{depId}", authMiddleware(handlers.Task.RemoveDependency))

	// AI suggestions
	r.POST("/api/v1/tasks/{id}/suggest/assignee", authMiddleware(handlers.AI.SuggestAssignee))
	r.POST("/api/v1/tasks/{id}/suggest/deadline", authMiddleware(handlers.AI.SuggestDeadline))
	r.POST("/api/v1/tasks/{id}/suggest/priority", authMiddleware(handlers.AI.SuggestPriority))
	r.POST("/api/v1/tasks/{id}/suggest/breakdown", authMiddleware(handlers.AI.SuggestBreakdown))

	// Analytics
	r.GET("/api/v1/analytics/dashboard", authMiddleware(handlers.Analytics.Dashboard))
	r.GET("/api/v1/analytics/teams/{teamId}/workload", authMiddleware(handlers.Analytics.TeamWorkload))
	r.GET("/api/v1/analytics/teams/{teamId}/members/{userId}/performance", authMiddleware(handlers.Analytics.MemberPerformance))
	r.GET("/api/v1/analytics/projects/{projectId}/stats", authMiddleware(handlers.Analytics.ProjectStats))
	r.GET("/api/v1/analytics/projects/{projectId}/trends", authMiddleware(handlers.Analytics.CompletionTrends))

	// Notifications
	r.GET("/api/v1/notifications", authMiddleware(handlers.Notification.List))
	r.GET("/api/v1/notifications/unread", authMiddleware(handlers.Notification.UnreadCount))
	r.PUT("/api/v1/notifications/{id}/read", authMiddleware(handlers.Notification.MarkRead))
	r.PUT("/api/v1/notifications/read-all", authMiddleware(handlers.Notification.MarkAllRead))

	return r
}
