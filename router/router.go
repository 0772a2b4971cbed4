package router

import (
	"log"

	"dmed/config"
	"dmed/controllers"
	"dmed/middleware"

	"github.com/gin-gonic/gin"
)

// Initialize wires all routes and middlewares.
// Public routes + authenticated routes + "active" routes (Authorizer) + admin group.
func Initialize(r *gin.Engine, cfg config.Configuration) {
	_ = cfg

	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")

	// Jobs (agendador externo) - protegido por JOB_SECRET, não por JWT
	api.POST("/jobs/sla-scan", Logger(), controllers.RunSLAScan)

	// Public (no auth)
	api.POST("/login", Logger(), controllers.Login)
	api.POST("/refresh", Logger(), controllers.Refresh)
	api.POST("/password/forgot", Logger(), controllers.ForgotPasswordSendCode)
	api.POST("/password/check-token", Logger(), controllers.CheckResetToken)
	api.POST("/password/reset", Logger(), controllers.ResetPassword)

	// Authenticated routes (token required)
	auth := api.Group("")
	auth.Use(controllers.AuthRequired())

	// Active routes (token + usuário não bloqueado)
	active := auth.Group("")
	active.Use(Authorizer())

	active.GET("/me", Logger(), controllers.Me)
	active.PUT("/me", Logger(), controllers.UpdateCurrentUser)
	active.PUT("/me/profile", Logger(), controllers.UpdateCurrentUserProfile)

	// Letters
	active.GET("/letters", Logger(), controllers.GetLetters)
	active.GET("/letters/:id", Logger(), controllers.GetLetterByID)
	active.POST("/letters", Logger(), controllers.CreateLetter)
	active.PUT("/letters/:id", Logger(), controllers.UpdateLetter)
	active.PATCH("/letters/:id/status", Logger(), controllers.PatchLetterStatus)
	active.DELETE("/letters/:id", Logger(), controllers.DeleteLetter)
	active.POST("/letters/:id/duplicate", Logger(), controllers.DuplicateLetter)
	active.GET("/letters/:id/history", Logger(), controllers.GetLetterHistory)

	// Comments
	active.GET("/letters/:id/comments", Logger(), controllers.GetLetterComments)
	active.POST("/letters/:id/comments", Logger(), controllers.CreateLetterComment)
	active.DELETE("/comments/:id", Logger(), controllers.DeleteComment)

	// Watchers / favorites
	active.POST("/letters/:id/watch", Logger(), controllers.WatchLetter)
	active.DELETE("/letters/:id/watch", Logger(), controllers.UnwatchLetter)
	active.GET("/letters/:id/watchers", Logger(), controllers.GetLetterWatchers)
	active.POST("/letters/:id/favorite", Logger(), controllers.FavoriteLetter)
	active.DELETE("/letters/:id/favorite", Logger(), controllers.UnfavoriteLetter)
	active.GET("/favorites", Logger(), controllers.GetMyFavorites)

	// Files (metadados)
	active.GET("/letters/:id/files", Logger(), controllers.GetLetterFiles)
	active.POST("/letters/:id/files", Logger(), controllers.CreateLetterFile)
	active.DELETE("/files/:id", Logger(), controllers.DeleteFile)

	// Tags (leitura e vínculo pra todos; CRUD é admin)
	active.GET("/tags", Logger(), controllers.GetTags)

	// Link letter <-> tag - IDs no body
	active.POST("/letter-tags", Logger(), controllers.AddTagToLetter)
	active.DELETE("/letter-tags", Logger(), controllers.RemoveTagFromLetter)

	// Requests
	active.GET("/requests", Logger(), controllers.GetRequests)
	active.GET("/requests/:id", Logger(), controllers.GetRequestByID)
	active.POST("/requests", Logger(), controllers.CreateRequest)
	active.PUT("/requests/:id", Logger(), controllers.UpdateRequest)
	active.PATCH("/requests/:id/status", Logger(), controllers.PatchRequestStatus)
	active.DELETE("/requests/:id", Logger(), controllers.DeleteRequest)
	active.GET("/requests/:id/history", Logger(), controllers.GetRequestHistory)

	// Templates (leitura pra todos; CRUD é admin)
	active.GET("/templates", Logger(), controllers.GetTemplates)
	active.GET("/templates/:id", Logger(), controllers.GetTemplateByID)

	// Notifications (in-app)
	active.GET("/notifications", Logger(), controllers.GetMyNotifications)
	active.GET("/notifications/unread-count", Logger(), controllers.GetUnreadNotificationCount)
	active.POST("/notifications/:id/read", Logger(), controllers.MarkNotificationRead)
	active.POST("/notifications/read-all", Logger(), controllers.MarkAllNotificationsRead)

	// Dashboard
	active.GET("/dashboard/letters-per-day", Logger(), controllers.GetLettersPerDay)
	active.GET("/dashboard/letters-by-status", Logger(), controllers.GetLettersByStatus)
	active.GET("/dashboard/sla-summary", Logger(), controllers.GetSLASummary)

	// Admin routes
	admin := active.Group("")
	admin.Use(Adminizer())

	admin.POST("/letters/:id/restore", Logger(), controllers.RestoreLetter)

	// Tags CRUD (admin)
	admin.POST("/tags", Logger(), controllers.CreateTag)
	admin.PUT("/tags/:id", Logger(), controllers.UpdateTag)
	admin.DELETE("/tags/:id", Logger(), controllers.DeleteTag)

	// Templates CRUD (admin)
	admin.POST("/templates", Logger(), controllers.CreateTemplate)
	admin.PUT("/templates/:id", Logger(), controllers.UpdateTemplate)
	admin.DELETE("/templates/:id", Logger(), controllers.DeleteTemplate)

	// Users (admin)
	admin.POST("/users", Logger(), controllers.CreateUser)
	admin.GET("/users", Logger(), controllers.GetUsers)
	admin.GET("/users/:id", Logger(), controllers.GetUserByID)
	admin.PATCH("/users/:id/role", Logger(), controllers.UpdateUserRole)
	// bulk - IDs no body (igual letter-tags)
	admin.PATCH("/user-roles", Logger(), controllers.BulkUpdateUserRole)
	admin.PATCH("/users/:id/status", Logger(), controllers.UpdateUserStatus)

	log.Printf("Routes initialized")
}
