package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/resumatch/resumatch/internal/api/handlers"
	"github.com/resumatch/resumatch/internal/api/middleware"
	"github.com/resumatch/resumatch/internal/auth"
)

type Deps struct {
	Tokens  *auth.TokenIssuer
	Auth    *handlers.AuthHandler
	Profile *handlers.ProfileHandler
	Jobs    *handlers.JobsHandler
	Content *handlers.ContentHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/auth/signup", d.Auth.Signup)
	r.POST("/auth/verify", d.Auth.VerifyOTP)
	r.POST("/auth/login", d.Auth.Login)
	r.POST("/auth/logout", d.Auth.Logout)

	// Job search, insights, and content generation work for anonymous
	// clients too, keyed by IP. OptionalJWT picks up a token when one is
	// presented so these routes share cached state (resume text in
	// particular) with the authenticated profile routes.
	open := r.Group("/")
	open.Use(middleware.OptionalJWT(d.Tokens))

	open.POST("/jobs/search", d.Jobs.Search)
	open.GET("/jobs/history", d.Jobs.History)

	open.POST("/resume/insights", d.Profile.Insights)

	open.POST("/content", d.Content.Generate)
	open.GET("/content", d.Content.List)
	open.PATCH("/content/:id/status", d.Content.SetStatus)

	// Protected routes (JWT)
	authed := r.Group("/")
	authed.Use(middleware.JWTAuth(d.Tokens))

	authed.POST("/profile/resume", d.Profile.UploadResume)
	authed.GET("/profile/me", d.Profile.Me)
}
