package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (app *application) routes() http.Handler {
	if app.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// request logger on zap
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		app.Logger.Sugar().Infow("http",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	})

	r.Use(app.CORSMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/signup", app.Handler.SignUp)
		v1.POST("/login", app.Handler.Login)
	}

	// candidate-facing endpoints, rate limited, no auth
	public := v1.Group("/public")
	public.Use(app.RateLimitMiddleware())
	{
		public.GET("/jobs", app.Handler.ListPublicJobs)
		public.GET("/jobs/:id", app.Handler.GetPublicJob)
		public.POST("/jobs/:id/apply", app.Handler.SubmitApplication)

		public.GET("/interviews/:token", app.Handler.GetInterview)
		public.GET("/interviews/:token/status", app.Handler.GetInterviewStatus)
		public.POST("/interviews/:token/submit", app.Handler.SubmitInterview)
	}

	protected := v1.Group("/")
	protected.Use(app.AuthMiddleware())
	{
		protected.GET("/me", app.Handler.Me)

		// job routes
		protected.POST("/jobs", app.Handler.CreateJob)
		protected.GET("/jobs", app.Handler.ListJobs)
		protected.GET("/jobs/stats", app.Handler.JobStats)
		protected.POST("/jobs/generate-description", app.Handler.GenerateJobDescription)
		protected.GET("/jobs/:id", app.Handler.GetJob)
		protected.PATCH("/jobs/:id", app.Handler.UpdateJob)
		protected.DELETE("/jobs/:id", app.Handler.DeleteJob)

		// application routes
		protected.GET("/applications", app.Handler.ListApplications)
		protected.GET("/applications/:id", app.Handler.GetApplication)
		protected.PATCH("/applications/:id/status", app.Handler.UpdateApplicationStatus)
		protected.POST("/applications/:id/notes", app.Handler.AddApplicationNote)
		protected.PATCH("/applications/:id/rating", app.Handler.RateApplication)
		protected.DELETE("/applications/:id", app.Handler.DeleteApplication)

		// ranking and sourcing
		protected.GET("/jobs/:id/rank", app.Handler.RankCandidates)
		protected.POST("/jobs/:id/candidates/fetch", app.Handler.FetchCandidates)
		protected.GET("/jobs/:id/candidates", app.Handler.ListSourcedCandidates)
		protected.PATCH("/candidates/:id/contacted", app.Handler.MarkCandidateContacted)
	}

	return r
}
