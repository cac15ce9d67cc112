package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/codewithwan/erecruitment/internal/api/handlers"
	"github.com/codewithwan/erecruitment/internal/api/middleware"
)

type Deps struct {
	Auth     middleware.AuthConfig
	Roles    []string
	Wizard   *handlers.WizardHandler
	Drafts   *handlers.DraftHandler
	Lookups  *handlers.LookupHandler
	Activity *handlers.ActivityHandler
	WS       *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth(d.Auth), middleware.RequireCandidate(d.Roles))

	w := auth.Group("/wizard")
	w.GET("", d.Wizard.Snapshot)
	w.DELETE("", d.Wizard.End)

	s := w.Group("/sections/:section")
	s.POST("/activate", d.Wizard.Activate)
	s.POST("/add", d.Wizard.Add)
	s.POST("/edit/:id", d.Wizard.Edit)
	s.POST("/back", d.Wizard.Back)
	s.POST("/submit", d.Wizard.Submit)
	s.POST("/refresh", d.Wizard.Refresh)
	s.DELETE("/items/:id", d.Wizard.Delete)

	s.GET("/draft", d.Drafts.Get)
	s.PUT("/draft", d.Drafts.Save)
	s.DELETE("/draft", d.Drafts.Discard)

	w.POST("/completeness/refresh", d.Wizard.CheckCompleteness)
	w.POST("/cv/generate", d.Wizard.GenerateCV)
	w.GET("/lookups/majors", d.Lookups.Majors)
	w.GET("/activity", d.Activity.List)

	// WebSocket
	auth.GET("/ws/wizard", d.WS.Events)
}
