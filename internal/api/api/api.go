package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"clubhub/cmd/middleware"
	"clubhub/internal/handler"
	"clubhub/internal/service"
)

type Routers struct {
	Service *service.Service
	Logger  *zerolog.Logger
	// AllowOrigins lists the browser origins allowed by CORS. Empty allows
	// every origin.
	AllowOrigins []string
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")
	h := handler.New(r.Service, r.Logger)

	app.Use(middleware.LoggingMiddleware(r.Logger))
	app.Use(cors.New(corsConfig(r.AllowOrigins)))

	optionalAuth := middleware.Auth(r.Service, false)
	requiredAuth := middleware.Auth(r.Service, true)

	apiGroup := app.Group("/v1")

	apiGroup.GET("/events", h.ListEvents)
	apiGroup.GET("/events/:id", optionalAuth, h.GetEvent)
	apiGroup.GET("/content/:kind", h.ListDocuments)
	apiGroup.GET("/content/:kind/:id", h.GetDocument)
	apiGroup.GET("/settings", h.GetSettings)
	apiGroup.POST("/contact", h.Contact)
	apiGroup.POST("/auth/signup", h.SignUp)
	apiGroup.POST("/auth/login", h.Login)

	member := apiGroup.Group("", requiredAuth)
	member.POST("/events/:id/register", h.Register)
	member.POST("/events/:id/submit", h.Submit)
	member.GET("/me", h.Me)
	member.PATCH("/me", h.UpdateMe)
	member.GET("/me/registrations", h.MyRegistrations)
	member.GET("/me/submissions", h.MySubmissions)

	admin := apiGroup.Group("/admin", requiredAuth, middleware.AdminOnly())
	admin.POST("/events", h.CreateEvent)
	admin.PATCH("/events/:id", h.UpdateEvent)
	admin.DELETE("/events/:id", h.DeleteEvent)
	admin.GET("/events/:id/registrations", h.ListEventRegistrations)
	admin.POST("/events/:id/registrations", h.RegisterOnBehalf)
	admin.GET("/events/:id/submissions", h.ListEventSubmissions)
	admin.PATCH("/registrations/:id", h.UpdateRegistration)
	admin.PATCH("/submissions/:id/status", h.UpdateSubmissionStatus)
	admin.PATCH("/submissions/:id/award", h.SetAward)
	admin.GET("/content/:kind", h.ListAllDocuments)
	admin.POST("/content/:kind", h.CreateDocument)
	admin.PATCH("/content/:kind/:id", h.UpdateDocument)
	admin.DELETE("/content/:kind/:id", h.DeleteDocument)
	admin.PATCH("/settings", h.UpdateSettings)
	admin.GET("/contacts", h.ListContacts)

	app.GET("/healthz", func(c *ginext.Context) {
		c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return app
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
