package routes

import (
	"tenanthub/config"
	authapi "tenanthub/internal/api/auth"
	orgsapi "tenanthub/internal/api/orgs"
	plansapi "tenanthub/internal/api/plans"
	usersapi "tenanthub/internal/api/users"
	"tenanthub/internal/app/http/middleware"
	"tenanthub/internal/auth"
	"tenanthub/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps carries everything the route tree needs. Built once in main.
type Deps struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Log     *zap.Logger
	Metrics *observability.Metrics
	AuthSvc *auth.Service
}

// Register wires all endpoints onto the engine.
func Register(r *gin.Engine, d Deps) {
	r.Use(middleware.Observe(d.Metrics))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))

	authH := authapi.NewHandler(d.AuthSvc, d.Log)
	usersH := usersapi.NewHandler(d.DB, d.AuthSvc, d.Log)
	orgsH := orgsapi.NewHandler(d.DB, d.Log)
	plansH := plansapi.NewHandler(d.DB, d.Log)

	api := r.Group("/api")

	public := api.Group("/")
	public.Use(middleware.SanitizeInput())

	public.POST("/auth/register", authH.Register)
	public.POST("/auth/login", authH.Login)
	public.POST("/auth/sso-callback", authH.SSOCallback)

	if d.Cfg.GoogleEnabled() {
		googleH := authapi.NewGoogleHandler(authH, d.Cfg)
		public.GET("/auth/google", googleH.Start)
		public.GET("/auth/google/callback", googleH.Callback)
	}

	public.GET("/plans", plansH.List)

	public.GET("/users/:id", usersH.Get)
	public.POST("/users/find-by-email", usersH.FindByEmail)

	public.GET("/organizations", orgsH.List)
	public.GET("/organizations/:id", orgsH.Get)
	public.GET("/organizations/:id/users", orgsH.ListUsers)
	public.GET("/organizations/user/:userId", orgsH.ListForUser)

	// Mutating routes require a bearer token; the handlers run the
	// acting user through the membership policy where roles matter.
	authed := api.Group("/")
	authed.Use(middleware.SanitizeInput(), middleware.RequireAuth(d.AuthSvc.Tokens()))

	authed.PUT("/users/:id/profile", usersH.UpdateProfile)
	authed.PUT("/users/:id/password", usersH.ChangePassword)
	authed.POST("/users/:id/force-password-reset", usersH.ForcePasswordReset)

	authed.POST("/organizations", orgsH.Create)
	authed.PUT("/organizations/:id", orgsH.Update)
	authed.DELETE("/organizations/:id", orgsH.Delete)

	authed.POST("/organizations/:id/users", orgsH.AddUser)
	authed.DELETE("/organizations/:id/users/:userId", orgsH.RemoveUser)
	authed.PUT("/organizations/:id/users/:userId/role", orgsH.UpdateUserRole)
}
