package handler

import (
	"net/http"

	"mentor-booking/internal/domain/user"
	"mentor-booking/internal/handler/api"
	"mentor-booking/internal/handler/middleware"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type RouterParams struct {
	fx.In

	Engine              *gin.Engine
	Config              config.Config
	Logger              *middleware.Logger
	Metrics             *metrics.Metrics
	AuthMiddleware      *middleware.AuthMiddleware
	AuthHandler         *api.AuthHandler
	ReservationHandler  *api.ReservationHandler
	AvailabilityHandler *api.AvailabilityHandler
	SubscriptionHandler *api.SubscriptionHandler
	SweepHandler        *api.SweepHandler
}

func NewRouter(p RouterParams) {
	setupMiddleware(p)
	setupRoutes(p)
}

func setupMiddleware(p RouterParams) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	p.Engine.Use(middleware.CustomRecovery())
	p.Engine.Use(middleware.NewCORSMiddleware(p.Config.CORS))
	p.Engine.Use(p.Logger.LoggingMiddleware())
	p.Engine.Use(p.Metrics.Middleware())
	p.Engine.Use(middleware.ErrorHandler())
}

func setupRoutes(p RouterParams) {
	engine := p.Engine
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(p.Metrics.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := p.AuthMiddleware.RequireAuth()
	menteeOnly := p.AuthMiddleware.RequireRole(user.RoleMentee, user.RoleAdmin)

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: p.AuthHandler.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: p.AuthHandler.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(requireAuth)
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: p.AuthHandler.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: p.AuthHandler.Me},
			})
		}

		mentors := apiGroup.Group("/mentors")
		mentors.Use(requireAuth)
		{
			addRoutes(mentors, []route{
				{Method: http.MethodGet, Path: "/:id/availability", Handler: p.AvailabilityHandler.Check},
			})
		}

		reservations := apiGroup.Group("/reservations")
		reservations.Use(requireAuth)
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: p.ReservationHandler.Create, Mw: []gin.HandlerFunc{menteeOnly}},
				{Method: http.MethodGet, Path: "", Handler: p.ReservationHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: p.ReservationHandler.Get},
				{Method: http.MethodGet, Path: "/:id/status", Handler: p.ReservationHandler.Status},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: p.ReservationHandler.Confirm, Mw: []gin.HandlerFunc{menteeOnly}},
			})
		}

		subscriptions := apiGroup.Group("/notifications/subscriptions")
		subscriptions.Use(requireAuth)
		{
			addRoutes(subscriptions, []route{
				{Method: http.MethodPost, Path: "", Handler: p.SubscriptionHandler.Subscribe},
				{Method: http.MethodDelete, Path: "", Handler: p.SubscriptionHandler.Unsubscribe},
			})
		}

		cron := apiGroup.Group("/cron")
		cron.Use(middleware.CronAuth(p.Config.Sweeper.CronSecret))
		{
			addRoutes(cron, []route{
				{Method: http.MethodPost, Path: "/sweep-reservations", Handler: p.SweepHandler.Sweep},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
