package router

import (
	"time"

	"dinocars/internal/auth"
	"dinocars/internal/config"
	"dinocars/internal/handler"
	"dinocars/internal/middleware"
	"dinocars/internal/repository"
	"dinocars/internal/service"
	"dinocars/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil; alerts are then disabled.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)

	var notificador service.Notificador
	if AlertasHabilitadas(cfg, rdb) {
		notificador = worker.NewDispatcher(rdb)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)
	registroRepo := repository.NewRegistroRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, issuer)
	turnoSvc := service.NewTurnoService(turnoRepo, usuarioRepo)
	registroSvc := service.NewRegistroService(registroRepo, cfg.RidePrice, notificador)
	dashboardSvc := service.NewDashboardService(registroRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	turnosH := handler.NewTurnosHandler(turnoSvc)
	registrosH := handler.NewRegistrosHandler(registroSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.POST("/token", middleware.LoginRateLimiter(), authH.Login)

	// Protected routes
	api := r.Group("/", middleware.JWTAuth(issuer, usuarioRepo))
	{
		api.GET("/users/me", authH.Me)

		usuarios := api.Group("/users", middleware.RequireAdmin())
		{
			usuarios.POST("/", usuariosH.Crear)
			usuarios.GET("/", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Eliminar)
		}

		// Schedules — admin or manager write, everyone reads
		api.POST("/users/:id/schedules/", middleware.RequireAdminOrManager(), turnosH.Crear)
		api.GET("/schedules/", turnosH.Listar)
		api.POST("/schedules/bulk", middleware.RequireAdminOrManager(), turnosH.CrearMasivo)
		api.DELETE("/schedules/:id", middleware.RequireAdminOrManager(), turnosH.Eliminar)

		// Daily records
		api.POST("/calculate-vueltas", registrosH.CalcularVueltas)
		api.POST("/cuadrar-caja", registrosH.CuadrarCaja)
		api.GET("/last-record", registrosH.Ultimo)
		api.POST("/records/", registrosH.Crear)
		api.GET("/records/", registrosH.Listar)
		api.GET("/records/report.pdf", middleware.RequireAdmin(), registrosH.ReportePDF)
		api.PUT("/records/:id", middleware.RequireAdmin(), registrosH.Actualizar)
		api.DELETE("/records/:id", middleware.RequireAdmin(), registrosH.Eliminar)

		api.GET("/admin/dashboard-stats", middleware.RequireAdmin(), dashboardH.Estadisticas)
	}

	r.NoRoute(middleware.NotFound())

	// Swagger UI — only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

// AlertasHabilitadas reports whether unbalanced-cash alerts can be queued
// and delivered.
func AlertasHabilitadas(cfg *config.Config, rdb *redis.Client) bool {
	return rdb != nil && cfg.SMTPHost != "" && cfg.AlertEmail != ""
}
