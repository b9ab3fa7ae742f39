package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dinocars/internal/auth"
	"dinocars/internal/config"
	"dinocars/internal/infra"
	"dinocars/internal/repository"
	"dinocars/internal/router"
	"dinocars/internal/scheduler"
	"dinocars/internal/service"
	"dinocars/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// @title DinoCars API
// @version 1.0
// @description Cuadre de caja diario, vueltas, turnos y usuarios de DinoCars.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger — dev: pretty, prod: JSON
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seedAdmin(ctx, cfg, db)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Alert pool: only when there is both a queue and somewhere to deliver.
	var pool *worker.Pool
	if router.AlertasHabilitadas(cfg, rdb) {
		pool = worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, map[string]worker.Processor{
			worker.JobAlertaDescuadre: worker.NewAlertaWorker(infra.NewMailer(cfg), cfg.AlertEmail),
		})
	} else {
		log.Info().Msg("alertas de descuadre deshabilitadas (REDIS_URL, SMTP_HOST o ALERT_EMAIL vacios)")
	}

	sched, err := scheduler.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	if err := sched.AddKeepalive(cfg.KeepaliveURL, cfg.KeepaliveInterval); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule keep-alive")
	}
	sched.Start()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.New(cfg, db, rdb),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("DinoCars API listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	if pool != nil {
		pool.Wait()
	}
	if err := sched.Stop(); err != nil {
		log.Warn().Err(err).Msg("scheduler shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}

// seedAdmin creates the bootstrap admin account when it does not exist yet.
func seedAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) {
	password, ok := cfg.AdminSeedPassword()
	if !ok {
		log.Warn().Str("username", cfg.AdminUsername).Msg("ADMIN_PASSWORD vacio en produccion: no se crea el admin inicial")
		return
	}
	if password == config.DefaultAdminPassword {
		log.Warn().Str("username", cfg.AdminUsername).Msg("usando la contraseña de admin por defecto; defina ADMIN_PASSWORD")
	}

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)
	svc := service.NewAuthService(repository.NewUsuarioRepository(db), issuer)
	creado, err := svc.AsegurarAdmin(ctx, cfg.AdminUsername, password)
	if err != nil {
		log.Error().Err(err).Msg("no se pudo crear el admin inicial")
		return
	}
	if !creado {
		log.Debug().Str("username", cfg.AdminUsername).Msg("admin inicial ya existe")
	}
}
