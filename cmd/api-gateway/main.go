package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/noah-isme/mentor-api/api/swagger"
	"github.com/noah-isme/mentor-api/internal/handler"
	internalmiddleware "github.com/noah-isme/mentor-api/internal/middleware"
	"github.com/noah-isme/mentor-api/internal/models"
	"github.com/noah-isme/mentor-api/internal/repository"
	"github.com/noah-isme/mentor-api/internal/service"
	"github.com/noah-isme/mentor-api/pkg/cache"
	"github.com/noah-isme/mentor-api/pkg/config"
	"github.com/noah-isme/mentor-api/pkg/database"
	"github.com/noah-isme/mentor-api/pkg/jobs"
	"github.com/noah-isme/mentor-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/mentor-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/mentor-api/pkg/middleware/requestid"
	"github.com/noah-isme/mentor-api/pkg/scheduler"
)

// @title Mentor API
// @version 1.0.0
// @description Mentor suggestion queue and track mode management
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	metrics := service.NewMetricsService()
	validate := validator.New()

	trackRepo := repository.NewTrackRepository(db)
	solutionRepo := repository.NewSolutionRepository(db)
	userTrackRepo := repository.NewUserTrackRepository(db)
	mentorshipRepo := repository.NewMentorshipRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	cacheRepo, closeCache, err := newCacheRepository(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer closeCache()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TrackTTL, logr, cfg.Cache.Enabled)

	policy := service.NewSuggestionPolicy(cfg.Suggestions)
	suggestionSvc := service.NewSuggestionService(trackRepo, solutionRepo, policy, metrics, logr)
	trackSvc := service.NewTrackService(trackRepo, cacheSvc, cfg.Cache.TrackTTL, logr)
	trackModeSvc := service.NewTrackModeService(userTrackRepo, auditRepo, validate, metrics, logr)
	mentorshipSvc := service.NewMentorshipService(mentorshipRepo, trackRepo, auditRepo, validate, metrics, logr)
	tokenSvc := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)

	reconcileSvc := service.NewReconcileService(solutionRepo, auditRepo, nil, metrics, logr)
	queue := jobs.NewQueue("reconcile", reconcileSvc.Handle, jobs.QueueConfig{
		Workers:    cfg.Reconciler.Workers,
		MaxRetries: cfg.Reconciler.MaxRetries,
		RetryDelay: cfg.Reconciler.RetryDelay,
		Logger:     logr,
	})
	reconcileSvc.SetQueue(queue)

	cron := scheduler.New(logr, time.Minute)
	if cfg.Reconciler.Enabled {
		if err := cron.Register("mentor_recount", cfg.Reconciler.Schedule, func(context.Context) error {
			_, err := reconcileSvc.Enqueue("cron")
			return err
		}); err != nil {
			return err
		}
	}

	router := newRouter(cfg, logr, db, metrics, tokenSvc, auditRepo, routeHandlers{
		suggestions: handler.NewSuggestionHandler(suggestionSvc),
		tracks:      handler.NewTrackHandler(trackSvc),
		trackMode:   handler.NewTrackModeHandler(trackModeSvc),
		mentorships: handler.NewMentorshipHandler(mentorshipSvc),
		reconcile:   handler.NewReconcileHandler(reconcileSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	queue.Start(ctx)
	cron.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logr.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		cron.Stop(shutdownCtx)
		err := srv.Shutdown(shutdownCtx)
		queue.Stop()
		return err
	})
	return g.Wait()
}

func newCacheRepository(ctx context.Context, cfg *config.Config, logr *zap.Logger) (service.CacheRepository, func(), error) {
	if cfg.Cache.UseRedis {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		logr.Info("track cache backed by redis")
		return repository.NewCacheRepository(client, "mentor-api:"), func() { _ = client.Close() }, nil
	}
	logr.Info("track cache backed by process memory")
	return repository.NewMemoryCacheRepository(cache.NewMemory(cfg.Cache.TrackTTL)), func() {}, nil
}

type routeHandlers struct {
	suggestions *handler.SuggestionHandler
	tracks      *handler.TrackHandler
	trackMode   *handler.TrackModeHandler
	mentorships *handler.MentorshipHandler
	reconcile   *handler.ReconcileHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, db *sqlx.DB, metrics *service.MetricsService, tokens internalmiddleware.TokenValidator, audit internalmiddleware.AuditWriter, h routeHandlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	infra := handler.NewMetricsHandler(metrics, db)
	r.GET("/health", infra.Health)
	r.GET("/ready", infra.Ready)
	r.GET("/metrics", infra.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(tokens), internalmiddleware.RequireRoles(models.RoleUser, models.RoleAdmin))

	api.GET("/tracks", h.tracks.List)
	api.POST("/tracks/:trackId/mentored-mode", h.trackMode.SwitchToMentored)

	mentor := api.Group("/mentor")
	mentor.GET("/suggestions", h.suggestions.List)
	mentor.GET("/tracks", h.tracks.ListMentored)

	solutions := api.Group("/solutions/:solutionId")
	solutions.POST("/mentorships", h.mentorships.Mentor)
	solutions.DELETE("/mentorships", h.mentorships.Abandon)
	solutions.POST("/ignore", h.mentorships.Ignore)

	admin := api.Group("/admin", internalmiddleware.RequireRoles(models.RoleAdmin))
	admin.POST("/reconcile/mentors",
		internalmiddleware.Audit(audit, logr, models.AuditActionRecountTrigger, "solution"),
		h.reconcile.Trigger,
	)

	return r
}
