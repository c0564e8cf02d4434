package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/baladiya/complaint-service/internal/api/http"
	"github.com/baladiya/complaint-service/internal/api/http/handlers"
	"github.com/baladiya/complaint-service/internal/auth"
	"github.com/baladiya/complaint-service/internal/authz"
	"github.com/baladiya/complaint-service/internal/config"
	"github.com/baladiya/complaint-service/internal/events"
	"github.com/baladiya/complaint-service/internal/geo"
	"github.com/baladiya/complaint-service/internal/observability"
	"github.com/baladiya/complaint-service/internal/persistence"
	"github.com/baladiya/complaint-service/internal/repository"
	"github.com/baladiya/complaint-service/internal/service"
	"github.com/baladiya/complaint-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	geoDirectory, err := geo.Load(cfg.Geo.DataFile)
	if err != nil {
		logger.Fatal("failed to load geo data", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	historyRepo := repository.NewHistoryRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	policy := authz.NewPolicy(departmentRepo)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
	})
	staffService := service.NewStaffService(*cfg, service.StaffDependencies{
		UserRepo:       userRepo,
		DepartmentRepo: departmentRepo,
	})
	complaintService := service.NewComplaintService(cfg.Complaint, service.ComplaintDependencies{
		ComplaintRepo:  complaintRepo,
		CommentRepo:    commentRepo,
		HistoryRepo:    historyRepo,
		UserRepo:       userRepo,
		DepartmentRepo: departmentRepo,
		Policy:         policy,
		Geo:            geoDirectory,
		Dispatcher:     dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:           handlers.NewUsersHandler(authService, staffService, logger),
		Complaints:      handlers.NewComplaintsHandler(complaintService),
		StaffComplaints: handlers.NewStaffComplaintsHandler(complaintService),
		Departments:     handlers.NewDepartmentsHandler(staffService),
		Geo:             handlers.NewGeoHandler(geoDirectory),
		AuthMiddleware:  authMiddleware,
		RateLimiter:     httptransport.ComplaintRateLimiter(redis, cfg.Complaint, logger),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
