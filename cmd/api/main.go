package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/AIlhomov/Ticketing-System/internal/api/http"
	"github.com/AIlhomov/Ticketing-System/internal/api/http/handlers"
	"github.com/AIlhomov/Ticketing-System/internal/auth"
	"github.com/AIlhomov/Ticketing-System/internal/config"
	"github.com/AIlhomov/Ticketing-System/internal/events"
	"github.com/AIlhomov/Ticketing-System/internal/identity"
	"github.com/AIlhomov/Ticketing-System/internal/notification"
	"github.com/AIlhomov/Ticketing-System/internal/observability"
	"github.com/AIlhomov/Ticketing-System/internal/persistence"
	"github.com/AIlhomov/Ticketing-System/internal/repository"
	"github.com/AIlhomov/Ticketing-System/internal/service"
	"github.com/AIlhomov/Ticketing-System/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	articleRepo := repository.NewArticleRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	tokenCache := notification.NewGoogleTokenCache(redis.Client, 30*time.Minute)
	mailer := buildMailer(cfg, logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		CategoryRepo:   categoryRepo,
		AttachmentRepo: attachmentRepo,
		CommentRepo:    commentRepo,
		Dispatcher:     dispatcher,
		Uploads:        cfg.Uploads,
		ClaimPolicy:    cfg.Tickets.ClaimPolicy,
	})
	categoryService := service.NewCategoryService(categoryRepo)
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	articleService := service.NewArticleService(articleRepo, categoryRepo)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Google:     identity.NewGoogleVerifier(cfg.OAuth),
		TokenCache: tokenCache,
		Mailer:     mailer,
		Logger:     logger,
	})

	notificationService := service.NewNotificationService(dispatcher, mailer, tokenCache, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		Users:          handlers.NewUsersHandler(userService),
		Articles:       handlers.NewArticlesHandler(articleService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// buildMailer picks SMTP when credentials are configured and falls back to a
// log-only mailer for local development.
func buildMailer(cfg *config.Config, logger *zap.Logger) notification.Mailer {
	if cfg.SMTP.Username != "" && cfg.SMTP.Password != "" {
		return notification.NewSMTPMailer(cfg.SMTP)
	}
	logger.Warn("smtp credentials missing, email delivery disabled")
	return notification.NewLogMailer(logger)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
