package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"wordquiz/internal/config"
	"wordquiz/internal/handler"
	"wordquiz/internal/repository"
	"wordquiz/internal/repository/memory"
	"wordquiz/internal/repository/redisstore"
	"wordquiz/internal/repository/sqlstore"
	"wordquiz/internal/seed"
	"wordquiz/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting word quiz bot",
		zap.String("env", cfg.Env),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("session_backend", cfg.Session.Backend),
	)

	// Connect to database with retries
	db, err := connectDatabase(cfg.Database.Driver, cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, cfg.Database.Driver, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	store := sqlstore.New(db)
	sessionRepo, closeSessions, err := newSessionRepository(cfg, db, logger)
	if err != nil {
		logger.Fatal("Failed to initialize session storage", zap.Error(err))
	}
	defer closeSessions()

	// Initialize services
	wordService := service.NewWordService(store, service.WordServiceConfig{CacheSize: cfg.CacheSize}, logger)
	visibilityService := service.NewVisibilityService(store)
	quizService := service.NewQuizService(store, service.NewLockedRand(time.Now().UnixNano()), logger)
	questions := service.NewQuestionCache(cfg.CacheSize, cfg.QuestionTTL)
	defer questions.Close()

	sessionService := service.NewSessionService(
		sessionRepo,
		wordService,
		visibilityService,
		quizService,
		questions,
		service.SessionServiceConfig{SessionTTL: cfg.Session.TTL},
		logger,
	)

	// Load seed vocabulary
	if err := loadSeed(cfg.SeedPath, wordService, logger); err != nil {
		logger.Fatal("Failed to load seed data", zap.Error(err))
	}

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("Unhandled bot error", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	// Initialize handler
	h := handler.NewHandler(bot, sessionService, cfg.RequestTimeout, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start cleanup job in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runCleanupJob(ctx, sessionService, cfg.CleanupInterval, logger)

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()

	logger.Info("Bot stopped gracefully")
}

// newLogger builds a production logger in production and a development one otherwise
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// connectDatabase opens the database and pings it with retries
func connectDatabase(driver, dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open(driver, dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		if driver == config.DriverSQLite {
			// SQLite allows a single writer
			db.SetMaxOpenConns(1)
		} else {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(5 * time.Minute)
		}

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, driver string, logger *zap.Logger) error {
	dialect, err := sqlstore.DialectFor(driver)
	if err != nil {
		return err
	}

	err = sqlstore.Migrate(db, dialect)
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return err
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}

// newSessionRepository picks the configured session backend. The returned
// func releases it.
func newSessionRepository(cfg *config.Config, db *sql.DB, logger *zap.Logger) (repository.SessionRepository, func(), error) {
	switch cfg.Session.Backend {
	case config.SessionMemory:
		return memory.NewSessionRepo(), func() {}, nil

	case config.SessionRedis:
		repo := redisstore.NewSessionRepo(redisstore.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Session.TTL,
		})

		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		defer cancel()
		if err := repo.Ping(ctx); err != nil {
			_ = repo.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr(), err)
		}

		return repo, func() {
			if err := repo.Close(); err != nil {
				logger.Warn("Failed to close redis client", zap.Error(err))
			}
		}, nil

	default:
		return sqlstore.NewSessionRepo(db), func() {}, nil
	}
}

// loadSeed imports the seed vocabulary. A missing seed file is not fatal.
func loadSeed(path string, words *service.WordService, logger *zap.Logger) error {
	if path == "" {
		return nil
	}

	entries, err := seed.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("Seed file not found, starting with an empty vocabulary", zap.String("path", path))
		return nil
	}
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	_, err = words.LoadSeed(ctx, entries)
	return err
}

// runCleanupJob periodically drops idle sessions
func runCleanupJob(ctx context.Context, sessions *service.SessionService, interval time.Duration, logger *zap.Logger) {
	// Run cleanup once at startup
	if _, err := sessions.PruneIdle(ctx); err != nil {
		logger.Error("Failed to run initial cleanup", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup job stopped")
			return
		case <-ticker.C:
			logger.Info("Running scheduled cleanup")
			if _, err := sessions.PruneIdle(ctx); err != nil {
				logger.Error("Failed to run scheduled cleanup", zap.Error(err))
			}
		}
	}
}
