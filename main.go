package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/snaplinkhq/snaplink/internal/config"
	"github.com/snaplinkhq/snaplink/internal/database"
	"github.com/snaplinkhq/snaplink/internal/handlers"
	"github.com/snaplinkhq/snaplink/internal/middleware"
	"github.com/snaplinkhq/snaplink/internal/repository"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, err := database.OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("postgres connection failed")
	}
	defer db.Close()
	if err := database.Migrate(db, database.Postgres); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	log.Info("postgres connected")

	users := repository.NewSQLUserRepository(db)
	links := repository.NewSQLLinkRepository(db)
	clicks := repository.NewSQLClickRepository(db)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := seedAdmin(context.Background(), users, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.WithError(err).Fatal("admin seeding failed")
		}
		log.WithField("email", cfg.AdminEmail).Info("admin account ensured")
	}

	auth := middleware.NewAuth(cfg.JWTSecret, users)
	router := handlers.NewRouter(auth,
		handlers.NewAuthHandler(users, cfg.JWTSecret, log),
		handlers.NewLinkHandler(links, clicks, log),
		handlers.NewRedirectHandler(links, clicks, log),
		handlers.NewAdminHandler(users, log),
	)
	router.Use(middleware.Logging(log))
	router.Use(middleware.CORS(cfg.CORSOrigin))

	if cfg.RedisAddr != "" {
		rdb, err := database.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.WithError(err).Fatal("redis connection failed")
		}
		defer rdb.Close()
		router.Use(middleware.RateLimit(rdb, cfg.RateLimitMax, cfg.RateLimitWindow))
		log.Info("redis connected, rate limiting enabled")
	} else {
		log.Warn("REDIS_ADDR not set, rate limiting disabled")
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
	log.Info("server stopped")
}

// seedAdmin ensures the bootstrap admin account exists. Existing accounts
// are left untouched, so losing a race against a concurrent registration of
// the same email is fine.
func seedAdmin(ctx context.Context, users repository.UserRepository, email, password string) error {
	if _, err := users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := users.Create(ctx, email, string(hashed), true); err != nil &&
		!errors.Is(err, repository.ErrDuplicate) {
		return err
	}
	return nil
}
