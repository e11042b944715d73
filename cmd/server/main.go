package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/credential-service/internal/config"
	"github.com/iliyamo/credential-service/internal/database"
	"github.com/iliyamo/credential-service/internal/handler"
	"github.com/iliyamo/credential-service/internal/logger"
	"github.com/iliyamo/credential-service/internal/queue"
	"github.com/iliyamo/credential-service/internal/repository"
	"github.com/iliyamo/credential-service/internal/router"
	"github.com/iliyamo/credential-service/internal/service"
	"github.com/iliyamo/credential-service/internal/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}

	cfg := config.Load()
	zl := logger.Must(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg, zl)
	stop()
	os.Exit(exitCode(zl, err))
}

// exitCode logs a failed run and flushes the logger before the process exits.
func exitCode(zl *zap.Logger, err error) int {
	code := 0
	if err != nil {
		zl.Error("server stopped", zap.Error(err))
		code = 1
	}
	_ = zl.Sync()
	return code
}

func run(ctx context.Context, cfg config.Config, zl *zap.Logger) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil {
			return err
		}
		zl.Info("migrations applied", zap.String("driver", cfg.DBDriver))
	}

	hasher, err := utils.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}
	issuer, err := utils.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}

	var events queue.Publisher = queue.NopPublisher{}
	if cfg.EventsEnabled() {
		events = queue.NewAMQPPublisher(cfg.RabbitMQURL, cfg.EventsQueue)
		if cfg.AuditConsumerEnabled {
			audit := &queue.AuditConsumer{
				URL:     cfg.RabbitMQURL,
				Queue:   cfg.EventsQueue,
				LogPath: cfg.AuditLogPath,
				Log:     zl.Named("audit"),
			}
			go func() {
				if err := audit.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					zl.Error("audit consumer stopped", zap.Error(err))
				}
			}()
		}
	}

	svc, err := service.NewAuthService(service.Deps{
		Users:        repository.NewUserRepo(db, cfg.DBDriver),
		Hasher:       hasher,
		Tokens:       issuer,
		Events:       events,
		Log:          zl.Named("auth"),
		StoreTimeout: cfg.DBTimeout,
	})
	if err != nil {
		return err
	}
	defer svc.Wait()

	e := router.New(router.Options{Log: zl.Named("http"), CORSOrigins: cfg.CORSOrigins, Health: db})
	router.RegisterAuth(e, handler.NewAuthHandler(svc, zl.Named("http")))

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
