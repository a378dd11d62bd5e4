package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medicart-be/internal/auth"
	"medicart-be/internal/config"
	"medicart-be/internal/db"
	"medicart-be/internal/handler"
	"medicart-be/internal/logger"
	"medicart-be/internal/metrics"
	"medicart-be/internal/middleware"
	"medicart-be/internal/notify"
	"medicart-be/internal/order"
	"medicart-be/internal/shop"
	"medicart-be/internal/upload"
	"medicart-be/internal/user"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	initDBFunc      = db.InitDB
	startServerFunc = serve
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	app, err := newServer(cfg, database)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.L().Info("server starting", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))
	return startServerFunc(ctx, ":"+cfg.AppPort, app)
}

// server is the wired HTTP application plus the resources it must release.
type server struct {
	http.Handler
	hub     *notify.Hub
	limiter *middleware.RateLimiter
}

func (s *server) Close() {
	s.limiter.Close()
	s.hub.Close()
}

func newServer(cfg *config.Config, database *sql.DB) (*server, error) {
	stager, err := upload.NewStager(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	logger.L().Info("upload staging ready", zap.String("dir", stager.Dir()))

	reg := metrics.NewRegistry()
	hub := notify.NewHub(reg)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	limiter := middleware.NewRateLimiter(cfg.InternalSecretKey)

	userSvc := user.NewService(user.NewRepository(database))
	shopSvc := shop.NewService(shop.NewRepository(database), issuer)
	orderSvc := order.NewService(order.NewRepository(database), hub, reg)

	router := handler.NewRouter(handler.Deps{
		Users:          userSvc,
		Shops:          shopSvc,
		Orders:         orderSvc,
		Tokens:         issuer,
		Stager:         stager,
		Hub:            hub,
		Metrics:        reg,
		Limiter:        limiter,
		AllowedOrigins: cfg.AllowedOrigins,
		MaxUploadBytes: cfg.MaxUploadMB << 20,
		SecureCookies:  cfg.AppEnv == "production",
	})

	return &server{Handler: router, hub: hub, limiter: limiter}, nil
}

// serve runs until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.L().Info("server stopped")
	return nil
}
