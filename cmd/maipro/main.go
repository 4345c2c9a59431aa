package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ArrobaLab/maipro/internal/authz"
	"github.com/ArrobaLab/maipro/internal/config"
	"github.com/ArrobaLab/maipro/internal/domain"
	"github.com/ArrobaLab/maipro/internal/observability/logging"
	"github.com/ArrobaLab/maipro/internal/observability/metrics"
	"github.com/ArrobaLab/maipro/internal/observability/middleware"
	"github.com/ArrobaLab/maipro/internal/service"
	"github.com/ArrobaLab/maipro/internal/store"
	httpx "github.com/ArrobaLab/maipro/internal/transport/http"
	"github.com/ArrobaLab/maipro/internal/webpush"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "maipro",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	logger.Info("starting service")

	cfg := config.Load()
	metrics.MustRegister("maipro")

	gdb, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}
	if err := gdb.AutoMigrate(
		&domain.User{},
		&domain.Provider{},
		&domain.Service{},
		&domain.Booking{},
		&domain.BookingEvent{},
		&domain.Review{},
		&domain.SubscriptionRecord{},
	); err != nil {
		logger.Error("automigrate", "error", err)
		os.Exit(1)
	}

	st := store.New(gdb)

	// Real delivery needs the VAPID key pair; without it the dispatcher
	// only records the fan-out intent.
	var dispatcher service.Dispatcher = webpush.LogDispatcher{}
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		dispatcher = webpush.NewSender(cfg.VAPIDSubject, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
		logger.Info("web push delivery enabled")
	}

	push := service.NewPush(st.Subscriptions(), dispatcher, cfg.VAPIDPublicKey)
	auth := service.NewAuth(st, service.TokenConfig{
		Issuer:     cfg.Issuer,
		Audience:   cfg.Audience,
		AccessTTL:  cfg.AccessTTL,
		SigningKey: []byte(cfg.SigningKey),
	})
	mp := service.NewMarketplace(st, push)

	validator := authz.NewBearerValidator(cfg.SigningKey, cfg.Issuer)

	router := httpx.NewRouter(auth, mp, push, validator, httpx.RouterConfig{
		CORSOrigins: cfg.CORSOrigins,
		TrustProxy:  cfg.TrustProxy,
	})
	handler := middleware.WithRequestAndTrace(middleware.WithAccessLog(middleware.WithMetrics(router)))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("maipro api listening", "addr", srv.Addr, "issuer", cfg.Issuer)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
