package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"hotelpms/internal/config"
	"hotelpms/internal/database"
	"hotelpms/internal/kitchen"
	"hotelpms/internal/logging"
	"hotelpms/internal/pkg/jwt"
	"hotelpms/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logging.New(cfg.LogLevel, cfg.AppEnv)
	gin.SetMode(cfg.GinMode)
	decimal.MarshalJSONWithoutQuotes = true

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	hub := kitchen.NewHub(log)
	defer hub.Close()

	notifiers := kitchen.Fanout{hub}
	if cfg.BrokerEnabled() {
		pub, err := kitchen.DialAMQP(cfg.AMQPURL, cfg.KitchenExchange, log)
		if err != nil {
			return err
		}
		defer pub.Close()
		notifiers = append(notifiers, pub)
		log.WithField("exchange", cfg.KitchenExchange).Info("publishing KOTs to rabbitmq")
	}

	router := server.New(server.Deps{
		DB:          db,
		JWT:         jwt.New(cfg.JWTSecret, cfg.JWTTTL),
		Log:         log,
		Location:    cfg.ReportLocation,
		Hub:         hub,
		Notifier:    notifiers,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(logrus.Fields{"addr": cfg.HTTPAddr, "env": cfg.AppEnv}).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
