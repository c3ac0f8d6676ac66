package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/config"
	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/router"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load configuration: %v", err)
	}
	utils.InitLogger(cfg.Log.Level)
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	if cfg.App.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	autoMigrate(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := services.EnsureAdmin(ctx, db, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed admin user: %v", err)
	}

	hub := kds.NewHub()
	publisher := kds.MultiPublisher{hub}
	if cfg.NATS.URL != "" {
		natsPublisher, err := kds.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			utils.ErrorLogger.Errorf("NATS disabled: %v", err)
		} else {
			defer natsPublisher.Close()
			publisher = append(publisher, natsPublisher)
			utils.InfoLogger.Infof("Publishing order events to %s", cfg.NATS.URL)
		}
	}

	monitor := services.NewOrderMonitor(db, publisher, cfg.Monitor.Interval)
	monitor.Start()
	defer monitor.Stop()

	utils.StartBlacklistCleanup(ctx, time.Hour)

	r := router.SetupRouter(db, router.Options{
		Hub:          hub,
		Publisher:    publisher,
		AllowOrigins: cfg.CORS.AllowOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Infof("Listening on port %s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Errorf("Server shutdown: %v", err)
	}
}

func autoMigrate(db *gorm.DB) {
	if err := db.AutoMigrate(models.All()...); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
