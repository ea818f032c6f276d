package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/ekantin/config"
	"github.com/yeremiapane/ekantin/database"
	"github.com/yeremiapane/ekantin/events"
	"github.com/yeremiapane/ekantin/kds"
	"github.com/yeremiapane/ekantin/middlewares"
	"github.com/yeremiapane/ekantin/router"
	"github.com/yeremiapane/ekantin/services"
	"github.com/yeremiapane/ekantin/sheets"
	"github.com/yeremiapane/ekantin/utils"
)

func main() {
	// Load .env di awal sebelum config dibaca
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel)

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.ScriptURL == "" {
		utils.ErrorLogger.Error("GOOGLE_SCRIPT_URL belum diatur, endpoint data akan mengembalikan error konfigurasi")
	}
	if cfg.JWTSecret == "" {
		utils.ErrorLogger.Error("JWT_SECRET belum diatur, login dan endpoint terproteksi akan gagal")
	}

	snapshots, err := database.NewSnapshotStore(cfg.CacheDriver, cfg.CacheDSN)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to open snapshot store: %v", err)
	}

	hub := kds.NewHub()
	publisher := events.Multi{hub}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		defer kafkaPublisher.Close()
		publisher = append(publisher, kafkaPublisher)
		utils.InfoLogger.Printf("Order events dikirim ke Kafka topic %s", cfg.KafkaOrderTopic)
	}

	gateway := sheets.NewClient(cfg.ScriptURL, cfg.AllowedScriptHosts, &http.Client{Timeout: cfg.HTTPTimeout})
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	kantins := services.NewKantinService(gateway, snapshots)
	menus := services.NewMenuService(gateway, kantins, snapshots)
	deps := router.Dependencies{
		Config:       cfg,
		Gateway:      gateway,
		Auth:         services.NewAuthService(kantins, tokens, cfg.SuperAdminUsername, cfg.SuperAdminPassword),
		Kantins:      kantins,
		Menus:        menus,
		Orders:       services.NewOrderService(gateway, kantins, menus, publisher, snapshots),
		Uploader:     services.NewDriveUploader(cfg.DriveFolderID),
		Hub:          hub,
		RateLimiter:  middlewares.NewRateLimiter(50, time.Second),
		LoginLimiter: middlewares.NewStrictRateLimiter(),
	}

	r := router.SetupRouter(deps)
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Errorf("Error setting trusted proxies: %v", err)
	}

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
