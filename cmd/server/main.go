package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"fleetflow/internal/app"
	"fleetflow/internal/audit"
	"fleetflow/internal/auth"
	"fleetflow/internal/config"
	"fleetflow/internal/events"
	"fleetflow/internal/handler"
	"fleetflow/internal/redis"
	"fleetflow/internal/repository"
	"fleetflow/internal/service"
	"fleetflow/internal/websocket"
)

func main() {
	// Load configuration.
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.WithField("config", cfg.String()).Info("configuration loaded")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		var err error
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.WithError(err).Warn("failed to initialize New Relic")
		} else {
			log.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
		}
	}

	store, closeStore, err := app.NewStore(ctx, cfg.Database, nrApp)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	defer closeStore()
	log.WithField("driver", cfg.Database.Driver).Info("store ready")

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("connected to Redis")
	} else {
		log.Warn("REDIS_ADDR empty; dispatch locks, caching and idempotency disabled")
	}

	// Optional event sinks.
	var sinks events.Fanout
	if cfg.MQTT.BrokerURL != "" {
		mqttPublisher, mqttClient, err := events.ConnectMQTT(events.MQTTOptions{
			BrokerURL:   cfg.MQTT.BrokerURL,
			ClientID:    cfg.MQTT.ClientID,
			Username:    cfg.MQTT.Username,
			Password:    cfg.MQTT.Password,
			TopicPrefix: cfg.MQTT.TopicPrefix,
		})
		if err != nil {
			log.WithError(err).Warn("MQTT unavailable; continuing without broker")
		} else {
			defer mqttClient.Disconnect(250)
			sinks = append(sinks, mqttPublisher)
			log.WithField("broker", cfg.MQTT.BrokerURL).Info("connected to MQTT")
		}
	}

	auditCollection := audit.EventCollection(audit.NewMemoryCollection())
	if cfg.Mongo.URI != "" {
		mongoClient, err := audit.ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to MongoDB")
		}
		defer mongoClient.Disconnect(context.Background())
		auditCollection = audit.NewMongoCollection(mongoClient, cfg.Mongo.Database)
		log.Info("connected to MongoDB")
	}
	trail := audit.NewLog(auditCollection)
	sinks = append(sinks, trail)

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Wire dependencies.
	hub := websocket.NewHub()
	server, drivers := wireServer(runCtx, wiring{
		cfg:         cfg,
		store:       store,
		redisClient: redisClient,
		nrApp:       nrApp,
		hub:         hub,
		sinks:       sinks,
		trail:       trail,
	})

	if cfg.Scheduler.LicenseSyncInterval > 0 {
		go service.RunLicenseSync(runCtx, drivers, cfg.Scheduler.LicenseSyncInterval)
	}

	// Start server in goroutine.
	go func() {
		log.WithField("port", cfg.Server.Port).Info("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")
	stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Info("server exited")
}

func setupLogging(level string) {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)
	if lvl, err := log.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}
}

// wiring is the infrastructure wireServer builds on.
type wiring struct {
	cfg         *config.Config
	store       repository.Store
	redisClient *goredis.Client // nil when Redis is disabled
	nrApp       *newrelic.Application
	hub         *websocket.Hub
	sinks       events.Fanout
	trail       *audit.Log
}

// wireServer wires all dependencies and returns the HTTP server together
// with the driver service for the license sync job. Background relays
// stop when ctx ends.
func wireServer(ctx context.Context, w wiring) (*http.Server, *service.DriverService) {
	var (
		lockStore   redis.LockStoreInterface
		statsCache  redis.StatsCacheInterface
		idempotency redis.IdempotencyStoreInterface
	)

	publisher := w.sinks
	if w.redisClient != nil {
		lockStore = redis.NewLockStore(w.redisClient)
		statsCache = redis.NewCacheStore(w.redisClient)
		idempotency = redis.NewIdempotencyStore(w.redisClient)

		// Events reach websocket clients of every instance through Redis.
		bus := redis.NewEventBus(w.redisClient)
		publisher = append(publisher, events.NewBusPublisher(bus))
		go func() {
			if err := events.Relay(ctx, bus, w.hub); err != nil {
				log.WithError(err).Error("fleet updates relay stopped")
			}
		}()
	} else {
		publisher = append(publisher, w.hub)
	}

	// Initialize services.
	notificationService := service.NewNotificationService(publisher)
	registryService := service.NewRegistryService(w.store, statsCache, notificationService)
	driverService := service.NewDriverService(w.store, statsCache, notificationService)
	tripService := service.NewTripService(w.store, lockStore, statsCache, w.trail, notificationService)
	maintenanceService := service.NewMaintenanceService(w.store, statsCache, notificationService)
	financeService := service.NewFinanceService(w.store, statsCache)
	analyticsService := service.NewAnalyticsService(w.store, statsCache)
	tokens := auth.NewService(w.cfg.Auth.JWTSecret, w.cfg.Auth.TokenTTL)
	authService := service.NewAuthService(w.store.Users(), tokens, auth.LogMailer{}, w.cfg.Auth.OTPTTL)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		VehicleHandler:     handler.NewVehicleHandler(registryService),
		DriverHandler:      handler.NewDriverHandler(driverService),
		TripHandler:        handler.NewTripHandler(tripService),
		MaintenanceHandler: handler.NewMaintenanceHandler(maintenanceService),
		FinanceHandler:     handler.NewFinanceHandler(financeService),
		AnalyticsHandler:   handler.NewAnalyticsHandler(analyticsService),
		AuthHandler:        handler.NewAuthHandler(authService),
		Hub:                w.hub,
		Tokens:             tokens,
		Idempotency:        idempotency,
		NewRelicApp:        w.nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + w.cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  w.cfg.Server.ReadTimeout,
		WriteTimeout: w.cfg.Server.WriteTimeout,
	}, driverService
}
