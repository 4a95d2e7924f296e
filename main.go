// File: vehiclecare/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vehiclecare/config"
	"vehiclecare/database"
	"vehiclecare/database/repository"
	"vehiclecare/handlers"
	"vehiclecare/routes"
	"vehiclecare/services/booking"
	"vehiclecare/services/notification"
	"vehiclecare/services/station"
	"vehiclecare/services/user"
	"vehiclecare/utils"
	"vehiclecare/worker"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	cfg := config.AppConfig

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// repositories.
	var repos *repository.Repositories
	checks := map[string]utils.HealthCheck{}
	switch cfg.Store {
	case "memory":
		logger.Warn("main: using the in-memory store; data is lost on restart")
		repos = repository.NewMemoryRepositories()
	default:
		database.InitDB()
		repos = repository.NewMongoRepositories(database.Database(), cfg.MongoTransactions)
		checks["mongo"] = func(ctx context.Context) error { return database.MongoClient.Ping(ctx, nil) }
	}

	// redis: auth cache, booking locks and the notification queue. Without it the
	// process falls back to in-process locks and inline delivery.
	var (
		authCache *redis.Client
		locker    booking.Locker = booking.NewKeyedMutex()
	)
	redisEnabled := cfg.RedisAddr != ""
	if redisEnabled {
		authCache = utils.GetAuthCacheClient()
		lockClient := utils.GetLockClient()
		locker = utils.NewRedisLocker(lockClient, cfg.BookingLockTTL)
		checks["redis"] = func(ctx context.Context) error { return lockClient.Ping(ctx).Err() }
	}

	// notification sinks.
	hub := notification.NewHub(logger.Named("hub"))
	go hub.Run(ctx)
	sinks := []notification.Sink{hub}

	if cfg.FirebaseCredentials != "" {
		fcmClient, err := notification.NewFCMClient(ctx, cfg.FirebaseCredentials)
		if err != nil {
			logger.Error("main: push notifications disabled", zap.Error(err))
		} else {
			sinks = append(sinks, notification.NewFCMSink(fcmClient, repos.Users))
		}
	}

	var mqSink *notification.MQSink
	if cfg.RabbitURL != "" {
		var err error
		mqSink, err = notification.NewMQSink(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			logger.Error("main: booking event publishing disabled", zap.Error(err))
		} else {
			sinks = append(sinks, mqSink)
		}
	}
	dispatcher := notification.NewDispatcher(logger.Named("notify"), sinks...)

	var (
		notifier    notification.Notifier = notification.NewInlineNotifier(dispatcher, logger.Named("notify"))
		queueClient *asynq.Client
		notifWorker *worker.NotificationWorker
	)
	if redisEnabled && cfg.NotifyQueueEnabled {
		queueClient = asynq.NewClient(worker.RedisOpt())
		notifier = notification.NewQueueNotifier(queueClient, cfg.NotifyMaxRetry)
		notifWorker = worker.NewNotificationWorker(worker.RedisOpt(), dispatcher, cfg.NotifyConcurrency, logger.Named("worker"))
		notifWorker.Start(ctx)
	}

	// services.
	userService := user.NewUserService(repos.Users)
	stationService := station.NewStationService(repos, logger.Named("station"))
	bookingService := booking.NewBookingService(repos, locker, notifier, logger.Named("booking"))

	bookingHandler := handlers.NewBookingHandler(bookingService)
	stationHandler := handlers.NewStationHandler(stationService)
	userHandler := handlers.NewUserHandler(userService)
	socketHandler := handlers.NewSocketHandler(hub, cfg.AllowedOrigins)
	adminHandler := handlers.NewAdminHandler(stationService, userService, authCache)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Resolver:          userService,
		AuthCache:         authCache,
		MaxRequestsPerMin: cfg.MaxRequestsPerMin,
		AllowedOrigins:    cfg.AllowedOrigins,
		TrustedProxies:    cfg.TrustedProxies,

		// Booking endpoints.
		SubmitBookingHandler:        bookingHandler.SubmitBookingHandler,
		GetMyBookingsHandler:        bookingHandler.GetMyBookingsHandler,
		GetBookingHandler:           bookingHandler.GetBookingHandler,
		GetBookingHistoryHandler:    bookingHandler.GetBookingHistoryHandler,
		GetUnhandledBookingsHandler: bookingHandler.GetUnhandledBookingsHandler,
		DecideBookingHandler:        bookingHandler.DecideBookingHandler,
		AdvanceBookingHandler:       bookingHandler.AdvanceBookingHandler,

		// Station endpoints.
		CreateStationHandler: stationHandler.CreateStationHandler,
		GetOwnStationHandler: stationHandler.GetOwnStationHandler,
		UpdateStationHandler: stationHandler.UpdateStationHandler,
		OpenStationHandler:   stationHandler.OpenStationHandler,
		CloseStationHandler:  stationHandler.CloseStationHandler,

		// User endpoints.
		GetMeHandler:          userHandler.GetMeHandler,
		RegisterDeviceHandler: userHandler.RegisterDeviceHandler,

		ServeWSHandler: socketHandler.ServeWS,

		// Admin endpoints.
		AdminHandler: adminHandler,
	}

	router := gin.New()
	if err := routes.RegisterRoutes(router, handlerBundle); err != nil {
		logger.Fatal("Invalid router configuration", zap.Error(err))
	}
	utils.StartHealthMonitor(ctx, 30*time.Second, checks)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	if notifWorker != nil {
		notifWorker.Shutdown()
	}
	if queueClient != nil {
		_ = queueClient.Close()
	}
	if mqSink != nil {
		_ = mqSink.Close()
	}
	stop()
	utils.CloseRedis()
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: failed to disconnect from MongoDB: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
	_ = logger.Sync()
}
