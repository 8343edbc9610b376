package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"homeserve/config"
	"homeserve/cron"
	"homeserve/database"
	addressRepo "homeserve/database/repository/address"
	bookingRepo "homeserve/database/repository/booking"
	catalogRepo "homeserve/database/repository/catalog"
	providerRepo "homeserve/database/repository/provider"
	ratingRepo "homeserve/database/repository/rating"
	userRepoPkg "homeserve/database/repository/user"
	"homeserve/handlers"
	"homeserve/models"
	"homeserve/routes"
	"homeserve/services/address"
	"homeserve/services/booking"
	"homeserve/services/catalog"
	"homeserve/services/notification"
	"homeserve/services/provider"
	"homeserve/services/rating"
	"homeserve/services/storage"
	"homeserve/services/tasks"
	"homeserve/services/user"
	"homeserve/utils"

	"github.com/gin-gonic/gin"
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
	if err := utils.RegisterValidators(); err != nil {
		logger.Fatal("main: failed to register validators", zap.Error(err))
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("main: invalid TIMEZONE", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	database.InitDB()
	utils.InitRedis()

	// Optional integrations fall back to logging senders.
	var pusher notification.Pusher = notification.LogPusher{Logger: logger}
	if cfg.FCMEnabled {
		fcm, err := utils.InitFCM(context.Background(), cfg.FirebaseCredentialsFile)
		if err != nil {
			logger.Error("main: FCM disabled", zap.Error(err))
		} else {
			pusher = &notification.FCMPusher{Client: fcm}
		}
	}
	var sms notification.SMSSender = notification.LogSMSSender{Logger: logger}
	if cfg.SMSEnabled {
		sms = notification.NewHTTPSMSGateway(cfg.SMSGatewayURL, cfg.SMSAPIKey, cfg.SMSSenderID)
	}
	var files storage.FileStorage
	if cld, err := utils.Cloudinary(); err != nil {
		logger.Warn("main: document uploads disabled", zap.Error(err))
	} else {
		files = storage.NewCloudinaryStorage(cld)
	}

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	addrRepo := addressRepo.NewMongoAddressRepo()
	catRepo := catalogRepo.NewMongoCatalogRepo()
	bookRepo := bookingRepo.NewMongoBookingRepo()
	provRepo := providerRepo.NewMongoProviderRepo()
	rateRepo := ratingRepo.NewMongoRatingRepo()

	queueClient := asynq.NewClient(tasks.RedisConnOpt())
	defer queueClient.Close()
	dispatcher := tasks.NewDispatcher(queueClient, logger)

	paging := models.PagingDefaults{DefaultLimit: cfg.PaginationDefaultLimit, MaxLimit: cfg.PaginationMaxLimit}

	// services.
	userService, err := user.NewUserService(userRepo, utils.NewRedisOTPStore(utils.GetOTPCacheClient()), sms,
		user.Options{
			OTPTTL:         time.Duration(cfg.OTPTTLMinutes) * time.Minute,
			OTPLength:      cfg.OTPLength,
			OTPMaxAttempts: int64(cfg.OTPMaxAttempts),
			TokenTTL:       time.Duration(cfg.JWTTTLHours) * time.Hour,
		}, paging, logger)
	if err != nil {
		logger.Fatal("main: user service", zap.Error(err))
	}
	catalogService, err := catalog.NewCatalogService(catRepo, paging, logger)
	if err != nil {
		logger.Fatal("main: catalog service", zap.Error(err))
	}
	addressService, err := address.NewAddressService(addrRepo, paging, logger)
	if err != nil {
		logger.Fatal("main: address service", zap.Error(err))
	}
	bookingService, err := booking.NewBookingService(bookRepo, catRepo, addrRepo, dispatcher,
		booking.Options{Location: loc, NotifyChanges: cfg.NotifyBookingChanges}, paging, logger)
	if err != nil {
		logger.Fatal("main: booking service", zap.Error(err))
	}
	providerService, err := provider.NewProviderService(provRepo, bookRepo, catRepo, files, dispatcher,
		provider.Options{
			EnforceCapability: cfg.MatchingEnforceCapability,
			Location:          loc,
			DocumentFolder:    cfg.CloudinaryFolder,
		}, paging, logger)
	if err != nil {
		logger.Fatal("main: provider service", zap.Error(err))
	}
	ratingService, err := rating.NewRatingService(rateRepo, bookRepo, provRepo, catRepo,
		database.NewMongoTxRunner(), dispatcher,
		rating.Options{RequireCompletedBooking: cfg.RatingRequireCompletedBooking}, paging, logger)
	if err != nil {
		logger.Fatal("main: rating service", zap.Error(err))
	}
	ratingService.Cache = rating.NewRedisSummaryCache(utils.GetCacheClient(), 10*time.Minute)
	notificationService, err := notification.NewNotificationService(userRepo, provRepo, pusher, sms, logger)
	if err != nil {
		logger.Fatal("main: notification service", zap.Error(err))
	}

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userService.BootstrapAdmin(bootCtx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
		logger.Error("main: failed to bootstrap admin", zap.Error(err))
	}
	bootCancel()

	handlerBundle := &handlers.HandlerBundle{
		Auth:      handlers.NewAuthHandler(userService),
		Users:     handlers.NewUserHandler(userService),
		Addresses: handlers.NewAddressHandler(addressService),
		Catalog:   handlers.NewCatalogHandler(catalogService),
		Bookings:  handlers.NewBookingHandler(bookingService, providerService),
		Ratings:   handlers.NewRatingHandler(ratingService),
		Providers: handlers.NewProviderHandler(providerService),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	routes.RegisterRoutes(router, handlerBundle, routes.Options{
		AllowOrigins:      config.AllowedOrigins(),
		RequestsPerMinute: cfg.MaxRequestsPerMin,
		Logger:            logger,
	})

	worker, err := cron.StartWorker(ratingService, notificationService, cron.WorkerOptions{
		ReconcileCron: cfg.RatingReconcileCron,
		Location:      loc,
	}, logger)
	if err != nil {
		logger.Fatal("main: failed to start task worker", zap.Error(err))
	}

	healthCtx, stopHealth := context.WithCancel(context.Background())
	utils.StartHealthMonitor(healthCtx, utils.RedisClients(), database.MongoClient, ratingService.BacklogCount)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	worker.Shutdown()
	stopHealth()
	if err := database.Disconnect(ctx); err != nil {
		logger.Error("main: failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
	_ = logger.Sync()
}
