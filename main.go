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
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"rental-service/internal/config"
	"rental-service/internal/events"
	"rental-service/internal/handler"
	"rental-service/internal/logger"
	"rental-service/internal/mailer"
	"rental-service/internal/metrics"
	mongodb "rental-service/internal/mongo"
	"rental-service/internal/repository"
	"rental-service/internal/service"
	"rental-service/internal/userclient"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New("rental-service", cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("db connect error")
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	if cfg.DBAutoMigrate {
		if err := repository.Migrate(db); err != nil {
			log.WithError(err).Fatal("migration failed")
		}
		log.Info("database migrations applied")
	}

	ctx := context.Background()

	var store service.NotificationStore
	switch cfg.NotificationStore {
	case "mongo":
		client, err := mongodb.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			log.WithError(err).Fatal("mongo connect error")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		mrepo := repository.NewMongoNotificationRepository(client.Database(cfg.MongoDB))
		if err := mrepo.EnsureIndexes(ctx); err != nil {
			log.WithError(err).Fatal("mongo index creation failed")
		}
		store = mrepo
	default:
		store = repository.NewNotificationRepository(db)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	met := metrics.New(reg)

	var dispatcher service.Dispatcher = service.NewDispatchOrchestrator(store, newMailer(cfg, log), log, met)

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable, dedupe guard will fail open")
		}
		dispatcher = service.NewDedupeGuard(dispatcher, rdb, cfg.DedupeTTL, log)
	}

	notifier := service.NewNotifier(dispatcher)

	var users service.UserDirectory
	if cfg.UserServiceURL != "" {
		users = userclient.New(cfg.UserServiceURL, cfg.MailTimeout, log)
	}

	listingRepo := repository.NewListingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	listingSvc := service.NewListingService(listingRepo, notifier, users, log)
	reviewSvc := service.NewReviewService(reviewRepo, listingRepo, notifier, users, log)
	notificationSvc := service.NewNotificationService(store)

	var bus *events.Client
	if cfg.NATSURL != "" {
		nc, err := events.NewClient(cfg.NATSURL, log)
		if err != nil {
			log.WithError(err).Fatal("nats connect error")
		}
		defer nc.Close()
		bus = nc
		if err := events.NewSubscriber(notifier, 0, log).Start(nc); err != nil {
			log.WithError(err).Fatal("nats subscribe error")
		}
		log.WithField("subject", events.SubjectPrefix+">").Info("listening for events")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(log), met.GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.GET("/healthz", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		resp := gin.H{"status": "ok"}
		if bus != nil {
			resp["nats_connected"] = bus.IsConnected()
		}
		c.JSON(http.StatusOK, resp)
	})

	handler.RegisterRoutes(r, cfg.JWTSecret,
		handler.NewListingHandler(listingSvc),
		handler.NewReviewHandler(reviewSvc),
		handler.NewNotificationHandler(notificationSvc, notifier),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("rental service running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
}

// newMailer returns nil when email is disabled.
func newMailer(cfg *config.Config, log *logrus.Entry) mailer.Mailer {
	switch cfg.MailDriver {
	case "smtp":
		return mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SiteURL)
	case "function":
		return mailer.NewFunctionMailer(cfg.MailFunctionURL, cfg.MailFunctionKey, cfg.MailTimeout)
	}
	log.Info("email disabled, notifications are in-app only")
	return nil
}
