package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/smart-campus-hub/internal/chat"
	"github.com/iliyamo/smart-campus-hub/internal/config"
	"github.com/iliyamo/smart-campus-hub/internal/database"
	"github.com/iliyamo/smart-campus-hub/internal/handler"
	"github.com/iliyamo/smart-campus-hub/internal/middleware"
	"github.com/iliyamo/smart-campus-hub/internal/notify"
	"github.com/iliyamo/smart-campus-hub/internal/queue"
	"github.com/iliyamo/smart-campus-hub/internal/repository"
	"github.com/iliyamo/smart-campus-hub/internal/router"
	"github.com/iliyamo/smart-campus-hub/internal/service"
	"github.com/iliyamo/smart-campus-hub/internal/storage"
)

const notificationLogPath = "logs/notifications.log"

func main() {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	cfg := config.Load()
	log := config.NewLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reg *repository.Registry
	hub := notify.NewHub(func() any { return reg.KitchenStatus() }, log)
	go hub.Run()

	pubs := []notify.Publisher{hub}
	if broker := startBroker(ctx, cfg, log); broker != nil {
		pubs = append(pubs, broker)
	}
	reg = repository.NewRegistry(
		repository.DefaultSeed(time.Now()),
		repository.WithPublisher(notify.NewFanout(pubs...)),
		repository.WithLogger(log),
	)

	sim := service.NewKitchenSimulator(reg, cfg.Kitchen, service.WithSimulatorLogger(log))
	go sim.Run(ctx)

	if cfg.Notify.Archive {
		startArchive(ctx, cfg, log)
	}

	store, err := storage.NewDiskStore(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		log.WithError(err).Fatal("upload directory")
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Info("redis unavailable, cache disabled and rate limiting is per process")
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(log)
	e.Use(middleware.RequestLogger(log), middleware.Prometheus(), echomw.Recover())
	e.Use(echomw.BodyLimit(bodyLimit(cfg.UploadMaxBytes)))

	router.RegisterRoutes(e, hub, cfg.UploadDir)
	router.RegisterServices(e, router.Services{
		Canteen:     handler.NewCanteenHandler(reg),
		Maintenance: handler.NewMaintenanceHandler(reg, store),
		LostFound:   handler.NewLostFoundHandler(reg, store),
		Events:      handler.NewEventsHandler(reg, store),
		Campus:      handler.NewCampusHandler(reg),
	}, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterChat(e,
		handler.NewChatHandler(chat.NewClient(cfg.Chat, log)),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
	)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(e),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Chat.Timeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	srv.RegisterOnShutdown(hub.Stop)

	go func() {
		log.WithFields(logrus.Fields{"addr": srv.Addr, "env": cfg.Env}).Info("smart campus hub listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}

// startBroker connects the configured mirror. Connection failures are
// logged and the hub keeps running on websockets alone.
func startBroker(ctx context.Context, cfg config.Config, log logrus.FieldLogger) notify.Publisher {
	switch cfg.Notify.Broker {
	case "rabbitmq":
		p := service.NewRabbitPublisher(cfg.Notify.RabbitURL, cfg.Notify.Exchange, cfg.Notify.BufferSize, log)
		go p.Run(ctx)
		go func() {
			<-ctx.Done()
			p.Close()
		}()
		return p
	case "nats":
		p, err := service.NewNATSPublisher(cfg.Notify.NATSURL, log)
		if err != nil {
			log.WithError(err).Warn("nats unavailable, notifications stay local")
			return nil
		}
		go func() {
			<-ctx.Done()
			if err := p.Close(); err != nil {
				log.WithError(err).Warn("nats drain")
			}
		}()
		return p
	case "", "none":
		return nil
	default:
		log.WithField("broker", cfg.Notify.Broker).Warn("unknown broker, notifications stay local")
		return nil
	}
}

// startArchive consumes the RabbitMQ mirror into the notification log file
// and, when MySQL is configured, the notification_log table.
func startArchive(ctx context.Context, cfg config.Config, log logrus.FieldLogger) {
	if cfg.Notify.Broker != "rabbitmq" {
		log.Warn("NOTIFY_ARCHIVE needs NOTIFY_BROKER=rabbitmq, archive disabled")
		return
	}
	sinks := queue.MultiSink{queue.NewFileSink(notificationLogPath)}
	if cfg.DB.Enabled() {
		db, err := database.Open(ctx, cfg.DB, 5*time.Second)
		if err != nil {
			log.WithError(err).Warn("mysql unavailable, archiving to file only")
		} else {
			logs := repository.NewNotificationLogRepo(db)
			if err := logs.EnsureSchema(ctx); err != nil {
				log.WithError(err).Warn("notification_log schema, archiving to file only")
			} else {
				sinks = append(sinks, queue.StoreSink(logs))
			}
		}
	}
	consumer := &queue.ArchiveConsumer{
		URL:      cfg.Notify.RabbitURL,
		Exchange: cfg.Notify.Exchange,
		Sink:     sinks,
		Log:      log,
	}
	go func() {
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("notification archive stopped")
		}
	}()
}

// bodyLimit renders the upload cap in the unit format BodyLimit expects,
// leaving headroom for the multipart envelope and text fields.
func bodyLimit(maxUpload int64) string {
	return strconv.FormatInt(maxUpload/(1<<20)+1, 10) + "M"
}
