package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"
	"github.com/robfig/cron/v3"
	"github.com/rollbar/rollbar-go"

	"ilmhub_backend/internals/configs"
	database "ilmhub_backend/internals/databases"
	orderController "ilmhub_backend/internals/features/commerce/orders/controller"
	orderService "ilmhub_backend/internals/features/commerce/orders/service"
	paymentController "ilmhub_backend/internals/features/commerce/payments/controller"
	paymentService "ilmhub_backend/internals/features/commerce/payments/service"
	"ilmhub_backend/internals/features/programme/jobs/scheduler"
	jobService "ilmhub_backend/internals/features/programme/jobs/service"
	userService "ilmhub_backend/internals/features/users/users/service"
	"ilmhub_backend/internals/helpers/audit"
	"ilmhub_backend/internals/helpers/cache"
	"ilmhub_backend/internals/helpers/mailer"
	helperOSS "ilmhub_backend/internals/helpers/oss"
	"ilmhub_backend/internals/messaging/kafka"
	middlewares "ilmhub_backend/internals/middlewares"
	"ilmhub_backend/internals/middlewares/auth"
	"ilmhub_backend/internals/middlewares/logger"
	routes "ilmhub_backend/internals/route"
)

func main() {
	conf := configs.LoadEnv()
	report := middlewares.InitRollbar(conf)

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            middlewares.ErrorHandler(report),
		DisableStartupMessage:   true,
		BodyLimit:               8 * 1024 * 1024,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	app.Use(middlewares.RecoveryMiddleware())
	app.Use(middlewares.CorsMiddleware(conf))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// Request-ID + per-request timeout (matches statement_timeout on the DB side)
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})
	app.Use(logger.LoggerMiddleware(conf.Timezone))

	// 🔌 DB connect + pool + warm-up
	db := database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()
	if configs.GetBool("AUTO_MIGRATE", false) {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("❌ auto-migrate: %v", err)
		}
	}

	// cache + rate limiter storage
	var appCache cache.Cache
	var storage fiber.Storage
	if conf.RedisAddr != "" {
		rdb := cache.NewRedisClient(conf.RedisAddr, conf.RedisPassword)
		appCache = cache.NewRedisCache(rdb)
		storage = cache.NewLimiterStorage(rdb, "ilmhub:limiter:")
		log.Println("✅ redis cache + limiter storage")
	} else {
		appCache = cache.NewLRUCache(256, cache.TTLDashboard)
		log.Println("[INFO] REDIS_ADDR not set, using in-process cache")
	}

	al, closeAudit := audit.Connect(context.Background(), conf.MongoURI, conf.MongoDB)
	mail := mailer.New(conf)

	deps := routes.Deps{
		DB:      db,
		Conf:    conf,
		Audit:   al,
		Mailer:  mail,
		Cache:   appCache,
		Storage: storage,
		Roles:   userService.NewRoleUpdater(conf.ClerkSecretKey),
	}
	if up, err := helperOSS.NewOSSServiceFromEnv("ilmhub"); err != nil {
		log.Printf("[WARN] image uploads disabled: %v", err)
	} else {
		deps.Uploader = up
	}

	verifier, err := auth.NewVerifier(conf.ClerkJWTKey)
	if err != nil {
		log.Printf("[ERROR] clerk jwt key: %v", err)
		verifier = nil
	}

	// order events: kafka when brokers are configured, inline otherwise
	notifier := &orderService.Notifier{
		DB:          db,
		Mailer:      mail,
		AppName:     conf.AppName,
		AppBaseURL:  conf.AppBaseURL,
		AdminEmails: conf.AdminEmails,
	}
	var dispatcher orderService.Dispatcher = orderService.InlineDispatcher{Notifier: notifier}
	var producer *kafka.Producer
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	if len(conf.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(conf.KafkaBrokers, conf.KafkaTopic, 1024)
		producer.Start()
		dispatcher = orderService.KafkaDispatcher{Producer: producer}

		consumer := kafka.NewConsumer(conf.KafkaBrokers, conf.KafkaGroup, conf.KafkaTopic, 4)
		go func() {
			if err := consumer.Start(consumerCtx, orderService.KafkaHandler(notifier)); err != nil {
				log.Printf("[ERROR] order event consumer: %v", err)
			}
		}()
		log.Printf("✅ kafka order events on %q", conf.KafkaTopic)
	}

	orders := orderService.NewOrderService(db, dispatcher)
	gateways := paymentService.NewGateways(conf)
	if len(gateways) == 0 {
		log.Println("❌ no payment gateway configured, checkout is disabled")
	}
	deps.Orders = orderController.NewOrderController(db, orders, gateways, conf.PaymentProvider, conf.Currency, al)
	deps.Payments = paymentController.NewPaymentController(db, orders, gateways, conf.AppBaseURL)

	deps.Jobs = jobService.NewJobService(db, mail, jobService.Options{
		AppName:    conf.AppName,
		AppBaseURL: conf.AppBaseURL,
		Loc:        conf.Location(),
		WeeksAhead: 4,
		Retention:  30 * 24 * time.Hour,
	})

	// ⏱ scheduler after DB is ready
	var cr *cron.Cron
	if conf.EnableScheduler {
		if cr, err = scheduler.Start(deps.Jobs, conf.Location()); err != nil {
			log.Fatalf("❌ scheduler: %v", err)
		}
	}

	routes.SetupRoutes(app, verifier, deps)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("✅ Listening on :%s", conf.Port)
		if err := app.Listen("0.0.0.0:" + conf.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if cr != nil {
		<-cr.Stop().Done()
	}
	stopConsumer()
	if producer != nil {
		producer.Close()
		producer.WaitClosed(ctx)
	}
	if err := closeAudit(ctx); err != nil {
		log.Printf("[WARN] audit close: %v", err)
	}
	database.Close()
	if report {
		rollbar.Close()
	}
}
