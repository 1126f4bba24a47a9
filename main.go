package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pizzeria-service/catalog"
	"pizzeria-service/client"
	"pizzeria-service/config"
	"pizzeria-service/consumers"
	"pizzeria-service/controllers"
	"pizzeria-service/database"
	"pizzeria-service/middlewares"
	"pizzeria-service/models"
	"pizzeria-service/notifier"
	"pizzeria-service/orders"
	"pizzeria-service/rabbitmq"
	"pizzeria-service/repository"
	"pizzeria-service/storefront"
	"pizzeria-service/utils"
)

func main() {
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "serve":
		serve(ctx, cfg)
	case "migrate":
		migrate(ctx, cfg)
	case "watch":
		watch(ctx, cfg)
	default:
		log.Fatalf("Unknown command %q (want serve, migrate or watch)", cmd)
	}
}

func migrate(ctx context.Context, cfg *config.Config) {
	if err := database.InitDB(cfg); err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer database.CloseDB()

	if err := database.ApplyMigrations(ctx, database.DB, true); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations applied")
}

func serve(ctx context.Context, cfg *config.Config) {
	gin.SetMode(cfg.GinMode)

	if err := database.InitDB(cfg); err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer database.CloseDB()

	if cfg.AutoMigrate {
		if err := database.ApplyMigrations(ctx, database.DB, false); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	}

	repo := repository.New(database.DB)

	// First run: fill empty catalog tables with the built-in menu and zones.
	snap := catalog.NewLoader(repo, repo, cfg.OrdersLimit).Load(ctx)
	if snap.Offline {
		log.Printf("Catalog could not be read from the database, serving defaults until it recovers")
	}
	log.Printf("Catalog ready: %d products, %d zones", len(snap.Products), len(snap.Zones))

	pipelineOpts := []orders.Option{orders.WithFailureHook(middlewares.RecordWriteFailure)}
	var publisher orders.Publisher
	if cfg.EventsEnabled() {
		rmq, err := rabbitmq.NewRabbitMQ(cfg)
		if err != nil {
			log.Fatalf("RabbitMQ initialization failed: %v", err)
		}
		defer rmq.Close()

		if err := rmq.SetupQueues(); err != nil {
			log.Fatalf("Failed to setup RabbitMQ queues: %v", err)
		}

		consumer := consumers.NewOrderConsumer(notifier.New(cfg.TelegramToken, cfg.TelegramChatID))
		if err := consumer.Start(ctx, rmq.Channel, cfg); err != nil {
			log.Fatalf("Failed to start order consumer: %v", err)
		}
		publisher = rmq
		pipelineOpts = append(pipelineOpts, orders.WithPublisher(rmq))
	} else {
		log.Printf("RABBITMQ_URL not set, order events disabled")
	}

	pinHash, err := utils.HashPIN(cfg.AdminPIN)
	if err != nil {
		log.Fatalf("Invalid ADMIN_PIN: %v", err)
	}

	handler := controllers.NewHandler(repo, orders.NewPipeline(repo, pipelineOpts...), publisher, controllers.Options{
		JWTSecret:      cfg.JWTSecret,
		PINHash:        pinHash,
		TokenTTL:       cfg.TokenTTL,
		WhatsAppNumber: cfg.WhatsAppNumber,
		OrdersLimit:    cfg.OrdersLimit,
	})

	r := gin.Default()
	r.Use(middlewares.RequestID())
	r.Use(middlewares.PrometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		if err := repo.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler.Register(r.Group("/api"), middlewares.OperatorAuth(cfg.JWTSecret))

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Printf("Pizzeria service starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}

// watch runs a headless storefront against the API: it keeps the local
// state file current and follows the broadcast settings.
func watch(ctx context.Context, cfg *config.Config) {
	api := client.New(cfg.APIURL)
	store, err := storefront.New(api, storefront.NewFileState(cfg.StateFile), storefront.Options{
		WhatsAppNumber: cfg.WhatsAppNumber,
		OrdersLimit:    cfg.OrdersLimit,
		OnWriteFailure: middlewares.RecordWriteFailure,
	})
	if err != nil {
		log.Fatalf("Storefront initialization failed: %v", err)
	}

	snap := store.Load(ctx)
	log.Printf("Storefront loaded: %d products, %d orders, offline=%t", len(snap.Products), len(snap.Orders), snap.Offline)

	scene := ""
	poller := storefront.NewPoller(api, cfg.SettingsPollInterval, cfg.SettingsPollVisibleOnly, func(settings map[string]string) {
		store.ApplySettings(settings)
		if g := store.Graphics(); g.ActiveScene != scene {
			scene = g.ActiveScene
			log.Printf("Broadcast scene is now %s", scene)
		}
		if store.Pending() > 0 {
			if err := store.Retry(ctx); err != nil {
				log.Printf("Outbox still has %d writes: %v", store.Pending(), err)
			}
		}
	})
	log.Printf("Polling %s settings every %s", models.SettingBroadcastGraphics, cfg.SettingsPollInterval)
	poller.Run(ctx)
}
