package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/internal/admin"
	adminusecase "storefront/internal/admin/usecase"
	"storefront/internal/cache"
	"storefront/internal/cart"
	"storefront/internal/category"
	"storefront/internal/commons"
	"storefront/internal/config"
	"storefront/internal/infrastructure/kafka"
	"storefront/internal/infrastructure/logger"
	"storefront/internal/infrastructure/metrics"
	"storefront/internal/infrastructure/migrations"
	"storefront/internal/infrastructure/mysql"
	"storefront/internal/infrastructure/redisx"
	"storefront/internal/infrastructure/storage"
	"storefront/internal/order"
	"storefront/internal/outbox"
	"storefront/internal/product"
	"storefront/internal/server"
	"storefront/internal/session"
	"storefront/internal/validation"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("loading .env: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "internal/config/config.yaml"
	}
	cfg, err := commons.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Server.IsProduction())
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(ctx, db, zapLogger); err != nil {
			zapLogger.Fatal("running migrations", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redisx.New(cfg.Redis)
		if err != nil {
			zapLogger.Fatal("connecting to redis", zap.Error(err))
		}
		defer redisClient.Close()
		zapLogger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	var wg sync.WaitGroup

	appCache := newCache(cfg.Cache, redisClient, zapLogger)
	carts := newSessionStore(ctx, &wg, cfg.Session, redisClient, zapLogger)
	images := newImageStore(cfg.Storage, zapLogger)

	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
		defer producer.Close()

		relay := outbox.NewRelay(outbox.NewMySQLRepository(db), producer, cfg.Outbox.Interval, cfg.Outbox.BatchSize, zapLogger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			relay.Run(ctx)
		}()
	} else {
		zapLogger.Info("kafka not configured, order events stay in the outbox")
	}

	validator := validation.New()
	serverMetrics := metrics.NewServerMetrics()

	handlers := server.Handlers{
		Catalog:    product.NewModule(db, validator, zapLogger),
		Categories: category.NewModule(db, appCache, zapLogger),
		Cart:       cart.NewModule(db, carts, validator, zapLogger),
		Orders:     order.NewModule(db, cfg, appCache, validator, serverMetrics, zapLogger),
		Admin:      admin.NewModule(db, cfg.Admin, images, validator, zapLogger),
	}
	router := server.NewRouter(handlers, cfg, serverMetrics, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)
	if err := srv.Run(ctx); err != nil {
		zapLogger.Error("server error", zap.Error(err))
	}

	stop()
	wg.Wait()
	zapLogger.Info("server stopped gracefully")
}

func newCache(cfg config.CacheConfig, client *redis.Client, logger *zap.Logger) cache.Cache {
	if cfg.Driver == "redis" && client != nil {
		return cache.NewRedisCache(client)
	}
	logger.Info("using no-op cache")
	return cache.NewNoop()
}

func newSessionStore(ctx context.Context, wg *sync.WaitGroup, cfg config.SessionConfig, client *redis.Client, logger *zap.Logger) session.Store {
	if cfg.Driver == "redis" && client != nil {
		return session.NewRedisStore(client, cfg.TTL)
	}

	logger.Info("using in-memory cart sessions")
	store := session.NewMemoryStore(cfg.TTL)

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := store.Sweep(); n > 0 {
					logger.Debug("expired carts removed", zap.Int("count", n))
				}
			}
		}
	}()
	return store
}

func newImageStore(cfg config.StorageConfig, logger *zap.Logger) adminusecase.ImageStore {
	if cfg.Endpoint == "" {
		logger.Warn("object storage not configured, image uploads disabled")
		return nil
	}
	store, err := storage.NewImageStore(cfg)
	if err != nil {
		logger.Fatal("creating image store", zap.Error(err))
	}
	return store
}
