package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	authapp "github.com/wyfcoding/fruitable/internal/auth/application"
	authdomain "github.com/wyfcoding/fruitable/internal/auth/domain"
	authmessaging "github.com/wyfcoding/fruitable/internal/auth/infrastructure/messaging"
	authmysql "github.com/wyfcoding/fruitable/internal/auth/infrastructure/persistence/mysql"
	authredis "github.com/wyfcoding/fruitable/internal/auth/infrastructure/persistence/redis"
	authhttp "github.com/wyfcoding/fruitable/internal/auth/interfaces/http"
	cartapp "github.com/wyfcoding/fruitable/internal/cart/application"
	cartdomain "github.com/wyfcoding/fruitable/internal/cart/domain"
	cartmysql "github.com/wyfcoding/fruitable/internal/cart/infrastructure/persistence/mysql"
	cartredis "github.com/wyfcoding/fruitable/internal/cart/infrastructure/persistence/redis"
	carthttp "github.com/wyfcoding/fruitable/internal/cart/interfaces/http"
	catalogapp "github.com/wyfcoding/fruitable/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/fruitable/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/fruitable/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/wyfcoding/fruitable/internal/catalog/interfaces/http"
	checkoutapp "github.com/wyfcoding/fruitable/internal/checkout/application"
	checkoutmessaging "github.com/wyfcoding/fruitable/internal/checkout/infrastructure/messaging"
	checkoutpayment "github.com/wyfcoding/fruitable/internal/checkout/infrastructure/payment"
	checkouthttp "github.com/wyfcoding/fruitable/internal/checkout/interfaces/http"
	reviewapp "github.com/wyfcoding/fruitable/internal/review/application"
	reviewdomain "github.com/wyfcoding/fruitable/internal/review/domain"
	reviewmessaging "github.com/wyfcoding/fruitable/internal/review/infrastructure/messaging"
	reviewmysql "github.com/wyfcoding/fruitable/internal/review/infrastructure/persistence/mysql"
	reviewhttp "github.com/wyfcoding/fruitable/internal/review/interfaces/http"
	"github.com/wyfcoding/fruitable/pkg/cache"
	"github.com/wyfcoding/fruitable/pkg/config"
	"github.com/wyfcoding/fruitable/pkg/db"
	"github.com/wyfcoding/fruitable/pkg/logger"
	"github.com/wyfcoding/fruitable/pkg/metrics"
	"github.com/wyfcoding/fruitable/pkg/middleware"
	"github.com/wyfcoding/fruitable/pkg/mq"
	"github.com/wyfcoding/fruitable/pkg/outbox"
	"github.com/wyfcoding/fruitable/pkg/token"
)

func main() {
	configPath := flag.String("config", "configs/config.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "starting service", "name", cfg.ServiceName, "env", cfg.Environment)

	database, err := db.Init(db.Config{
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to connect to database", "error", err)
	}
	defer database.Close()

	if cfg.Environment == "dev" {
		if err := database.AutoMigrate(
			&catalogdomain.Region{},
			&catalogdomain.City{},
			&catalogdomain.Category{},
			&catalogdomain.Product{},
			&reviewdomain.Rating{},
			&reviewdomain.Review{},
			&cartdomain.Customer{},
			&cartdomain.Order{},
			&cartdomain.OrderProduct{},
			&cartdomain.ShippingAddress{},
			&catalogdomain.Subscriber{},
			&authdomain.User{},
			&outbox.Message{},
		); err != nil {
			logger.Fatal(ctx, "auto-migration failed", "error", err)
		}
	}

	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to connect to redis", "error", err)
	}
	defer redisCache.Close()

	producer := mq.NewProducer(mq.Config{
		Brokers:      cfg.Kafka.Brokers,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	})
	defer producer.Close()

	outboxMgr := outbox.NewManager(database.DB)
	drainer := outbox.NewDrainer(outboxMgr, producer.Publish, cfg.Kafka.Topic, 100, 2*time.Second)

	m := metrics.New(cfg.ServiceName)
	tokenMgr := token.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTL)*time.Second, cfg.ServiceName)

	// Repositories.
	productRepo := catalogmysql.NewProductRepository(database.DB)
	categoryRepo := catalogmysql.NewCategoryRepository(database.DB)
	geoRepo := catalogmysql.NewGeoRepository(database.DB)
	subscriberRepo := catalogmysql.NewSubscriberRepository(database.DB)
	ratingRepo := reviewmysql.NewRatingRepository(database.DB)
	reviewRepo := reviewmysql.NewReviewRepository(database.DB)
	customerRepo := cartmysql.NewCustomerRepository(database.DB)
	orderRepo := cartmysql.NewOrderRepository(database.DB)
	lineRepo := cartmysql.NewLineRepository(database.DB)
	addressRepo := cartmysql.NewShippingAddressRepository(database.DB)
	guestCartRepo := cartredis.NewGuestCartRepository(redisCache)
	userRepo := authmysql.NewUserRepository(database.DB)
	sessionRepo := authredis.NewSessionRepository(redisCache)

	// Application services.
	reviewSvc := reviewapp.NewReviewApplicationService(
		ratingRepo, reviewRepo, productRepo, reviewmessaging.NewOutboxPublisher(outboxMgr))
	catalogCmd := catalogapp.NewCatalogCommandService(productRepo, categoryRepo, subscriberRepo)
	catalogQuery := catalogapp.NewCatalogQueryService(productRepo, categoryRepo, geoRepo, reviewSvc)
	cartCmd := cartapp.NewCartCommandService(customerRepo, orderRepo, lineRepo, guestCartRepo, productRepo, addressRepo)
	cartQuery := cartapp.NewCartQueryService(customerRepo, orderRepo, lineRepo, guestCartRepo, productRepo, addressRepo)
	checkoutSvc := checkoutapp.NewCheckoutService(
		database, cartQuery, orderRepo, lineRepo,
		checkoutpayment.NewClient(cfg.Payment),
		checkoutmessaging.NewOutboxPublisher(outboxMgr),
		cfg.Payment.SuccessURL, cfg.Payment.CancelURL)
	authSvc := authapp.NewAuthService(
		userRepo, sessionRepo, tokenMgr,
		authmessaging.NewOutboxPublisher(outboxMgr),
		time.Duration(cfg.Auth.SessionTTL)*time.Second)

	// HTTP handlers.
	catalogHandler := cataloghttp.NewHandler(catalogCmd, catalogQuery)
	reviewHandler := reviewhttp.NewHandler(reviewSvc, m)
	cartHandler := carthttp.NewHandler(cartCmd, cartQuery, m)
	checkoutHandler := checkouthttp.NewHandler(checkoutSvc, m)
	authHandler := authhttp.NewHandler(authSvc, cartCmd)

	if cfg.Environment != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Logging(), middleware.Recovery(), middleware.CORS(), middleware.Metrics(m))

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	public := router.Group("/")
	catalogHandler.RegisterRoutes(public)
	reviewHandler.RegisterRoutes(public)
	authHandler.RegisterRoutes(public)
	checkoutHandler.RegisterCallbackRoutes(public)

	optional := router.Group("/", middleware.OptionalAuth(tokenMgr, sessionRepo))
	cartHandler.RegisterRoutes(optional)
	checkoutHandler.RegisterRoutes(optional)

	authed := router.Group("/", middleware.RequireAuth(tokenMgr, sessionRepo))
	reviewHandler.RegisterAuthRoutes(authed)
	cartHandler.RegisterAuthRoutes(authed)
	authHandler.RegisterAuthRoutes(authed)
	catalogHandler.RegisterAdminRoutes(authed)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		logger.Info(gCtx, "http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return drainer.Run(gCtx)
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-quit:
			logger.Info(gCtx, "shutdown signal received", "signal", sig.String())
		case <-gCtx.Done():
			return gCtx.Err()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "http shutdown failed", "error", err)
		}
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal(ctx, "service exited with error", "error", err)
	}
	logger.Info(ctx, "service stopped")
}
