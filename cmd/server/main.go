// Command server wires the insight API together and runs it until a
// termination signal.
package main

import (
	"context"
	"os"
	"time"

	"github.com/insighthq/insight-api/internal/api"
	"github.com/insighthq/insight-api/internal/api/middleware"
	"github.com/insighthq/insight-api/internal/core/domain"
	"github.com/insighthq/insight-api/internal/core/service"
	"github.com/insighthq/insight-api/internal/infrastructure/config"
	mongodb "github.com/insighthq/insight-api/internal/infrastructure/db/mongo"
	redisdb "github.com/insighthq/insight-api/internal/infrastructure/db/redis"
	infrahttp "github.com/insighthq/insight-api/internal/infrastructure/http"
	"github.com/insighthq/insight-api/internal/infrastructure/upstream"
	"github.com/insighthq/insight-api/internal/pkg/cache"
	"github.com/insighthq/insight-api/pkg/logger"
)

// @title        Insight API
// @version      1.0
// @description  Authenticated user management plus cached weather and crypto aggregation.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet; stderr is all we have.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongo index setup failed")
	}

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, time.Hour)
	userService := service.NewUserService(userRepo)

	weatherClient := upstream.NewWeatherClient(cfg.OpenWeatherAPIKey, log)
	cryptoClient := upstream.NewCryptoClient(cfg.CoinGeckoAPIKey, log)
	dataCache := cache.NewTTL[domain.CombinedReport](cache.DefaultTTL)
	dataService := service.NewDataService(weatherClient, cryptoClient, dataCache)

	// --- Router ---
	e := api.NewRouter(api.Deps{
		AuthService:  authService,
		UserService:  userService,
		DataService:  dataService,
		UserChecker:  userRepo,
		RateCounter:  redisdb.NewWindowCounter(rdb, "rl", middleware.Window),
		SpeedCounter: redisdb.NewWindowCounter(rdb, "sl", middleware.Window),
		Mongo:        db,
		Redis:        rdb,
		JWTSecret:    cfg.JWTSecret,
		Production:   cfg.IsProduction(),
		Log:          log,
	})

	// --- Serve with graceful shutdown ---
	srv := infrahttp.NewServer(e, ":"+cfg.Port, log)
	srv.OnShutdown("mongodb", mongoClient.Disconnect)
	srv.OnShutdown("redis", func(context.Context) error { return rdb.Close() })

	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}
