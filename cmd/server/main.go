package main // Entry point package

import (
	"os"
	"time"

	"github.com/joho/godotenv" // loads .env files in development
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/store-reservation/internal/config"
	"github.com/iliyamo/store-reservation/internal/database"
	"github.com/iliyamo/store-reservation/internal/handler"
	"github.com/iliyamo/store-reservation/internal/middleware"
	"github.com/iliyamo/store-reservation/internal/queue"
	"github.com/iliyamo/store-reservation/internal/repository"
	"github.com/iliyamo/store-reservation/internal/router"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	// Structured logging: human-readable console output in dev, JSON
	// elsewhere so log shippers can parse it.
	var log zerolog.Logger
	if cfg.Env == "dev" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
	} else {
		log = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	loc := cfg.Location()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	accounts := repository.NewAccountRepo(db)
	tokens := repository.NewTokenRepo(db)
	stores := repository.NewStoreRepo(db)
	reservations := repository.NewReservationRepo(db)

	// Redis backs the rate limiter and the public listing cache.  A nil
	// client disables both; the API itself keeps working.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable; rate limiting and response cache disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	auth := handler.NewAuthHandler(cfg, log, accounts, tokens)
	ownerStores := handler.NewOwnerStoreHandler(log, stores)
	ownerReservations := handler.NewOwnerReservationHandler(log, reservations)
	userReservations := handler.NewUserReservationHandler(log, loc, reservations)
	kiosk := handler.NewKioskHandler(log, loc, cfg.ArrivalCutoff(), reservations)
	search := handler.NewSearchHandler(log, stores)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterOwner(e, ownerStores, ownerReservations, cfg.JWTSecret)
	router.RegisterUser(e, userReservations, cfg.JWTSecret)
	router.RegisterKiosk(e, kiosk)
	router.RegisterSearch(e, search, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	// Consume reservation.confirmed events in the background and append
	// each confirmation to logs/reservation.log.
	go func() {
		if err := queue.StartReservationConsumer(log); err != nil {
			log.Warn().Err(err).Msg("reservation consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")

	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
