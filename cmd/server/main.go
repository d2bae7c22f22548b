package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"

	"github.com/iliyamo/bucharest-discover/internal/config"
	"github.com/iliyamo/bucharest-discover/internal/database"
	"github.com/iliyamo/bucharest-discover/internal/handler"
	"github.com/iliyamo/bucharest-discover/internal/middleware"
	"github.com/iliyamo/bucharest-discover/internal/queue"
	"github.com/iliyamo/bucharest-discover/internal/repository"
	"github.com/iliyamo/bucharest-discover/internal/router"
	"github.com/iliyamo/bucharest-discover/internal/service"
	"github.com/iliyamo/bucharest-discover/internal/webhook"
)

func main() {
	seed := flag.Bool("seed", false, "insert a demo catalogue after migrating, then exit")
	flag.Parse()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, dialect, err := openDB(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, dialect); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if *seed {
		if err := seedCatalogue(ctx, db); err != nil {
			log.Fatal(err)
		}
		log.Printf("demo catalogue inserted")
		return
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache, rate limiting and webhook dedupe disabled")
	} else {
		defer rdb.Close()
	}

	policy, err := service.ParseFriendPolicy(cfg.FriendRequestPolicy)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	users := repository.NewUserRepo(db)
	events := repository.NewEventRepo(db)
	identity := service.NewIdentityService(users)
	social := service.NewSocialService(users, repository.NewFriendRepo(db), policy)
	participation := service.NewParticipationService(users, repository.NewItineraryRepo(db), repository.NewParticipantRepo(db))
	ticketing := service.NewTicketingService(users, events, repository.NewTicketRepo(db), service.NewAMQPPublisher(cfg.AMQPURL))
	ratings := service.NewRatingService(users, repository.NewReviewRepo(db))

	var verifier *webhook.Verifier
	if cfg.WebhookSecret != "" {
		if verifier, err = webhook.NewVerifier(cfg.WebhookSecret); err != nil {
			log.Fatalf("config: IDENTITY_WEBHOOK_SECRET: %v", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e, &handler.HealthHandler{DB: db})
	router.RegisterAPI(e, router.Handlers{
		Public: &handler.PublicHandler{
			CategoryRepo: repository.NewCategoryRepo(db),
			LocationRepo: repository.NewLocationRepo(db),
			EventRepo:    events,
		},
		Friends:     &handler.FriendHandler{Social: social},
		Itinerary:   &handler.ItineraryHandler{Participation: participation},
		Tickets:     &handler.TicketHandler{Ticketing: ticketing, Identity: identity},
		Reviews:     &handler.ReviewHandler{Ratings: ratings},
		Identity:    &handler.IdentityHandler{Identity: identity, Verifier: verifier, Redis: rdb},
		Provision:   identity,
		JWTSecret:   cfg.JWTSecret,
		RateLimit:   middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		CachePublic: middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	})

	if cfg.TicketConsumerEnabled {
		go func() {
			if err := queue.StartTicketConsumer(ctx, cfg.AMQPURL, cfg.TicketLogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("ticket-consumer: stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s, friend-policy=%s)", addr, cfg.Env, dialect, policy)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func openDB(cfg config.Config) (*sql.DB, string, error) {
	if cfg.DBDriver == config.DriverSQLite {
		db, err := database.OpenSQLite(cfg.SQLitePath)
		return db, database.DialectSQLite, err
	}
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	return db, database.DialectMySQL, err
}

func logLevel(s string) glog.Lvl {
	switch s {
	case "debug":
		return glog.DEBUG
	case "warn":
		return glog.WARN
	case "error":
		return glog.ERROR
	case "off":
		return glog.OFF
	}
	return glog.INFO
}
