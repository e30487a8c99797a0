package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hospitality-booking/internal/booking"
	"github.com/iliyamo/hospitality-booking/internal/cache"
	"github.com/iliyamo/hospitality-booking/internal/config"
	"github.com/iliyamo/hospitality-booking/internal/content"
	"github.com/iliyamo/hospitality-booking/internal/database"
	"github.com/iliyamo/hospitality-booking/internal/handler"
	"github.com/iliyamo/hospitality-booking/internal/logger"
	"github.com/iliyamo/hospitality-booking/internal/metrics"
	"github.com/iliyamo/hospitality-booking/internal/middleware"
	"github.com/iliyamo/hospitality-booking/internal/queue"
	"github.com/iliyamo/hospitality-booking/internal/repository"
	"github.com/iliyamo/hospitality-booking/internal/roomapi"
	"github.com/iliyamo/hospitality-booking/internal/router"
	"github.com/iliyamo/hospitality-booking/internal/search"
	"github.com/iliyamo/hospitality-booking/internal/service"
	"github.com/iliyamo/hospitality-booking/internal/session"
)

func main() {
	config.LoadDotenv()
	cfg := config.Load()
	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Color: cfg.IsDev()})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		log.Warn("redis unavailable: rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	cc := config.LoadContentCacheConfig()
	contentCache := cache.New(openContentStore(cc, rdb, log), cache.Options{
		TTL:      cc.TTL,
		Prefix:   cc.Prefix,
		Logger:   log,
		Recorder: m,
	})
	defer contentCache.Close()

	rooms, err := roomapi.NewClient(cfg.RoomAPIBaseURL, nil, log)
	if err != nil {
		log.Error("room api client", "err", err)
		os.Exit(1)
	}
	contentAPI, err := roomapi.NewClient(cfg.ContentAPIBaseURL, nil, log)
	if err != nil {
		log.Error("content api client", "err", err)
		os.Exit(1)
	}
	hero := content.NewLoader(contentAPI, contentCache, log)
	if cc.ClearOnStart {
		hero.Clear(ctx)
		log.Info("content cache cleared on start")
	}

	dispatcher := booking.NewDispatcher(cfg.BookingBaseURL, cfg.BookingRegCode)
	dispatcher.Currency = cfg.BookingCurrency

	var db *sql.DB
	if cfg.DBEnabled() {
		db, err = database.Open(ctx, database.Params{User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName})
		if err != nil {
			log.Warn("mysql unavailable: booking intents go to the log file", "err", err)
			db = nil
		} else {
			defer db.Close()
			if err := database.EnsureSchema(ctx, db); err != nil {
				log.Error("schema", "err", err)
			}
		}
	}
	var intents *repository.IntentRepo
	var sink queue.Sink = queue.NewFileSink(".")
	if db != nil {
		intents = repository.NewIntentRepo(db)
		sink = intents
	}

	publisher := service.NewIntentPublisher(cfg.RabbitURL, m, log)
	defer publisher.Close()
	if cfg.RabbitURL != "" {
		go func() {
			if err := queue.NewConsumer(cfg.RabbitURL, sink, log).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("intent consumer stopped", "err", err)
			}
		}()
	}

	sessions := session.NewManager(session.Config{
		Searcher:   rooms,
		Dispatcher: dispatcher,
		Listener:   publisher,
		Search: search.Options{
			Timeout:      cfg.SearchTimeout,
			FetchSize:    cfg.SearchFetchSize,
			AutoDispatch: cfg.AutoDispatch,
			Recorder:     m,
		},
		RequireLocation: cfg.RequireLocation,
		IdleTTL:         cfg.SessionIdleTTL,
		Logger:          log,
	})
	defer sessions.Close()
	go sessions.Run(ctx, time.Minute)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	var limiter echo.MiddlewareFunc
	if rdb != nil {
		limiter = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log)
	}
	router.RegisterRoutes(e, sessions, m.Handler())
	router.RegisterGuest(e, router.Guest{
		Sessions: &handler.SessionHandler{Sessions: sessions, Secret: cfg.SessionSecret, TokenTTL: cfg.SessionTTL},
		Criteria: &handler.CriteriaHandler{Sessions: sessions},
		Search:   &handler.SearchHandler{Sessions: sessions},
	}, cfg.SessionSecret, limiter)
	var lister handler.IntentLister
	if intents != nil {
		lister = intents
	}
	router.RegisterPublic(e, &handler.ContentHandler{Loader: hero}, &handler.IntentHandler{Repo: lister})

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}

// openContentStore picks the content cache backend.  Redis and memcached
// fall back to the in-process store when they cannot be used.
func openContentStore(cc config.ContentCacheConfig, rdb *redis.Client, log *slog.Logger) cache.Store {
	switch cc.Backend {
	case "redis":
		if rdb != nil {
			return cache.NewRedisStore(rdb)
		}
		log.Warn("content cache: redis unavailable, using memory")
	case "memcached":
		if len(cc.MemcachedServers) > 0 {
			return cache.NewMemcachedStore(cc.MemcachedServers...)
		}
		log.Warn("content cache: no memcached servers, using memory")
	}
	return cache.NewMemoryStore(cc.MaxEntries)
}
