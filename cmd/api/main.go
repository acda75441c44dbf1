package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"gridcert.org/internal/config"
	"gridcert.org/internal/device"
	"gridcert.org/internal/exchange"
	"gridcert.org/internal/httpapi"
	"gridcert.org/internal/obs"
	"gridcert.org/internal/organization"
	"gridcert.org/internal/stream"
	"gridcert.org/internal/user"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	obs.Init()
	obs.InitBuildInfo(version, commit)

	// Postgres when a DSN is configured; in-memory stores otherwise.
	var db *sql.DB
	var (
		userStore   user.Store
		orgStore    organization.Store
		deviceStore device.Store
	)
	if cfg.PGDSN != "" {
		db, err = sql.Open("pgx", cfg.PGDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		userStore = user.NewPGStore(db)
		orgStore = organization.NewPGStore(db)
		deviceStore = device.NewPGStore(db)
	} else {
		userStore = user.NewInMemory()
		orgStore = organization.NewInMemory()
		deviceStore = device.NewInMemory()
	}

	// Exchange integration is optional; without it deposit-address
	// checks fail closed and trade history is empty.
	var exchangeSvc exchange.Service = exchange.Disabled{}
	if cfg.ExchangeURL != "" {
		exchangeSvc = exchange.NewClient(cfg.ExchangeURL, cfg.ExchangeToken)
		if cfg.RedisAddr != "" {
			rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			exchangeSvc = exchange.NewCachedService(exchangeSvc, rdb, cfg.DepositCacheTTL)
		}
	}

	trades := stream.New()
	var watcher *exchange.Watcher
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()
	if cfg.ExchangeURL != "" {
		watcher = exchange.NewWatcher(exchangeSvc, trades, cfg.TradePollInterval)
		go watcher.Run(rootCtx)
	}

	api := httpapi.New(httpapi.Options{
		Users:      user.NewService(userStore),
		Orgs:       orgStore,
		Devices:    device.NewService(deviceStore),
		Exchange:   exchangeSvc,
		Trades:     trades,
		Watcher:    watcher,
		ReadyProbe: httpapi.ReadyProbe{DB: db},
		Version:    version,
		TokenTTL:   cfg.TokenTTL,
		RateBurst:  cfg.RateLimitBurst,
		RatePerSec: cfg.RateLimitRPS,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	log.Printf("Starting gridcert-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")
	rootCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
