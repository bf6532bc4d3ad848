package main // Entry point package

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/cache/rediscache"
	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/service"
	"github.com/iliyamo/hotel-reservation/internal/storage/mysqlstore"
)

func main() {
	// Load variables from .env when present; real deployments set them
	// in the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()
	cacheCfg := config.LoadCacheConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	// The availability cache degrades to nil when Redis is unreachable;
	// the engine then answers every check from the database.
	var cache booking.Cache
	if cacheCfg.Enabled {
		if rdb := config.NewRedisClient(); rdb != nil {
			cache = rediscache.New(rdb, cacheCfg.Prefix, cacheCfg.TTL)
		} else {
			log.Printf("redis unavailable, availability cache disabled")
		}
	}

	var notifier booking.Notifier
	if cfg.QueueURL != "" {
		notifier = service.NewPublisher(cfg.QueueURL)
		go func() {
			if err := queue.StartBookingConsumer(cfg.QueueURL); err != nil {
				log.Printf("booking consumer stopped: %v", err)
			}
		}()
	} else {
		log.Printf("QUEUE_URL not set, lifecycle events disabled")
	}

	engine := booking.New(mysqlstore.New(db), cache, notifier)

	// Periodically release capacity held by stale PENDING bookings.
	ttl := time.Duration(cfg.PendingTTLMin) * time.Minute
	sweepEvery := time.Duration(cfg.SweepIntervalMin) * time.Minute
	go func() {
		ticker := time.NewTicker(sweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := engine.ExpirePending(ctx, ttl)
				if err != nil {
					log.Printf("pending sweep failed: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("pending sweep expired %d booking(s)", n)
				}
			}
		}
	}()

	log.Printf("booking engine running (env=%s, pending_ttl=%s, sweep=%s)", cfg.Env, ttl, sweepEvery)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Printf("shutting down")
}
