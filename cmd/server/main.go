package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/okanav/ridehail-auth/internal/config"
	"github.com/okanav/ridehail-auth/internal/database"
	"github.com/okanav/ridehail-auth/internal/handler"
	"github.com/okanav/ridehail-auth/internal/middleware"
	"github.com/okanav/ridehail-auth/internal/model"
	"github.com/okanav/ridehail-auth/internal/queue"
	"github.com/okanav/ridehail-auth/internal/repository"
	"github.com/okanav/ridehail-auth/internal/revocation"
	"github.com/okanav/ridehail-auth/internal/router"
	queuepublisher "github.com/okanav/ridehail-auth/internal/service"
	"github.com/okanav/ridehail-auth/internal/utils"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	principals := repository.NewPrincipalRepo(db)

	// Revocation ledger: Redis with native TTL eviction when reachable,
	// otherwise the in-process sweeping ledger.
	rdb := config.NewRedisClient()
	var ledger revocation.Ledger
	if rdb != nil {
		ledger = revocation.NewRedisLedger(rdb, utils.TokenWindow)
	} else {
		log.Println("redis unavailable; using in-memory revocation ledger")
		mem := revocation.NewMemoryLedger(utils.TokenWindow, nil)
		mem.StartSweep(utils.TokenWindow / 24)
		ledger = mem
	}

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Background consumer draining auth events into logs/auth.log.
	go func() {
		if err := queue.StartAuthConsumer(); err != nil {
			log.Printf("auth consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)

	for _, kind := range []model.Kind{model.KindRider, model.KindDriver} {
		a := handler.NewAuthHandler(kind, cfg.JWTSecret, principals, ledger, queuepublisher.PublishAuthEvent)
		gate := middleware.Gate(kind, cfg.JWTSecret, ledger, principals)
		router.RegisterKind(e, a, gate, limiter)
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
