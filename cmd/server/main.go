package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/naxapedev/adminpanelBackend-ag-master/internal/audit"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/auth"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/config"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/database"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/handler"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/repository"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/router"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/token"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	defer func() { _ = db.Close() }()

	issuer, err := token.NewIssuer(cfg)
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Audit pipeline: publisher feeds the broker, consumer drains it into
	// the document store.  Without a Mongo URI the consumer stays off and
	// events keep accumulating in the durable queue.
	recorder := audit.NewRecorder(audit.NewPublisher(cfg.AMQPURL))
	if cfg.MongoURI != "" {
		mc, err := database.OpenMongo(cfg.MongoURI)
		if err != nil {
			log.Printf("mongo: %v; audit consumer disabled", err)
		} else {
			defer func() { _ = mc.Disconnect(context.Background()) }()
			coll := mc.Database(cfg.MongoDB).Collection("logs")
			go audit.StartConsumer(ctx, cfg.AMQPURL, coll)
		}
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	svc := auth.NewService(users, tokens, issuer, recorder, cfg.LockoutThreshold, cfg.LockoutDuration)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, handler.NewAuthHandler(cfg, svc), svc, config.LoadRateLimitConfig(), config.NewRedisClient())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Println(err)
	}
}
