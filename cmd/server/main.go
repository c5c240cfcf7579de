package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/api"
	"github.com/Nirmalamangrati/BackendOfPostflow/internal/auth"
	"github.com/Nirmalamangrati/BackendOfPostflow/internal/config"
	"github.com/Nirmalamangrati/BackendOfPostflow/internal/events"
	"github.com/Nirmalamangrati/BackendOfPostflow/internal/logger"
	"github.com/Nirmalamangrati/BackendOfPostflow/internal/realtime"
	"github.com/Nirmalamangrati/BackendOfPostflow/internal/repository"
	"github.com/Nirmalamangrati/BackendOfPostflow/internal/service"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	zl, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mc, err := repository.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		zl.Fatalw("mongo connect", "err", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()
	db := mc.Database(cfg.Mongo.DB)

	msgRepo := repository.NewMessageRepository(db)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	hub := realtime.NewHub(zl)

	var (
		bridgePub realtime.CrossInstancePublisher
		sink      realtime.Sink
		presence  *repository.PresenceStore
		wsPres    realtime.Presence
		apiPres   api.PresenceReader
	)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		presence = repository.NewPresenceStore(rdb, cfg.Redis.Prefix)
		wsPres, apiPres = presence, presence
		bridge := realtime.NewBridge(rdb, cfg.Redis.Prefix+":events", hub, zl)
		bridgePub = bridge
		go bridge.Run(ctx)
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		sink = producer
	}

	dispatcher := realtime.NewDispatcher(hub, bridgePub, sink, zl)

	tokens := auth.NewTokens(cfg.JWT.Secret, cfg.JWT.TTL())
	msgSvc := service.NewMessageService(msgRepo, userRepo, dispatcher, zl)
	userSvc := service.NewUserService(userRepo, tokens)

	var notifier service.Notifier
	if cfg.NATS.URL != "" {
		n, err := events.NewNotifier(cfg.NATS.URL)
		if err != nil {
			zl.Fatalw("nats connect", "err", err)
		}
		defer n.Close()
		sub, err := n.Subscribe(func(userID string, payload []byte) {
			hub.Emit(userID, "newNotification", json.RawMessage(payload))
		})
		if err != nil {
			zl.Fatalw("nats subscribe", "err", err)
		}
		defer func() { _ = sub.Unsubscribe() }()
		notifier = n
	}

	friendSvc := service.NewFriendService(userRepo, notifier, zl)
	postSvc := service.NewPostService(postRepo)

	ws := realtime.NewServer(hub, tokens, msgSvc, wsPres, zl)
	app := api.NewServer(api.Deps{
		Verifier: tokens,
		Users:    userSvc,
		Friends:  friendSvc,
		Posts:    postSvc,
		Messages: msgSvc,
		Presence: apiPres,
		Notifier: notifier,
		Socket:   ws.Handler(),
		Log:      zl,
	})

	errs := make(chan error, 1)
	go func() {
		zl.Infow("server starting", "addr", cfg.App.Addr(), "env", cfg.App.Env)
		errs <- app.Listen(cfg.App.Addr())
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errs:
		zl.Fatalw("server error", "err", err)
	case s := <-sig:
		zl.Infow("signal received", "signal", s.String())
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout())
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zl.Warnw("shutdown", "err", err)
	}
	zl.Info("server stopped")
}
