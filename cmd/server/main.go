package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/sohbetapp/sohbet-server/internal/api"
	"github.com/sohbetapp/sohbet-server/internal/auth"
	"github.com/sohbetapp/sohbet-server/internal/cache"
	"github.com/sohbetapp/sohbet-server/internal/chat"
	"github.com/sohbetapp/sohbet-server/internal/config"
	"github.com/sohbetapp/sohbet-server/internal/events"
	"github.com/sohbetapp/sohbet-server/internal/logger"
	mongostore "github.com/sohbetapp/sohbet-server/internal/store/mongo"
	"github.com/sohbetapp/sohbet-server/internal/ws"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zlog, err := logger.New(cfg.App.Env == "development")
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mc, err := mongostore.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		zlog.Fatalw("mongo connect", "err", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()
	st := mongostore.NewStore(mc.Database(cfg.Mongo.Database))

	rdb, err := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.AttemptWindow)
	if err != nil {
		zlog.Fatalw("redis connect", "err", err)
	}
	defer rdb.Close()

	nc, err := nats.Connect(cfg.Nats.URL)
	if err != nil {
		zlog.Fatalw("nats connect", "err", err)
	}
	defer nc.Close()

	hub := chat.NewHub()
	pub := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, nc, zlog)
	defer pub.Close()

	consumer := events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, hub, zlog)
	defer consumer.Close()
	go func() {
		if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
			zlog.Errorw("kafka consumer stopped", "err", err)
		}
	}()
	if _, err := events.SubscribeConversationCreated(nc, cfg.Kafka.GroupID, hub, zlog); err != nil {
		zlog.Fatalw("nats subscribe", "err", err)
	}

	tokens := auth.NewTokens(cfg.JWT.Secret, cfg.TokenTTL)
	sessions := auth.NewSessions()
	authSvc := auth.NewService(st.Users, tokens, sessions, rdb, cfg.Auth.MaxLoginAttempts, zlog)

	directory := chat.NewDirectory(st.Conversations, hub, pub, zlog)
	msgLog := chat.NewLog(st.Conversations, st.Messages, hub, pub, zlog)
	users := chat.NewUserDirectory(st.Users)

	wsh := ws.NewHandler(tokens, directory, msgLog, rdb, zlog)
	srv := api.NewServer(cfg, api.Services{
		Auth:      authSvc,
		Tokens:    tokens,
		Directory: directory,
		Messages:  msgLog,
		Users:     users,
	}, wsh, zlog)

	go func() {
		if err := srv.Listen(); err != nil {
			zlog.Fatalw("server listen", "err", err)
		}
	}()
	zlog.Infow("sohbet-server started", "port", cfg.App.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	cancel()
	zlog.Info("sohbet-server stopped")
}
