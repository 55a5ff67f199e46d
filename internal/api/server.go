package api

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sohbetapp/sohbet-server/internal/auth"
	"github.com/sohbetapp/sohbet-server/internal/chat"
	"github.com/sohbetapp/sohbet-server/internal/config"
	"github.com/sohbetapp/sohbet-server/internal/ws"
)

type Services struct {
	Auth      *auth.Service
	Tokens    *auth.Tokens
	Directory *chat.Directory
	Messages  *chat.Log
	Users     *chat.UserDirectory
}

type Server struct {
	app *fiber.App
	cfg *config.Config
	svc Services
	log *zap.SugaredLogger
}

func NewServer(cfg *config.Config, svc Services, wsh *ws.Handler, log *zap.SugaredLogger) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	})
	s := &Server{app: app, cfg: cfg, svc: svc, log: log}

	app.Use(RequestLogger(log))
	app.Use(Metrics())
	app.Use(NewIPRateLimiter(cfg.RateLimitPerMinute, log).Handler())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	api.Post("/auth/register", s.register)
	api.Post("/auth/login", s.login)

	authed := api.Use(RequireAuth(svc.Tokens))
	authed.Post("/auth/logout", s.logout)
	authed.Get("/users", s.listUsers)
	authed.Get("/users/:id", s.getUser)
	authed.Post("/conversations", s.findOrCreateConversation)
	authed.Get("/conversations", s.listConversations)
	authed.Get("/conversations/:id/messages", s.listMessages)
	authed.Post("/conversations/:id/messages", s.sendMessage)

	wsGroup := app.Group("/ws", ws.Upgrade())
	wsGroup.Get("/conversations", wsh.Conversations())
	wsGroup.Get("/conversations/:id/messages", wsh.Messages())

	return s
}

func (s *Server) Listen() error {
	return s.app.Listen(fmt.Sprintf(":%d", s.cfg.App.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
