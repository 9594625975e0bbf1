package server

import (
	"context"
	"log"
	"net"
	"time"

	"prados-legal-be/internal/bootstrap"
	"prados-legal-be/internal/config"
	"prados-legal-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		// uploads and base64 audio both stay under this
		BodyLimit:    bodyLimit(cfg),
		AppName:      "prados-legal-be",
		ErrorHandler: fallbackErrorHandler,
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Content-Disposition",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

// Run listens on the configured port until ctx is done. See Serve.
func (s *Server) Run(ctx context.Context, grace time.Duration) error {
	ln, err := net.Listen("tcp", ":"+s.cfg.App.Port)
	if err != nil {
		return err
	}
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.Serve(ctx, ln, grace)
}

// Serve handles requests on ln until ctx is done, then stops accepting
// connections and returns only after in-flight requests finish or grace
// runs out.
func (s *Server) Serve(ctx context.Context, ln net.Listener, grace time.Duration) error {
	served := make(chan error, 1)
	go func() {
		served <- s.app.Listener(ln)
	}()

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	err := s.app.ShutdownWithContext(shutdownCtx)
	<-served
	return err
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.RootController.RegisterRoutes(api)
	c.UserController.RegisterRoutes(api)
	c.ConversationController.RegisterRoutes(api)
	c.MessageController.RegisterRoutes(api)
	c.DocumentController.RegisterRoutes(api)
	c.SearchController.RegisterRoutes(api)
	c.KnowledgeController.RegisterRoutes(api)
	c.VoiceController.RegisterRoutes(api)
	c.LiveAvatarController.RegisterRoutes(api)

	c.ChatHandler.RegisterRoutes(api)
}

// bodyLimit leaves room for multipart framing and base64 inflation.
func bodyLimit(cfg *config.Config) int {
	limit := cfg.Limits.MaxUploadBytes
	if audio := cfg.Limits.MaxAudioBytes * 4 / 3; audio > limit {
		limit = audio
	}
	return limit + 1024*1024
}

// fallbackErrorHandler covers errors raised before the middleware chain
// runs, such as an oversized body.
func fallbackErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	detail := "internal error"
	if fe, ok := err.(*fiber.Error); ok {
		code, detail = fe.Code, fe.Message
	}
	return ctx.Status(code).JSON(serverutils.ErrorResponse(code, detail))
}
