// Package formserver is the HTTP surface of the form engine. It is thin
// plumbing: every rule lives in the session, wizard, schema and draft
// packages; the handlers only translate HTTP to those operations.
package formserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/hrinsight/onboardform/internal/cache"
	"github.com/hrinsight/onboardform/internal/draft"
	"github.com/hrinsight/onboardform/internal/formconfig"
	"github.com/hrinsight/onboardform/internal/recruitapi"
)

// informationSubmittedPath is the terminal page the gate redirects to.
const informationSubmittedPath = "/information-submitted"

// sessionTTL is how long an idle form session is kept alive.
const sessionTTL = 2 * time.Hour

// Server hosts the form sessions.
type Server struct {
	cfg        formconfig.Config
	httpServer *fiber.App
	api        *recruitapi.Client
	drafts     *draft.Store
	sessions   *cache.Cache
}

// New creates the form session server.
func New(api *recruitapi.Client, drafts *draft.Store, cfg formconfig.Config) *Server {

	httpServer := fiber.New(fiber.Config{
		AppName:                 "OnboardForm",
		ServerHeader:            "OnboardForm",
		EnableTrustedProxyCheck: false,
		ReadTimeout:             30 * time.Second,
		WriteTimeout:            30 * time.Second,
	})

	// Recovers from panics anywhere in the stack chain
	httpServer.Use(recover.New())

	// Helmet middleware helps secure the app by setting various HTTP headers
	httpServer.Use(helmet.New())

	// Ignores favicon requests
	httpServer.Use(favicon.New())

	// Logs HTTP request/response details
	httpServer.Use(logger.New())

	// Enable CORS for all origins
	httpServer.Use(cors.New())

	s := &Server{
		cfg:        cfg,
		httpServer: httpServer,
		api:        api,
		drafts:     drafts,
		sessions:   cache.New(sessionTTL),
	}

	s.httpServer.Get("/health", func(c *fiber.Ctx) error {
		slog.Info("Health check", "from", c.Hostname())
		return c.JSON(fiber.Map{"status": "healthy", "hostname": c.Hostname()})
	})

	s.registerFormHandlers()

	return s
}

// App exposes the fiber application, for tests.
func (s *Server) App() *fiber.App {
	return s.httpServer
}

// Start starts the server and blocks until it fails or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {

	if s.httpServer == nil {
		return errors.New("server not initialized")
	}

	addr := net.JoinHostPort("0.0.0.0", s.cfg.Port)
	slog.Info("Starting form session server", "addr", addr)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Listen(addr); err != nil {
			errChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return s.httpServer.Shutdown()
	}
}
