package mainserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hrinsight/onboardform/internal/draft"
	"github.com/hrinsight/onboardform/internal/formconfig"
	"github.com/hrinsight/onboardform/internal/formserver"
	"github.com/hrinsight/onboardform/internal/recruitapi"
	"github.com/hrinsight/onboardform/internal/stubapi"
)

// Server composes the pieces of the engine: the form session server, the
// draft store and, in development mode only, the stub recruitment backend.
type Server struct {
	cfg        formconfig.Config
	formServer *formserver.Server
	stubServer *stubapi.Server
	drafts     *draft.Store
}

// New creates a server instance. In development mode the form server is
// pointed at the local stub backend instead of the configured one.
func New(cfg formconfig.Config) (*Server, error) {

	drafts, err := draft.Open(cfg.DraftDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open draft store: %w", err)
	}

	backendURL := cfg.BackendURL
	var stubServer *stubapi.Server
	if cfg.Development {
		stubServer = stubapi.New(cfg.StubCodes)
		backendURL = "http://localhost:" + cfg.StubPort
		slog.Info("Development mode: using stub backend", "url", backendURL)
	}

	api := recruitapi.NewClient(backendURL, nil)
	formServer := formserver.New(api, drafts, cfg)

	return &Server{
		cfg:        cfg,
		formServer: formServer,
		stubServer: stubServer,
		drafts:     drafts,
	}, nil
}

// Start starts the form server (and the stub backend in development mode)
// and blocks until one of them fails or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {

	if s.drafts == nil {
		return errors.New("server not initialized")
	}

	var wg sync.WaitGroup
	errChan := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.formServer.Start(ctx); err != nil {
			errChan <- fmt.Errorf("form server failed: %w", err)
		}
	}()

	if s.stubServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.stubServer.ListenAndServe(s.cfg.StubPort); err != nil {
				errChan <- fmt.Errorf("stub backend failed: %w", err)
			}
		}()
	}

	slog.Info("Servers started",
		"form_port", s.cfg.Port,
		"backend_url", s.cfg.BackendURL,
		"development", s.cfg.Development)

	select {
	case err := <-errChan:
		s.drafts.Close()
		return err
	case <-ctx.Done():
		slog.Info("Shutting down servers")
		s.drafts.Close()
		return nil
	}
}
