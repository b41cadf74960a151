package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/audit"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/config"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/diag"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/token"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/unseal"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/verifier"
)

type Server struct {
	Config    *config.WebAuthConfig
	Kind      token.Kind
	Verifier  *verifier.Verifier
	Unsealers *unseal.Registry
	Gatherer  prometheus.Gatherer
	Logger    hclog.Logger
	Audit     *audit.Logger
	Router    *mux.Router
	srv       *http.Server
}

func NewServer(
	cfg *config.WebAuthConfig,
	kind token.Kind,
	v *verifier.Verifier,
	unsealers *unseal.Registry,
	gatherer prometheus.Gatherer,
	logger hclog.Logger,
) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	router := mux.NewRouter().UseEncodedPath()
	router.Use(middleware.Transaction(diag.FromLogger(logger)))

	access := logger.Named("access").StandardWriter(&hclog.StandardLoggerOptions{ForceLevel: hclog.Info})
	srv := &http.Server{
		Handler:      handlers.LoggingHandler(access, router),
		Addr:         cfg.ListenAddress,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Config:    cfg,
		Kind:      kind,
		Verifier:  v,
		Unsealers: unsealers,
		Gatherer:  gatherer,
		Logger:    logger,
		Router:    router,
		srv:       srv,
	}
}

// Authenticator returns the token middleware for the configured kind.
func (s *Server) Authenticator() *middleware.TokenAuthenticator {
	a := middleware.NewTokenAuthenticator(s.Verifier, s.Kind, s.Config.CookieName)
	a.Audit = s.Audit
	return a
}

// Handler returns the root handler, including access logging.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
