package http

import (
	"context"
	"crypto/tls"
	"errors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/acme/autocert"
	"log/slog"
	"net/http"
	"time"
	"zapata/internal/app/adapters/http/handlers"
	"zapata/internal/app/adapters/http/middlewares"
	"zapata/internal/app/infrastructure/config"
	"zapata/internal/app/ports"
	"zapata/pkg/logger"
)

const (
	WebhookPath     = "/telegram/webhook"
	certCacheDir    = "certs"
	shutdownTimeout = 5 * time.Second
)

type Router struct {
	router      *gin.Engine
	handlers    *handlers.Handlers
	middlewares *middlewares.Middlewares

	log     logger.Logger
	manager *config.Manager
}

// NewRouter: sink == nil - режим polling, маршрут вебхука не регистрируется.
func NewRouter(log logger.Logger, manager *config.Manager, sink ports.UpdateSinkPort) *Router {
	r := &Router{
		router:      gin.Default(),
		handlers:    handlers.New(log, sink),
		middlewares: middlewares.New(),
		log:         log,
		manager:     manager,
	}
	cfg := manager.Get()

	r.router.GET("/healthz", r.handlers.HealthHandler)

	if cfg.App.AuthToken != "" {
		accounts := gin.Accounts{"admin": cfg.App.AuthToken}

		pprofGroup := r.router.Group("/", gin.BasicAuth(accounts))
		pprof.Register(pprofGroup)

		r.router.GET("/metrics", gin.BasicAuth(accounts), gin.WrapH(promhttp.Handler()))
	} else {
		log.Warn("app.auth_token is empty, /metrics and pprof are disabled")
	}

	if sink != nil {
		r.router.POST(WebhookPath, r.middlewares.WebhookSecret(cfg.Telegram.WebhookSecret), r.handlers.WebhookHandler)
	}

	return r
}

func (r *Router) Handler() http.Handler {
	return r.router
}

// Run обслуживает запросы до отмены ctx. С cert_domains - TLS на :443 через Let's Encrypt
// и :80 для http-01 челленджей, иначе обычный HTTP на listen_addr.
func (r *Router) Run(ctx context.Context) error {
	cfg := r.manager.Get()

	if len(cfg.App.CertDomains) == 0 {
		srv := r.newServer(cfg.App.ListenAddr, r.router)
		r.log.Info("HTTP server started", slog.String("addr", srv.Addr))
		return r.serve(ctx, srv, srv.ListenAndServe)
	}

	m := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(cfg.App.CertDomains...),
		Cache:      autocert.DirCache(certCacheDir),
	}

	challenge := r.newServer(":80", m.HTTPHandler(nil))
	go func() {
		if err := r.serve(ctx, challenge, challenge.ListenAndServe); err != nil {
			r.log.Error("ACME challenge server stopped", err)
		}
	}()

	srv := r.newServer(":443", r.router)
	srv.TLSConfig = &tls.Config{
		GetCertificate: m.GetCertificate,
		NextProtos:     []string{"h2", "http/1.1", "acme-tls/1"},
		MinVersion:     tls.VersionTLS12,
	}
	r.log.Info("HTTPS server started", slog.Any("domains", cfg.App.CertDomains))
	return r.serve(ctx, srv, func() error { return srv.ListenAndServeTLS("", "") })
}

func (r *Router) serve(ctx context.Context, srv *http.Server, listen func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- listen()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (r *Router) newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}
