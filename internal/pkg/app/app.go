package app

import (
	"context"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/net/proxy"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	router "zapata/internal/app/adapters/http"
	"zapata/internal/app/adapters/metrics"
	"zapata/internal/app/adapters/platform/telegram"
	"zapata/internal/app/adapters/platform/telegram/api"
	"zapata/internal/app/domain/relay"
	"zapata/internal/app/infrastructure/config"
	"zapata/pkg/logger"
)

// New поднимает бота и работает до SIGINT/SIGTERM.
func New(configPath string) error {
	manager, err := config.New(configPath)
	if err != nil {
		return err
	}
	cfg := manager.Get()

	log := logger.New(cfg.App.LogFile)
	log.SetLogLevel(cfg.App.LogLevel)
	gin.SetMode(cfg.App.GinMode)

	client, err := newHTTPClient(cfg.Proxy)
	if err != nil {
		log.Error("Failed to configure proxy", err)
		return err
	}

	prometheus.MustRegister(metrics.UpdateProcessingTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tg := api.New(logger.NewPrefixedLogger(log, "telegram", "api"), &cfg.Telegram, client)

	state := relay.NewState(
		cfg.Limiter.MaxMessages,
		time.Duration(cfg.Limiter.WindowSeconds)*time.Second,
		time.Duration(cfg.Limiter.IdleEvictionMinutes)*time.Minute,
	)
	engine := relay.New(logger.NewPrefixedLogger(log, "relay"), tg, state, relay.Settings{
		GroupChatID:          cfg.Telegram.GroupChatID,
		RequireAdminForBlock: cfg.Moderation.RequireAdminForBlock,
	})

	dispatcher := telegram.New(logger.NewPrefixedLogger(log, "telegram"), &cfg.Telegram, tg, engine)
	if err := dispatcher.Start(ctx); err != nil {
		log.Error("Failed to authorize bot", err)
		return err
	}
	defer dispatcher.Stop()

	g, gctx := errgroup.WithContext(ctx)
	switch cfg.Telegram.Mode {
	case config.ModeWebhook:
		if err := dispatcher.RegisterWebhook(ctx, cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret); err != nil {
			log.Error("Failed to register webhook", err)
			return err
		}

		r := router.NewRouter(log, manager, dispatcher)
		g.Go(func() error { return r.Run(gctx) })
	default:
		r := router.NewRouter(log, manager, nil)
		g.Go(func() error { return r.Run(gctx) })
		g.Go(func() error { return dispatcher.Run(gctx) })
	}

	log.Info("Relay started",
		slog.String("mode", cfg.Telegram.Mode),
		slog.Int64("group_chat_id", cfg.Telegram.GroupChatID),
		slog.Int("max_messages", cfg.Limiter.MaxMessages),
		slog.Int("window_seconds", cfg.Limiter.WindowSeconds),
	)

	err = g.Wait()
	log.Info("Relay stopped")
	return err
}

// newHTTPClient - клиент к Bot API, при наличии proxy идёт через SOCKS5.
// Таймауты задаются на каждый запрос: long poll держит соединение дольше обычного.
func newHTTPClient(p *config.Proxy) (*http.Client, error) {
	client := &http.Client{Transport: http.DefaultTransport}
	if p == nil || p.Address == "" || p.Port == 0 {
		return client, nil
	}

	dialer, err := proxy.SOCKS5("tcp", fmt.Sprintf("%s:%d", p.Address, p.Port), nil, proxy.Direct)
	if err != nil {
		return nil, err
	}

	client.Transport = &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		},
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return client, nil
}
