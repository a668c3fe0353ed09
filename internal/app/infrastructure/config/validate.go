package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

func (m *Manager) validate(cfg *Config) error {
	// app
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if cfg.App.LogLevel != "" && !validLevels[cfg.App.LogLevel] {
		return fmt.Errorf("app.log_level must be one of trace, debug, info, warn, error; got %s", cfg.App.LogLevel)
	}
	validGinModes := map[string]bool{"debug": true, "release": true, "test": true}
	if cfg.App.GinMode != "" && !validGinModes[cfg.App.GinMode] {
		return fmt.Errorf("app.gin_mode must be one of debug, release, test; got %s", cfg.App.GinMode)
	}
	if cfg.App.ListenAddr == "" && len(cfg.App.CertDomains) == 0 {
		return errors.New("app.listen_addr is required when app.cert_domains is empty")
	}

	// proxy
	if cfg.Proxy != nil && cfg.Proxy.Address != "" && (cfg.Proxy.Port <= 0 || cfg.Proxy.Port > 65535) {
		return errors.New("proxy.port must be [1,65535]")
	}

	// telegram
	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return errors.New("telegram.token is required")
	}
	if cfg.Telegram.GroupChatID >= 0 {
		return errors.New("telegram.group_chat_id must be a negative group id")
	}
	if cfg.Telegram.APIBaseURL == "" {
		cfg.Telegram.APIBaseURL = "https://api.telegram.org"
	}
	if _, err := url.ParseRequestURI(cfg.Telegram.APIBaseURL); err != nil {
		return fmt.Errorf("telegram.api_base_url: %w", err)
	}

	switch cfg.Telegram.Mode {
	case "":
		cfg.Telegram.Mode = ModePolling
	case ModePolling:
	case ModeWebhook:
		u, err := url.Parse(cfg.Telegram.WebhookURL)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			return errors.New("telegram.webhook_url must be an https url in webhook mode")
		}
		if cfg.Telegram.WebhookSecret == "" {
			return errors.New("telegram.webhook_secret is required in webhook mode")
		}
	default:
		return fmt.Errorf("telegram.mode must be 'polling' or 'webhook'; got %s", cfg.Telegram.Mode)
	}

	if cfg.Telegram.PollTimeoutSeconds < 0 || cfg.Telegram.PollTimeoutSeconds > 50 {
		return errors.New("telegram.poll_timeout_seconds must be [0,50]")
	}
	if cfg.Telegram.PollTimeoutSeconds == 0 {
		cfg.Telegram.PollTimeoutSeconds = 30
	}
	if cfg.Telegram.Workers < 0 || cfg.Telegram.Workers > 64 {
		return errors.New("telegram.workers must be [0,64]")
	}
	if cfg.Telegram.Workers == 0 {
		cfg.Telegram.Workers = 1
	}
	if cfg.Telegram.RequestsPerSecond < 0 {
		return errors.New("telegram.requests_per_second must be >= 0")
	}

	// limiter
	if cfg.Limiter.MaxMessages < 1 || cfg.Limiter.MaxMessages > 100 {
		return errors.New("limiter.max_messages must be [1,100]")
	}
	if cfg.Limiter.WindowSeconds < 1 || cfg.Limiter.WindowSeconds > 3600 {
		return errors.New("limiter.window_seconds must be [1,3600]")
	}
	if cfg.Limiter.IdleEvictionMinutes < 0 {
		return errors.New("limiter.idle_eviction_minutes must be >= 0")
	}
	if cfg.Limiter.IdleEvictionMinutes > 0 && cfg.Limiter.IdleEvictionMinutes*60 < cfg.Limiter.WindowSeconds {
		return errors.New("limiter.idle_eviction_minutes must cover limiter.window_seconds")
	}

	return nil
}
