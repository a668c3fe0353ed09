package api

import (
	"context"
	"log/slog"
	"time"
)

func (t *Telegram) GetMe(ctx context.Context) (*User, error) {
	var me User
	if err := t.doTelegramRequest(ctx, telegramRequest{Method: "getMe", Body: struct{}{}}, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// GetUpdates - один long poll. Запрос живёт на 10 секунд дольше серверного таймаута.
func (t *Telegram) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	secs := int(timeout.Seconds())
	req := getUpdatesRequest{
		Offset:         offset,
		Timeout:        secs,
		AllowedUpdates: allowedUpdates,
	}

	var updates []Update
	err := t.doTelegramRequest(ctx, telegramRequest{
		Method:  "getUpdates",
		Body:    req,
		Timeout: timeout + 10*time.Second,
	}, &updates)
	if err != nil {
		return nil, err
	}
	return updates, nil
}

func (t *Telegram) SetWebhook(ctx context.Context, url, secret string) error {
	req := setWebhookRequest{URL: url, SecretToken: secret, AllowedUpdates: allowedUpdates}
	if err := t.doTelegramRequest(ctx, telegramRequest{Method: "setWebhook", Body: req}, nil); err != nil {
		return err
	}

	t.log.Info("Webhook registered", slog.String("url", url))
	return nil
}

func (t *Telegram) DeleteWebhook(ctx context.Context) error {
	return t.doTelegramRequest(ctx, telegramRequest{Method: "deleteWebhook", Body: deleteWebhookRequest{}}, nil)
}

func (t *Telegram) GetWebhookInfo(ctx context.Context) (*WebhookInfo, error) {
	var info WebhookInfo
	if err := t.doTelegramRequest(ctx, telegramRequest{Method: "getWebhookInfo", Body: struct{}{}}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
