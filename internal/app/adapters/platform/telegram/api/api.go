package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"golang.org/x/time/rate"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"zapata/internal/app/infrastructure/config"
	"zapata/internal/app/infrastructure/storage"
	"zapata/internal/app/ports"
	"zapata/pkg/logger"
)

type Telegram struct {
	log     logger.Logger
	client  *http.Client
	baseURL string
	token   string
	limiter *rate.Limiter
	members *storage.Cache[memberKey, ports.MemberStatus]
}

type memberKey struct {
	chatID int64
	userID int64
}

const (
	maxRetries     = 5
	baseBackoff    = time.Second
	maxBackoff     = 30 * time.Second
	requestTimeout = 15 * time.Second

	memberCacheSize = 1024
	memberCacheTTL  = 30 * time.Second
)

func New(log logger.Logger, cfg *config.Telegram, client *http.Client) *Telegram {
	if client == nil {
		client = &http.Client{}
	}

	limit, burst := rate.Inf, 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = max(1, int(cfg.RequestsPerSecond))
	}

	return &Telegram{
		log:     log,
		client:  client,
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		token:   cfg.Token,
		limiter: rate.NewLimiter(limit, burst),
		members: storage.NewCache[memberKey, ports.MemberStatus](memberCacheSize, memberCacheTTL, storage.WithWriteExpiry[memberKey, ports.MemberStatus]()),
	}
}

type telegramRequest struct {
	Method  string
	Body    any
	Timeout time.Duration // 0 - requestTimeout
	NoRetry bool          // 429 возвращается сразу, без ожидания retry_after
}

// envelope - общий формат ответа Bot API.
type envelope struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
	Parameters  *struct {
		RetryAfter      int   `json:"retry_after"`
		MigrateToChatID int64 `json:"migrate_to_chat_id"`
	} `json:"parameters"`
}

func (t *Telegram) doTelegramRequest(ctx context.Context, reqData telegramRequest, target any) error {
	t.log.Trace("Preparing Telegram request", slog.String("method", reqData.Method))

	payload, err := json.Marshal(reqData.Body)
	if err != nil {
		t.log.Error("Failed to encode request body", err, slog.String("method", reqData.Method))
		return err
	}

	timeout := reqData.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	endpoint := fmt.Sprintf("%s/bot%s/%s", t.baseURL, t.token, reqData.Method)

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := t.limiter.Wait(ctx); err != nil {
			return err
		}

		t.log.Debug("Sending Telegram request", slog.Int("attempt", attempt), slog.String("method", reqData.Method))
		env, status, err := t.roundTrip(ctx, endpoint, payload, timeout)
		if err != nil {
			return err
		}

		if env.OK {
			if target == nil || len(env.Result) == 0 {
				return nil
			}
			if err := json.Unmarshal(env.Result, target); err != nil {
				t.log.Error("Failed to decode result", err, slog.String("method", reqData.Method), slog.String("result", string(env.Result)))
				return err
			}
			return nil
		}

		apiErr := &APIError{Method: reqData.Method, Code: env.ErrorCode, Description: env.Description}
		if apiErr.Code == 0 {
			apiErr.Code = status
		}
		if env.Parameters != nil {
			apiErr.RetryAfter = env.Parameters.RetryAfter
		}

		if apiErr.Code != http.StatusTooManyRequests || reqData.NoRetry {
			t.log.Debug("Telegram API returned an error", slog.String("method", reqData.Method), slog.Int("code", apiErr.Code), slog.String("description", apiErr.Description))
			return apiErr
		}

		wait := time.Duration(apiErr.RetryAfter) * time.Second
		if wait <= 0 {
			wait = time.Duration(attempt) * baseBackoff
		}
		if wait > maxBackoff {
			wait = maxBackoff
		}

		t.log.Warn("Rate limit hit, backing off", slog.Int("attempt", attempt), slog.String("method", reqData.Method), slog.String("wait", wait.String()))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	t.log.Error("Telegram request failed after max retries", nil, slog.Int("maxRetries", maxRetries), slog.String("method", reqData.Method))
	return fmt.Errorf("%w: %s after %d attempts", ErrRetriesExhausted, reqData.Method, maxRetries)
}

func (t *Telegram) roundTrip(ctx context.Context, endpoint string, payload []byte, timeout time.Duration) (*envelope, int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		// в ошибке net/http есть url, а в нём токен
		return nil, 0, redact(err, t.token)
	}

	raw, err := io.ReadAll(resp.Body)
	if cerr := resp.Body.Close(); cerr != nil {
		t.log.Error("Failed to close response body", cerr)
	}
	if err != nil {
		return nil, resp.StatusCode, err
	}
	t.log.Trace("Response received", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("telegram http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return &env, resp.StatusCode, nil
}
