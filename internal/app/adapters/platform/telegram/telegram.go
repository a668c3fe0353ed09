package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
	"zapata/internal/app/adapters/metrics"
	"zapata/internal/app/adapters/platform/telegram/api"
	"zapata/internal/app/domain/relay"
	"zapata/internal/app/infrastructure/config"
	"zapata/internal/app/infrastructure/storage"
	"zapata/internal/app/ports"
	"zapata/pkg/logger"
)

type botAPI interface {
	GetMe(ctx context.Context) (*api.User, error)
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]api.Update, error)
	SetWebhook(ctx context.Context, url, secret string) error
	DeleteWebhook(ctx context.Context) error
	GetWebhookInfo(ctx context.Context) (*api.WebhookInfo, error)
	AnswerControlPress(ctx context.Context, pressID, text string, alert bool) error
}

const (
	queueSize      = 300
	handlerTimeout = 2 * time.Minute
	seenCacheSize  = 10_000
	seenCacheTTL   = 10 * time.Minute

	pollBackoffMin = time.Second
	pollBackoffMax = 30 * time.Second
)

// Telegram превращает апдейты Bot API в вызовы движка релея.
type Telegram struct {
	log         logger.Logger
	api         botAPI
	relay       ports.RelayPort
	groupChatID int64
	pollTimeout time.Duration

	ctx         context.Context
	botUsername string

	seenMu sync.Mutex
	seen   *storage.Cache[int64, struct{}]
	pool   *Pool
}

func New(log logger.Logger, cfg *config.Telegram, client botAPI, engine ports.RelayPort) *Telegram {
	return &Telegram{
		log:         log,
		api:         client,
		relay:       engine,
		groupChatID: cfg.GroupChatID,
		pollTimeout: time.Duration(cfg.PollTimeoutSeconds) * time.Second,
		ctx:         context.Background(),
		seen:        storage.NewCache[int64, struct{}](seenCacheSize, seenCacheTTL, storage.WithWriteExpiry[int64, struct{}]()),
		pool:        NewPool(cfg.Workers, queueSize),
	}
}

// Start запоминает имя бота для команд вида /help@bot. ctx - родитель для всех обработчиков.
func (t *Telegram) Start(ctx context.Context) error {
	me, err := t.api.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("getMe: %w", err)
	}

	t.ctx = ctx
	t.botUsername = me.Username
	t.log.Info("Telegram bot authorized", slog.String("username", me.Username), slog.Int64("id", me.ID))
	return nil
}

// Run - long polling до отмены ctx. Вебхук, если был, снимается: иначе getUpdates вернёт 409.
func (t *Telegram) Run(ctx context.Context) error {
	if err := t.api.DeleteWebhook(ctx); err != nil {
		return fmt.Errorf("deleteWebhook: %w", err)
	}
	t.log.Info("Long polling started", slog.Duration("timeout", t.pollTimeout))

	var offset int64
	backoff := pollBackoffMin
	for {
		updates, err := t.api.GetUpdates(ctx, offset, t.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if api.IsPollTimeout(err) {
				continue
			}

			t.log.Warn("getUpdates failed, retrying...", slog.String("error", err.Error()), slog.Duration("backoff", backoff))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, pollBackoffMax)
			continue
		}
		backoff = pollBackoffMin

		for _, u := range updates {
			// offset сдвигается только после постановки в очередь
			if err := t.dispatchWait(ctx, u); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("dispatch update %d: %w", u.UpdateID, err)
			}
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
		}
	}
}

func (t *Telegram) RegisterWebhook(ctx context.Context, url, secret string) error {
	if err := t.api.SetWebhook(ctx, url, secret); err != nil {
		return fmt.Errorf("setWebhook: %w", err)
	}

	info, err := t.api.GetWebhookInfo(ctx)
	if err != nil {
		t.log.Warn("Failed to read webhook info", slog.String("error", err.Error()))
		return nil
	}
	t.log.Info("Webhook active", slog.Int("pending", info.PendingUpdateCount), slog.String("last_error", info.LastErrorMessage))
	return nil
}

// HandleRaw - тело запроса вебхука.
func (t *Telegram) HandleRaw(raw []byte) error {
	var u api.Update
	if err := json.Unmarshal(raw, &u); err != nil {
		return fmt.Errorf("decode update: %w", err)
	}

	return t.Dispatch(u)
}

// Dispatch ставит апдейт в очередь его чата. Повтор update_id отбрасывается.
// Если очередь переполнена, апдейт не помечается как виденный и возвращается ports.ErrSinkBusy.
func (t *Telegram) Dispatch(u api.Update) error {
	if !t.markSeen(u.UpdateID) {
		t.log.Debug("Duplicate update skipped", slog.Int64("update_id", u.UpdateID))
		return nil
	}

	if err := t.pool.Submit(chatKey(u), func() { t.process(u) }); err != nil {
		t.seen.ClearKey(u.UpdateID)
		t.log.Warn("Update deferred", slog.Int64("update_id", u.UpdateID), slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ports.ErrSinkBusy, err)
	}
	return nil
}

// dispatchWait - вариант Dispatch для long polling: ждёт места в очереди вместо отказа.
func (t *Telegram) dispatchWait(ctx context.Context, u api.Update) error {
	if !t.markSeen(u.UpdateID) {
		t.log.Debug("Duplicate update skipped", slog.Int64("update_id", u.UpdateID))
		return nil
	}

	if err := t.pool.SubmitWait(ctx, chatKey(u), func() { t.process(u) }); err != nil {
		t.seen.ClearKey(u.UpdateID)
		return err
	}
	return nil
}

func (t *Telegram) Stop() {
	t.pool.Stop()
}

func (t *Telegram) markSeen(updateID int64) bool {
	t.seenMu.Lock()
	defer t.seenMu.Unlock()

	if _, ok := t.seen.Get(updateID); ok {
		return false
	}
	t.seen.Set(updateID, struct{}{})
	return true
}

func chatKey(u api.Update) int64 {
	switch {
	case u.Message != nil:
		return u.Message.Chat.ID
	case u.CallbackQuery != nil && u.CallbackQuery.Message != nil:
		return u.CallbackQuery.Message.Chat.ID
	case u.CallbackQuery != nil:
		return u.CallbackQuery.From.ID
	}
	return 0
}

func (t *Telegram) process(u api.Update) {
	start := time.Now()
	kind := "ignored"

	defer func() {
		if r := recover(); r != nil {
			t.log.Error("Panic while handling update", fmt.Errorf("%v", r),
				slog.Int64("update_id", u.UpdateID),
				slog.String("stack", string(debug.Stack())),
			)
			kind = "panic"
		}
		metrics.UpdateProcessingTime.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(t.ctx, handlerTimeout)
	defer cancel()

	var err error
	switch {
	case u.CallbackQuery != nil:
		kind, err = t.handlePress(ctx, u.CallbackQuery.ToPort())
	case u.Message != nil:
		kind, err = t.handleMessage(ctx, u.Message.ToPort())
	}

	t.logOutcome(u.UpdateID, kind, err)
}

func (t *Telegram) handleMessage(ctx context.Context, msg *ports.Message) (string, error) {
	if msg.From == nil {
		return "ignored", nil
	}

	switch {
	case msg.Chat.IsPrivate():
		name, args, isCommand := parseCommand(msg.Text, t.botUsername)
		if !isCommand {
			return "private", t.relay.OnPrivateMessage(ctx, msg)
		}

		// права на /blocked и /unblock проверяются по группе
		switch name {
		case "start":
			return "command", t.relay.OnStartCommand(ctx, msg)
		case "help":
			return "command", t.relay.OnHelpCommand(ctx, msg)
		case "blocked":
			return "command", t.relay.OnBlockedListCommand(ctx, msg)
		case "unblock":
			return "command", t.relay.OnUnblockCommand(ctx, msg, args)
		}
		return "ignored", nil

	case msg.Chat.ID == t.groupChatID:
		name, args, isCommand := parseCommand(msg.Text, t.botUsername)
		if !isCommand {
			if msg.ReplyTo == nil {
				return "ignored", nil
			}
			return "reply", t.relay.OnGroupReply(ctx, msg)
		}

		switch name {
		case "help":
			return "command", t.relay.OnHelpCommand(ctx, msg)
		case "blocked":
			return "command", t.relay.OnBlockedListCommand(ctx, msg)
		case "unblock":
			return "command", t.relay.OnUnblockCommand(ctx, msg, args)
		case "ping":
			return "command", t.relay.OnPingCommand(ctx, msg)
		}
		return "ignored", nil
	}

	return "ignored", nil
}

func (t *Telegram) handlePress(ctx context.Context, press *ports.ControlPress) (string, error) {
	if press.Message == nil || press.Message.Chat.ID != t.groupChatID {
		t.answerSilently(ctx, press.ID)
		return "ignored", nil
	}

	ctl, err := relay.ParseControl(press.Data)
	if err != nil {
		t.answerSilently(ctx, press.ID)
		return "callback", err
	}

	switch ctl.Action {
	case relay.ControlBlock:
		return "callback", t.relay.OnBlockPress(ctx, press, ctl.UserID)
	case relay.ControlUnblock:
		return "callback", t.relay.OnUnblockPress(ctx, press, ctl.UserID)
	}
	return "ignored", nil
}

// answerSilently снимает индикатор загрузки у кнопки, которую бот не обрабатывает.
func (t *Telegram) answerSilently(ctx context.Context, pressID string) {
	if err := t.api.AnswerControlPress(ctx, pressID, "", false); err != nil {
		t.log.Warn("Failed to answer control press", slog.String("press_id", pressID), slog.String("error", err.Error()))
	}
}

// logOutcome: отказы по правилам - обычная работа, сбои транспорта - ошибки.
func (t *Telegram) logOutcome(updateID int64, kind string, err error) {
	switch {
	case err == nil:
		t.log.Trace("Update handled", slog.Int64("update_id", updateID), slog.String("type", kind))
	case errors.Is(err, relay.ErrTransport):
		t.log.Error("Update handled with transport failure", err, slog.Int64("update_id", updateID), slog.String("type", kind))
	default:
		t.log.Debug("Update rejected", slog.Int64("update_id", updateID), slog.String("type", kind), slog.String("reason", err.Error()))
	}
}
