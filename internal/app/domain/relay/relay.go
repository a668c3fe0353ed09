package relay

import (
	"context"
	"log/slog"
	"time"
	"zapata/internal/app/adapters/metrics"
	"zapata/internal/app/domain/blocklist"
	"zapata/internal/app/domain/correlation"
	"zapata/internal/app/domain/payload"
	"zapata/internal/app/domain/ratelimit"
	"zapata/internal/app/ports"
	"zapata/pkg/logger"
)

const (
	flowPrivate    = "private"
	flowReply      = "reply"
	flowModeration = "moderation"
)

// State - всё изменяемое состояние релея. Живёт в памяти процесса, после рестарта пустое.
// У каждого хранилища свой лок, событие пишет максимум в одно из них.
type State struct {
	Limiter   ports.RateLimiterPort
	Blocklist ports.BlocklistPort
	Store     ports.CorrelationPort
}

func NewState(maxMessages int, window, idleEviction time.Duration) *State {
	return &State{
		Limiter:   ratelimit.New(maxMessages, window, ratelimit.WithIdleEviction(idleEviction)),
		Blocklist: blocklist.New(),
		Store:     correlation.New(),
	}
}

type Settings struct {
	GroupChatID int64
	// RequireAdminForBlock - по умолчанию кнопку блокировки может нажать любой участник группы,
	// разблокировка всегда только для админов.
	RequireAdminForBlock bool
}

type Engine struct {
	log       logger.Logger
	transport ports.TransportPort
	state     *State
	settings  Settings
	startedAt time.Time
}

func New(log logger.Logger, transport ports.TransportPort, state *State, settings Settings) *Engine {
	return &Engine{
		log:       log,
		transport: transport,
		state:     state,
		settings:  settings,
		startedAt: time.Now(),
	}
}

// OnPrivateMessage пересылает сообщение пользователя в группу: баннер с кнопкой блокировки,
// под ним сам контент ответом на баннер.
func (e *Engine) OnPrivateMessage(ctx context.Context, msg *ports.Message) error {
	if msg == nil || msg.From == nil {
		return nil
	}
	user := msg.From

	e.state.Store.RememberIdentity(user.ID, ports.Identity{
		Username:    user.Username,
		DisplayName: user.FullName(),
	})

	p, ok := payload.Classify(msg)
	if !ok {
		return e.rejectPrivate(ctx, msg, ErrUnsupportedContent, NoticeUnsupportedContent)
	}
	if e.state.Blocklist.IsBlocked(user.ID) {
		return e.rejectPrivate(ctx, msg, ErrBlocked, NoticeBlocked)
	}
	if !e.state.Limiter.Admit(user.ID) {
		return e.rejectPrivate(ctx, msg, ErrRateLimited, NoticeRateLimited)
	}

	e.transport.IndicateActivity(ctx, e.settings.GroupChatID, ports.ActionTyping)
	bannerID, err := e.transport.SendMessage(ctx, e.settings.GroupChatID, bannerText(msg, p), ports.SendOptions{
		Format:   ports.FormatHTML,
		Keyboard: blockKeyboard(user.ID),
	})
	if err != nil {
		return e.failPrivate(ctx, msg, "send banner", err)
	}

	// баннер уже в группе - связь фиксируем сразу, даже если контент ниже не уйдёт
	e.state.Store.RecordBanner(bannerID, user.ID)
	e.refreshGauges()

	e.transport.IndicateActivity(ctx, e.settings.GroupChatID, p.Kind.Activity())
	if _, err := e.transport.SendMedia(ctx, e.settings.GroupChatID, p, bannerID); err != nil {
		e.log.Warn("Banner posted without its payload",
			slog.Int64("banner_id", bannerID),
			slog.Int64("user_id", user.ID),
			slog.String("kind", p.Kind.String()),
		)
		return e.failPrivate(ctx, msg, "relay payload", err)
	}

	metrics.RelayedMessages.WithLabelValues(p.Kind.String()).Inc()
	e.log.Debug("Message relayed", slog.Int64("user_id", user.ID), slog.Int64("banner_id", bannerID), slog.String("kind", p.Kind.String()))

	e.notify(ctx, msg.Chat.ID, NoticeDelivered, 0)
	return nil
}

func (e *Engine) rejectPrivate(ctx context.Context, msg *ports.Message, err error, notice string) error {
	metrics.Rejections.WithLabelValues(flowPrivate, reason(err)).Inc()
	e.log.Debug("Private message rejected", slog.Int64("user_id", msg.From.ID), slog.String("reason", reason(err)))

	e.notify(ctx, msg.Chat.ID, notice, 0)
	return err
}

func (e *Engine) failPrivate(ctx context.Context, msg *ports.Message, op string, err error) error {
	terr := &TransportError{Op: op, Err: err}
	metrics.Rejections.WithLabelValues(flowPrivate, reason(terr)).Inc()
	e.log.Error("Failed to forward private message", err, slog.String("op", op), slog.Int64("user_id", msg.From.ID))

	e.notify(ctx, msg.Chat.ID, NoticeSendFailed, 0)
	return terr
}

// notify - итоговое сообщение о событии. Если не ушло и оно, сообщать уже некому - только лог.
func (e *Engine) notify(ctx context.Context, chatID int64, text string, replyTo int64) {
	e.transport.IndicateActivity(ctx, chatID, ports.ActionTyping)
	if _, err := e.transport.SendMessage(ctx, chatID, text, ports.SendOptions{ReplyTo: replyTo}); err != nil {
		e.log.Error("Failed to send notice", err, slog.Int64("chat_id", chatID), slog.String("text", text))
	}
}

func (e *Engine) isAdmin(ctx context.Context, userID int64) bool {
	status, err := e.transport.GetMemberStatus(ctx, e.settings.GroupChatID, userID)
	if err != nil {
		e.log.Warn("Member status lookup failed, treating as non-admin", slog.Int64("user_id", userID), slog.String("error", err.Error()))
		return false
	}
	return status.IsAdmin()
}

func (e *Engine) refreshGauges() {
	metrics.OpenBanners.Set(float64(e.state.Store.OpenBanners()))
	metrics.BlockedUsers.Set(float64(e.state.Blocklist.Len()))
}
