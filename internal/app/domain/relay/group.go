package relay

import (
	"context"
	"log/slog"
	"zapata/internal/app/adapters/metrics"
	"zapata/internal/app/domain/payload"
	"zapata/internal/app/ports"
)

// OnGroupReply доставляет ответ из группы автору баннера.
// Баннер снимается только после успешной доставки, иначе на него можно ответить ещё раз.
func (e *Engine) OnGroupReply(ctx context.Context, msg *ports.Message) error {
	if msg == nil || msg.ReplyTo == nil {
		return nil
	}
	bannerID := msg.ReplyTo.ID

	userID, ok := e.state.Store.ResolveBanner(bannerID)
	if !ok {
		return e.rejectReply(ctx, msg, ErrUnknownBanner, NoticeReplyToBanner)
	}
	if e.state.Blocklist.IsBlocked(userID) {
		return e.rejectReply(ctx, msg, ErrBlocked, NoticeUserIsBlocked)
	}

	p, ok := payload.Classify(msg)
	if !ok {
		return e.rejectReply(ctx, msg, ErrUnsupportedContent, NoticeUnsupportedReply)
	}

	e.transport.IndicateActivity(ctx, userID, ports.ActionTyping)
	if _, err := e.transport.SendMessage(ctx, userID, NoticeReplyFromGroup, ports.SendOptions{}); err != nil {
		return e.failReply(ctx, msg, userID, "send reply notice", err)
	}

	e.transport.IndicateActivity(ctx, userID, p.Kind.Activity())
	if _, err := e.transport.SendMedia(ctx, userID, p, 0); err != nil {
		return e.failReply(ctx, msg, userID, "deliver reply", err)
	}

	e.state.Store.RetireBanner(bannerID)
	e.refreshGauges()
	metrics.DeliveredReplies.WithLabelValues(p.Kind.String()).Inc()
	e.log.Debug("Reply delivered", slog.Int64("user_id", userID), slog.Int64("banner_id", bannerID), slog.String("kind", p.Kind.String()))

	e.notify(ctx, msg.Chat.ID, NoticeReplyDelivered, msg.ID)
	return nil
}

func (e *Engine) rejectReply(ctx context.Context, msg *ports.Message, err error, notice string) error {
	metrics.Rejections.WithLabelValues(flowReply, reason(err)).Inc()
	e.log.Debug("Group reply rejected", slog.Int64("reply_to", msg.ReplyTo.ID), slog.String("reason", reason(err)))

	e.notify(ctx, msg.Chat.ID, notice, msg.ID)
	return err
}

func (e *Engine) failReply(ctx context.Context, msg *ports.Message, userID int64, op string, err error) error {
	terr := &TransportError{Op: op, Err: err}
	metrics.Rejections.WithLabelValues(flowReply, reason(terr)).Inc()
	e.log.Error("Failed to deliver reply", err, slog.String("op", op), slog.Int64("user_id", userID), slog.Int64("banner_id", msg.ReplyTo.ID))

	e.notify(ctx, msg.Chat.ID, NoticeReplyFailed, msg.ID)
	return terr
}
