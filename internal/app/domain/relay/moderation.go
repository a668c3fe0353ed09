package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"zapata/internal/app/adapters/metrics"
	"zapata/internal/app/ports"
)

// OnBlockPress - кнопка "Block" под баннером. Права проверяются только с RequireAdminForBlock.
func (e *Engine) OnBlockPress(ctx context.Context, press *ports.ControlPress, userID int64) error {
	if press == nil {
		return nil
	}

	if e.settings.RequireAdminForBlock && !e.isAdmin(ctx, press.From.ID) {
		metrics.Rejections.WithLabelValues(flowModeration, reason(ErrPermissionDenied)).Inc()
		e.answer(ctx, press, NoticePermissionDenied, true)
		return ErrPermissionDenied
	}

	e.state.Blocklist.Block(userID)
	e.refreshGauges()
	metrics.ModerationActions.WithLabelValues(ControlBlock).Inc()
	e.log.Info("User blocked", slog.Int64("user_id", userID), slog.Int64("by", press.From.ID))

	chatID, replyTo := e.settings.GroupChatID, int64(0)
	var errs []error
	if press.Message != nil {
		chatID, replyTo = press.Message.Chat.ID, press.Message.ID
		if err := e.transport.DisableControl(ctx, chatID, press.Message.ID); err != nil {
			errs = append(errs, fmt.Errorf("disable control: %w", err))
		}
	}
	if _, err := e.transport.SendMessage(ctx, chatID, fmt.Sprintf(NoticeUserBlocked, userID), ports.SendOptions{ReplyTo: replyTo}); err != nil {
		errs = append(errs, fmt.Errorf("confirm block: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		e.log.Error("Block applied but the group was not updated", err, slog.Int64("user_id", userID))
		e.answer(ctx, press, NoticeBlockUnconfirmed, true)
		return &TransportError{Op: "block", Err: err}
	}

	e.answer(ctx, press, "", false)
	return nil
}

// OnUnblockPress - кнопка "Unblock N" из списка /blocked, только для админов группы.
func (e *Engine) OnUnblockPress(ctx context.Context, press *ports.ControlPress, userID int64) error {
	if press == nil {
		return nil
	}

	if !e.isAdmin(ctx, press.From.ID) {
		metrics.Rejections.WithLabelValues(flowModeration, reason(ErrPermissionDenied)).Inc()
		e.answer(ctx, press, NoticePermissionDenied, true)
		return ErrPermissionDenied
	}

	if !e.state.Blocklist.Unblock(userID) {
		e.answer(ctx, press, NoticeNotInBlocklist, true)
		return ErrNotBlocked
	}
	e.refreshGauges()
	metrics.ModerationActions.WithLabelValues(ControlUnblock).Inc()
	e.log.Info("User unblocked", slog.Int64("user_id", userID), slog.Int64("by", press.From.ID))

	e.answer(ctx, press, "", false)

	chatID, replyTo := e.settings.GroupChatID, int64(0)
	if press.Message != nil {
		chatID, replyTo = press.Message.Chat.ID, press.Message.ID
	}
	if _, err := e.transport.SendMessage(ctx, chatID, fmt.Sprintf(NoticeUserUnblocked, userID), ports.SendOptions{ReplyTo: replyTo}); err != nil {
		e.log.Error("Failed to confirm unblock", err, slog.Int64("user_id", userID))
		return &TransportError{Op: "confirm unblock", Err: err}
	}
	return nil
}

// OnBlockedListCommand - /blocked: список с кнопкой разблокировки на каждого.
func (e *Engine) OnBlockedListCommand(ctx context.Context, msg *ports.Message) error {
	if msg == nil || msg.From == nil {
		return nil
	}

	if !e.isAdmin(ctx, msg.From.ID) {
		metrics.Rejections.WithLabelValues(flowModeration, reason(ErrPermissionDenied)).Inc()
		e.notify(ctx, msg.Chat.ID, NoticeCommandDenied, msg.ID)
		return ErrPermissionDenied
	}

	ids := e.state.Blocklist.List()
	if len(ids) == 0 {
		e.notify(ctx, msg.Chat.ID, NoticeNoBlocked, msg.ID)
		return nil
	}

	text, keyboard := blockedListText(ids, e.state.Store.LookupIdentity)
	e.transport.IndicateActivity(ctx, msg.Chat.ID, ports.ActionTyping)
	if _, err := e.transport.SendMessage(ctx, msg.Chat.ID, text, ports.SendOptions{
		Format:   ports.FormatHTML,
		ReplyTo:  msg.ID,
		Keyboard: keyboard,
	}); err != nil {
		e.log.Error("Failed to send blocked list", err, slog.Int("count", len(ids)))
		return &TransportError{Op: "send blocked list", Err: err}
	}
	return nil
}

// OnUnblockCommand - /unblock <user_id>.
func (e *Engine) OnUnblockCommand(ctx context.Context, msg *ports.Message, args string) error {
	if msg == nil || msg.From == nil {
		return nil
	}

	if !e.isAdmin(ctx, msg.From.ID) {
		metrics.Rejections.WithLabelValues(flowModeration, reason(ErrPermissionDenied)).Inc()
		e.notify(ctx, msg.Chat.ID, NoticeCommandDenied, msg.ID)
		return ErrPermissionDenied
	}

	fields := strings.Fields(args)
	if len(fields) == 0 {
		e.notify(ctx, msg.Chat.ID, NoticeUnblockUsage, msg.ID)
		return ErrBadArgument
	}

	userID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		e.notify(ctx, msg.Chat.ID, NoticeBadUserID, msg.ID)
		return fmt.Errorf("%w: %v", ErrBadArgument, err)
	}

	if !e.state.Blocklist.Unblock(userID) {
		e.notify(ctx, msg.Chat.ID, NoticeNotInBlocklist, msg.ID)
		return ErrNotBlocked
	}
	e.refreshGauges()
	metrics.ModerationActions.WithLabelValues(ControlUnblock).Inc()
	e.log.Info("User unblocked", slog.Int64("user_id", userID), slog.Int64("by", msg.From.ID))

	e.notify(ctx, msg.Chat.ID, fmt.Sprintf(NoticeUserUnblocked, userID), msg.ID)
	return nil
}

func (e *Engine) answer(ctx context.Context, press *ports.ControlPress, text string, alert bool) {
	if err := e.transport.AnswerControlPress(ctx, press.ID, text, alert); err != nil {
		e.log.Warn("Failed to answer control press", slog.String("press_id", press.ID), slog.String("error", err.Error()))
	}
}
