package api

import (
	"context"
	"fmt"
	"log/slog"
	"zapata/internal/app/ports"
)

func (t *Telegram) SendMessage(ctx context.Context, chatID int64, text string, opts ports.SendOptions) (int64, error) {
	req := sendMessageRequest{
		ChatID:           chatID,
		Text:             text,
		ParseMode:        string(opts.Format),
		ReplyToMessageID: opts.ReplyTo,
		ReplyMarkup:      toMarkup(opts.Keyboard),
	}

	var sent sentMessage
	if err := t.doTelegramRequest(ctx, telegramRequest{Method: "sendMessage", Body: req}, &sent); err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// SendMedia отправляет payload тем методом, который соответствует его типу.
// Текст уходит с исходной разметкой (entities), без parse_mode.
func (t *Telegram) SendMedia(ctx context.Context, chatID int64, p ports.Payload, replyTo int64) (int64, error) {
	if p.Kind == ports.KindText {
		req := sendMessageRequest{
			ChatID:           chatID,
			Text:             p.Content,
			Entities:         p.Entities,
			ReplyToMessageID: replyTo,
		}

		var sent sentMessage
		if err := t.doTelegramRequest(ctx, telegramRequest{Method: "sendMessage", Body: req}, &sent); err != nil {
			return 0, err
		}
		return sent.MessageID, nil
	}

	req := sendMediaRequest{ChatID: chatID, ReplyToMessageID: replyTo}
	if p.HasCaption() {
		req.Caption = p.Caption
		req.CaptionEntities = p.CaptionEntities
	}

	var method string
	switch p.Kind {
	case ports.KindPhoto:
		method, req.Photo = "sendPhoto", p.Content
	case ports.KindVideo:
		method, req.Video = "sendVideo", p.Content
	case ports.KindAnimation:
		method, req.Animation = "sendAnimation", p.Content
	case ports.KindDocument:
		method, req.Document = "sendDocument", p.Content
	case ports.KindVoice:
		method, req.Voice = "sendVoice", p.Content
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedKind, p.Kind)
	}

	var sent sentMessage
	if err := t.doTelegramRequest(ctx, telegramRequest{Method: method, Body: req}, &sent); err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// IndicateActivity - best effort, ошибка только в лог.
func (t *Telegram) IndicateActivity(ctx context.Context, chatID int64, action ports.ChatAction) {
	req := sendChatActionRequest{ChatID: chatID, Action: string(action)}
	if err := t.doTelegramRequest(ctx, telegramRequest{Method: "sendChatAction", Body: req, NoRetry: true}, nil); err != nil {
		t.log.Debug("Failed to send chat action", slog.Int64("chat_id", chatID), slog.String("action", string(action)), slog.String("error", err.Error()))
	}
}

// GetMemberStatus кэширует статус на короткое время: админ-проверка идёт на каждое нажатие.
func (t *Telegram) GetMemberStatus(ctx context.Context, chatID, userID int64) (ports.MemberStatus, error) {
	key := memberKey{chatID: chatID, userID: userID}
	if status, ok := t.members.Get(key); ok {
		return status, nil
	}

	var member ChatMember
	req := getChatMemberRequest{ChatID: chatID, UserID: userID}
	if err := t.doTelegramRequest(ctx, telegramRequest{Method: "getChatMember", Body: req}, &member); err != nil {
		return "", err
	}

	status := ports.MemberStatus(member.Status)
	t.members.Set(key, status)
	return status, nil
}

func (t *Telegram) AnswerControlPress(ctx context.Context, pressID, text string, alert bool) error {
	req := answerCallbackQueryRequest{CallbackQueryID: pressID, Text: text, ShowAlert: alert}
	return t.doTelegramRequest(ctx, telegramRequest{Method: "answerCallbackQuery", Body: req}, nil)
}

// DisableControl снимает inline-клавиатуру с сообщения.
func (t *Telegram) DisableControl(ctx context.Context, chatID, messageID int64) error {
	req := editMessageReplyMarkupRequest{
		ChatID:      chatID,
		MessageID:   messageID,
		ReplyMarkup: inlineKeyboardMarkup{InlineKeyboard: [][]inlineKeyboardButton{}},
	}
	return t.doTelegramRequest(ctx, telegramRequest{Method: "editMessageReplyMarkup", Body: req}, nil)
}
