package api

import (
	"context"
	"encoding/json"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"zapata/internal/app/infrastructure/config"
	"zapata/internal/app/ports"
	"zapata/pkg/logger"
)

const testToken = "123456:TEST-token"

type call struct {
	Method string
	Body   map[string]any
}

// botServer - фейковый Bot API: отвечает по имени метода, запоминает запросы.
type botServer struct {
	mu      sync.Mutex
	calls   []call
	respond func(method string, body map[string]any) (int, string)
}

func (b *botServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := strings.TrimPrefix(r.URL.Path, "/bot"+testToken+"/")

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	b.mu.Lock()
	b.calls = append(b.calls, call{Method: method, Body: body})
	b.mu.Unlock()

	status, resp := http.StatusOK, `{"ok":true,"result":{"message_id":77}}`
	if b.respond != nil {
		status, resp = b.respond(method, body)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp))
}

func (b *botServer) recorded() []call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]call(nil), b.calls...)
}

func newTestAPI(t *testing.T, respond func(method string, body map[string]any) (int, string)) (*Telegram, *botServer) {
	t.Helper()

	bot := &botServer{respond: respond}
	srv := httptest.NewServer(bot)
	t.Cleanup(srv.Close)

	cfg := &config.Telegram{Token: testToken, APIBaseURL: srv.URL + "/"}
	return New(logger.NewWithHandler(slogt.New(t).Handler()), cfg, srv.Client()), bot
}

func TestTelegram_SendMessage(t *testing.T) {
	tg, bot := newTestAPI(t, nil)

	id, err := tg.SendMessage(context.Background(), -100, "<b>hi</b>", ports.SendOptions{
		Format:   ports.FormatHTML,
		ReplyTo:  5,
		Keyboard: ports.Keyboard{{{Text: "🚫 Block User", Data: "block:42"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), id)

	calls := bot.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "sendMessage", calls[0].Method)

	body := calls[0].Body
	assert.Equal(t, float64(-100), body["chat_id"])
	assert.Equal(t, "HTML", body["parse_mode"])
	assert.Equal(t, float64(5), body["reply_to_message_id"])
	assert.Equal(t, map[string]any{
		"inline_keyboard": []any{[]any{map[string]any{"text": "🚫 Block User", "callback_data": "block:42"}}},
	}, body["reply_markup"])
}

func TestTelegram_SendMessagePlain(t *testing.T) {
	tg, bot := newTestAPI(t, nil)

	_, err := tg.SendMessage(context.Background(), 42, "plain", ports.SendOptions{})
	require.NoError(t, err)

	body := bot.recorded()[0].Body
	assert.NotContains(t, body, "parse_mode")
	assert.NotContains(t, body, "reply_markup")
	assert.NotContains(t, body, "reply_to_message_id")
}

func TestTelegram_SendMedia(t *testing.T) {
	tests := []struct {
		kind   ports.Kind
		method string
		field  string
	}{
		{ports.KindPhoto, "sendPhoto", "photo"},
		{ports.KindVideo, "sendVideo", "video"},
		{ports.KindAnimation, "sendAnimation", "animation"},
		{ports.KindDocument, "sendDocument", "document"},
		{ports.KindVoice, "sendVoice", "voice"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			tg, bot := newTestAPI(t, nil)
			ctx := context.Background()

			_, err := tg.SendMedia(ctx, 42, ports.Payload{Kind: tt.kind, Content: "file-1"}, 0)
			require.NoError(t, err)

			_, err = tg.SendMedia(ctx, 42, ports.Payload{
				Kind:            tt.kind,
				Content:         "file-2",
				Caption:         "look",
				CaptionEntities: []ports.Entity{{Type: "bold", Offset: 0, Length: 4}},
			}, 9)
			require.NoError(t, err)

			calls := bot.recorded()
			require.Len(t, calls, 2)

			bare := calls[0]
			assert.Equal(t, tt.method, bare.Method)
			assert.Equal(t, "file-1", bare.Body[tt.field])
			assert.NotContains(t, bare.Body, "caption", "absent caption must not be sent")
			assert.NotContains(t, bare.Body, "reply_to_message_id")

			captioned := calls[1]
			assert.Equal(t, "look", captioned.Body["caption"])
			assert.Equal(t, []any{map[string]any{"type": "bold", "offset": float64(0), "length": float64(4)}}, captioned.Body["caption_entities"])
			assert.Equal(t, float64(9), captioned.Body["reply_to_message_id"])
		})
	}
}

func TestTelegram_SendMediaText(t *testing.T) {
	tg, bot := newTestAPI(t, nil)

	_, err := tg.SendMedia(context.Background(), 42, ports.Payload{
		Kind:     ports.KindText,
		Content:  "see https://example.org",
		Entities: []ports.Entity{{Type: "url", Offset: 4, Length: 19}},
	}, 0)
	require.NoError(t, err)

	c := bot.recorded()[0]
	assert.Equal(t, "sendMessage", c.Method)
	assert.Equal(t, "see https://example.org", c.Body["text"])
	assert.NotContains(t, c.Body, "parse_mode", "entities carry the formatting")
	assert.Len(t, c.Body["entities"], 1)
}

func TestTelegram_SendMediaUnknownKind(t *testing.T) {
	tg, bot := newTestAPI(t, nil)

	_, err := tg.SendMedia(context.Background(), 42, ports.Payload{Kind: ports.Kind(99), Content: "x"}, 0)
	assert.ErrorIs(t, err, ErrUnsupportedKind)
	assert.Empty(t, bot.recorded())
}

func TestTelegram_RetriesOnTooManyRequests(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	tg, _ := newTestAPI(t, func(method string, _ map[string]any) (int, string) {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts == 1 {
			return http.StatusTooManyRequests, `{"ok":false,"error_code":429,"description":"Too Many Requests: retry after 1","parameters":{"retry_after":1}}`
		}
		return http.StatusOK, `{"ok":true,"result":{"message_id":78}}`
	})

	start := time.Now()
	id, err := tg.SendMessage(context.Background(), 42, "hi", ports.SendOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(78), id)
	assert.GreaterOrEqual(t, time.Since(start), time.Second)

	mu.Lock()
	assert.Equal(t, 2, attempts)
	mu.Unlock()
}

func TestTelegram_BackoffHonoursContext(t *testing.T) {
	tg, _ := newTestAPI(t, func(string, map[string]any) (int, string) {
		return http.StatusTooManyRequests, `{"ok":false,"error_code":429,"description":"Too Many Requests","parameters":{"retry_after":30}}`
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := tg.SendMessage(ctx, 42, "hi", ports.SendOptions{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTelegram_ChatActionNotRetried(t *testing.T) {
	tg, bot := newTestAPI(t, func(string, map[string]any) (int, string) {
		return http.StatusTooManyRequests, `{"ok":false,"error_code":429,"description":"Too Many Requests","parameters":{"retry_after":30}}`
	})

	start := time.Now()
	tg.IndicateActivity(context.Background(), 42, ports.ActionTyping)

	assert.Less(t, time.Since(start), 5*time.Second)
	require.Len(t, bot.recorded(), 1)
	assert.Equal(t, "sendChatAction", bot.recorded()[0].Method)
}

func TestTelegram_APIError(t *testing.T) {
	tg, _ := newTestAPI(t, func(string, map[string]any) (int, string) {
		return http.StatusForbidden, `{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`
	})

	_, err := tg.SendMessage(context.Background(), 42, "hi", ports.SendOptions{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "sendMessage", apiErr.Method)
	assert.Equal(t, 403, apiErr.Code)
	assert.Equal(t, "Forbidden: bot was blocked by the user", apiErr.Description)
}

func TestTelegram_NonJSONResponse(t *testing.T) {
	tg, _ := newTestAPI(t, func(string, map[string]any) (int, string) {
		return http.StatusBadGateway, `<html>bad gateway</html>`
	})

	_, err := tg.SendMessage(context.Background(), 42, "hi", ports.SendOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram http 502")
}

func TestTelegram_NetworkErrorHidesToken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	cfg := &config.Telegram{Token: testToken, APIBaseURL: base}
	tg := New(logger.NewWithHandler(slogt.New(t).Handler()), cfg, &http.Client{})

	_, err := tg.SendMessage(context.Background(), 42, "hi", ports.SendOptions{})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), testToken)
	assert.Contains(t, err.Error(), "<token>")
}

func TestTelegram_GetMemberStatusCached(t *testing.T) {
	tg, bot := newTestAPI(t, func(method string, body map[string]any) (int, string) {
		return http.StatusOK, `{"ok":true,"result":{"status":"administrator","user":{"id":7,"first_name":"Mod"}}}`
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		status, err := tg.GetMemberStatus(ctx, -100, 7)
		require.NoError(t, err)
		assert.True(t, status.IsAdmin())
	}
	assert.Len(t, bot.recorded(), 1)

	_, err := tg.GetMemberStatus(ctx, -100, 8)
	require.NoError(t, err)
	assert.Len(t, bot.recorded(), 2)
}

func TestTelegram_DisableControlAndAnswer(t *testing.T) {
	tg, bot := newTestAPI(t, func(string, map[string]any) (int, string) {
		return http.StatusOK, `{"ok":true,"result":true}`
	})
	ctx := context.Background()

	require.NoError(t, tg.DisableControl(ctx, -100, 1001))
	require.NoError(t, tg.AnswerControlPress(ctx, "cb-1", "Permission denied.", true))
	require.NoError(t, tg.AnswerControlPress(ctx, "cb-2", "", false))

	calls := bot.recorded()
	require.Len(t, calls, 3)

	assert.Equal(t, "editMessageReplyMarkup", calls[0].Method)
	assert.Equal(t, float64(1001), calls[0].Body["message_id"])
	assert.Equal(t, map[string]any{"inline_keyboard": []any{}}, calls[0].Body["reply_markup"])

	assert.Equal(t, "answerCallbackQuery", calls[1].Method)
	assert.Equal(t, true, calls[1].Body["show_alert"])
	assert.Equal(t, map[string]any{"callback_query_id": "cb-2"}, calls[2].Body)
}

func TestTelegram_GetUpdates(t *testing.T) {
	const updates = `{"ok":true,"result":[
		{"update_id":10,"message":{"message_id":1,"chat":{"id":42,"type":"private"},
			"from":{"id":42,"username":"alice","first_name":"Alice"},
			"photo":[{"file_id":"small"},{"file_id":"large"}],"caption":"pic"}},
		{"update_id":11,"callback_query":{"id":"cb","from":{"id":7,"first_name":"Mod"},
			"message":{"message_id":1001,"chat":{"id":-100,"type":"supergroup"}},"data":"block:42"}}
	]}`
	tg, bot := newTestAPI(t, func(string, map[string]any) (int, string) {
		return http.StatusOK, updates
	})

	got, err := tg.GetUpdates(context.Background(), 10, time.Second)
	require.NoError(t, err)
	require.Len(t, got, 2)

	body := bot.recorded()[0].Body
	assert.Equal(t, float64(10), body["offset"])
	assert.Equal(t, float64(1), body["timeout"])
	assert.Equal(t, []any{"message", "callback_query"}, body["allowed_updates"])

	msg := got[0].Message.ToPort()
	assert.Equal(t, ports.ChatPrivate, msg.Chat.Type)
	assert.Equal(t, []string{"small", "large"}, msg.PhotoFileIDs)
	assert.Equal(t, "pic", msg.Caption)
	assert.Equal(t, "Alice", msg.From.FullName())

	press := got[1].CallbackQuery.ToPort()
	assert.Equal(t, "cb", press.ID)
	assert.Equal(t, int64(7), press.From.ID)
	assert.Equal(t, int64(1001), press.Message.ID)
	assert.Equal(t, "block:42", press.Data)
}

func TestIsPollTimeout(t *testing.T) {
	assert.True(t, IsPollTimeout(context.DeadlineExceeded))
	assert.False(t, IsPollTimeout(nil))
	assert.False(t, IsPollTimeout(&APIError{Code: 409, Description: "Conflict"}))
}
