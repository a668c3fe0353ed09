package relay

import (
	"context"
	"errors"
	"github.com/neilotoole/slogt"
	"sync"
	"testing"
	"time"
	"zapata/internal/app/ports"
	"zapata/pkg/logger"
)

const testGroupID = int64(-1001234567890)

var errNetwork = errors.New("connection reset by peer")

type sentMessage struct {
	ID      int64
	ChatID  int64
	Text    string
	Opts    ports.SendOptions
	Payload *ports.Payload
	ReplyTo int64
}

type pressAnswer struct {
	PressID string
	Text    string
	Alert   bool
}

type fakeTransport struct {
	mu       sync.Mutex
	nextID   int64
	sent     []sentMessage
	answers  []pressAnswer
	disabled []int64
	actions  []ports.ChatAction

	statuses  map[int64]ports.MemberStatus
	statusErr error

	failSend    func(chatID int64, text string) error
	failMedia   func(chatID int64) error
	failDisable error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		nextID:   1000,
		statuses: make(map[int64]ports.MemberStatus),
	}
}

func (f *fakeTransport) SendMessage(_ context.Context, chatID int64, text string, opts ports.SendOptions) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSend != nil {
		if err := f.failSend(chatID, text); err != nil {
			return 0, err
		}
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{ID: f.nextID, ChatID: chatID, Text: text, Opts: opts, ReplyTo: opts.ReplyTo})
	return f.nextID, nil
}

func (f *fakeTransport) SendMedia(_ context.Context, chatID int64, p ports.Payload, replyTo int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failMedia != nil {
		if err := f.failMedia(chatID); err != nil {
			return 0, err
		}
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{ID: f.nextID, ChatID: chatID, Payload: &p, ReplyTo: replyTo})
	return f.nextID, nil
}

func (f *fakeTransport) IndicateActivity(_ context.Context, _ int64, action ports.ChatAction) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.actions = append(f.actions, action)
}

func (f *fakeTransport) GetMemberStatus(_ context.Context, _ int64, userID int64) (ports.MemberStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.statusErr != nil {
		return "", f.statusErr
	}
	if s, ok := f.statuses[userID]; ok {
		return s, nil
	}
	return ports.StatusMember, nil
}

func (f *fakeTransport) AnswerControlPress(_ context.Context, pressID, text string, alert bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.answers = append(f.answers, pressAnswer{PressID: pressID, Text: text, Alert: alert})
	return nil
}

func (f *fakeTransport) DisableControl(_ context.Context, _ int64, messageID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failDisable != nil {
		return f.failDisable
	}
	f.disabled = append(f.disabled, messageID)
	return nil
}

func (f *fakeTransport) to(chatID int64) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []sentMessage
	for _, m := range f.sent {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeTransport) last(chatID int64) sentMessage {
	msgs := f.to(chatID)
	if len(msgs) == 0 {
		return sentMessage{}
	}
	return msgs[len(msgs)-1]
}

func (f *fakeTransport) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = nil
	f.answers = nil
	f.disabled = nil
	f.actions = nil
}

func newTestEngine(t *testing.T, settings Settings) (*Engine, *fakeTransport) {
	t.Helper()

	if settings.GroupChatID == 0 {
		settings.GroupChatID = testGroupID
	}
	ft := newFakeTransport()
	log := logger.NewWithHandler(slogt.New(t).Handler())
	return New(log, ft, NewState(5, 10*time.Second, 0), settings), ft
}

func privateText(userID int64, text string) *ports.Message {
	return &ports.Message{
		ID:   1,
		Chat: ports.Chat{ID: userID, Type: ports.ChatPrivate},
		From: &ports.User{ID: userID, Username: "alice", FirstName: "Alice", LastName: "Liddell"},
		Text: text,
	}
}

func groupReply(fromID, bannerID int64, text string) *ports.Message {
	return &ports.Message{
		ID:      500,
		Chat:    ports.Chat{ID: testGroupID, Type: ports.ChatSupergroup},
		From:    &ports.User{ID: fromID, FirstName: "Support"},
		ReplyTo: &ports.Message{ID: bannerID, Chat: ports.Chat{ID: testGroupID, Type: ports.ChatSupergroup}},
		Text:    text,
	}
}

func groupCommand(fromID int64) *ports.Message {
	return &ports.Message{
		ID:   700,
		Chat: ports.Chat{ID: testGroupID, Type: ports.ChatSupergroup},
		From: &ports.User{ID: fromID, FirstName: "Mod"},
	}
}

func press(fromID int64, data string, bannerID int64) *ports.ControlPress {
	return &ports.ControlPress{
		ID:      "cb-1",
		From:    ports.User{ID: fromID, FirstName: "Mod"},
		Message: &ports.Message{ID: bannerID, Chat: ports.Chat{ID: testGroupID, Type: ports.ChatSupergroup}},
		Data:    data,
	}
}
