package api

import "zapata/internal/app/ports"

type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	EditedMessage *Message       `json:"edited_message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

type Message struct {
	MessageID       int64          `json:"message_id"`
	Date            int64          `json:"date,omitempty"`
	Chat            Chat           `json:"chat"`
	From            *User          `json:"from,omitempty"`
	ReplyTo         *Message       `json:"reply_to_message,omitempty"`
	Text            string         `json:"text,omitempty"`
	Entities        []ports.Entity `json:"entities,omitempty"`
	Caption         string         `json:"caption,omitempty"`
	CaptionEntities []ports.Entity `json:"caption_entities,omitempty"`

	Photo     []PhotoSize `json:"photo,omitempty"`
	Video     *FileRef    `json:"video,omitempty"`
	Animation *FileRef    `json:"animation,omitempty"`
	Document  *FileRef    `json:"document,omitempty"`
	Voice     *FileRef    `json:"voice,omitempty"`
	Sticker   *FileRef    `json:"sticker,omitempty"`
}

type Chat struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
}

type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type PhotoSize struct {
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

// FileRef - общее у video/animation/document/voice/sticker, остальные поля не нужны.
type FileRef struct {
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id,omitempty"`
}

type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

type ChatMember struct {
	Status string `json:"status"`
	User   User   `json:"user"`
}

type WebhookInfo struct {
	URL                string `json:"url"`
	PendingUpdateCount int    `json:"pending_update_count"`
	LastErrorMessage   string `json:"last_error_message,omitempty"`
}

type inlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type inlineKeyboardMarkup struct {
	InlineKeyboard [][]inlineKeyboardButton `json:"inline_keyboard"`
}

type sendMessageRequest struct {
	ChatID           int64                 `json:"chat_id"`
	Text             string                `json:"text"`
	ParseMode        string                `json:"parse_mode,omitempty"`
	Entities         []ports.Entity        `json:"entities,omitempty"`
	ReplyToMessageID int64                 `json:"reply_to_message_id,omitempty"`
	ReplyMarkup      *inlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// sendMediaRequest - одно тело на sendPhoto/sendVideo/...; заполнено ровно одно поле файла.
type sendMediaRequest struct {
	ChatID           int64          `json:"chat_id"`
	Photo            string         `json:"photo,omitempty"`
	Video            string         `json:"video,omitempty"`
	Animation        string         `json:"animation,omitempty"`
	Document         string         `json:"document,omitempty"`
	Voice            string         `json:"voice,omitempty"`
	Caption          string         `json:"caption,omitempty"`
	CaptionEntities  []ports.Entity `json:"caption_entities,omitempty"`
	ReplyToMessageID int64          `json:"reply_to_message_id,omitempty"`
}

type sendChatActionRequest struct {
	ChatID int64  `json:"chat_id"`
	Action string `json:"action"`
}

type getChatMemberRequest struct {
	ChatID int64 `json:"chat_id"`
	UserID int64 `json:"user_id"`
}

type answerCallbackQueryRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
	Text            string `json:"text,omitempty"`
	ShowAlert       bool   `json:"show_alert,omitempty"`
}

type editMessageReplyMarkupRequest struct {
	ChatID      int64                `json:"chat_id"`
	MessageID   int64                `json:"message_id"`
	ReplyMarkup inlineKeyboardMarkup `json:"reply_markup"`
}

type getUpdatesRequest struct {
	Offset         int64    `json:"offset,omitempty"`
	Timeout        int      `json:"timeout"`
	AllowedUpdates []string `json:"allowed_updates"`
}

type setWebhookRequest struct {
	URL            string   `json:"url"`
	SecretToken    string   `json:"secret_token,omitempty"`
	AllowedUpdates []string `json:"allowed_updates"`
}

type deleteWebhookRequest struct {
	DropPendingUpdates bool `json:"drop_pending_updates"`
}

type sentMessage struct {
	MessageID int64 `json:"message_id"`
}

var allowedUpdates = []string{"message", "callback_query"}

func (u *User) ToPort() *ports.User {
	if u == nil {
		return nil
	}
	return &ports.User{
		ID:        u.ID,
		IsBot:     u.IsBot,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func (m *Message) ToPort() *ports.Message {
	if m == nil {
		return nil
	}

	msg := &ports.Message{
		ID:              m.MessageID,
		Chat:            ports.Chat{ID: m.Chat.ID, Type: ports.ChatType(m.Chat.Type)},
		From:            m.From.ToPort(),
		ReplyTo:         m.ReplyTo.ToPort(),
		Text:            m.Text,
		Entities:        m.Entities,
		Caption:         m.Caption,
		CaptionEntities: m.CaptionEntities,
	}

	if len(m.Photo) > 0 {
		msg.PhotoFileIDs = make([]string, 0, len(m.Photo))
		for _, p := range m.Photo {
			msg.PhotoFileIDs = append(msg.PhotoFileIDs, p.FileID)
		}
	}
	msg.VideoFileID = m.Video.id()
	msg.AnimationFileID = m.Animation.id()
	msg.DocumentFileID = m.Document.id()
	msg.VoiceFileID = m.Voice.id()
	msg.StickerFileID = m.Sticker.id()

	return msg
}

func (c *CallbackQuery) ToPort() *ports.ControlPress {
	if c == nil {
		return nil
	}
	return &ports.ControlPress{
		ID:      c.ID,
		From:    *c.From.ToPort(),
		Message: c.Message.ToPort(),
		Data:    c.Data,
	}
}

func (f *FileRef) id() string {
	if f == nil {
		return ""
	}
	return f.FileID
}

func toMarkup(kb ports.Keyboard) *inlineKeyboardMarkup {
	if len(kb) == 0 {
		return nil
	}

	markup := &inlineKeyboardMarkup{InlineKeyboard: make([][]inlineKeyboardButton, 0, len(kb))}
	for _, row := range kb {
		buttons := make([]inlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, inlineKeyboardButton{Text: b.Text, CallbackData: b.Data})
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, buttons)
	}
	return markup
}
