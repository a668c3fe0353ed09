package ports

import "context"

type ChatType string

const (
	ChatPrivate    ChatType = "private"
	ChatGroup      ChatType = "group"
	ChatSupergroup ChatType = "supergroup"
	ChatChannel    ChatType = "channel"
)

type ChatAction string

const (
	ActionTyping         ChatAction = "typing"
	ActionUploadPhoto    ChatAction = "upload_photo"
	ActionUploadVideo    ChatAction = "upload_video"
	ActionUploadDocument ChatAction = "upload_document"
	ActionRecordVoice    ChatAction = "record_voice"
)

type Formatting string

const (
	FormatPlain Formatting = ""
	FormatHTML  Formatting = "HTML"
)

type MemberStatus string

const (
	StatusCreator       MemberStatus = "creator"
	StatusAdministrator MemberStatus = "administrator"
	StatusMember        MemberStatus = "member"
	StatusRestricted    MemberStatus = "restricted"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
)

func (s MemberStatus) IsAdmin() bool {
	return s == StatusCreator || s == StatusAdministrator
}

type Chat struct {
	ID   int64
	Type ChatType
}

func (c Chat) IsPrivate() bool {
	return c.Type == ChatPrivate
}

func (c Chat) IsGroup() bool {
	return c.Type == ChatGroup || c.Type == ChatSupergroup
}

type User struct {
	ID        int64
	IsBot     bool
	Username  string
	FirstName string
	LastName  string
}

func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	if u.FirstName == "" {
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}

// Entity - разметка текста в терминах платформы, пересылается как есть.
type Entity struct {
	Type          string `json:"type"`
	Offset        int    `json:"offset"`
	Length        int    `json:"length"`
	URL           string `json:"url,omitempty"`
	Language      string `json:"language,omitempty"`
	CustomEmojiID string `json:"custom_emoji_id,omitempty"`
}

// Message - входящее сообщение, уже снятое с транспорта.
// Для фото PhotoFileIDs отсортированы по возрастанию размера.
type Message struct {
	ID              int64
	Chat            Chat
	From            *User
	ReplyTo         *Message
	Text            string
	Entities        []Entity
	Caption         string
	CaptionEntities []Entity

	PhotoFileIDs    []string
	VideoFileID     string
	AnimationFileID string
	DocumentFileID  string
	VoiceFileID     string
	StickerFileID   string
}

// ControlPress - нажатие inline-кнопки.
type ControlPress struct {
	ID      string
	From    User
	Message *Message
	Data    string
}

type Button struct {
	Text string
	Data string
}

type Keyboard [][]Button

type SendOptions struct {
	Format   Formatting
	ReplyTo  int64
	Keyboard Keyboard
}

type TransportPort interface {
	SendMessage(ctx context.Context, chatID int64, text string, opts SendOptions) (int64, error)
	SendMedia(ctx context.Context, chatID int64, payload Payload, replyTo int64) (int64, error)
	IndicateActivity(ctx context.Context, chatID int64, action ChatAction)
	GetMemberStatus(ctx context.Context, chatID, userID int64) (MemberStatus, error)
	AnswerControlPress(ctx context.Context, pressID, text string, alert bool) error
	DisableControl(ctx context.Context, chatID, messageID int64) error
}
