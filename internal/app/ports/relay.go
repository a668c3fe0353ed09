package ports

import (
	"context"
	"errors"
)

// ErrSinkBusy - апдейт не принят из-за перегрузки, отправителю стоит повторить позже.
var ErrSinkBusy = errors.New("update sink is busy")

type Identity struct {
	Username    string
	DisplayName string
}

type RateLimiterPort interface {
	Admit(userID int64) bool
}

type BlocklistPort interface {
	IsBlocked(userID int64) bool
	Block(userID int64)
	Unblock(userID int64) bool
	List() []int64
	Len() int
}

type CorrelationPort interface {
	RecordBanner(bannerID, userID int64)
	ResolveBanner(bannerID int64) (int64, bool)
	RetireBanner(bannerID int64)
	OpenBanners() int
	RememberIdentity(userID int64, info Identity)
	LookupIdentity(userID int64) (Identity, bool)
}

// RelayPort - обработчики, которые дёргает диспетчер транспорта.
type RelayPort interface {
	OnPrivateMessage(ctx context.Context, msg *Message) error
	OnGroupReply(ctx context.Context, msg *Message) error
	OnBlockPress(ctx context.Context, press *ControlPress, userID int64) error
	OnUnblockPress(ctx context.Context, press *ControlPress, userID int64) error
	OnBlockedListCommand(ctx context.Context, msg *Message) error
	OnUnblockCommand(ctx context.Context, msg *Message, args string) error
	OnStartCommand(ctx context.Context, msg *Message) error
	OnHelpCommand(ctx context.Context, msg *Message) error
	OnPingCommand(ctx context.Context, msg *Message) error
}

// UpdateSinkPort принимает сырые апдейты платформы (тело вебхука).
type UpdateSinkPort interface {
	HandleRaw(raw []byte) error
}
