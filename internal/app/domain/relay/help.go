package relay

import (
	"context"
	"fmt"
	"github.com/shirou/gopsutil/cpu"
	"log/slog"
	"runtime"
	"time"
	"zapata/internal/app/ports"
)

const helpBase = "ℹ️ <b>Zapata Support Bot</b>\n\n" +
	"• <b>What I do</b>\n" +
	"  - I forward your private messages (text, photos, videos, GIFs, documents, voice notes) to a support group.\n" +
	"  - Replies from the group are delivered back to you here.\n\n" +
	"• <b>Supported content</b>\n" +
	"  - Text messages\n" +
	"  - Photos (with captions)\n" +
	"  - Videos (with captions)\n" +
	"  - GIFs / animations\n" +
	"  - Documents and files\n" +
	"  - Voice messages\n\n" +
	"• <b>Limitations &amp; safety</b>\n" +
	"  - Anti-spam: sending too many messages too quickly will temporarily stop forwarding.\n" +
	"  - Blocked users: the support team can block abusive users.\n" +
	"    Blocks are stored in memory and reset if the bot restarts.\n\n"

const helpPrivate = "• <b>How to use (you)</b>\n" +
	"  - Just send me a message here in private.\n" +
	"  - Wait for the group's reply, which will appear in this chat.\n"

const helpAdmin = "• <b>Admin tools</b>\n" +
	"  - Reply to the bot's info message to answer a user.\n" +
	"  - Press \"🚫 Block User\" under an info message to block them.\n" +
	"  - Use /blocked to see the current blocklist and unblock via buttons.\n" +
	"  - Use /unblock &lt;user_id&gt; to unblock manually.\n" +
	"  - Use /ping to check the bot's health.\n"

func (e *Engine) OnStartCommand(ctx context.Context, msg *ports.Message) error {
	if msg == nil || !msg.Chat.IsPrivate() {
		return nil
	}

	e.notify(ctx, msg.Chat.ID, NoticeWelcome, 0)
	return nil
}

// OnHelpCommand: в личке - как пользоваться, в группе админам - их инструменты.
// Если права проверить не удалось, показываем только общую часть.
func (e *Engine) OnHelpCommand(ctx context.Context, msg *ports.Message) error {
	if msg == nil {
		return nil
	}

	text := helpBase
	switch {
	case msg.Chat.IsPrivate():
		text += helpPrivate
	case msg.Chat.IsGroup() && msg.From != nil:
		if e.isAdmin(ctx, msg.From.ID) {
			text += helpAdmin
		}
	}

	e.transport.IndicateActivity(ctx, msg.Chat.ID, ports.ActionTyping)
	if _, err := e.transport.SendMessage(ctx, msg.Chat.ID, text, ports.SendOptions{Format: ports.FormatHTML}); err != nil {
		e.log.Error("Failed to send help", err, slog.Int64("chat_id", msg.Chat.ID))
		return &TransportError{Op: "send help", Err: err}
	}
	return nil
}

// OnPingCommand - /ping для админов: аптайм, нагрузка и размер состояния.
func (e *Engine) OnPingCommand(ctx context.Context, msg *ports.Message) error {
	if msg == nil || msg.From == nil {
		return nil
	}

	if !e.isAdmin(ctx, msg.From.ID) {
		e.notify(ctx, msg.Chat.ID, NoticeCommandDenied, msg.ID)
		return ErrPermissionDenied
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	percent, _ := cpu.Percent(0, false)
	if len(percent) == 0 {
		percent = append(percent, 0)
	}

	text := fmt.Sprintf("🏓 up %v • CPU %.2f%% • RAM %v MB • open banners %d • blocked %d",
		time.Since(e.startedAt).Truncate(time.Second),
		percent[0],
		m.Sys/1024/1024,
		e.state.Store.OpenBanners(),
		e.state.Blocklist.Len(),
	)
	e.notify(ctx, msg.Chat.ID, text, msg.ID)
	return nil
}
