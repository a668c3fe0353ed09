package relay

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"
	"zapata/internal/app/domain/payload"
	"zapata/internal/app/ports"
)

// maxEcho - длина цитаты в баннере в рунах. Полный текст уходит отдельным сообщением,
// а баннер с экранированием должен влезть в лимит Telegram в 4096 символов.
const maxEcho = 1024

func label(k ports.Kind) string {
	switch k {
	case ports.KindText:
		return "📨 Message"
	case ports.KindPhoto:
		return "📸 Photo"
	case ports.KindVideo:
		return "🎥 Video"
	case ports.KindAnimation:
		return "🎞 GIF"
	case ports.KindDocument:
		return "📁 Document"
	case ports.KindVoice:
		return "🎙 Voice"
	}
	return "📦 " + k.String()
}

// bannerText - карточка автора в группе, на неё и отвечают админы.
func bannerText(msg *ports.Message, p ports.Payload) string {
	user := msg.From

	username := "No username"
	if user.Username != "" {
		username = "@" + user.Username
	}

	lines := []string{
		fmt.Sprintf("%s from <b>%s</b> (%s)", label(p.Kind), html.EscapeString(user.FullName()), html.EscapeString(username)),
		fmt.Sprintf("🆔 <code>%d</code>", user.ID),
	}
	if echo := payload.Echo(msg); echo != "" {
		lines = append(lines, "💬 "+html.EscapeString(truncate(echo, maxEcho)))
	}

	return strings.Join(lines, "\n")
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "…"
}

func blockKeyboard(userID int64) ports.Keyboard {
	return ports.Keyboard{
		{{Text: "🚫 Block User", Data: ControlData(ControlBlock, userID)}},
	}
}

// blockedListText рисует список для /blocked. ids уже отсортированы.
func blockedListText(ids []int64, lookup func(int64) (ports.Identity, bool)) (string, ports.Keyboard) {
	lines := make([]string, 0, len(ids)+1)
	lines = append(lines, "🚫 <b>Blocked users</b>:")
	keyboard := make(ports.Keyboard, 0, len(ids))

	for _, id := range ids {
		entry := strconv.FormatInt(id, 10)
		if info, ok := lookup(id); ok && (info.DisplayName != "" || info.Username != "") {
			pretty := make([]string, 0, 2)
			if info.DisplayName != "" {
				pretty = append(pretty, html.EscapeString(info.DisplayName))
			}
			if info.Username != "" {
				pretty = append(pretty, html.EscapeString("@"+info.Username))
			}
			entry += " (" + strings.Join(pretty, ", ") + ")"
		}

		lines = append(lines, "• <code>"+entry+"</code>")
		keyboard = append(keyboard, []ports.Button{{
			Text: fmt.Sprintf("Unblock %d", id),
			Data: ControlData(ControlUnblock, id),
		}})
	}

	return strings.Join(lines, "\n"), keyboard
}
