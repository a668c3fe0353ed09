package payload

import (
	"strings"
	"zapata/internal/app/ports"
)

// Classify выбирает, что именно переслать из сообщения.
// Порядок проверки фиксирован: text, photo, video, animation, document, voice - побеждает первый.
// Всё остальное (стикеры, локации, контакты, опросы) даёт false.
func Classify(msg *ports.Message) (ports.Payload, bool) {
	if msg == nil {
		return ports.Payload{}, false
	}

	if msg.Text != "" {
		return ports.Payload{
			Kind:     ports.KindText,
			Content:  msg.Text,
			Entities: msg.Entities,
		}, true
	}

	for _, kind := range ports.Kinds[1:] {
		fileID := mediaFileID(msg, kind)
		if fileID == "" {
			continue
		}

		p := ports.Payload{Kind: kind, Content: fileID}
		if strings.TrimSpace(msg.Caption) != "" {
			p.Caption = msg.Caption
			p.CaptionEntities = msg.CaptionEntities
		}
		return p, true
	}

	return ports.Payload{}, false
}

func mediaFileID(msg *ports.Message, kind ports.Kind) string {
	switch kind {
	case ports.KindPhoto:
		if len(msg.PhotoFileIDs) == 0 {
			return ""
		}
		return msg.PhotoFileIDs[len(msg.PhotoFileIDs)-1]
	case ports.KindVideo:
		return msg.VideoFileID
	case ports.KindAnimation:
		return msg.AnimationFileID
	case ports.KindDocument:
		return msg.DocumentFileID
	case ports.KindVoice:
		return msg.VoiceFileID
	}
	return ""
}

// Echo - текст, который попадает в баннер: подпись, а если её нет - сам текст.
func Echo(msg *ports.Message) string {
	if msg == nil {
		return ""
	}
	if strings.TrimSpace(msg.Caption) != "" {
		return msg.Caption
	}
	return msg.Text
}
