package ports

import "fmt"

// Kind - закрытый набор типов контента, которые бот умеет пересылать.
// Новый тип добавляется здесь и в switch-ах классификатора и отправки.
type Kind int

const (
	KindText Kind = iota + 1
	KindPhoto
	KindVideo
	KindAnimation
	KindDocument
	KindVoice
)

var Kinds = []Kind{KindText, KindPhoto, KindVideo, KindAnimation, KindDocument, KindVoice}

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindPhoto:
		return "photo"
	case KindVideo:
		return "video"
	case KindAnimation:
		return "animation"
	case KindDocument:
		return "document"
	case KindVoice:
		return "voice"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Activity - какой статус показывать в чате, пока отправляется контент.
func (k Kind) Activity() ChatAction {
	switch k {
	case KindPhoto:
		return ActionUploadPhoto
	case KindVideo, KindAnimation:
		return ActionUploadVideo
	case KindDocument:
		return ActionUploadDocument
	case KindVoice:
		return ActionRecordVoice
	}
	return ActionTyping
}

// Payload - одна пересылаемая единица контента.
// Content - текст для KindText, иначе идентификатор файла на стороне платформы.
// Пустой Caption означает, что подписи нет.
type Payload struct {
	Kind            Kind
	Content         string
	Entities        []Entity
	Caption         string
	CaptionEntities []Entity
}

func (p Payload) HasCaption() bool {
	return p.Caption != ""
}
