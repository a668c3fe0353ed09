package payload

import (
	"github.com/stretchr/testify/assert"
	"testing"
	"zapata/internal/app/ports"
)

func TestClassify(t *testing.T) {
	bold := []ports.Entity{{Type: "bold", Offset: 0, Length: 2}}

	tests := []struct {
		name   string
		msg    *ports.Message
		want   ports.Payload
		wantOK bool
	}{
		{
			name:   "text",
			msg:    &ports.Message{Text: "hi", Entities: bold},
			want:   ports.Payload{Kind: ports.KindText, Content: "hi", Entities: bold},
			wantOK: true,
		},
		{
			name:   "photo_takes_largest_size",
			msg:    &ports.Message{PhotoFileIDs: []string{"small", "medium", "large"}, Caption: "look", CaptionEntities: bold},
			want:   ports.Payload{Kind: ports.KindPhoto, Content: "large", Caption: "look", CaptionEntities: bold},
			wantOK: true,
		},
		{
			name:   "video_without_caption",
			msg:    &ports.Message{VideoFileID: "vid"},
			want:   ports.Payload{Kind: ports.KindVideo, Content: "vid"},
			wantOK: true,
		},
		{
			name:   "blank_caption_is_absent",
			msg:    &ports.Message{AnimationFileID: "gif", Caption: "  \n", CaptionEntities: bold},
			want:   ports.Payload{Kind: ports.KindAnimation, Content: "gif"},
			wantOK: true,
		},
		{
			name:   "document",
			msg:    &ports.Message{DocumentFileID: "doc", Caption: "report.pdf"},
			want:   ports.Payload{Kind: ports.KindDocument, Content: "doc", Caption: "report.pdf"},
			wantOK: true,
		},
		{
			name:   "voice",
			msg:    &ports.Message{VoiceFileID: "ogg"},
			want:   ports.Payload{Kind: ports.KindVoice, Content: "ogg"},
			wantOK: true,
		},
		{
			name:   "text_wins_over_media",
			msg:    &ports.Message{Text: "hi", PhotoFileIDs: []string{"p"}},
			want:   ports.Payload{Kind: ports.KindText, Content: "hi"},
			wantOK: true,
		},
		{
			name:   "photo_wins_over_document",
			msg:    &ports.Message{PhotoFileIDs: []string{"p"}, DocumentFileID: "doc"},
			want:   ports.Payload{Kind: ports.KindPhoto, Content: "p"},
			wantOK: true,
		},
		{
			name:   "animation_wins_over_document",
			msg:    &ports.Message{AnimationFileID: "gif", DocumentFileID: "doc"},
			want:   ports.Payload{Kind: ports.KindAnimation, Content: "gif"},
			wantOK: true,
		},
		{
			name: "sticker_unsupported",
			msg:  &ports.Message{StickerFileID: "sticker"},
		},
		{
			name: "empty_photo_sizes",
			msg:  &ports.Message{PhotoFileIDs: []string{}},
		},
		{
			name: "nil",
			msg:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.msg)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			if ok {
				assert.Equal(t, tt.want.Caption != "", got.HasCaption())
			}
		})
	}
}

func TestEcho(t *testing.T) {
	assert.Equal(t, "caption", Echo(&ports.Message{Text: "text", Caption: "caption"}))
	assert.Equal(t, "text", Echo(&ports.Message{Text: "text", Caption: " "}))
	assert.Equal(t, "", Echo(&ports.Message{VoiceFileID: "ogg"}))
	assert.Equal(t, "", Echo(nil))
}
