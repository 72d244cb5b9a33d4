package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

func parse(t *testing.T, body string) *domain.Event {
	t.Helper()
	payload, err := DecodePayload([]byte(body))
	require.NoError(t, err)
	return ParseEvent(payload, []byte(body))
}

func TestParseEvent_Text(t *testing.T) {
	body := `{"event_name":"user_send_group_text","sender":{"id":"U1"},"recipient":{"id":"G1"},"message":{"msg_id":"M1","text":"kiểm tra tồn kho sku PNT-0001"}}`
	event := parse(t, body)

	assert.Equal(t, "user_send_group_text", event.EventType)
	assert.Equal(t, "M1", event.ConversationID)
	assert.Equal(t, "U1", event.SenderID)
	assert.Equal(t, "G1", event.GroupID)
	assert.Equal(t, "kiểm tra tồn kho sku PNT-0001", event.MessageText)
	assert.Nil(t, event.Attachment)
	assert.True(t, event.IsText())
	assert.JSONEq(t, body, string(event.RawPayload))
}

func TestParseEvent_MissingFields(t *testing.T) {
	event := parse(t, `{}`)

	assert.Equal(t, domain.UnknownEventType, event.EventType)
	assert.Empty(t, event.ConversationID)
	assert.Empty(t, event.GroupID)
	assert.Empty(t, event.MessageText)
	assert.Nil(t, event.Attachment)
	assert.False(t, event.IsText())
}

func TestParseEvent_WrongTypesDoNotFail(t *testing.T) {
	event := parse(t, `{"event_name":42,"sender":"U1","message":{"text":["a"],"attachments":"x"}}`)

	assert.Equal(t, "42", event.EventType)
	assert.Empty(t, event.SenderID)
	assert.Empty(t, event.MessageText)
	assert.Nil(t, event.Attachment)
}

func TestParseEvent_Attachments(t *testing.T) {
	tests := []struct {
		name string
		body string
		want domain.Attachment
	}{
		{
			name: "file inferred from event name",
			body: `{"event_name":"user_send_group_file","message":{"attachments":[{"payload":{"url":"https://f/a.pdf","name":"a.pdf","type":"pdf"}}]}}`,
			want: domain.Attachment{Kind: domain.AttachmentFile, URL: "https://f/a.pdf", Name: "a.pdf", Type: "pdf"},
		},
		{
			name: "sticker",
			body: `{"event_name":"user_send_group_sticker","message":{"attachments":[{"type":"sticker","payload":{"id":"st1","url":"https://s/1.png"}}]}}`,
			want: domain.Attachment{Kind: domain.AttachmentSticker, StickerID: "st1", URL: "https://s/1.png"},
		},
		{
			name: "image",
			body: `{"event_name":"user_send_group_image","message":{"attachments":[{"type":"image","payload":{"url":"https://i/1.jpg","thumbnail":"https://i/1_t.jpg"}}]}}`,
			want: domain.Attachment{Kind: domain.AttachmentImage, URL: "https://i/1.jpg", Thumbnail: "https://i/1_t.jpg"},
		},
		{
			name: "type field wins over event name",
			body: `{"event_name":"user_send_group_file","message":{"attachments":[{"type":"image","payload":{"url":"https://i/2.jpg"}}]}}`,
			want: domain.Attachment{Kind: domain.AttachmentImage, URL: "https://i/2.jpg"},
		},
		{
			name: "unrecognized carries no fields",
			body: `{"event_name":"user_send_group_audio","message":{"attachments":[{"payload":{"url":"https://a/1.m4a"}}]}}`,
			want: domain.Attachment{Kind: domain.AttachmentUnrecognized},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := parse(t, tt.body)
			require.NotNil(t, event.Attachment)
			assert.Equal(t, tt.want, *event.Attachment)
		})
	}
}

func TestParseEvent_Idempotent(t *testing.T) {
	body := `{"event_name":"user_send_group_image","sender":{"id":"U1"},"recipient":{"id":"G1"},"message":{"msg_id":"M9","attachments":[{"type":"image","payload":{"url":"u","thumbnail":"t"}}]}}`

	first := parse(t, body)
	second := parse(t, body)
	assert.Equal(t, first, second)
}

func TestDecodePayload_Invalid(t *testing.T) {
	for _, body := range []string{``, `not json`, `[1,2]`, `null`, `"str"`} {
		_, err := DecodePayload([]byte(body))
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr, "body %q", body)
	}
}
