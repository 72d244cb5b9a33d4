package domain

import (
	"encoding/json"
	"time"
)

// ConversationRecord is the audit entry for one inbound webhook.
// Records are written once and never updated.
type ConversationRecord struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversation_id,omitempty"`
	GroupID        string          `json:"group_id,omitempty"`
	SenderID       string          `json:"sender_id,omitempty"`
	EventType      string          `json:"event_type"`
	MessageText    string          `json:"message_text,omitempty"`
	FileURL        string          `json:"file_url,omitempty"`
	FileName       string          `json:"file_name,omitempty"`
	FileType       string          `json:"file_type,omitempty"`
	StickerID      string          `json:"sticker_id,omitempty"`
	StickerURL     string          `json:"sticker_url,omitempty"`
	ImageURL       string          `json:"image_url,omitempty"`
	ThumbnailURL   string          `json:"thumbnail_url,omitempty"`
	LLMAnalysis    json.RawMessage `json:"llm_analysis,omitempty"`
	RawPayload     json.RawMessage `json:"raw_payload,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewConversationRecord flattens an event and its intent into a record.
// intent may be nil when the event was not classified.
func NewConversationRecord(id string, event *Event, intent *Intent, now time.Time) *ConversationRecord {
	rec := &ConversationRecord{
		ID:             id,
		ConversationID: event.ConversationID,
		GroupID:        event.GroupID,
		SenderID:       event.SenderID,
		EventType:      event.EventType,
		MessageText:    event.MessageText,
		RawPayload:     event.RawPayload,
		CreatedAt:      now,
	}
	if intent != nil {
		rec.LLMAnalysis = intent.JSON()
	}

	if a := event.Attachment; a != nil {
		switch a.Kind {
		case AttachmentFile:
			rec.FileURL = a.URL
			rec.FileName = a.Name
			rec.FileType = a.Type
		case AttachmentSticker:
			rec.StickerID = a.StickerID
			rec.StickerURL = a.URL
		case AttachmentImage:
			rec.ImageURL = a.URL
			rec.ThumbnailURL = a.Thumbnail
		}
	}
	return rec
}
