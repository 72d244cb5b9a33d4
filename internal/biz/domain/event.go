package domain

import (
	"encoding/json"
	"strings"
)

// UnknownEventType is used when the payload carries no event name
const UnknownEventType = "unknown"

// AttachmentKind is the closed set of attachment variants
type AttachmentKind string

const (
	AttachmentFile         AttachmentKind = "file"
	AttachmentImage        AttachmentKind = "image"
	AttachmentSticker      AttachmentKind = "sticker"
	AttachmentUnrecognized AttachmentKind = "unrecognized"
)

// ParseAttachmentKind maps a provider type string to a kind
func ParseAttachmentKind(s string) AttachmentKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "file":
		return AttachmentFile
	case "image", "gif", "photo":
		return AttachmentImage
	case "sticker":
		return AttachmentSticker
	default:
		return AttachmentUnrecognized
	}
}

// Attachment is the first attachment of a message.
// Which fields are populated depends on Kind.
type Attachment struct {
	Kind      AttachmentKind `json:"kind"`
	URL       string         `json:"url,omitempty"`
	Name      string         `json:"name,omitempty"`      // file
	Type      string         `json:"type,omitempty"`      // file
	Thumbnail string         `json:"thumbnail,omitempty"` // image
	StickerID string         `json:"sticker_id,omitempty"`
}

// Event is a normalized inbound webhook event
type Event struct {
	EventType      string
	ConversationID string
	SenderID       string
	GroupID        string
	MessageText    string
	Attachment     *Attachment // nil when the message carries none
	RawPayload     json.RawMessage
}

// IsText reports whether the event is a text message worth classifying
func (e *Event) IsText() bool {
	return strings.Contains(e.EventType, "text") && strings.TrimSpace(e.MessageText) != ""
}

// HasAttachment reports whether a recognized attachment is present
func (e *Event) HasAttachment() bool {
	return e.Attachment != nil && e.Attachment.Kind != AttachmentUnrecognized
}
