package usecase

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

// DecodePayload validates a webhook body as a JSON object
func DecodePayload(body []byte) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.ValidationError{Message: "invalid JSON payload: " + err.Error()}
	}
	if payload == nil {
		return nil, &domain.ValidationError{Message: "payload must be a JSON object"}
	}
	return payload, nil
}

// ParseEvent normalizes a Zalo webhook payload. Missing fields stay empty.
func ParseEvent(payload map[string]any, raw []byte) *domain.Event {
	event := &domain.Event{
		EventType:      lookupString(payload, "event_name"),
		ConversationID: lookupString(payload, "message", "msg_id"),
		SenderID:       lookupString(payload, "sender", "id"),
		GroupID:        lookupString(payload, "recipient", "id"),
		MessageText:    lookupString(payload, "message", "text"),
	}
	if event.EventType == "" {
		event.EventType = domain.UnknownEventType
	}
	if len(raw) > 0 {
		event.RawPayload = append(json.RawMessage(nil), raw...)
	}

	event.Attachment = parseAttachment(event.EventType, payload)
	return event
}

// parseAttachment decodes message.attachments[0]
func parseAttachment(eventType string, payload map[string]any) *domain.Attachment {
	message, _ := payload["message"].(map[string]any)
	if message == nil {
		return nil
	}
	list, _ := message["attachments"].([]any)
	if len(list) == 0 {
		return nil
	}
	first, _ := list[0].(map[string]any)
	if first == nil {
		return &domain.Attachment{Kind: domain.AttachmentUnrecognized}
	}

	kind := domain.AttachmentUnrecognized
	if t := lookupString(first, "type"); t != "" {
		kind = domain.ParseAttachmentKind(t)
	} else {
		kind = attachmentKindFromEvent(eventType)
	}

	body, _ := first["payload"].(map[string]any)
	att := &domain.Attachment{Kind: kind}
	switch kind {
	case domain.AttachmentFile:
		att.URL = lookupString(body, "url")
		att.Name = lookupString(body, "name")
		att.Type = lookupString(body, "type")
	case domain.AttachmentSticker:
		att.StickerID = lookupString(body, "id")
		att.URL = lookupString(body, "url")
	case domain.AttachmentImage:
		att.URL = lookupString(body, "url")
		att.Thumbnail = lookupString(body, "thumbnail")
	}
	return att
}

// attachmentKindFromEvent infers the kind from names like user_send_group_sticker
func attachmentKindFromEvent(eventType string) domain.AttachmentKind {
	switch {
	case strings.Contains(eventType, "file"):
		return domain.AttachmentFile
	case strings.Contains(eventType, "sticker"):
		return domain.AttachmentSticker
	case strings.Contains(eventType, "image"):
		return domain.AttachmentImage
	}
	return domain.AttachmentUnrecognized
}

// lookupString walks nested objects and returns the leaf as a string
func lookupString(m map[string]any, path ...string) string {
	var cur any = m
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = obj[key]
	}
	switch v := cur.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}
