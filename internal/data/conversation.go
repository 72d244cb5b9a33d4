package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/repo"
)

// conversationRepo implements the append-only conversation log
type conversationRepo struct {
	db *sql.DB
}

// NewConversationRepo creates a conversation repository on an open database
func NewConversationRepo(db *sql.DB) repo.ConversationRepo {
	return &conversationRepo{db: db}
}

const conversationColumns = `id, conversation_id, group_id, sender_id, event_type, message_text,
	file_url, file_name, file_type, sticker_id, sticker_url, image_url, thumbnail_url,
	llm_analysis, raw_payload, created_at`

func (r *conversationRepo) Append(ctx context.Context, rec *domain.ConversationRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO conversations (`+conversationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID, rec.ConversationID, rec.GroupID, rec.SenderID, rec.EventType, rec.MessageText,
		rec.FileURL, rec.FileName, rec.FileType, rec.StickerID, rec.StickerURL, rec.ImageURL, rec.ThumbnailURL,
		nullJSON(rec.LLMAnalysis), nullJSON(rec.RawPayload), rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to append conversation: %w", err)
	}
	return nil
}

func (r *conversationRepo) Get(ctx context.Context, id string) (*domain.ConversationRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id = ?`, id)
	rec, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return rec, nil
}

func (r *conversationRepo) List(ctx context.Context, limit, offset int) ([]*domain.ConversationRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+conversationColumns+` FROM conversations
		ORDER BY seq DESC
		LIMIT ? OFFSET ?
	`, limitOrDefault(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()
	return scanConversations(rows)
}

func (r *conversationRepo) ListByEventType(ctx context.Context, eventType string, limit, offset int) ([]*domain.ConversationRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+conversationColumns+` FROM conversations
		WHERE event_type = ?
		ORDER BY seq DESC
		LIMIT ? OFFSET ?
	`, eventType, limitOrDefault(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()
	return scanConversations(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (*domain.ConversationRecord, error) {
	var rec domain.ConversationRecord
	var conversationID, groupID, senderID, text sql.NullString
	var fileURL, fileName, fileType, stickerID, stickerURL, imageURL, thumbURL sql.NullString
	var analysis, raw sql.NullString
	var createdAt int64

	err := row.Scan(&rec.ID, &conversationID, &groupID, &senderID, &rec.EventType, &text,
		&fileURL, &fileName, &fileType, &stickerID, &stickerURL, &imageURL, &thumbURL,
		&analysis, &raw, &createdAt)
	if err != nil {
		return nil, err
	}

	rec.ConversationID = conversationID.String
	rec.GroupID = groupID.String
	rec.SenderID = senderID.String
	rec.MessageText = text.String
	rec.FileURL = fileURL.String
	rec.FileName = fileName.String
	rec.FileType = fileType.String
	rec.StickerID = stickerID.String
	rec.StickerURL = stickerURL.String
	rec.ImageURL = imageURL.String
	rec.ThumbnailURL = thumbURL.String
	if analysis.Valid {
		rec.LLMAnalysis = json.RawMessage(analysis.String)
	}
	if raw.Valid {
		rec.RawPayload = json.RawMessage(raw.String)
	}
	rec.CreatedAt = time.UnixMilli(createdAt)
	return &rec, nil
}

func scanConversations(rows *sql.Rows) ([]*domain.ConversationRecord, error) {
	records := []*domain.ConversationRecord{}
	for rows.Next() {
		rec, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func nullJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func limitOrDefault(limit int) int {
	if limit <= 0 || limit > domain.MaxPageSize {
		return domain.MaxPageSize
	}
	return limit
}
