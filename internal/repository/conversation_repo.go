package repository

import (
	"context"
	"database/sql"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/jackc/pgx/v5"
)

type ConversationRepository struct {
	db DBTX
}

func NewConversationRepository(db DBTX) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// CreateOrGet returns the conversation between two users, creating it when
// needed. The pair is stored with the smaller id first.
func (r *ConversationRepository) CreateOrGet(
	ctx context.Context,
	firstUserID int64,
	secondUserID int64,
) (*models.Conversation, error) {
	userA, userB := firstUserID, secondUserID
	if userB < userA {
		userA, userB = userB, userA
	}

	query := `
		INSERT INTO conversations (user_a_id, user_b_id)
		VALUES ($1, $2)
		ON CONFLICT (user_a_id, user_b_id)
		DO UPDATE SET updated_at = conversations.updated_at
		RETURNING id, user_a_id, user_b_id, created_at, updated_at
	`
	return scanConversation(r.db.QueryRow(ctx, query, userA, userB))
}

func (r *ConversationRepository) GetByIDForParticipant(
	ctx context.Context,
	conversationID int64,
	participantID int64,
) (*models.Conversation, error) {
	query := `
		SELECT id, user_a_id, user_b_id, created_at, updated_at
		FROM conversations
		WHERE id = $1 AND (user_a_id = $2 OR user_b_id = $2)
	`
	return scanConversation(r.db.QueryRow(ctx, query, conversationID, participantID))
}

func (r *ConversationRepository) ListForParticipant(
	ctx context.Context,
	participantID int64,
) ([]models.ConversationSummary, error) {
	query := `
		SELECT
			c.id,
			c.user_a_id,
			c.user_b_id,
			c.created_at,
			c.updated_at,
			buddy.id,
			buddy.name,
			lm.id,
			lm.sender_id,
			lm.content,
			lm.is_read,
			lm.created_at,
			COALESCE(uc.unread_count, 0)
		FROM conversations c
		JOIN users buddy
		  ON buddy.id = CASE WHEN c.user_a_id = $1 THEN c.user_b_id ELSE c.user_a_id END
		LEFT JOIN LATERAL (
			SELECT id, sender_id, content, is_read, created_at
			FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) lm ON TRUE
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS unread_count
			FROM messages
			WHERE conversation_id = c.id
			  AND sender_id <> $1
			  AND is_read = FALSE
		) uc ON TRUE
		WHERE c.user_a_id = $1 OR c.user_b_id = $1
		ORDER BY COALESCE(lm.created_at, c.updated_at) DESC, c.id DESC
	`

	rows, err := r.db.Query(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.ConversationSummary, 0)
	for rows.Next() {
		var (
			summary          models.ConversationSummary
			messageID        sql.NullInt64
			messageSenderID  sql.NullInt64
			messageContent   sql.NullString
			messageIsRead    sql.NullBool
			messageCreatedAt sql.NullTime
		)

		if err := rows.Scan(
			&summary.ID,
			&summary.UserAID,
			&summary.UserBID,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&summary.BuddyID,
			&summary.BuddyName,
			&messageID,
			&messageSenderID,
			&messageContent,
			&messageIsRead,
			&messageCreatedAt,
			&summary.UnreadCount,
		); err != nil {
			return nil, err
		}

		if messageID.Valid {
			summary.LastMessage = &models.ChatMessage{
				ID:             messageID.Int64,
				ConversationID: summary.ID,
				SenderID:       messageSenderID.Int64,
				Content:        messageContent.String,
				IsRead:         messageIsRead.Bool,
				CreatedAt:      messageCreatedAt.Time,
			}
		}

		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (r *ConversationRepository) Touch(ctx context.Context, conversationID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE conversations
		SET updated_at = NOW()
		WHERE id = $1
	`, conversationID)
	return err
}

func scanConversation(row pgx.Row) (*models.Conversation, error) {
	var conversation models.Conversation
	err := row.Scan(
		&conversation.ID,
		&conversation.UserAID,
		&conversation.UserBID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &conversation, nil
}
