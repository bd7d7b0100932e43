package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tradevault/tradevault-api/internal/domain"
)

type MessageRepository struct {
	db *sqlx.DB
}

func NewMessageRepo(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, userID uuid.UUID, senderRole, body string) (*domain.Message, error) {
	const query = `
        INSERT INTO messages (user_id, sender_role, body)
        VALUES ($1, $2, $3)
        RETURNING id, user_id, sender_role, body, read, created_at
    `
	row := r.db.QueryRowxContext(ctx, query, userID, senderRole, body)
	var message domain.Message
	if err := row.StructScan(&message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepository) ListThread(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Message, error) {
	const query = `
        SELECT id, user_id, sender_role, body, read, created_at
        FROM messages
        WHERE user_id = $1
        ORDER BY created_at ASC
        LIMIT $2 OFFSET $3
    `
	messages := []domain.Message{}
	if err := r.db.SelectContext(ctx, &messages, query, userID, limit, offset); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, userID uuid.UUID, senderRole string) error {
	const query = `
        UPDATE messages
        SET read = TRUE
        WHERE user_id = $1 AND sender_role = $2 AND read = FALSE
    `
	_, err := r.db.ExecContext(ctx, query, userID, senderRole)
	return err
}

func (r *MessageRepository) ListThreads(ctx context.Context, limit, offset int) ([]domain.MessageThread, error) {
	const query = `
        SELECT m.user_id,
               u.email AS user_email,
               MAX(m.created_at) AS last_message,
               COUNT(*) FILTER (WHERE m.sender_role = 'user' AND m.read = FALSE) AS unread
        FROM messages m
        JOIN users u ON u.id = m.user_id
        GROUP BY m.user_id, u.email
        ORDER BY last_message DESC
        LIMIT $1 OFFSET $2
    `
	threads := []domain.MessageThread{}
	if err := r.db.SelectContext(ctx, &threads, query, limit, offset); err != nil {
		return nil, err
	}
	return threads, nil
}
