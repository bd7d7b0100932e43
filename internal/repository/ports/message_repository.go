package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/tradevault/tradevault-api/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, userID uuid.UUID, senderRole, body string) (*domain.Message, error)
	ListThread(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Message, error)
	// MarkRead marks messages in the user's thread sent by the other side.
	MarkRead(ctx context.Context, userID uuid.UUID, senderRole string) error
	ListThreads(ctx context.Context, limit, offset int) ([]domain.MessageThread, error)
}
