package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/tradevault/tradevault-api/internal/domain"
	"github.com/tradevault/tradevault-api/internal/repository/ports"
)

var ErrEmptyMessage = errors.New("message body cannot be empty")

const maxMessageLength = 4000

type MessageService struct {
	messages ports.MessageRepository
}

func NewMessageService(messages ports.MessageRepository) *MessageService {
	return &MessageService{messages: messages}
}

// Post appends a message to the user's support thread. senderRole records
// which side wrote it.
func (s *MessageService) Post(ctx context.Context, userID uuid.UUID, senderRole, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}
	if len(body) > maxMessageLength {
		body = body[:maxMessageLength]
	}
	return s.messages.Create(ctx, userID, senderRole, body)
}

// ReadThread returns the thread and marks the other side's messages read.
func (s *MessageService) ReadThread(ctx context.Context, userID uuid.UUID, readerRole string, limit, offset int) ([]domain.Message, error) {
	limit, offset = normalizePagination(limit, offset)
	messages, err := s.messages.ListThread(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	sender := domain.MessageSenderAdmin
	if readerRole == domain.MessageSenderAdmin {
		sender = domain.MessageSenderUser
	}
	if err := s.messages.MarkRead(ctx, userID, sender); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *MessageService) ListThreads(ctx context.Context, limit, offset int) ([]domain.MessageThread, error) {
	limit, offset = normalizePagination(limit, offset)
	return s.messages.ListThreads(ctx, limit, offset)
}
