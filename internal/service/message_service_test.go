package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tradevault/tradevault-api/internal/domain"
)

type fakeMessageRepo struct {
	createUserID uuid.UUID
	createSender string
	createBody   string
	createErr    error

	threadResult []domain.Message
	threadErr    error

	markUserID uuid.UUID
	markSender string
	markCalls  int
	markErr    error

	threadsResult []domain.MessageThread
}

func (f *fakeMessageRepo) Create(ctx context.Context, userID uuid.UUID, senderRole, body string) (*domain.Message, error) {
	f.createUserID = userID
	f.createSender = senderRole
	f.createBody = body
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.Message{UserID: userID, SenderRole: senderRole, Body: body}, nil
}

func (f *fakeMessageRepo) ListThread(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Message, error) {
	if f.threadErr != nil {
		return nil, f.threadErr
	}
	return append([]domain.Message(nil), f.threadResult...), nil
}

func (f *fakeMessageRepo) MarkRead(ctx context.Context, userID uuid.UUID, senderRole string) error {
	f.markCalls++
	f.markUserID = userID
	f.markSender = senderRole
	return f.markErr
}

func (f *fakeMessageRepo) ListThreads(ctx context.Context, limit, offset int) ([]domain.MessageThread, error) {
	return append([]domain.MessageThread(nil), f.threadsResult...), nil
}

func TestPostTrimsAndRejectsEmptyBody(t *testing.T) {
	messages := &fakeMessageRepo{}
	svc := NewMessageService(messages)

	if _, err := svc.Post(context.Background(), uuid.New(), domain.MessageSenderUser, "   \n\t "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}

	msg, err := svc.Post(context.Background(), uuid.New(), domain.MessageSenderUser, "  need help with withdrawal  ")
	if err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if msg.Body != "need help with withdrawal" {
		t.Fatalf("expected trimmed body, got %q", msg.Body)
	}
}

func TestPostTruncatesVeryLongBody(t *testing.T) {
	messages := &fakeMessageRepo{}
	svc := NewMessageService(messages)

	if _, err := svc.Post(context.Background(), uuid.New(), domain.MessageSenderUser, strings.Repeat("a", 5000)); err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if len(messages.createBody) != maxMessageLength {
		t.Fatalf("expected body truncated to %d, got %d", maxMessageLength, len(messages.createBody))
	}
}

func TestReadThreadMarksOtherSideRead(t *testing.T) {
	userID := uuid.New()
	messages := &fakeMessageRepo{threadResult: []domain.Message{{UserID: userID, Body: "hello"}}}
	svc := NewMessageService(messages)

	thread, err := svc.ReadThread(context.Background(), userID, domain.MessageSenderUser, 0, 0)
	if err != nil {
		t.Fatalf("ReadThread returned error: %v", err)
	}
	if len(thread) != 1 {
		t.Fatalf("expected one message, got %d", len(thread))
	}
	if messages.markSender != domain.MessageSenderAdmin {
		t.Fatalf("user reading should mark admin messages read, got %q", messages.markSender)
	}

	if _, err := svc.ReadThread(context.Background(), userID, domain.MessageSenderAdmin, 0, 0); err != nil {
		t.Fatalf("ReadThread returned error: %v", err)
	}
	if messages.markSender != domain.MessageSenderUser {
		t.Fatalf("admin reading should mark user messages read, got %q", messages.markSender)
	}
}
