package repository

import (
	"context"
	"fmt"

	"github.com/luxbiz/biz-optimizer/internal/chat/domain"
	"github.com/luxbiz/biz-optimizer/internal/docstore"
)

const collection = "chat_messages"

type ChatRepository struct {
	store *docstore.Store
}

func NewChatRepository(store *docstore.Store) *ChatRepository {
	return &ChatRepository{store: store}
}

// thread indexes the messages of one conversation.
func thread(userID int64, auditID *int64) docstore.Index {
	var a int64
	if auditID != nil {
		a = *auditID
	}
	return docstore.Index{Name: "thread", Value: fmt.Sprintf("%d:%d", userID, a)}
}

func (r *ChatRepository) Append(ctx context.Context, m *domain.ChatMessage) error {
	id, err := r.store.NextID(ctx, collection)
	if err != nil {
		return err
	}
	m.ID = id
	return r.store.Put(ctx, collection, id, m, docstore.By("user", m.UserID), thread(m.UserID, m.AuditID))
}

// Recent returns up to limit of the newest messages of a conversation in
// the order they were written. limit <= 0 returns all of them.
func (r *ChatRepository) Recent(ctx context.Context, userID int64, auditID *int64, limit int) ([]domain.ChatMessage, error) {
	ids, err := r.store.Members(ctx, collection, thread(userID, auditID))
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}
	return docstore.GetMany[domain.ChatMessage](ctx, r.store, collection, ids)
}

func (r *ChatRepository) Count(ctx context.Context) (int64, error) {
	return r.store.Count(ctx, collection)
}
