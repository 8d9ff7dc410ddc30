package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditdomain "github.com/luxbiz/biz-optimizer/internal/audit/domain"
	"github.com/luxbiz/biz-optimizer/internal/chat/domain"
	"github.com/luxbiz/biz-optimizer/internal/chat/repository"
	"github.com/luxbiz/biz-optimizer/internal/docstore/docstoretest"
	"github.com/luxbiz/biz-optimizer/internal/llm"
	"github.com/luxbiz/biz-optimizer/internal/llm/llmtest"
	"github.com/luxbiz/biz-optimizer/internal/platform/apperr"
)

type audits map[int64]*auditdomain.Audit

func (a audits) Get(_ context.Context, userID, id int64) (*auditdomain.Audit, error) {
	if x, ok := a[id]; ok && x.UserID == userID {
		return x, nil
	}
	return nil, auditdomain.ErrAuditNotFound
}

func newChat(t *testing.T, reply string) (*ChatService, *llmtest.Fake) {
	t.Helper()
	store, _ := docstoretest.New(t)
	fake := &llmtest.Fake{Reply: reply}
	a := audits{5: {ID: 5, UserID: 1, Status: auditdomain.StatusComplete, OverallScore: 58, Summary: "Reviews are thin."}}
	return NewChatService(repository.NewChatRepository(store), a, fake), fake
}

func ptr(v int64) *int64 { return &v }

func TestSend_AppendsBothMessages(t *testing.T) {
	svc, fake := newChat(t, "Ask your happiest customers for reviews this week.")
	ctx := context.Background()

	res, err := svc.Send(ctx, 1, domain.SendInput{AuditID: ptr(5), Message: "  How do I get more reviews?  "})
	require.NoError(t, err)
	assert.Equal(t, "How do I get more reviews?", res.Message.Content)
	assert.Equal(t, domain.RoleAssistant, res.Reply.Role)

	req := fake.Last()
	assert.Contains(t, req.Messages[0].Content, "Reviews are thin.")
	assert.Equal(t, llm.RoleUser, req.Messages[len(req.Messages)-1].Role)

	history, err := svc.History(ctx, 1, ptr(5))
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)

	general, err := svc.History(ctx, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, general, "audit conversations are separate")
}

func TestSend_SendsOnlyRecentHistory(t *testing.T) {
	svc, fake := newChat(t, "ok")
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, err := svc.Send(ctx, 1, domain.SendInput{Message: fmt.Sprintf("question %d", i)})
		require.NoError(t, err)
	}

	// system + 20 earlier messages + the new one
	assert.Len(t, fake.Last().Messages, domain.HistoryWindow+2)
	assert.Equal(t, "question 14", fake.Last().Messages[domain.HistoryWindow+1].Content)
}

func TestSend_Ownership(t *testing.T) {
	svc, fake := newChat(t, "ok")

	_, err := svc.Send(context.Background(), 2, domain.SendInput{AuditID: ptr(5), Message: "hi"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.History(context.Background(), 2, ptr(5))
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Send(context.Background(), 1, domain.SendInput{Message: "   "})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Zero(t, fake.Calls())
}

func TestSend_FailedReplyLeavesNoHistory(t *testing.T) {
	svc, fake := newChat(t, "")
	ctx := context.Background()
	fake.Err = errors.New("upstream 503")

	_, err := svc.Send(ctx, 1, domain.SendInput{Message: "first try"})
	require.Error(t, err)

	history, err := svc.History(ctx, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, history)

	fake.Err = nil
	fake.Reply = "Here is an answer."
	_, err = svc.Send(ctx, 1, domain.SendInput{Message: "second try"})
	require.NoError(t, err)

	msgs := fake.Last().Messages
	require.Len(t, msgs, 2, "system prompt and the new question only")
	assert.Equal(t, "second try", msgs[1].Content)
}
