package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "github.com/luxbiz/biz-optimizer/internal/auth/domain"
	"github.com/luxbiz/biz-optimizer/internal/docstore/docstoretest"
	"github.com/luxbiz/biz-optimizer/internal/platform/apperr"
	"github.com/luxbiz/biz-optimizer/internal/support/domain"
	"github.com/luxbiz/biz-optimizer/internal/support/repository"
)

var (
	owner    = &authdomain.User{ID: 1, Role: authdomain.RoleUser}
	stranger = &authdomain.User{ID: 2, Role: authdomain.RoleUser}
	staff    = &authdomain.User{ID: 9, Role: authdomain.RoleAdmin}
)

func newSupport(t *testing.T) *SupportService {
	t.Helper()
	store, _ := docstoretest.New(t)
	return NewSupportService(repository.NewTicketRepository(store))
}

func openTicket(t *testing.T, svc *SupportService) *domain.SupportTicket {
	t.Helper()
	thread, err := svc.Create(context.Background(), owner, domain.CreateInput{
		Subject:  "Audit stuck",
		Category: "audit",
		Message:  "My audit has been scanning for an hour.",
	})
	require.NoError(t, err)
	return thread.Ticket
}

func TestTicketLifecycle(t *testing.T) {
	svc := newSupport(t)
	ctx := context.Background()
	ticket := openTicket(t, svc)
	assert.Equal(t, domain.StatusOpen, ticket.Status)

	_, err := svc.Reply(ctx, staff, ticket.ID, domain.ReplyInput{Body: "Looking into it."})
	require.NoError(t, err)

	thread, err := svc.Get(ctx, owner, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, thread.Ticket.Status)
	require.Len(t, thread.Messages, 2)
	assert.False(t, thread.Messages[0].FromStaff)
	assert.True(t, thread.Messages[1].FromStaff)

	_, err = svc.UpdateStatus(ctx, owner, ticket.ID, domain.StatusInput{Status: domain.StatusResolved})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	got, err := svc.UpdateStatus(ctx, owner, ticket.ID, domain.StatusInput{Status: domain.StatusClosed})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, got.Status)

	_, err = svc.Reply(ctx, owner, ticket.ID, domain.ReplyInput{Body: "one more thing"})
	assert.ErrorIs(t, err, domain.ErrTicketClosed)

	got, err = svc.UpdateStatus(ctx, staff, ticket.ID, domain.StatusInput{Status: domain.StatusOpen})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, got.Status)
}

func TestTicketVisibility(t *testing.T) {
	svc := newSupport(t)
	ctx := context.Background()
	ticket := openTicket(t, svc)

	_, err := svc.Get(ctx, stranger, ticket.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.Reply(ctx, stranger, ticket.ID, domain.ReplyInput{Body: "hi"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	mine, err := svc.List(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, mine)

	all, err := svc.List(ctx, staff)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreate_Validation(t *testing.T) {
	svc := newSupport(t)
	_, err := svc.Create(context.Background(), owner, domain.CreateInput{Subject: "x", Category: "refund", Message: "y"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
