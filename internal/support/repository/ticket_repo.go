package repository

import (
	"context"
	"errors"

	"github.com/luxbiz/biz-optimizer/internal/docstore"
	"github.com/luxbiz/biz-optimizer/internal/support/domain"
)

const (
	ticketCollection  = "support_tickets"
	messageCollection = "ticket_messages"
)

var allTickets = docstore.Index{Name: "scope", Value: "all"}

type TicketRepository struct {
	store *docstore.Store
}

func NewTicketRepository(store *docstore.Store) *TicketRepository {
	return &TicketRepository{store: store}
}

func (r *TicketRepository) Create(ctx context.Context, t *domain.SupportTicket) error {
	id, err := r.store.NextID(ctx, ticketCollection)
	if err != nil {
		return err
	}
	t.ID = id
	return r.Update(ctx, t)
}

func (r *TicketRepository) Update(ctx context.Context, t *domain.SupportTicket) error {
	return r.store.Put(ctx, ticketCollection, t.ID, t,
		docstore.By("user", t.UserID), allTickets)
}

func (r *TicketRepository) Get(ctx context.Context, id int64) (*domain.SupportTicket, error) {
	var t domain.SupportTicket
	if err := r.store.Get(ctx, ticketCollection, id, &t); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepository) ListByUser(ctx context.Context, userID int64) ([]domain.SupportTicket, error) {
	return docstore.ListBy[domain.SupportTicket](ctx, r.store, ticketCollection, docstore.By("user", userID))
}

// ListAll returns every ticket, for support staff.
func (r *TicketRepository) ListAll(ctx context.Context) ([]domain.SupportTicket, error) {
	return docstore.ListBy[domain.SupportTicket](ctx, r.store, ticketCollection, allTickets)
}

func (r *TicketRepository) AddMessage(ctx context.Context, m *domain.TicketMessage) error {
	id, err := r.store.NextID(ctx, messageCollection)
	if err != nil {
		return err
	}
	m.ID = id
	return r.store.Put(ctx, messageCollection, id, m, docstore.By("ticket", m.TicketID))
}

func (r *TicketRepository) Messages(ctx context.Context, ticketID int64) ([]domain.TicketMessage, error) {
	return docstore.ListBy[domain.TicketMessage](ctx, r.store, messageCollection, docstore.By("ticket", ticketID))
}

func (r *TicketRepository) Count(ctx context.Context) (int64, error) {
	return r.store.Count(ctx, ticketCollection)
}
