package service

import (
	"context"
	"strings"
	"time"

	authdomain "github.com/luxbiz/biz-optimizer/internal/auth/domain"
	"github.com/luxbiz/biz-optimizer/internal/platform/logging"
	"github.com/luxbiz/biz-optimizer/internal/platform/validation"
	"github.com/luxbiz/biz-optimizer/internal/support/domain"
)

type TicketStore interface {
	Create(ctx context.Context, t *domain.SupportTicket) error
	Update(ctx context.Context, t *domain.SupportTicket) error
	Get(ctx context.Context, id int64) (*domain.SupportTicket, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.SupportTicket, error)
	ListAll(ctx context.Context) ([]domain.SupportTicket, error)
	AddMessage(ctx context.Context, m *domain.TicketMessage) error
	Messages(ctx context.Context, ticketID int64) ([]domain.TicketMessage, error)
}

// SupportService manages tickets. Admins act as support staff and can see
// and answer every ticket.
type SupportService struct {
	tickets TicketStore
}

func NewSupportService(tickets TicketStore) *SupportService {
	return &SupportService{tickets: tickets}
}

func (s *SupportService) Create(ctx context.Context, user *authdomain.User, in domain.CreateInput) (*domain.TicketThread, error) {
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t := &domain.SupportTicket{
		UserID:    user.ID,
		Subject:   in.Subject,
		Category:  in.Category,
		Status:    domain.StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, err
	}

	m := &domain.TicketMessage{TicketID: t.ID, AuthorID: user.ID, Body: in.Message, CreatedAt: now}
	if err := s.tickets.AddMessage(ctx, m); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).LogInfof("support.create", "ticket %d opened by user %d (%s)", t.ID, user.ID, t.Category)
	return &domain.TicketThread{Ticket: t, Messages: []domain.TicketMessage{*m}}, nil
}

// List returns the caller's tickets, or every ticket for admins.
func (s *SupportService) List(ctx context.Context, user *authdomain.User) ([]domain.SupportTicket, error) {
	if user.IsAdmin() {
		return s.tickets.ListAll(ctx)
	}
	return s.tickets.ListByUser(ctx, user.ID)
}

func (s *SupportService) Get(ctx context.Context, user *authdomain.User, id int64) (*domain.TicketThread, error) {
	t, err := s.visible(ctx, user, id)
	if err != nil {
		return nil, err
	}
	msgs, err := s.tickets.Messages(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return &domain.TicketThread{Ticket: t, Messages: msgs}, nil
}

// Reply appends to the thread. A staff reply to an open ticket moves it to
// in_progress.
func (s *SupportService) Reply(ctx context.Context, user *authdomain.User, id int64, in domain.ReplyInput) (*domain.TicketMessage, error) {
	in.Body = strings.TrimSpace(in.Body)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	t, err := s.visible(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if t.Status == domain.StatusClosed {
		return nil, domain.ErrTicketClosed
	}

	now := time.Now().UTC()
	m := &domain.TicketMessage{TicketID: t.ID, AuthorID: user.ID, FromStaff: user.IsAdmin() && user.ID != t.UserID, Body: in.Body, CreatedAt: now}
	if err := s.tickets.AddMessage(ctx, m); err != nil {
		return nil, err
	}

	if m.FromStaff && t.Status == domain.StatusOpen {
		t.Status = domain.StatusInProgress
	}
	t.UpdatedAt = now
	if err := s.tickets.Update(ctx, t); err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateStatus lets owners close their ticket; admins may set any status.
func (s *SupportService) UpdateStatus(ctx context.Context, user *authdomain.User, id int64, in domain.StatusInput) (*domain.SupportTicket, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	t, err := s.visible(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() && in.Status != domain.StatusClosed {
		return nil, domain.ErrOwnerStatus
	}

	t.Status = in.Status
	t.UpdatedAt = time.Now().UTC()
	if err := s.tickets.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *SupportService) visible(ctx context.Context, user *authdomain.User, id int64) (*domain.SupportTicket, error) {
	t, err := s.tickets.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != user.ID && !user.IsAdmin() {
		return nil, domain.ErrTicketNotFound
	}
	return t, nil
}
