package domain

import (
	"fmt"
	"time"

	"github.com/luxbiz/biz-optimizer/internal/platform/apperr"
)

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

var (
	ErrTicketNotFound = fmt.Errorf("support ticket %w", apperr.ErrNotFound)
	ErrOwnerStatus    = fmt.Errorf("%w: only support staff can set that status", apperr.ErrForbidden)
	ErrTicketClosed   = fmt.Errorf("%w: ticket is closed", apperr.ErrConflict)
)

type SupportTicket struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Subject   string    `json:"subject"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TicketMessage struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	AuthorID  int64     `json:"author_id"`
	FromStaff bool      `json:"from_staff"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type TicketThread struct {
	Ticket   *SupportTicket  `json:"ticket"`
	Messages []TicketMessage `json:"messages"`
}

type CreateInput struct {
	Subject  string `validate:"required,max=200"`
	Category string `validate:"required,oneof=billing technical audit other"`
	Message  string `validate:"required,max=10000"`
}

type ReplyInput struct {
	Body string `validate:"required,max=10000"`
}

type StatusInput struct {
	Status string `validate:"required,oneof=open in_progress resolved closed"`
}
