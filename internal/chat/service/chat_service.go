package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	auditdomain "github.com/luxbiz/biz-optimizer/internal/audit/domain"
	"github.com/luxbiz/biz-optimizer/internal/chat/domain"
	"github.com/luxbiz/biz-optimizer/internal/llm"
	"github.com/luxbiz/biz-optimizer/internal/platform/validation"
)

type MessageStore interface {
	Append(ctx context.Context, m *domain.ChatMessage) error
	Recent(ctx context.Context, userID int64, auditID *int64, limit int) ([]domain.ChatMessage, error)
}

type AuditGetter interface {
	Get(ctx context.Context, userID, auditID int64) (*auditdomain.Audit, error)
}

type ChatService struct {
	messages MessageStore
	audits   AuditGetter
	llm      llm.Provider
}

func NewChatService(messages MessageStore, audits AuditGetter, provider llm.Provider) *ChatService {
	return &ChatService{messages: messages, audits: audits, llm: provider}
}

const assistantPrompt = `You are Lux, an assistant that helps local business owners improve how search engines and AI assistants see their business.
Answer briefly and practically. When an audit is provided, ground your answers in its findings.`

// Send asks the model with the recent conversation and records the user's
// message and the reply. Nothing is recorded when the model call fails.
func (s *ChatService) Send(ctx context.Context, userID int64, in domain.SendInput) (*domain.SendResult, error) {
	in.Message = strings.TrimSpace(in.Message)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	system := assistantPrompt
	if in.AuditID != nil {
		a, err := s.audits.Get(ctx, userID, *in.AuditID)
		if err != nil {
			return nil, err
		}
		system += "\n\n" + auditContext(a)
	}

	history, err := s.messages.Recent(ctx, userID, in.AuditID, domain.HistoryWindow)
	if err != nil {
		return nil, err
	}

	msg := &domain.ChatMessage{
		UserID:    userID,
		AuditID:   in.AuditID,
		Role:      domain.RoleUser,
		Content:   in.Message,
		CreatedAt: time.Now().UTC(),
	}

	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.System(system))
	for _, h := range history {
		role := llm.RoleUser
		if h.Role == domain.RoleAssistant {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: h.Content})
	}
	msgs = append(msgs, llm.User(msg.Content))

	completion, err := s.llm.Complete(ctx, llm.Request{Messages: msgs, Temperature: 0.6})
	if err != nil {
		return nil, err
	}

	if err := s.messages.Append(ctx, msg); err != nil {
		return nil, err
	}
	reply := &domain.ChatMessage{
		UserID:    userID,
		AuditID:   in.AuditID,
		Role:      domain.RoleAssistant,
		Content:   strings.TrimSpace(completion.Text),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.Append(ctx, reply); err != nil {
		return nil, err
	}
	return &domain.SendResult{Message: msg, Reply: reply}, nil
}

func (s *ChatService) History(ctx context.Context, userID int64, auditID *int64) ([]domain.ChatMessage, error) {
	if auditID != nil {
		if _, err := s.audits.Get(ctx, userID, *auditID); err != nil {
			return nil, err
		}
	}
	return s.messages.Recent(ctx, userID, auditID, 0)
}

func auditContext(a *auditdomain.Audit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Audit #%d (%s): overall %d/100, Google Business %d, reviews %d, website %d, social %d, AI visibility %d.",
		a.ID, a.Status, a.OverallScore, a.GoogleBusinessScore, a.ReviewScore, a.WebsiteScore, a.SocialScore, a.AIVisibilityScore)
	if a.Summary != "" {
		b.WriteString("\nSummary: " + a.Summary)
	}
	for _, is := range a.Issues {
		fmt.Fprintf(&b, "\nIssue [%s]: %s", is.Severity, is.Title)
	}
	for _, r := range a.Recommendations {
		fmt.Fprintf(&b, "\nRecommendation: %s", r.Title)
	}
	return b.String()
}
