package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryWindow is how many earlier messages are sent back to the model.
const HistoryWindow = 20

// ChatMessage is one entry of a user's assistant conversation. A
// conversation is either general (no audit) or about one audit.
type ChatMessage struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	AuditID   *int64    `json:"audit_id,omitempty"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type SendInput struct {
	AuditID *int64 `validate:"omitnil,gt=0"`
	Message string `validate:"required,max=4000"`
}

type SendResult struct {
	Message *ChatMessage `json:"message"`
	Reply   *ChatMessage `json:"reply"`
}
