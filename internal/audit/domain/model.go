package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/luxbiz/biz-optimizer/internal/platform/apperr"
)

const (
	StatusScanning = "scanning"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

const JobTypeScore = "audit.score"

var (
	ErrAuditNotFound = fmt.Errorf("audit %w", apperr.ErrNotFound)
	ErrAuditNotReady = fmt.Errorf("%w: audit is not complete", apperr.ErrConflict)
)

// LLMScores is the per-assistant visibility estimate, 0-100 each.
type LLMScores struct {
	ChatGPT    int `json:"chatgpt"`
	Gemini     int `json:"gemini"`
	Perplexity int `json:"perplexity"`
	Claude     int `json:"claude"`
	Copilot    int `json:"copilot"`
}

type Issue struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Category    string `json:"category"`
}

type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
	ServiceType string `json:"serviceType,omitempty"`
}

type QuickWin struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TimeToFix   string `json:"timeToFix"`
}

type Competitor struct {
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
	Strengths   string  `json:"strengths"`
}

// Audit is one visibility scan of a company profile.
type Audit struct {
	ID                   int64            `json:"id"`
	CompanyProfileID     int64            `json:"company_profile_id"`
	UserID               int64            `json:"user_id"`
	Status               string           `json:"status"`
	JobID                string           `json:"job_id,omitempty"`
	OverallScore         int              `json:"overall_score"`
	GoogleBusinessScore  int              `json:"google_business_score"`
	ReviewScore          int              `json:"review_score"`
	WebsiteScore         int              `json:"website_score"`
	SocialScore          int              `json:"social_score"`
	AIVisibilityScore    int              `json:"ai_visibility_score"`
	LLMScores            LLMScores        `json:"llm_scores"`
	EstimatedMonthlyLoss int              `json:"estimated_monthly_loss"`
	Summary              string           `json:"summary,omitempty"`
	Issues               []Issue          `json:"issues"`
	Recommendations      []Recommendation `json:"recommendations"`
	QuickWins            []QuickWin       `json:"quick_wins"`
	Competitors          []Competitor     `json:"competitors"`
	PlaceData            json.RawMessage  `json:"place_data,omitempty"`
	CompetitorData       json.RawMessage  `json:"competitor_data,omitempty"`
	RawResult            json.RawMessage  `json:"raw_result,omitempty"`
	Error                string           `json:"error,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	CompletedAt          *time.Time       `json:"completed_at,omitempty"`
}

func (a *Audit) IsTerminal() bool {
	return a.Status == StatusComplete || a.Status == StatusFailed
}

// CreateResult is what audit creation reports back to the caller.
type CreateResult struct {
	AuditID         int64  `json:"auditId"`
	JobID           string `json:"jobId,omitempty"`
	AlreadyComplete bool   `json:"alreadyComplete,omitempty"`
	InProgress      bool   `json:"inProgress,omitempty"`
}

// ScorePayload is the audit.score job payload.
type ScorePayload struct {
	AuditID int64 `json:"audit_id"`
}
