package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	auditdomain "github.com/luxbiz/biz-optimizer/internal/audit/domain"
	companydomain "github.com/luxbiz/biz-optimizer/internal/company/domain"
	"github.com/luxbiz/biz-optimizer/internal/places"
)

type AuditGetter interface {
	Get(ctx context.Context, userID, auditID int64) (*auditdomain.Audit, error)
}

type ProfileLoader interface {
	Get(ctx context.Context, id int64) (*companydomain.CompanyProfile, error)
}

// Report is the presentation-ready view of a complete audit.
type Report struct {
	AuditID              int64                        `json:"auditId"`
	BusinessName         string                       `json:"businessName"`
	Industry             string                       `json:"industry"`
	Location             string                       `json:"location"`
	GeneratedAt          time.Time                    `json:"generatedAt"`
	CompletedAt          *time.Time                   `json:"completedAt,omitempty"`
	Grade                string                       `json:"grade"`
	Scores               map[string]int               `json:"scores"`
	LLMScores            auditdomain.LLMScores        `json:"llmScores"`
	EstimatedMonthlyLoss int                          `json:"estimatedMonthlyLoss"`
	Summary              string                       `json:"summary,omitempty"`
	IssueCounts          map[string]int               `json:"issueCounts"`
	Issues               []auditdomain.Issue          `json:"issues"`
	Recommendations      []auditdomain.Recommendation `json:"recommendations"`
	QuickWins            []auditdomain.QuickWin       `json:"quickWins"`
	Competitors          []auditdomain.Competitor     `json:"competitors"`
	OwnRating            float64                      `json:"ownRating"`
	OwnReviewCount       int                          `json:"ownReviewCount"`
	AvgCompetitorRating  float64                      `json:"avgCompetitorRating"`
}

type ReportService struct {
	audits   AuditGetter
	profiles ProfileLoader
	now      func() time.Time
}

func NewReportService(audits AuditGetter, profiles ProfileLoader) *ReportService {
	return &ReportService{audits: audits, profiles: profiles, now: time.Now}
}

var severityRank = map[string]int{"critical": 0, "high": 1, "medium": 2, "low": 3}

// Build summarizes a complete audit owned by userID.
func (s *ReportService) Build(ctx context.Context, userID, auditID int64) (*Report, error) {
	a, err := s.audits.Get(ctx, userID, auditID)
	if err != nil {
		return nil, err
	}
	if a.Status != auditdomain.StatusComplete {
		return nil, auditdomain.ErrAuditNotReady
	}
	p, err := s.profiles.Get(ctx, a.CompanyProfileID)
	if err != nil {
		return nil, err
	}

	r := &Report{
		AuditID:      a.ID,
		BusinessName: p.BusinessName,
		Industry:     p.Industry,
		Location:     p.Location,
		GeneratedAt:  s.now().UTC(),
		CompletedAt:  a.CompletedAt,
		Grade:        grade(a.OverallScore),
		Scores: map[string]int{
			"overall":        a.OverallScore,
			"googleBusiness": a.GoogleBusinessScore,
			"reviews":        a.ReviewScore,
			"website":        a.WebsiteScore,
			"social":         a.SocialScore,
			"aiVisibility":   a.AIVisibilityScore,
		},
		LLMScores:            a.LLMScores,
		EstimatedMonthlyLoss: a.EstimatedMonthlyLoss,
		Summary:              a.Summary,
		IssueCounts:          map[string]int{},
		Issues:               append([]auditdomain.Issue{}, a.Issues...),
		Recommendations:      append([]auditdomain.Recommendation{}, a.Recommendations...),
		QuickWins:            append([]auditdomain.QuickWin{}, a.QuickWins...),
		Competitors:          append([]auditdomain.Competitor{}, a.Competitors...),
	}

	sort.SliceStable(r.Issues, func(i, j int) bool {
		return rank(r.Issues[i].Severity) < rank(r.Issues[j].Severity)
	})
	for _, is := range r.Issues {
		r.IssueCounts[is.Severity]++
	}

	if len(a.PlaceData) > 0 {
		var own places.Place
		if err := json.Unmarshal(a.PlaceData, &own); err == nil {
			r.OwnRating = own.Rating
			r.OwnReviewCount = own.UserRatingCount
		}
	}

	var sum float64
	var n int
	for _, c := range r.Competitors {
		if c.Rating > 0 {
			sum += c.Rating
			n++
		}
	}
	if n > 0 {
		r.AvgCompetitorRating = math.Round(sum/float64(n)*10) / 10
	}
	return r, nil
}

// Export renders the report as an XLSX workbook with Summary, Issues and
// Competitors sheets.
func (s *ReportService) Export(ctx context.Context, userID, auditID int64) ([]byte, string, error) {
	r, err := s.Build(ctx, userID, auditID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return nil, "", err
	}
	summary := [][]any{
		{"Business", r.BusinessName},
		{"Industry", r.Industry},
		{"Location", r.Location},
		{"Audit", r.AuditID},
		{"Grade", r.Grade},
		{"Overall score", r.Scores["overall"]},
		{"Google Business score", r.Scores["googleBusiness"]},
		{"Review score", r.Scores["reviews"]},
		{"Website score", r.Scores["website"]},
		{"Social score", r.Scores["social"]},
		{"AI visibility score", r.Scores["aiVisibility"]},
		{"ChatGPT", r.LLMScores.ChatGPT},
		{"Gemini", r.LLMScores.Gemini},
		{"Perplexity", r.LLMScores.Perplexity},
		{"Claude", r.LLMScores.Claude},
		{"Copilot", r.LLMScores.Copilot},
		{"Estimated monthly loss (USD)", r.EstimatedMonthlyLoss},
		{"Summary", r.Summary},
	}
	if err := writeRows(f, "Summary", summary); err != nil {
		return nil, "", err
	}

	issues := [][]any{{"Severity", "Category", "Title", "Description"}}
	for _, is := range r.Issues {
		issues = append(issues, []any{is.Severity, is.Category, is.Title, is.Description})
	}
	if err := addSheet(f, "Issues", issues); err != nil {
		return nil, "", err
	}

	competitors := [][]any{{"Name", "Rating", "Reviews", "Strengths"}}
	for _, c := range r.Competitors {
		competitors = append(competitors, []any{c.Name, c.Rating, c.ReviewCount, c.Strengths})
	}
	if err := addSheet(f, "Competitors", competitors); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}
	return bytes.Clone(buf.Bytes()), fmt.Sprintf("audit-%d-report.xlsx", r.AuditID), nil
}

func addSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func rank(severity string) int {
	if r, ok := severityRank[severity]; ok {
		return r
	}
	return len(severityRank)
}

func grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
