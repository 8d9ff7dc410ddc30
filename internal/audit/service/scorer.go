package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/luxbiz/biz-optimizer/internal/audit/domain"
	companydomain "github.com/luxbiz/biz-optimizer/internal/company/domain"
	"github.com/luxbiz/biz-optimizer/internal/jobs"
	"github.com/luxbiz/biz-optimizer/internal/llm"
	"github.com/luxbiz/biz-optimizer/internal/places"
	"github.com/luxbiz/biz-optimizer/internal/platform/logging"
)

const maxCompetitors = 5

type PlacesProvider interface {
	SearchText(ctx context.Context, query string, max int) ([]places.Place, error)
	Details(ctx context.Context, placeID string) (*places.Place, error)
}

// ProfileLoader reads a profile without an ownership check; jobs run on
// behalf of the owner recorded on the audit.
type ProfileLoader interface {
	Get(ctx context.Context, id int64) (*companydomain.CompanyProfile, error)
}

// Scorer runs audit.score jobs.
type Scorer struct {
	audits   AuditStore
	profiles ProfileLoader
	places   PlacesProvider
	llm      llm.Provider
}

func NewScorer(audits AuditStore, profiles ProfileLoader, placesProvider PlacesProvider, provider llm.Provider) *Scorer {
	return &Scorer{audits: audits, profiles: profiles, places: placesProvider, llm: provider}
}

func (s *Scorer) Handle(ctx context.Context, job *jobs.Job) error {
	var payload domain.ScorePayload
	if err := job.Decode(&payload); err != nil {
		return err
	}

	a, err := s.audits.Get(ctx, payload.AuditID)
	if errors.Is(err, domain.ErrAuditNotFound) {
		return jobs.Permanent(err)
	}
	if err != nil {
		return err
	}
	if a.IsTerminal() {
		return nil
	}

	profile, err := s.profiles.Get(ctx, a.CompanyProfileID)
	if errors.Is(err, companydomain.ErrProfileNotFound) {
		return jobs.Permanent(err)
	}
	if err != nil {
		return err
	}

	log := logging.FromContext(ctx)

	place, competitors, err := s.lookup(ctx, profile)
	if err != nil {
		if !job.Exhausted() {
			return fmt.Errorf("places lookup: %w", err)
		}
		log.LogWarnf("audit.score", "scoring audit %d without places data: %v", a.ID, err)
	}

	completion, err := s.llm.Complete(ctx, llm.Request{
		Messages:    buildScoringPrompt(profile, place, competitors),
		Schema:      scoreSchema(),
		Temperature: 0.2,
	})
	if err != nil {
		return fmt.Errorf("scoring completion: %w", err)
	}

	var result scoreResult
	if err := llm.ParseJSON(completion.Text, &result); err != nil {
		return fmt.Errorf("scoring completion for audit %d: %w", a.ID, err)
	}

	apply(a, &result, place, competitors)
	a.RawResult = json.RawMessage(llm.ExtractJSON(completion.Text))
	a.Status = domain.StatusComplete
	a.Error = ""
	now := time.Now().UTC()
	a.CompletedAt = &now

	if err := s.audits.Update(ctx, a); err != nil {
		return err
	}
	log.LogInfof("audit.score", "audit %d complete with overall score %d", a.ID, a.OverallScore)
	return nil
}

// OnFailure marks the audit failed so a new audit can be requested.
func (s *Scorer) OnFailure(ctx context.Context, job *jobs.Job, cause error) {
	var payload domain.ScorePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return
	}

	a, err := s.audits.Get(ctx, payload.AuditID)
	if err != nil || a.IsTerminal() {
		return
	}
	a.Status = domain.StatusFailed
	a.Error = cause.Error()
	if err := s.audits.Update(ctx, a); err != nil {
		logging.FromContext(ctx).LogError("audit.score.on_failure", err)
	}
}

func (s *Scorer) lookup(ctx context.Context, p *companydomain.CompanyProfile) (*places.Place, []places.Place, error) {
	hits, err := s.places.SearchText(ctx, p.BusinessName+" "+p.Location, 1)
	if err != nil {
		return nil, nil, err
	}

	var own *places.Place
	if len(hits) > 0 {
		own, err = s.places.Details(ctx, hits[0].ID)
		if err != nil {
			if !errors.Is(err, places.ErrPlaceNotFound) {
				return nil, nil, err
			}
			own = &hits[0]
		}
	}

	nearby, err := s.places.SearchText(ctx, p.Industry+" in "+p.Location, maxCompetitors*2)
	if err != nil {
		return own, nil, err
	}

	competitors := make([]places.Place, 0, maxCompetitors)
	for _, c := range nearby {
		if len(competitors) == maxCompetitors {
			break
		}
		if own != nil && c.ID == own.ID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(p.BusinessName)) {
			continue
		}
		details, err := s.places.Details(ctx, c.ID)
		if err != nil {
			logging.FromContext(ctx).LogWarnf("audit.score", "competitor details %s: %v", c.ID, err)
			competitors = append(competitors, c)
			continue
		}
		competitors = append(competitors, *details)
	}
	return own, competitors, nil
}

func apply(a *domain.Audit, r *scoreResult, place *places.Place, competitors []places.Place) {
	a.OverallScore = clamp(r.OverallScore)
	a.GoogleBusinessScore = clamp(r.GoogleBusinessScore)
	a.ReviewScore = clamp(r.ReviewScore)
	a.WebsiteScore = clamp(r.WebsiteScore)
	a.SocialScore = clamp(r.SocialScore)
	a.AIVisibilityScore = clamp(r.AIVisibilityScore)
	a.LLMScores = domain.LLMScores{
		ChatGPT:    clamp(r.LLMScores.ChatGPT),
		Gemini:     clamp(r.LLMScores.Gemini),
		Perplexity: clamp(r.LLMScores.Perplexity),
		Claude:     clamp(r.LLMScores.Claude),
		Copilot:    clamp(r.LLMScores.Copilot),
	}
	if r.EstimatedMonthlyLoss > 0 {
		a.EstimatedMonthlyLoss = int(math.Round(r.EstimatedMonthlyLoss))
	}
	a.Summary = r.Summary

	a.Issues = make([]domain.Issue, 0, len(r.Issues))
	for _, i := range r.Issues {
		a.Issues = append(a.Issues, domain.Issue(i))
	}
	a.Recommendations = make([]domain.Recommendation, 0, len(r.Recommendations))
	for _, rec := range r.Recommendations {
		a.Recommendations = append(a.Recommendations, domain.Recommendation(rec))
	}
	a.QuickWins = make([]domain.QuickWin, 0, len(r.QuickWins))
	for _, q := range r.QuickWins {
		a.QuickWins = append(a.QuickWins, domain.QuickWin(q))
	}

	a.Competitors = make([]domain.Competitor, 0, len(r.Competitors))
	for _, c := range r.Competitors {
		a.Competitors = append(a.Competitors, domain.Competitor{
			Name:        c.Name,
			Rating:      c.Rating,
			ReviewCount: int(math.Round(c.ReviewCount)),
			Strengths:   c.Strengths,
		})
	}
	if len(a.Competitors) == 0 {
		for _, c := range competitors {
			a.Competitors = append(a.Competitors, domain.Competitor{Name: c.Name, Rating: c.Rating, ReviewCount: c.UserRatingCount})
		}
	}

	if place != nil {
		a.PlaceData, _ = json.Marshal(place)
	}
	if len(competitors) > 0 {
		a.CompetitorData, _ = json.Marshal(competitors)
	}
}

func clamp(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	n := int(math.Round(v))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
