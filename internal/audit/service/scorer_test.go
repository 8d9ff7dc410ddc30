package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxbiz/biz-optimizer/internal/audit/domain"
	"github.com/luxbiz/biz-optimizer/internal/jobs"
	"github.com/luxbiz/biz-optimizer/internal/llm/llmtest"
	"github.com/luxbiz/biz-optimizer/internal/places"
)

type fakePlaces struct {
	search  map[string][]places.Place
	details map[string]places.Place
	err     error
}

func (f *fakePlaces) SearchText(_ context.Context, query string, max int) ([]places.Place, error) {
	if f.err != nil {
		return nil, f.err
	}
	hits := f.search[query]
	if len(hits) > max {
		hits = hits[:max]
	}
	return hits, nil
}

func (f *fakePlaces) Details(_ context.Context, id string) (*places.Place, error) {
	p, ok := f.details[id]
	if !ok {
		return nil, places.ErrPlaceNotFound
	}
	return &p, nil
}

func austinPlaces() *fakePlaces {
	own := places.Place{ID: "p-own", Name: "Test Business", Rating: 4.1, UserRatingCount: 37}
	rivals := []places.Place{
		own,
		{ID: "p-1", Name: "Taco Palace", Rating: 4.7, UserRatingCount: 812},
		{ID: "p-2", Name: "Burger Barn", Rating: 4.4, UserRatingCount: 301},
	}
	details := map[string]places.Place{"p-own": own}
	for _, r := range rivals[1:] {
		r.Website = "https://" + strings.ToLower(strings.ReplaceAll(r.Name, " ", "")) + ".example"
		details[r.ID] = r
	}
	return &fakePlaces{
		search: map[string][]places.Place{
			"Test Business Austin, TX":  {own},
			"Restaurant in Austin, TX": rivals,
		},
		details: details,
	}
}

const scoreReply = "Here is the audit:\n```json\n" + `{
  "overallScore": 62.4,
  "googleBusinessScore": 140,
  "reviewScore": -5,
  "websiteScore": 55,
  "socialScore": 30,
  "aiVisibilityScore": 48,
  "llmScores": {"chatgpt": 50, "gemini": 45, "perplexity": 40, "claude": 52, "copilot": 38},
  "estimatedMonthlyLoss": 2400,
  "summary": "Solid basics, weak reviews.",
  "issues": [{"title": "Few reviews", "description": "37 reviews vs 812 for the leader", "severity": "high", "category": "reviews"}],
  "recommendations": [{"title": "Ask for reviews", "description": "Send follow-ups", "impact": "high", "serviceType": "review_strategy"}],
  "quickWins": [{"title": "Add hours", "description": "Publish opening hours", "timeToFix": "10 minutes"}],
  "competitors": []
}` + "\n```"

type scoreFixture struct {
	*fixture
	scorer *Scorer
	llm    *llmtest.Fake
	jobs   *jobs.Runner
}

func newScoreFixture(t *testing.T, p *fakePlaces, fake *llmtest.Fake) *scoreFixture {
	t.Helper()
	f := newFixture(t)
	s := NewScorer(f.audits, f.profiles, p, fake)
	r := jobs.NewRunner(f.queue, 1, 10*time.Millisecond)
	r.Register(domain.JobTypeScore, s)
	return &scoreFixture{fixture: f, scorer: s, llm: fake, jobs: r}
}

func TestScorer_CompletesAudit(t *testing.T) {
	f := newScoreFixture(t, austinPlaces(), &llmtest.Fake{Reply: scoreReply})
	ctx := context.Background()

	res, err := f.orch.Create(ctx, 1, f.profile.ID)
	require.NoError(t, err)

	worked, err := f.jobs.RunOnce(ctx)
	require.NoError(t, err)
	require.True(t, worked)

	a, err := f.orch.Get(ctx, 1, res.AuditID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusComplete, a.Status)
	assert.NotNil(t, a.CompletedAt)
	assert.Equal(t, 62, a.OverallScore)
	assert.Equal(t, 100, a.GoogleBusinessScore, "clamped high")
	assert.Equal(t, 0, a.ReviewScore, "clamped low")
	assert.Equal(t, 52, a.LLMScores.Claude)
	assert.Equal(t, 2400, a.EstimatedMonthlyLoss)
	require.Len(t, a.Issues, 1)
	assert.Equal(t, "review_strategy", a.Recommendations[0].ServiceType)
	assert.NotEmpty(t, a.PlaceData)
	assert.NotEmpty(t, a.RawResult)

	// competitors fall back to the places data, own listing excluded
	require.Len(t, a.Competitors, 2)
	assert.Equal(t, "Taco Palace", a.Competitors[0].Name)
	assert.Equal(t, 812, a.Competitors[0].ReviewCount)

	req := f.llm.Last()
	require.NotNil(t, req.Schema)
	assert.Contains(t, req.Messages[1].Content, "Test Business")
	assert.Contains(t, req.Messages[1].Content, "Taco Palace")
}

func TestScorer_UnparseableRetriesThenFails(t *testing.T) {
	f := newScoreFixture(t, austinPlaces(), &llmtest.Fake{Reply: "I'm sorry, I can't produce JSON today."})
	ctx := context.Background()

	res, err := f.orch.Create(ctx, 1, f.profile.ID)
	require.NoError(t, err)

	offset := time.Duration(0)
	f.queue.Now = func() time.Time { return time.Now().Add(offset) }
	for i := 0; i < 3; i++ {
		worked, err := f.jobs.RunOnce(ctx)
		require.NoError(t, err)
		require.True(t, worked, "attempt %d", i+1)

		if i < 2 {
			a, err := f.orch.Get(ctx, 1, res.AuditID)
			require.NoError(t, err)
			assert.Equal(t, domain.StatusScanning, a.Status)
		}
		offset += time.Hour
	}

	job, err := f.queue.Get(ctx, res.JobID)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusFailed, job.Status)
	assert.Equal(t, 3, job.Attempts)
	assert.Equal(t, 3, f.llm.Calls())

	a, err := f.orch.Get(ctx, 1, res.AuditID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, a.Status)
	assert.NotEmpty(t, a.Error)

	again, err := f.orch.Create(ctx, 1, f.profile.ID)
	require.NoError(t, err)
	assert.NotEqual(t, res.AuditID, again.AuditID, "a failed audit can be retried")
}

func TestScorer_PlacesOutageOnLastAttemptStillScores(t *testing.T) {
	p := &fakePlaces{err: errors.New("places quota exceeded")}
	f := newScoreFixture(t, p, &llmtest.Fake{Reply: scoreReply})
	ctx := context.Background()

	res, err := f.orch.Create(ctx, 1, f.profile.ID)
	require.NoError(t, err)

	offset := time.Duration(0)
	f.queue.Now = func() time.Time { return time.Now().Add(offset) }
	for i := 0; i < 3; i++ {
		_, err := f.jobs.RunOnce(ctx)
		require.NoError(t, err)
		offset += time.Hour
	}

	a, err := f.orch.Get(ctx, 1, res.AuditID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusComplete, a.Status)
	assert.Empty(t, a.PlaceData)
	assert.Equal(t, 1, f.llm.Calls(), "only the last attempt reaches the model")
}

func TestScorer_TerminalAuditIsNoop(t *testing.T) {
	f := newScoreFixture(t, austinPlaces(), &llmtest.Fake{Reply: scoreReply})
	ctx := context.Background()

	done := &domain.Audit{CompanyProfileID: f.profile.ID, UserID: 1, Status: domain.StatusComplete}
	require.NoError(t, f.audits.Create(ctx, done))
	_, err := f.queue.Enqueue(ctx, jobs.EnqueueParams{Type: domain.JobTypeScore, Payload: domain.ScorePayload{AuditID: done.ID}})
	require.NoError(t, err)

	_, err = f.jobs.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, f.llm.Calls())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, clamp(-3))
	assert.Equal(t, 100, clamp(101))
	assert.Equal(t, 72, clamp(71.6))
}
