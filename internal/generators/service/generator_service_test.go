package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditdomain "github.com/luxbiz/biz-optimizer/internal/audit/domain"
	companydomain "github.com/luxbiz/biz-optimizer/internal/company/domain"
	"github.com/luxbiz/biz-optimizer/internal/generators/domain"
	"github.com/luxbiz/biz-optimizer/internal/llm"
	"github.com/luxbiz/biz-optimizer/internal/llm/llmtest"
	"github.com/luxbiz/biz-optimizer/internal/platform/apperr"
)

type stubProfiles struct{}

func (stubProfiles) Get(_ context.Context, userID, id int64) (*companydomain.CompanyProfile, error) {
	if userID != 1 || id != 3 {
		return nil, companydomain.ErrProfileNotFound
	}
	return &companydomain.CompanyProfile{ID: 3, UserID: 1, BusinessName: "Test Business", Industry: "Restaurant", Location: "Austin, TX"}, nil
}

type stubAudits struct{ audit *auditdomain.Audit }

func (s stubAudits) LatestComplete(context.Context, int64) (*auditdomain.Audit, error) {
	return s.audit, nil
}

func newService(reply string) (*GeneratorService, *llmtest.Fake) {
	fake := &llmtest.Fake{Reply: reply}
	audit := &auditdomain.Audit{ID: 9, Status: auditdomain.StatusComplete, OverallScore: 44,
		Issues: []auditdomain.Issue{{Title: "No opening hours", Severity: "medium"}}}
	return NewGeneratorService(stubProfiles{}, stubAudits{audit: audit}, fake), fake
}

const notJSON = "Sure! Here are some great ideas for your business, let me know if you need more."

// Every generator answers with its empty result when the model ignores the
// schema.
func TestGenerators_FallBackOnNonJSON(t *testing.T) {
	ctx := context.Background()
	svc, fake := newService(notJSON)

	ads, err := svc.GenerateAds(ctx, 1, domain.AdInput{CompanyProfileID: 3, Platform: "google"})
	require.NoError(t, err)
	assert.Equal(t, domain.EmptyAdResult(), *ads)

	growth, err := svc.AnalyzeGrowth(ctx, 1, domain.GrowthInput{CompanyProfileID: 3})
	require.NoError(t, err)
	assert.Equal(t, domain.EmptyGrowthResult(), *growth)

	research, err := svc.ResearchRank(ctx, 1, domain.RankResearchInput{CompanyProfileID: 3, Keywords: []string{"tacos austin"}})
	require.NoError(t, err)
	assert.Equal(t, domain.EmptyRankResearchResult(), *research)

	fix, err := svc.FixRank(ctx, 1, domain.RankFixInput{CompanyProfileID: 3, Keyword: "tacos austin"})
	require.NoError(t, err)
	assert.Equal(t, domain.EmptyRankFixResult("tacos austin"), *fix)

	shop, err := svc.AuditShopify(ctx, 1, domain.ShopifyInput{CompanyProfileID: 3, StoreURL: "https://tacos.example"})
	require.NoError(t, err)
	assert.Equal(t, domain.EmptyShopifyResult("https://tacos.example"), *shop)

	leads, err := svc.GenerateLeads(ctx, 1, domain.LeadsInput{CompanyProfileID: 3})
	require.NoError(t, err)
	assert.Equal(t, domain.EmptyLeadsResult(), *leads)

	assert.Equal(t, 6, fake.Calls())
}

func TestGenerators_ParseFencedJSON(t *testing.T) {
	svc, fake := newService("```json\n" + `{"ads":[{"headline":"Best Tacos in Austin","primaryText":"Fresh daily","description":"","callToAction":"Order now","targetAudience":"locals"}],"keywords":["tacos austin"],"budgetSuggestion":"$300/month"}` + "\n```")

	ads, err := svc.GenerateAds(context.Background(), 1, domain.AdInput{CompanyProfileID: 3, Platform: "facebook", Goal: "lunch traffic"})
	require.NoError(t, err)
	require.Len(t, ads.Ads, 1)
	assert.Equal(t, "Best Tacos in Austin", ads.Ads[0].Headline)
	assert.Equal(t, "$300/month", ads.BudgetSuggestion)

	req := fake.Last()
	require.NotNil(t, req.Schema)
	user := req.Messages[1].Content
	assert.Contains(t, user, "Test Business")
	assert.Contains(t, user, "No opening hours", "latest audit is embedded")
	assert.Contains(t, user, "lunch traffic")
}

func TestGenerators_OwnershipAndValidation(t *testing.T) {
	ctx := context.Background()
	svc, fake := newService(notJSON)

	_, err := svc.GenerateAds(ctx, 2, domain.AdInput{CompanyProfileID: 3, Platform: "google"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.GenerateAds(ctx, 1, domain.AdInput{CompanyProfileID: 3, Platform: "tiktok"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.GenerateLeads(ctx, 1, domain.LeadsInput{CompanyProfileID: 3, Count: 26})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.ResearchRank(ctx, 1, domain.RankResearchInput{CompanyProfileID: 3, Keywords: []string{" ", ""}})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	assert.Zero(t, fake.Calls())
}

func TestGenerateLeads_TrimsToCount(t *testing.T) {
	svc, fake := newService(`{"leads":[{"type":"a"},{"type":"b"},{"type":"c"}],"strategies":["referrals"]}`)

	out, err := svc.GenerateLeads(context.Background(), 1, domain.LeadsInput{CompanyProfileID: 3, Count: 2})
	require.NoError(t, err)
	assert.Len(t, out.Leads, 2)
	assert.Equal(t, []string{"referrals"}, out.Strategies)
	assert.Contains(t, fake.Last().Messages[1].Content, "Describe 2 kinds")

	_, err = svc.GenerateLeads(context.Background(), 1, domain.LeadsInput{CompanyProfileID: 3})
	require.NoError(t, err)
	assert.Contains(t, fake.Last().Messages[1].Content, "Describe 10 kinds")
}

func TestWriteSEOContent(t *testing.T) {
	svc, fake := newService("  # Hours\nOpen daily 11am-10pm.  ")

	out, err := svc.WriteSEOContent(context.Background(), 1, domain.SEOContentInput{CompanyProfileID: 3, Issue: "No opening hours"})
	require.NoError(t, err)
	assert.Equal(t, "# Hours\nOpen daily 11am-10pm.", out.Content)
	assert.Nil(t, fake.Last().Schema)
	assert.Contains(t, fake.Last().Messages[1].Content, "in markdown")
}

func TestGenerators_ProviderErrorSurfaces(t *testing.T) {
	svc, fake := newService("")
	fake.Err = errors.New("upstream 503")

	_, err := svc.AnalyzeGrowth(context.Background(), 1, domain.GrowthInput{CompanyProfileID: 3})
	assert.EqualError(t, err, "upstream 503")
}

func TestGenerators_EmptyCompletionFallsBack(t *testing.T) {
	ctx := context.Background()
	svc, fake := newService("")
	fake.Err = llm.ErrEmptyCompletion

	ads, err := svc.GenerateAds(ctx, 1, domain.AdInput{CompanyProfileID: 3, Platform: "google"})
	require.NoError(t, err)
	assert.Equal(t, domain.EmptyAdResult(), *ads)

	fix, err := svc.FixRank(ctx, 1, domain.RankFixInput{CompanyProfileID: 3, Keyword: "tacos austin"})
	require.NoError(t, err)
	assert.Equal(t, domain.EmptyRankFixResult("tacos austin"), *fix)

	content, err := svc.WriteSEOContent(ctx, 1, domain.SEOContentInput{CompanyProfileID: 3, Issue: "No opening hours"})
	require.NoError(t, err)
	assert.Empty(t, content.Content)
}

func TestGenerators_BlankOpenAIReplyFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":""}}]}`))
	}))
	defer srv.Close()

	provider := llm.NewOpenAIProvider(srv.URL, "sk-test", "gpt-test", 5*time.Second)
	svc := NewGeneratorService(stubProfiles{}, stubAudits{}, provider)

	leads, err := svc.GenerateLeads(context.Background(), 1, domain.LeadsInput{CompanyProfileID: 3})
	require.NoError(t, err)
	assert.Equal(t, domain.EmptyLeadsResult(), *leads)
}
