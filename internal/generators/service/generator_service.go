package service

import (
	"context"
	"errors"
	"strings"

	auditdomain "github.com/luxbiz/biz-optimizer/internal/audit/domain"
	companydomain "github.com/luxbiz/biz-optimizer/internal/company/domain"
	"github.com/luxbiz/biz-optimizer/internal/generators/domain"
	"github.com/luxbiz/biz-optimizer/internal/llm"
	"github.com/luxbiz/biz-optimizer/internal/platform/logging"
	"github.com/luxbiz/biz-optimizer/internal/platform/metrics"
	"github.com/luxbiz/biz-optimizer/internal/platform/validation"
)

type ProfileGetter interface {
	Get(ctx context.Context, userID, id int64) (*companydomain.CompanyProfile, error)
}

type AuditFinder interface {
	LatestComplete(ctx context.Context, profileID int64) (*auditdomain.Audit, error)
}

// GeneratorService produces marketing material from a company profile and
// its latest audit. Nothing it produces is stored.
type GeneratorService struct {
	profiles ProfileGetter
	audits   AuditFinder
	llm      llm.Provider
}

func NewGeneratorService(profiles ProfileGetter, audits AuditFinder, provider llm.Provider) *GeneratorService {
	return &GeneratorService{profiles: profiles, audits: audits, llm: provider}
}

// subject loads what every prompt is built from. The audit is optional.
func (s *GeneratorService) subject(ctx context.Context, userID, profileID int64) (*companydomain.CompanyProfile, *auditdomain.Audit, error) {
	p, err := s.profiles.Get(ctx, userID, profileID)
	if err != nil {
		return nil, nil, err
	}
	a, err := s.audits.LatestComplete(ctx, p.ID)
	if err != nil {
		logging.FromContext(ctx).LogWarnf("generators", "latest audit for profile %d: %v", p.ID, err)
		a = nil
	}
	return p, a, nil
}

// generate runs one structured completion into out. When the answer cannot
// be decoded out is reset to fallback and no error is returned.
func generate[T any](ctx context.Context, s *GeneratorService, name string, msgs []llm.Message, schema *llm.Schema, fallback T, out *T) error {
	completion, err := s.llm.Complete(ctx, llm.Request{Messages: msgs, Schema: schema, Temperature: 0.7})
	if errors.Is(err, llm.ErrEmptyCompletion) {
		completion, err = &llm.Completion{}, nil
	}
	if err != nil {
		return err
	}

	*out = fallback
	if err := llm.ParseJSON(completion.Text, out); err != nil {
		*out = fallback
		metrics.RecordFallback(name)
		logging.FromContext(ctx).LogWarnf(name, "using fallback result: %v", err)
	}
	return nil
}

func (s *GeneratorService) GenerateAds(ctx context.Context, userID int64, in domain.AdInput) (*domain.AdResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	p, a, err := s.subject(ctx, userID, in.CompanyProfileID)
	if err != nil {
		return nil, err
	}

	task := "Write 3 ad variations for " + in.Platform + "."
	if g := strings.TrimSpace(in.Goal); g != "" {
		task += " Campaign goal: " + g + "."
	}
	task += " Add target keywords and a monthly budget suggestion in USD."

	var out domain.AdResult
	if err := generate(ctx, s, domain.AdCreator, prompt(adSystemPrompt, p, a, task), adSchema(), domain.EmptyAdResult(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *GeneratorService) AnalyzeGrowth(ctx context.Context, userID int64, in domain.GrowthInput) (*domain.GrowthResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	p, a, err := s.subject(ctx, userID, in.CompanyProfileID)
	if err != nil {
		return nil, err
	}

	task := "Estimate current monthly revenue, the realistic potential within 12 months, the biggest growth opportunities and a step-by-step action plan."
	if in.MonthlyRevenue != nil {
		task += " The owner reports monthly revenue of " + formatMoney(*in.MonthlyRevenue) + " USD; use it as the current estimate."
	}

	var out domain.GrowthResult
	if err := generate(ctx, s, domain.RevenueGrowth, prompt(growthSystemPrompt, p, a, task), growthSchema(), domain.EmptyGrowthResult(), &out); err != nil {
		return nil, err
	}
	if in.MonthlyRevenue != nil && out.CurrentEstimate == 0 {
		out.CurrentEstimate = *in.MonthlyRevenue
	}
	return &out, nil
}

func (s *GeneratorService) ResearchRank(ctx context.Context, userID int64, in domain.RankResearchInput) (*domain.RankResearchResult, error) {
	in.Keywords = cleanList(in.Keywords)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	p, a, err := s.subject(ctx, userID, in.CompanyProfileID)
	if err != nil {
		return nil, err
	}

	task := "For each keyword estimate ranking difficulty, the business's likely Google position (0 if not ranking) and monthly local search volume: " +
		strings.Join(in.Keywords, ", ") + ". Name competitors likely to outrank it and summarize."

	var out domain.RankResearchResult
	if err := generate(ctx, s, domain.RankResearch, prompt(rankSystemPrompt, p, a, task), rankResearchSchema(), domain.EmptyRankResearchResult(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *GeneratorService) FixRank(ctx context.Context, userID int64, in domain.RankFixInput) (*domain.RankFixResult, error) {
	in.Keyword = strings.TrimSpace(in.Keyword)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	p, a, err := s.subject(ctx, userID, in.CompanyProfileID)
	if err != nil {
		return nil, err
	}

	task := "Give a prioritized plan to rank in the local top 3 for the keyword \"" + in.Keyword + "\", with content suggestions and technical fixes."

	var out domain.RankFixResult
	if err := generate(ctx, s, domain.RankFix, prompt(rankSystemPrompt, p, a, task), rankFixSchema(), domain.EmptyRankFixResult(in.Keyword), &out); err != nil {
		return nil, err
	}
	if out.Keyword == "" {
		out.Keyword = in.Keyword
	}
	return &out, nil
}

func (s *GeneratorService) AuditShopify(ctx context.Context, userID int64, in domain.ShopifyInput) (*domain.ShopifyResult, error) {
	in.StoreURL = strings.TrimSpace(in.StoreURL)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	p, a, err := s.subject(ctx, userID, in.CompanyProfileID)
	if err != nil {
		return nil, err
	}

	task := "Audit the Shopify store at " + in.StoreURL + ". Score it 0-100, list issues by area with fixes, and recommend products and SEO changes."

	var out domain.ShopifyResult
	if err := generate(ctx, s, domain.ShopifyAudit, prompt(shopifySystemPrompt, p, a, task), shopifySchema(), domain.EmptyShopifyResult(in.StoreURL), &out); err != nil {
		return nil, err
	}
	out.StoreURL = in.StoreURL
	out.Score = clampScore(out.Score)
	return &out, nil
}

func (s *GeneratorService) GenerateLeads(ctx context.Context, userID int64, in domain.LeadsInput) (*domain.LeadsResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Count == 0 {
		in.Count = domain.DefaultLeadCount
	}
	p, a, err := s.subject(ctx, userID, in.CompanyProfileID)
	if err != nil {
		return nil, err
	}

	task := "Describe " + itoa(in.Count) + " kinds of local leads this business should pursue, the channel to reach each and a short outreach message, plus overall lead strategies."

	var out domain.LeadsResult
	if err := generate(ctx, s, domain.LeadGeneration, prompt(leadsSystemPrompt, p, a, task), leadsSchema(), domain.EmptyLeadsResult(), &out); err != nil {
		return nil, err
	}
	if len(out.Leads) > in.Count {
		out.Leads = out.Leads[:in.Count]
	}
	return &out, nil
}

// WriteSEOContent returns freeform copy, so there is nothing to parse; an
// empty answer yields empty content.
func (s *GeneratorService) WriteSEOContent(ctx context.Context, userID int64, in domain.SEOContentInput) (*domain.SEOContentResult, error) {
	in.Issue = strings.TrimSpace(in.Issue)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Format == "" {
		in.Format = "markdown"
	}
	p, a, err := s.subject(ctx, userID, in.CompanyProfileID)
	if err != nil {
		return nil, err
	}

	task := "Write publish-ready website content in " + in.Format + " that resolves this SEO issue: " + in.Issue +
		". Output only the content, no commentary."

	completion, err := s.llm.Complete(ctx, llm.Request{Messages: prompt(seoSystemPrompt, p, a, task), Temperature: 0.7})
	if errors.Is(err, llm.ErrEmptyCompletion) {
		completion, err = &llm.Completion{}, nil
	}
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(completion.Text)
	if content == "" {
		metrics.RecordFallback(domain.SEOContent)
	}
	return &domain.SEOContentResult{Content: content}, nil
}
