package domain

// Generator names, used in logs and the fallback metric.
const (
	AdCreator      = "adCreator.generate"
	RevenueGrowth  = "revenueGrowth.analyze"
	RankResearch   = "googleRank.research"
	RankFix        = "googleRank.fix"
	ShopifyAudit   = "shopify.audit"
	LeadGeneration = "leads.generate"
	SEOContent     = "ai.seoContent"
)

const (
	DefaultLeadCount = 10
	MaxLeadCount     = 25
)

type AdInput struct {
	CompanyProfileID int64  `validate:"required,gt=0"`
	Platform         string `validate:"required,oneof=google facebook instagram"`
	Goal             string `validate:"max=500"`
}

type Ad struct {
	Headline       string `json:"headline"`
	PrimaryText    string `json:"primaryText"`
	Description    string `json:"description"`
	CallToAction   string `json:"callToAction"`
	TargetAudience string `json:"targetAudience"`
}

type AdResult struct {
	Ads              []Ad     `json:"ads"`
	Keywords         []string `json:"keywords"`
	BudgetSuggestion string   `json:"budgetSuggestion"`
}

type GrowthInput struct {
	CompanyProfileID int64    `validate:"required,gt=0"`
	MonthlyRevenue   *float64 `validate:"omitnil,gte=0"`
}

type Opportunity struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	EstimatedImpact string `json:"estimatedImpact"`
	Effort          string `json:"effort"`
}

type GrowthResult struct {
	CurrentEstimate  float64       `json:"currentEstimate"`
	PotentialRevenue float64       `json:"potentialRevenue"`
	Opportunities    []Opportunity `json:"opportunities"`
	ActionPlan       []string      `json:"actionPlan"`
}

type RankResearchInput struct {
	CompanyProfileID int64    `validate:"required,gt=0"`
	Keywords         []string `validate:"required,min=1,max=20,dive,required,max=100"`
}

type KeywordRank struct {
	Keyword           string `json:"keyword"`
	Difficulty        string `json:"difficulty"`
	EstimatedPosition int    `json:"estimatedPosition"`
	SearchVolume      string `json:"searchVolume"`
}

type RankResearchResult struct {
	Keywords              []KeywordRank `json:"keywords"`
	CompetitorsOutranking []string      `json:"competitorsOutranking"`
	Summary               string        `json:"summary"`
}

type RankFixInput struct {
	CompanyProfileID int64  `validate:"required,gt=0"`
	Keyword          string `validate:"required,max=100"`
}

type FixStep struct {
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Priority string `json:"priority"`
}

type RankFixResult struct {
	Keyword            string    `json:"keyword"`
	Steps              []FixStep `json:"steps"`
	ContentSuggestions []string  `json:"contentSuggestions"`
	TechnicalFixes     []string  `json:"technicalFixes"`
}

type ShopifyInput struct {
	CompanyProfileID int64  `validate:"required,gt=0"`
	StoreURL         string `validate:"required,url,max=500"`
}

type StoreIssue struct {
	Area        string `json:"area"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Fix         string `json:"fix"`
}

type ShopifyResult struct {
	StoreURL               string       `json:"storeUrl"`
	Score                  int          `json:"score"`
	Issues                 []StoreIssue `json:"issues"`
	ProductRecommendations []string     `json:"productRecommendations"`
	SEORecommendations     []string     `json:"seoRecommendations"`
}

type LeadsInput struct {
	CompanyProfileID int64 `validate:"required,gt=0"`
	Count            int   `validate:"gte=0,lte=25"`
}

type Lead struct {
	Type            string `json:"type"`
	Description     string `json:"description"`
	Channel         string `json:"channel"`
	OutreachMessage string `json:"outreachMessage"`
}

type LeadsResult struct {
	Leads      []Lead   `json:"leads"`
	Strategies []string `json:"strategies"`
}

type SEOContentInput struct {
	CompanyProfileID int64  `validate:"required,gt=0"`
	Issue            string `validate:"required,max=1000"`
	Format           string `validate:"omitempty,oneof=markdown html"`
}

type SEOContentResult struct {
	Content string `json:"content"`
}

// Empty results returned when the model answer cannot be used. They carry
// non-nil slices so clients always see arrays.

func EmptyAdResult() AdResult {
	return AdResult{Ads: []Ad{}, Keywords: []string{}}
}

func EmptyGrowthResult() GrowthResult {
	return GrowthResult{Opportunities: []Opportunity{}, ActionPlan: []string{}}
}

func EmptyRankResearchResult() RankResearchResult {
	return RankResearchResult{Keywords: []KeywordRank{}, CompetitorsOutranking: []string{}}
}

func EmptyRankFixResult(keyword string) RankFixResult {
	return RankFixResult{Keyword: keyword, Steps: []FixStep{}, ContentSuggestions: []string{}, TechnicalFixes: []string{}}
}

func EmptyShopifyResult(storeURL string) ShopifyResult {
	return ShopifyResult{StoreURL: storeURL, Issues: []StoreIssue{}, ProductRecommendations: []string{}, SEORecommendations: []string{}}
}

func EmptyLeadsResult() LeadsResult {
	return LeadsResult{Leads: []Lead{}, Strategies: []string{}}
}
