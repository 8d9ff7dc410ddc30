package service

import (
	"encoding/json"
	"fmt"
	"strings"

	cartdomain "github.com/luxbiz/biz-optimizer/internal/cart/domain"
	companydomain "github.com/luxbiz/biz-optimizer/internal/company/domain"
	"github.com/luxbiz/biz-optimizer/internal/llm"
	"github.com/luxbiz/biz-optimizer/internal/places"
)

const scoringSystemPrompt = `You are a local search and AI visibility analyst.
You assess how likely AI assistants (ChatGPT, Gemini, Perplexity, Claude, Copilot) and search engines are to recommend a local business.
Score every dimension from 0 to 100, where 100 means the business is consistently recommended.
Estimate the monthly revenue (USD) the business loses to competitors because of weak visibility.
Report concrete issues, recommendations that map to an available service, quick wins achievable within a week, and how the listed competitors compare.
Respond with JSON only, matching the provided schema.`

func scoreSchema() *llm.Schema {
	return llm.Object(map[string]*llm.Schema{
		"overallScore":        llm.Integer(),
		"googleBusinessScore": llm.Integer(),
		"reviewScore":         llm.Integer(),
		"websiteScore":        llm.Integer(),
		"socialScore":         llm.Integer(),
		"aiVisibilityScore":   llm.Integer(),
		"llmScores": llm.Object(map[string]*llm.Schema{
			"chatgpt":    llm.Integer(),
			"gemini":     llm.Integer(),
			"perplexity": llm.Integer(),
			"claude":     llm.Integer(),
			"copilot":    llm.Integer(),
		}),
		"estimatedMonthlyLoss": llm.Integer(),
		"summary":              llm.String(),
		"issues": llm.ArrayOf(llm.Object(map[string]*llm.Schema{
			"title":       llm.String(),
			"description": llm.String(),
			"severity":    llm.Enum("critical", "high", "medium", "low"),
			"category":    llm.Enum("google_business", "reviews", "website", "social", "ai_visibility"),
		})),
		"recommendations": llm.ArrayOf(llm.Object(map[string]*llm.Schema{
			"title":       llm.String(),
			"description": llm.String(),
			"impact":      llm.Enum("high", "medium", "low"),
			"serviceType": llm.Enum(cartdomain.ServiceTypes()...),
		})),
		"quickWins": llm.ArrayOf(llm.Object(map[string]*llm.Schema{
			"title":       llm.String(),
			"description": llm.String(),
			"timeToFix":   llm.String(),
		})),
		"competitors": llm.ArrayOf(llm.Object(map[string]*llm.Schema{
			"name":        llm.String(),
			"rating":      llm.Number(),
			"reviewCount": llm.Integer(),
			"strengths":   llm.String(),
		})),
	})
}

func buildScoringPrompt(p *companydomain.CompanyProfile, place *places.Place, competitors []places.Place) []llm.Message {
	var b strings.Builder

	b.WriteString("Business profile:\n")
	fmt.Fprintf(&b, "- Name: %s\n- Industry: %s\n- Location: %s\n", p.BusinessName, p.Industry, p.Location)
	if p.Website != "" {
		fmt.Fprintf(&b, "- Website: %s\n", p.Website)
	}
	if p.Phone != "" {
		fmt.Fprintf(&b, "- Phone: %s\n", p.Phone)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "- Description: %s\n", p.Description)
	}
	if len(p.Services) > 0 {
		fmt.Fprintf(&b, "- Services: %s\n", strings.Join(p.Services, ", "))
	}
	if p.TargetAudience != "" {
		fmt.Fprintf(&b, "- Target audience: %s\n", p.TargetAudience)
	}

	b.WriteString("\nGoogle Maps listing:\n")
	if place == nil {
		b.WriteString("The business was not found on Google Maps.\n")
	} else {
		data, _ := json.Marshal(place)
		b.Write(data)
		b.WriteString("\n")
	}

	b.WriteString("\nNearby competitors:\n")
	if len(competitors) == 0 {
		b.WriteString("No competitors found.\n")
	}
	for i, c := range competitors {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c.Summary())
	}

	return []llm.Message{llm.System(scoringSystemPrompt), llm.User(b.String())}
}

// scoreResult is the completion shape. Numbers are decoded as floats so
// "71.5" style answers still parse.
type scoreResult struct {
	OverallScore        float64 `json:"overallScore"`
	GoogleBusinessScore float64 `json:"googleBusinessScore"`
	ReviewScore         float64 `json:"reviewScore"`
	WebsiteScore        float64 `json:"websiteScore"`
	SocialScore         float64 `json:"socialScore"`
	AIVisibilityScore   float64 `json:"aiVisibilityScore"`
	LLMScores           struct {
		ChatGPT    float64 `json:"chatgpt"`
		Gemini     float64 `json:"gemini"`
		Perplexity float64 `json:"perplexity"`
		Claude     float64 `json:"claude"`
		Copilot    float64 `json:"copilot"`
	} `json:"llmScores"`
	EstimatedMonthlyLoss float64 `json:"estimatedMonthlyLoss"`
	Summary              string  `json:"summary"`
	Issues               []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Severity    string `json:"severity"`
		Category    string `json:"category"`
	} `json:"issues"`
	Recommendations []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Impact      string `json:"impact"`
		ServiceType string `json:"serviceType"`
	} `json:"recommendations"`
	QuickWins []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		TimeToFix   string `json:"timeToFix"`
	} `json:"quickWins"`
	Competitors []struct {
		Name        string  `json:"name"`
		Rating      float64 `json:"rating"`
		ReviewCount float64 `json:"reviewCount"`
		Strengths   string  `json:"strengths"`
	} `json:"competitors"`
}
