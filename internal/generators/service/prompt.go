package service

import (
	"fmt"
	"strconv"
	"strings"

	auditdomain "github.com/luxbiz/biz-optimizer/internal/audit/domain"
	companydomain "github.com/luxbiz/biz-optimizer/internal/company/domain"
	"github.com/luxbiz/biz-optimizer/internal/llm"
)

const jsonOnly = "\nRespond with JSON only, matching the provided schema."

const (
	adSystemPrompt = `You are a performance marketer who writes local ad campaigns for small businesses.
Ads must be specific to the business, its location and its strengths. Respect each platform's length limits.` + jsonOnly

	growthSystemPrompt = `You are a small business growth consultant.
Base revenue estimates on the industry, location and visibility data provided. Be conservative and concrete.` + jsonOnly

	rankSystemPrompt = `You are a local SEO specialist focused on Google Maps and organic local results.
Give estimates grounded in the business data provided; never claim certainty about live rankings.` + jsonOnly

	shopifySystemPrompt = `You are an e-commerce consultant who audits Shopify stores for conversion and search visibility.` + jsonOnly

	leadsSystemPrompt = `You are a local business development strategist.
Leads are categories of prospects and where to find them, never invented personal data.` + jsonOnly

	seoSystemPrompt = `You are an SEO copywriter for local businesses.
Write natural, accurate copy that search engines and AI assistants can quote.`
)

// prompt builds the system and user messages shared by every generator.
func prompt(system string, p *companydomain.CompanyProfile, a *auditdomain.Audit, task string) []llm.Message {
	var b strings.Builder

	b.WriteString("Business profile:\n")
	fmt.Fprintf(&b, "- Name: %s\n- Industry: %s\n- Location: %s\n", p.BusinessName, p.Industry, p.Location)
	if p.Website != "" {
		fmt.Fprintf(&b, "- Website: %s\n", p.Website)
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

	if a != nil {
		b.WriteString("\nLatest visibility audit:\n")
		fmt.Fprintf(&b, "- Overall %d/100, Google Business %d, reviews %d, website %d, social %d, AI visibility %d\n",
			a.OverallScore, a.GoogleBusinessScore, a.ReviewScore, a.WebsiteScore, a.SocialScore, a.AIVisibilityScore)
		if a.EstimatedMonthlyLoss > 0 {
			fmt.Fprintf(&b, "- Estimated monthly loss: $%d\n", a.EstimatedMonthlyLoss)
		}
		for _, is := range a.Issues {
			fmt.Fprintf(&b, "- Issue [%s]: %s\n", is.Severity, is.Title)
		}
		for _, c := range a.Competitors {
			fmt.Fprintf(&b, "- Competitor: %s (rating %.1f, %d reviews)\n", c.Name, c.Rating, c.ReviewCount)
		}
	}

	b.WriteString("\nTask: ")
	b.WriteString(task)

	return []llm.Message{llm.System(system), llm.User(b.String())}
}

func adSchema() *llm.Schema {
	return llm.Object(map[string]*llm.Schema{
		"ads": llm.ArrayOf(llm.Object(map[string]*llm.Schema{
			"headline":       llm.String(),
			"primaryText":    llm.String(),
			"description":    llm.String(),
			"callToAction":   llm.String(),
			"targetAudience": llm.String(),
		})),
		"keywords":         llm.ArrayOf(llm.String()),
		"budgetSuggestion": llm.String(),
	})
}

func growthSchema() *llm.Schema {
	return llm.Object(map[string]*llm.Schema{
		"currentEstimate":  llm.Number(),
		"potentialRevenue": llm.Number(),
		"opportunities": llm.ArrayOf(llm.Object(map[string]*llm.Schema{
			"title":           llm.String(),
			"description":     llm.String(),
			"estimatedImpact": llm.String(),
			"effort":          llm.Enum("low", "medium", "high"),
		})),
		"actionPlan": llm.ArrayOf(llm.String()),
	})
}

func rankResearchSchema() *llm.Schema {
	return llm.Object(map[string]*llm.Schema{
		"keywords": llm.ArrayOf(llm.Object(map[string]*llm.Schema{
			"keyword":           llm.String(),
			"difficulty":        llm.Enum("easy", "medium", "hard"),
			"estimatedPosition": llm.Integer(),
			"searchVolume":      llm.String(),
		})),
		"competitorsOutranking": llm.ArrayOf(llm.String()),
		"summary":               llm.String(),
	})
}

func rankFixSchema() *llm.Schema {
	return llm.Object(map[string]*llm.Schema{
		"keyword": llm.String(),
		"steps": llm.ArrayOf(llm.Object(map[string]*llm.Schema{
			"title":    llm.String(),
			"detail":   llm.String(),
			"priority": llm.Enum("high", "medium", "low"),
		})),
		"contentSuggestions": llm.ArrayOf(llm.String()),
		"technicalFixes":     llm.ArrayOf(llm.String()),
	})
}

func shopifySchema() *llm.Schema {
	return llm.Object(map[string]*llm.Schema{
		"storeUrl": llm.String(),
		"score":    llm.Integer(),
		"issues": llm.ArrayOf(llm.Object(map[string]*llm.Schema{
			"area":        llm.String(),
			"severity":    llm.Enum("critical", "high", "medium", "low"),
			"description": llm.String(),
			"fix":         llm.String(),
		})),
		"productRecommendations": llm.ArrayOf(llm.String()),
		"seoRecommendations":     llm.ArrayOf(llm.String()),
	})
}

func leadsSchema() *llm.Schema {
	return llm.Object(map[string]*llm.Schema{
		"leads": llm.ArrayOf(llm.Object(map[string]*llm.Schema{
			"type":            llm.String(),
			"description":     llm.String(),
			"channel":         llm.String(),
			"outreachMessage": llm.String(),
		})),
		"strategies": llm.ArrayOf(llm.String()),
	})
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func itoa(n int) string { return strconv.Itoa(n) }

func formatMoney(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
