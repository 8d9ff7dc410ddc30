package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	auditdomain "github.com/luxbiz/biz-optimizer/internal/audit/domain"
	"github.com/luxbiz/biz-optimizer/internal/cart/domain"
	companydomain "github.com/luxbiz/biz-optimizer/internal/company/domain"
	"github.com/luxbiz/biz-optimizer/internal/jobs"
	"github.com/luxbiz/biz-optimizer/internal/llm"
	"github.com/luxbiz/biz-optimizer/internal/platform/logging"
)

// AuditLoader and ProfileLoader read records without an ownership check.
type AuditLoader interface {
	Get(ctx context.Context, id int64) (*auditdomain.Audit, error)
}

type ProfileLoader interface {
	Get(ctx context.Context, id int64) (*companydomain.CompanyProfile, error)
}

// Fixer runs cart.autofix jobs: it generates the deliverable for a purchased
// item from the audit it was bought against.
type Fixer struct {
	items    CartStore
	audits   AuditLoader
	profiles ProfileLoader
	llm      llm.Provider
}

func NewFixer(items CartStore, audits AuditLoader, profiles ProfileLoader, provider llm.Provider) *Fixer {
	return &Fixer{items: items, audits: audits, profiles: profiles, llm: provider}
}

const fixSystemPrompt = `You are a local marketing specialist delivering a purchased optimization service.
Produce the finished deliverable, ready for the business owner to apply: concrete copy, settings and step-by-step instructions.
Use markdown headings and lists. Do not ask questions.`

func (f *Fixer) Handle(ctx context.Context, job *jobs.Job) error {
	var payload domain.AutofixPayload
	if err := job.Decode(&payload); err != nil {
		return err
	}

	item, err := f.items.Get(ctx, payload.ItemID)
	if errors.Is(err, domain.ErrItemNotFound) {
		return jobs.Permanent(err)
	}
	if err != nil {
		return err
	}
	if item.Status == domain.StatusCompleted {
		return nil
	}
	if item.AuditID == nil {
		return jobs.Permanent(fmt.Errorf("cart item %d has no audit", item.ID))
	}

	if item.Status == domain.StatusPurchased {
		if err := item.Advance(domain.StatusInProgress); err != nil {
			return jobs.Permanent(err)
		}
		if err := f.items.Update(ctx, item); err != nil {
			return err
		}
	}
	if item.Status != domain.StatusInProgress {
		return jobs.Permanent(fmt.Errorf("cart item %d is %s", item.ID, item.Status))
	}

	audit, err := f.audits.Get(ctx, *item.AuditID)
	if errors.Is(err, auditdomain.ErrAuditNotFound) {
		return jobs.Permanent(err)
	}
	if err != nil {
		return err
	}

	profile, err := f.profiles.Get(ctx, audit.CompanyProfileID)
	if errors.Is(err, companydomain.ErrProfileNotFound) {
		return jobs.Permanent(err)
	}
	if err != nil {
		return err
	}

	completion, err := f.llm.Complete(ctx, llm.Request{
		Messages:    []llm.Message{llm.System(fixSystemPrompt), llm.User(buildFixPrompt(item, audit, profile))},
		Temperature: 0.4,
	})
	if err != nil {
		return fmt.Errorf("auto-fix completion: %w", err)
	}

	now := time.Now().UTC()
	item.FixResult = completion.Text
	item.FixError = ""
	if err := item.Advance(domain.StatusCompleted); err != nil {
		return jobs.Permanent(err)
	}
	item.CompletedAt = &now
	if err := f.items.Update(ctx, item); err != nil {
		return err
	}

	logging.FromContext(ctx).LogInfof("cart.autofix", "item %d completed", item.ID)
	return nil
}

// OnFailure records the error on the item. Its status is left as is and no
// refund is issued; support handles the follow-up.
func (f *Fixer) OnFailure(ctx context.Context, job *jobs.Job, cause error) {
	var payload domain.AutofixPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return
	}
	item, err := f.items.Get(ctx, payload.ItemID)
	if err != nil {
		return
	}
	item.FixError = cause.Error()
	if err := f.items.Update(ctx, item); err != nil {
		logging.FromContext(ctx).LogError("cart.autofix.on_failure", err)
	}
}

func buildFixPrompt(item *domain.CartItem, a *auditdomain.Audit, p *companydomain.CompanyProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Service purchased: %s (%s)\n", item.Title, item.ServiceType)
	if item.Description != "" {
		fmt.Fprintf(&b, "Service description: %s\n", item.Description)
	}
	if item.IssueTitle != "" {
		fmt.Fprintf(&b, "Issue to fix: %s\n", item.IssueTitle)
		for _, is := range a.Issues {
			if strings.EqualFold(is.Title, item.IssueTitle) {
				fmt.Fprintf(&b, "Issue details: %s (severity %s)\n", is.Description, is.Severity)
			}
		}
	}

	fmt.Fprintf(&b, "\nBusiness: %s, %s in %s\n", p.BusinessName, p.Industry, p.Location)
	if p.Website != "" {
		fmt.Fprintf(&b, "Website: %s\n", p.Website)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "About: %s\n", p.Description)
	}

	fmt.Fprintf(&b, "\nAudit scores: overall %d, Google Business %d, reviews %d, website %d, social %d, AI visibility %d\n",
		a.OverallScore, a.GoogleBusinessScore, a.ReviewScore, a.WebsiteScore, a.SocialScore, a.AIVisibilityScore)
	if len(a.Issues) > 0 {
		b.WriteString("Audit issues:\n")
		for _, is := range a.Issues {
			fmt.Fprintf(&b, "- [%s] %s\n", is.Severity, is.Title)
		}
	}
	return b.String()
}
