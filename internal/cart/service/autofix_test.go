package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditdomain "github.com/luxbiz/biz-optimizer/internal/audit/domain"
	auditrepo "github.com/luxbiz/biz-optimizer/internal/audit/repository"
	"github.com/luxbiz/biz-optimizer/internal/cart/domain"
	"github.com/luxbiz/biz-optimizer/internal/cart/repository"
	companydomain "github.com/luxbiz/biz-optimizer/internal/company/domain"
	companyrepo "github.com/luxbiz/biz-optimizer/internal/company/repository"
	"github.com/luxbiz/biz-optimizer/internal/docstore/docstoretest"
	"github.com/luxbiz/biz-optimizer/internal/jobs"
	"github.com/luxbiz/biz-optimizer/internal/jobs/jobstest"
	"github.com/luxbiz/biz-optimizer/internal/llm/llmtest"
	"github.com/luxbiz/biz-optimizer/internal/platform/lock"
)

type fixFixture struct {
	cart   *CartService
	items  *repository.CartRepository
	queue  *jobstest.MemQueue
	runner *jobs.Runner
	llm    *llmtest.Fake
	audit  *auditdomain.Audit
}

func newFixFixture(t *testing.T) *fixFixture {
	t.Helper()
	ctx := context.Background()
	store, _ := docstoretest.New(t)

	profiles := companyrepo.NewProfileRepository(store)
	p := &companydomain.CompanyProfile{UserID: 1, BusinessName: "Test Business", Industry: "Restaurant", Location: "Austin, TX"}
	require.NoError(t, profiles.Create(ctx, p))

	audits := auditrepo.NewAuditRepository(store)
	a := &auditdomain.Audit{
		CompanyProfileID: p.ID,
		UserID:           1,
		Status:           auditdomain.StatusComplete,
		OverallScore:     41,
		Issues: []auditdomain.Issue{
			{Title: "Missing meta description", Description: "Homepage has no meta description", Severity: "high", Category: "website"},
		},
	}
	require.NoError(t, audits.Create(ctx, a))

	items := repository.NewCartRepository(store)
	q := jobstest.NewMemQueue(2)
	fake := &llmtest.Fake{Reply: "## Meta description\nAustin's favorite tacos since 2009."}

	owned := stubAudits{a.ID: a}
	svc := NewCartService(items, owned, q, lock.New(store.Client()))

	r := jobs.NewRunner(q, 1, 10*time.Millisecond)
	r.Register(domain.JobTypeAutofix, NewFixer(items, audits, profiles, fake))

	return &fixFixture{cart: svc, items: items, queue: q, runner: r, llm: fake, audit: a}
}

func TestFixer_CompletesPurchasedItem(t *testing.T) {
	f := newFixFixture(t)
	ctx := context.Background()

	item, err := f.cart.Add(ctx, 1, domain.AddInput{ServiceType: "seo_fix", AuditID: &f.audit.ID, IssueTitle: "Missing meta description"})
	require.NoError(t, err)
	_, err = f.cart.Checkout(ctx, 1)
	require.NoError(t, err)

	worked, err := f.runner.RunOnce(ctx)
	require.NoError(t, err)
	require.True(t, worked)

	got, err := f.items.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Contains(t, got.FixResult, "Meta description")
	assert.NotNil(t, got.CompletedAt)
	assert.Empty(t, got.FixError)

	prompt := f.llm.Last().Messages[1].Content
	assert.Contains(t, prompt, "Test Business")
	assert.Contains(t, prompt, "Homepage has no meta description")
}

func TestFixer_FinalFailureRecordsError(t *testing.T) {
	f := newFixFixture(t)
	f.llm.Err = errors.New("provider unavailable")
	ctx := context.Background()

	item, err := f.cart.Add(ctx, 1, domain.AddInput{ServiceType: "seo_fix", AuditID: &f.audit.ID})
	require.NoError(t, err)
	res, err := f.cart.Checkout(ctx, 1)
	require.NoError(t, err)
	require.Len(t, res.FixJobIDs, 1)

	_, err = f.runner.RunOnce(ctx)
	require.NoError(t, err)

	// skip past the retry delay
	f.queue.Now = func() time.Time { return time.Now().Add(time.Hour) }
	worked, err := f.runner.RunOnce(ctx)
	require.NoError(t, err)
	require.True(t, worked)

	job, err := f.queue.Get(ctx, res.FixJobIDs[0])
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusFailed, job.Status)

	got, err := f.items.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.Contains(t, got.FixError, "provider unavailable")
}

func TestFixer_CompletedItemIsNoop(t *testing.T) {
	f := newFixFixture(t)
	ctx := context.Background()

	done := &domain.CartItem{UserID: 1, ServiceType: "seo_fix", AuditID: &f.audit.ID, Status: domain.StatusCompleted, FixResult: "done"}
	require.NoError(t, f.items.Create(ctx, done))
	_, err := f.queue.Enqueue(ctx, jobs.EnqueueParams{Type: domain.JobTypeAutofix, Payload: domain.AutofixPayload{ItemID: done.ID}})
	require.NoError(t, err)

	_, err = f.runner.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, f.llm.Calls())
}

func TestCanTransition(t *testing.T) {
	assert.True(t, domain.CanTransition(domain.StatusInCart, domain.StatusPurchased))
	assert.True(t, domain.CanTransition(domain.StatusInProgress, domain.StatusCompleted))
	assert.False(t, domain.CanTransition(domain.StatusInCart, domain.StatusCompleted))
	assert.False(t, domain.CanTransition(domain.StatusCompleted, domain.StatusPurchased))
	assert.False(t, domain.CanTransition("shipped", domain.StatusPurchased))
}
