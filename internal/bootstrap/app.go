package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/luxbiz/biz-optimizer/config"
	"github.com/luxbiz/biz-optimizer/internal/admin"
	auditdomain "github.com/luxbiz/biz-optimizer/internal/audit/domain"
	auditrepo "github.com/luxbiz/biz-optimizer/internal/audit/repository"
	auditservice "github.com/luxbiz/biz-optimizer/internal/audit/service"
	authrepo "github.com/luxbiz/biz-optimizer/internal/auth/repository"
	authservice "github.com/luxbiz/biz-optimizer/internal/auth/service"
	cartdomain "github.com/luxbiz/biz-optimizer/internal/cart/domain"
	cartrepo "github.com/luxbiz/biz-optimizer/internal/cart/repository"
	cartservice "github.com/luxbiz/biz-optimizer/internal/cart/service"
	chatrepo "github.com/luxbiz/biz-optimizer/internal/chat/repository"
	chatservice "github.com/luxbiz/biz-optimizer/internal/chat/service"
	companyrepo "github.com/luxbiz/biz-optimizer/internal/company/repository"
	companyservice "github.com/luxbiz/biz-optimizer/internal/company/service"
	"github.com/luxbiz/biz-optimizer/internal/docstore"
	genservice "github.com/luxbiz/biz-optimizer/internal/generators/service"
	"github.com/luxbiz/biz-optimizer/internal/jobs"
	"github.com/luxbiz/biz-optimizer/internal/llm"
	"github.com/luxbiz/biz-optimizer/internal/places"
	"github.com/luxbiz/biz-optimizer/internal/platform/lock"
	reportservice "github.com/luxbiz/biz-optimizer/internal/reports/service"
	"github.com/luxbiz/biz-optimizer/internal/scanner"
	"github.com/luxbiz/biz-optimizer/internal/storage/postgres"
	supportrepo "github.com/luxbiz/biz-optimizer/internal/support/repository"
	supportservice "github.com/luxbiz/biz-optimizer/internal/support/service"
)

// App holds the process-wide connections and every wired service.
type App struct {
	Config *config.Config

	Pool  *pgxpool.Pool
	SQL   *sql.DB
	Redis *redis.Client
	LLM   llm.Provider

	Jobs    *jobs.Store
	Runner  *jobs.Runner
	Sweeper *jobs.Sweeper

	Auth         *authservice.AuthService
	Profiles     *companyservice.ProfileService
	Orchestrator *auditservice.Orchestrator
	Cart         *cartservice.CartService
	Generators   *genservice.GeneratorService
	Chat         *chatservice.ChatService
	Support      *supportservice.SupportService
	Reports      *reportservice.ReportService
	Scanner      *scanner.Scanner
	Admin        *admin.Service
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	var err error
	a.Pool, err = OpenPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(ctx, a.Pool); err != nil {
		return nil, err
	}
	a.SQL, err = postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}
	a.Redis, err = OpenRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	a.LLM, err = llm.New(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	placesClient, err := places.NewClient(ctx, cfg.Places, a.Redis)
	if err != nil {
		return nil, fmt.Errorf("places: %w", err)
	}

	store := docstore.New(a.Redis)
	locker := lock.New(a.Redis)
	a.Jobs = jobs.NewStore(a.SQL, cfg.Jobs.MaxAttempts)

	users := authrepo.NewUserRepository(a.Pool)
	profileRepo := companyrepo.NewProfileRepository(store)
	auditRepo := auditrepo.NewAuditRepository(store)
	cartRepo := cartrepo.NewCartRepository(store)
	ticketRepo := supportrepo.NewTicketRepository(store)

	a.Auth = authservice.NewAuthService(users)
	a.Profiles = companyservice.NewProfileService(profileRepo)
	a.Orchestrator = auditservice.NewOrchestrator(auditRepo, a.Profiles, a.Jobs, locker)
	a.Cart = cartservice.NewCartService(cartRepo, a.Orchestrator, a.Jobs, locker)
	a.Generators = genservice.NewGeneratorService(a.Profiles, a.Orchestrator, a.LLM)
	a.Chat = chatservice.NewChatService(chatrepo.NewChatRepository(store), a.Orchestrator, a.LLM)
	a.Support = supportservice.NewSupportService(ticketRepo)
	a.Reports = reportservice.NewReportService(a.Orchestrator, profileRepo)
	a.Scanner = scanner.New(placesClient)
	a.Admin = admin.NewService(a.Auth, profileRepo, auditRepo, ticketRepo)

	a.Runner = jobs.NewRunner(a.Jobs, cfg.Jobs.Workers, cfg.Jobs.PollInterval)
	a.Runner.Register(auditdomain.JobTypeScore, auditservice.NewScorer(auditRepo, profileRepo, placesClient, a.LLM))
	a.Runner.Register(cartdomain.JobTypeAutofix, cartservice.NewFixer(cartRepo, auditRepo, profileRepo, a.LLM))

	a.Sweeper, err = jobs.NewSweeper(a.Jobs, cfg.Jobs.SweepSpec, cfg.Jobs.StaleAfter)
	if err != nil {
		return nil, err
	}

	ok = true
	return a, nil
}

func (a *App) Close() {
	if c, ok := a.LLM.(io.Closer); ok {
		_ = c.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.SQL != nil {
		_ = a.SQL.Close()
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}
