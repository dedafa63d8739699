package gigmarket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbPostgres "github.com/kailas-cloud/gigmarket/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/gigmarket/internal/db/redis"
	"github.com/kailas-cloud/gigmarket/internal/domain"
	domgig "github.com/kailas-cloud/gigmarket/internal/domain/gig"
	"github.com/kailas-cloud/gigmarket/internal/domain/review"
	"github.com/kailas-cloud/gigmarket/internal/metrics"
	budgetrepo "github.com/kailas-cloud/gigmarket/internal/repository/budget"
	gigrepo "github.com/kailas-cloud/gigmarket/internal/repository/gig"
	"github.com/kailas-cloud/gigmarket/internal/repository/kwcache"
	orderrepo "github.com/kailas-cloud/gigmarket/internal/repository/order"
	reviewrepo "github.com/kailas-cloud/gigmarket/internal/repository/review"
	userrepo "github.com/kailas-cloud/gigmarket/internal/repository/user"
	geminiLLM "github.com/kailas-cloud/gigmarket/internal/transport/gemini"
	openaiLLM "github.com/kailas-cloud/gigmarket/internal/transport/openai"
	assistantuc "github.com/kailas-cloud/gigmarket/internal/usecase/assistant"
	giguc "github.com/kailas-cloud/gigmarket/internal/usecase/gig"
	healthuc "github.com/kailas-cloud/gigmarket/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/gigmarket/internal/usecase/recommend"
	usageuc "github.com/kailas-cloud/gigmarket/internal/usecase/usage"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped for fakes in tests.
type recommendUseCase interface {
	Recommend(ctx context.Context, prompt string) (recommenduc.Result, error)
}

type gigUseCase interface {
	Get(ctx context.Context, gigID uint) (domgig.Detail, error)
	Reviews(ctx context.Context, gigID uint, page int) ([]review.Review, error)
	Search(ctx context.Context, c domgig.Criteria) (domgig.Page, error)
	Random(ctx context.Context, limit int) ([]domgig.Gig, int64, error)
	Recent(ctx context.Context) (domgig.Recent, error)
	PublicProfile(ctx context.Context, userID uint) (domgig.Seller, error)
}

// Client is the gigmarket SDK entry point.
type Client struct {
	db           *dbPostgres.Client
	cache        *dbRedis.Store
	recommendSvc recommendUseCase
	gigSvc       gigUseCase
	healthSvc    healthUseCase
	usageSvc     usageUseCase
	obs          *observer
}

// New creates a Client and connects to the database (and Redis when configured).
// The provided context is used for the initial readiness checks.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.dsn == "" {
		return nil, errors.New("gigmarket: database dsn required (use WithPostgres)")
	}

	log := cfg.logger
	if log == nil {
		log = zap.NewNop()
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	provider, err := buildProvider(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	pg, err := dbPostgres.Open(dbPostgres.Config{
		DSN:             cfg.dsn,
		MaxOpenConns:    cfg.maxOpenConns,
		MaxIdleConns:    cfg.maxOpenConns / 2,
		ConnMaxLifetime: 30 * time.Minute,
		SlowQuery:       200 * time.Millisecond,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("gigmarket: open database: %w", err)
	}
	if err := pg.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("gigmarket: database not ready: %w", err)
	}

	var cache *dbRedis.Store
	if len(cfg.redisAddrs) > 0 {
		cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.redisAddrs,
			Password: cfg.redisPassword,
		})
		if err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("gigmarket: create redis store: %w", err)
		}
		if err := cache.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			cache.Close()
			_ = pg.Close()
			return nil, fmt.Errorf("gigmarket: redis not ready: %w", err)
		}
	}

	return wireClient(ctx, pg, cache, provider, cfg, obs, log), nil
}

// buildProvider resolves the configured language model.
func buildProvider(ctx context.Context, cfg *clientConfig, log *zap.Logger) (domain.Completer, error) {
	switch cfg.provider {
	case "openai":
		return openaiLLM.NewCompleter(&openaiLLM.Config{
			APIKey:   cfg.apiKey,
			BaseURL:  cfg.baseURL,
			Provider: cfg.provider,
			Logger:   log,
		}), nil
	case "gemini":
		c, err := geminiLLM.NewCompleter(ctx, &geminiLLM.Config{
			APIKey:   cfg.apiKey,
			Provider: cfg.provider,
			Logger:   log,
		})
		if err != nil {
			return nil, fmt.Errorf("gigmarket: create gemini completer: %w", err)
		}
		return c, nil
	case "custom":
		if cfg.completer == nil {
			return noopCompleter{}, nil
		}
		return &completerAdapter{inner: cfg.completer}, nil
	default:
		return noopCompleter{}, nil
	}
}

func wireClient(
	ctx context.Context,
	pg *dbPostgres.Client,
	cache *dbRedis.Store,
	provider domain.Completer,
	cfg *clientConfig,
	obs *observer,
	log *zap.Logger,
) *Client {
	providerName := cfg.provider
	if providerName == "" {
		providerName = "none"
	}

	budget := assistantuc.NewBudgetTracker(
		providerName, cfg.keyPrefix,
		cfg.dailyTokenLimit, cfg.monthlyTokenLimit,
		assistantuc.BudgetActionReject, log,
	)

	completer := provider
	var cachePinger healthuc.Pinger
	if cache != nil {
		budget.WithStore(ctx, budgetrepo.New(cache, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL))
		completer = kwcache.New(provider, cache, cfg.keyPrefix, cfg.keywordTTL, metrics.AssistantCacheTotal, log)
		cachePinger = cache
	}
	completer = assistantuc.NewInstrumentedCompleter(completer, providerName, budget, log)

	assistantSvc := assistantuc.New(completer, assistantuc.Profiles{
		Keywords: domain.TaskProfile{
			Task:        domain.TaskKeywords,
			Model:       cfg.keywordModel,
			MaxTokens:   50,
			Temperature: 0.7,
			Cacheable:   cache != nil,
		},
	})

	gigs := gigrepo.New(pg)
	users := userrepo.New(pg)

	return &Client{
		db:           pg,
		cache:        cache,
		recommendSvc: recommenduc.New(assistantSvc, gigs, users),
		gigSvc: giguc.New(gigs, reviewrepo.New(pg), orderrepo.New(pg), users, giguc.Rules{
			PageSize:       cfg.pageSize,
			MaxPageSize:    100,
			ReviewPageSize: 5,
			RandomLimit:    cfg.randomLimit,
			RecentWindow:   30 * 24 * time.Hour,
		}),
		healthSvc: healthuc.New(pg,
			healthuc.WithCache(cachePinger),
			healthuc.WithAssistant(&providerHealth{completer: provider}, healthuc.DefaultAssistantTTL),
		),
		usageSvc:  usageuc.New(budget, 0),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
	if c.db != nil {
		_ = c.db.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Recommend turns a free-text request into keyword filters and returns the
// matching gigs and freelancers. A request the model finds no keywords in
// yields an empty Recommendation, not an error.
func (c *Client) Recommend(ctx context.Context, prompt string) (rec Recommendation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommend", start, err) }()

	res, err := c.recommendSvc.Recommend(ctx, prompt)
	if err != nil {
		return Recommendation{}, fmt.Errorf("recommend: %w", err)
	}
	return fromInternalRecommendation(res), nil
}

// Gigs returns the public listing service.
func (c *Client) Gigs() *GigService {
	return &GigService{svc: c.gigSvc, obs: c.obs}
}

// providerHealth adapts a completer to the health checker contract.
type providerHealth struct {
	completer domain.Completer
}

func (h *providerHealth) HealthCheck(ctx context.Context) error {
	if hc, ok := h.completer.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("assistant health check: %w", err)
		}
	}
	return nil
}
