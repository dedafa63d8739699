package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gigmarket/internal/auth"
	"github.com/kailas-cloud/gigmarket/internal/config"
	dbPostgres "github.com/kailas-cloud/gigmarket/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/gigmarket/internal/db/redis"
	"github.com/kailas-cloud/gigmarket/internal/domain"
	logpkg "github.com/kailas-cloud/gigmarket/internal/logger"
	"github.com/kailas-cloud/gigmarket/internal/metrics"
	budgetrepo "github.com/kailas-cloud/gigmarket/internal/repository/budget"
	gigrepo "github.com/kailas-cloud/gigmarket/internal/repository/gig"
	"github.com/kailas-cloud/gigmarket/internal/repository/kwcache"
	orderrepo "github.com/kailas-cloud/gigmarket/internal/repository/order"
	reviewrepo "github.com/kailas-cloud/gigmarket/internal/repository/review"
	userrepo "github.com/kailas-cloud/gigmarket/internal/repository/user"
	chiTransport "github.com/kailas-cloud/gigmarket/internal/transport/chi"
	geminiLLM "github.com/kailas-cloud/gigmarket/internal/transport/gemini"
	openaiLLM "github.com/kailas-cloud/gigmarket/internal/transport/openai"
	accountuc "github.com/kailas-cloud/gigmarket/internal/usecase/account"
	assistantuc "github.com/kailas-cloud/gigmarket/internal/usecase/assistant"
	giguc "github.com/kailas-cloud/gigmarket/internal/usecase/gig"
	healthuc "github.com/kailas-cloud/gigmarket/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/gigmarket/internal/usecase/recommend"
	usageuc "github.com/kailas-cloud/gigmarket/internal/usecase/usage"
	"github.com/kailas-cloud/gigmarket/internal/version"
)

func main() {
	// A missing .env is fine; real deployments pass the environment directly.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, logpkg.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()
	defer zap.ReplaceGlobals(logger)()

	logger.Info("Starting gigmarket API server",
		zap.String("version", version.Version),
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("assistant_provider", cfg.Assistant.Provider),
		zap.Bool("cache", cfg.Cache.Enabled()),
	)

	metrics.RegisterAssistantMetrics()
	metrics.RegisterDBMetrics()

	ctx := context.Background()

	pg, err := dbPostgres.Open(dbPostgres.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetimeSec) * time.Second,
		SlowQuery:       time.Duration(cfg.Database.SlowQueryMs) * time.Millisecond,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		if err := pg.Close(); err != nil {
			logger.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := pg.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	if cfg.Database.AutoMigrate {
		if err := pg.Migrate(ctx); err != nil {
			logger.Fatal("Schema migration failed", zap.Error(err))
		}
		logger.Info("Schema migrated")
	}

	// Redis is optional: without it the keyword cache is off and budget
	// counters live in memory only.
	var cache *dbRedis.Store
	if cfg.Cache.Enabled() {
		cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cache.Close()

		if err := cache.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache")
	}

	provCfg := cfg.Assistant.Active()
	budget := newBudgetTracker(ctx, cfg, provCfg, cache, logger)

	provider, err := buildProvider(ctx, cfg.Assistant.Provider, provCfg, logger)
	if err != nil {
		logger.Fatal("Failed to create assistant provider", zap.Error(err))
	}
	completer := buildCompleter(provider, cfg, cache, budget, logger)
	logger.Info("Assistant ready",
		zap.String("provider", cfg.Assistant.Provider),
		zap.String("keyword_model", cfg.Assistant.Keywords.Model),
	)

	// Repositories
	gigs := gigrepo.New(pg)
	users := userrepo.New(pg)
	reviews := reviewrepo.New(pg)
	orders := orderrepo.New(pg)

	// Use case services
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	assistantSvc := assistantuc.New(completer, assistantuc.Profiles{
		Keywords: taskProfile(domain.TaskKeywords, cfg.Assistant.Keywords),
		Chat:     taskProfile(domain.TaskChat, cfg.Assistant.Chat),
		Describe: taskProfile(domain.TaskDescribe, cfg.Assistant.Describe),
	})

	var cachePinger healthuc.Pinger
	if cache != nil {
		cachePinger = cache
	}

	services := chiTransport.Services{
		Accounts: accountuc.New(users, auth.NewPasswords(cfg.Auth.BcryptCost), tokens),
		Gigs: giguc.New(gigs, reviews, orders, users, giguc.Rules{
			MaxGigsPerUser:        cfg.Marketplace.MaxGigsPerUser,
			PageSize:              cfg.Marketplace.PageSize,
			MaxPageSize:           cfg.Marketplace.MaxPageSize,
			ReviewPageSize:        cfg.Marketplace.ReviewPageSize,
			RandomLimit:           cfg.Marketplace.RandomLimit,
			RecentWindow:          time.Duration(cfg.Marketplace.RecentWindowDays) * 24 * time.Hour,
			RequireConfirmedEmail: cfg.Marketplace.RequireConfirmedEmail,
		}),
		Recommend: recommenduc.New(assistantSvc, gigs, users),
		Assistant: assistantSvc,
		Usage:     usageuc.New(budget, provCfg.Budget.CostPerMillionTokens),
		Health:    healthuc.New(pg,
			healthuc.WithCache(cachePinger),
			healthuc.WithAssistant(newAssistantHealthChecker(provider), healthuc.DefaultAssistantTTL),
		),
	}

	server := chiTransport.NewServer(services, tokens, version.Version, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware("/health", "/metrics"))
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// newBudgetTracker builds the single tracker shared by the instrumented
// completer and the usage report. Zero limits mean unlimited.
func newBudgetTracker(
	ctx context.Context,
	cfg config.Config,
	provCfg config.ProviderConfig,
	cache *dbRedis.Store,
	logger *zap.Logger,
) *assistantuc.BudgetTracker {
	action := assistantuc.BudgetActionWarn
	if provCfg.Budget.Action == "reject" {
		action = assistantuc.BudgetActionReject
	}
	budget := assistantuc.NewBudgetTracker(
		cfg.Assistant.Provider, cfg.Cache.KeyPrefix,
		provCfg.Budget.DailyTokenLimit, provCfg.Budget.MonthlyTokenLimit,
		action, logger,
	)
	if cache != nil {
		budget.WithStore(ctx, budgetrepo.New(cache, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL))
	}
	return budget
}

// buildProvider creates the base language model adapter.
func buildProvider(
	ctx context.Context, name string, provCfg config.ProviderConfig, logger *zap.Logger,
) (domain.Completer, error) {
	switch name {
	case "gemini":
		c, err := geminiLLM.NewCompleter(ctx, &geminiLLM.Config{
			APIKey:   provCfg.APIKey,
			Provider: name,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return c, nil
	default:
		return openaiLLM.NewCompleter(&openaiLLM.Config{
			APIKey:   provCfg.APIKey,
			BaseURL:  provCfg.BaseURL,
			Provider: name,
			Logger:   logger,
		}), nil
	}
}

// buildCompleter assembles the decorator chain: provider -> keyword cache -> instrumented.
func buildCompleter(
	provider domain.Completer,
	cfg config.Config,
	cache *dbRedis.Store,
	budget *assistantuc.BudgetTracker,
	logger *zap.Logger,
) domain.Completer {
	completer := provider
	if cache != nil {
		completer = kwcache.New(
			provider, cache, cfg.Cache.KeyPrefix,
			time.Duration(cfg.Cache.KeywordTTLSec)*time.Second,
			metrics.AssistantCacheTotal, logger,
		)
	}
	return assistantuc.NewInstrumentedCompleter(completer, cfg.Assistant.Provider, budget, logger)
}

func taskProfile(task domain.Task, tc config.TaskConfig) domain.TaskProfile {
	return domain.TaskProfile{
		Task:        task,
		Model:       tc.Model,
		MaxTokens:   tc.MaxTokens,
		Temperature: tc.Temperature,
		Cacheable:   tc.Cache,
	}
}

// assistantHealthChecker wraps domain.Completer to implement health.AssistantChecker.
type assistantHealthChecker struct {
	completer domain.Completer
}

func newAssistantHealthChecker(completer domain.Completer) *assistantHealthChecker {
	return &assistantHealthChecker{completer: completer}
}

func (h *assistantHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.completer.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("assistant health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.CodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			ctx, reqLogger := logpkg.ForRequest(r.Context(), logger, requestID)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			}
			if tokens := ww.Header().Get(metrics.AssistantTokensHeader); tokens != "" {
				fields = append(fields, zap.String("assistant_tokens", tokens))
			}
			reqLogger.Info("http_request", fields...)
		})
	}
}
