package gigmarket

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	dsn          string
	maxOpenConns int

	redisAddrs    []string
	redisPassword string
	keyPrefix     string
	keywordTTL    time.Duration

	provider  string // "openai", "gemini" or "custom"
	apiKey    string
	baseURL   string
	completer Completer

	keywordModel      string
	dailyTokenLimit   int64
	monthlyTokenLimit int64

	pageSize    int
	randomLimit int

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		maxOpenConns: 10,
		keyPrefix:    "gigmarket:",
		keywordTTL:   24 * time.Hour,
		keywordModel: "gpt-4o-mini",
		pageSize:     12,
		randomLimit:  60,
	}
}

// WithPostgres sets the marketplace database DSN. Required.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dsn = dsn
	})
}

// WithMaxOpenConns caps the database connection pool. Default: 10.
func WithMaxOpenConns(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxOpenConns = n
	})
}

// WithRedis enables the keyword cache and persistent token budgets.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddrs = []string{addr}
		c.redisPassword = password
	})
}

// WithKeyPrefix sets the Redis key prefix. Default: "gigmarket:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithKeywordCacheTTL sets how long extracted keywords stay cached. Default: 24h.
func WithKeywordCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.keywordTTL = ttl
	})
}

// WithOpenAI uses an OpenAI-compatible chat API. An empty baseURL means api.openai.com.
func WithOpenAI(apiKey, baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "openai"
		c.apiKey = apiKey
		c.baseURL = baseURL
	})
}

// WithGemini uses Google Gemini. The keyword model switches to gemini-2.5-flash
// unless WithKeywordModel is applied afterwards.
func WithGemini(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "gemini"
		c.apiKey = apiKey
		c.keywordModel = "gemini-2.5-flash"
	})
}

// WithCompleter plugs in a custom language model.
func WithCompleter(comp Completer) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "custom"
		c.completer = comp
	})
}

// WithKeywordModel overrides the model used for keyword extraction.
func WithKeywordModel(model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keywordModel = model
	})
}

// WithTokenBudget rejects completions once the daily or monthly token limit
// is spent. Zero means unlimited.
func WithTokenBudget(daily, monthly int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.dailyTokenLimit = daily
		c.monthlyTokenLimit = monthly
	})
}

// WithPageSize sets the default search page size. Default: 12.
func WithPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
