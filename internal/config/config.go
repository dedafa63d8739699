package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the gigmarket API configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Cache       CacheConfig       `yaml:"cache"`
	Assistant   AssistantConfig   `yaml:"assistant"`
	Auth        AuthConfig        `yaml:"auth"`
	Marketplace MarketplaceConfig `yaml:"marketplace"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: determined by env)
	Format string `yaml:"format"` // json or console (default: json in prod, console elsewhere)
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
	BcryptCost    int    `yaml:"bcrypt_cost"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN                string `yaml:"dsn"`
	MaxOpenConns       int    `yaml:"max_open_conns"`
	MaxIdleConns       int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeSec int    `yaml:"conn_max_lifetime_sec"`
	SlowQueryMs        int    `yaml:"slow_query_ms"`
	ReadinessTimeout   int    `yaml:"readiness_timeout_sec"`
	AutoMigrate        bool   `yaml:"auto_migrate"`
}

// CacheConfig holds Redis settings. Empty Addrs disables the cache.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	KeywordTTLSec    int      `yaml:"keyword_ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether a Redis cache is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// AssistantConfig holds language model settings.
type AssistantConfig struct {
	Provider  string                    `yaml:"provider"` // openai (default) | gemini
	Providers map[string]ProviderConfig `yaml:"providers"`
	Keywords  TaskConfig                `yaml:"keywords"`
	Chat      TaskConfig                `yaml:"chat"`
	Describe  TaskConfig                `yaml:"describe"`
}

// Active returns the settings of the selected provider.
func (c AssistantConfig) Active() ProviderConfig {
	return c.Providers[c.Provider]
}

// TaskConfig describes the model call used for one assistant task.
type TaskConfig struct {
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
	Cache       bool    `yaml:"cache"`
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit      int64   `yaml:"daily_token_limit"`       // 0 = unlimited
	MonthlyTokenLimit    int64   `yaml:"monthly_token_limit"`     // 0 = unlimited
	CostPerMillionTokens float64 `yaml:"cost_per_million_tokens"` // dashboards only
	Action               string  `yaml:"action"`                  // "reject" | "warn" (default)
}

// ProviderConfig holds language model provider settings.
type ProviderConfig struct {
	APIKey  string       `yaml:"api_key"`
	BaseURL string       `yaml:"base_url"`
	Budget  BudgetConfig `yaml:"budget"`
}

// MarketplaceConfig holds listing rules and pagination settings.
type MarketplaceConfig struct {
	MaxGigsPerUser        int  `yaml:"max_gigs_per_user"`
	PageSize              int  `yaml:"page_size"`
	MaxPageSize           int  `yaml:"max_page_size"`
	ReviewPageSize        int  `yaml:"review_page_size"`
	RandomLimit           int  `yaml:"random_limit"`
	RecentWindowDays      int  `yaml:"recent_window_days"`
	RequireConfirmedEmail bool `yaml:"require_confirmed_email"`
}

// PathEnv names an explicit config file, overriding the lookup by environment.
const PathEnv = "GIGMARKET_CONFIG"

// Load reads config/<env>.yaml (or the file named by PathEnv), expands
// environment references, applies defaults and validates the result.
func Load(env string) (Config, error) {
	path := os.Getenv(PathEnv)
	if path == "" {
		path = findConfigPath(env)
	}

	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	data, err := expandEnvVars(raw)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetimeSec <= 0 {
		c.Database.ConnMaxLifetimeSec = 1800
	}
	if c.Database.SlowQueryMs <= 0 {
		c.Database.SlowQueryMs = 200
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	c.Cache.Addrs = nonBlank(c.Cache.Addrs)
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "gigmarket:"
	}
	if c.Cache.KeywordTTLSec <= 0 {
		c.Cache.KeywordTTLSec = 86400
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	c.applyAssistantDefaults()
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = 24
	}
	if c.Marketplace.MaxGigsPerUser <= 0 {
		c.Marketplace.MaxGigsPerUser = 5
	}
	if c.Marketplace.PageSize <= 0 {
		c.Marketplace.PageSize = 12
	}
	if c.Marketplace.MaxPageSize <= 0 {
		c.Marketplace.MaxPageSize = 100
	}
	if c.Marketplace.ReviewPageSize <= 0 {
		c.Marketplace.ReviewPageSize = 5
	}
	if c.Marketplace.RandomLimit <= 0 {
		c.Marketplace.RandomLimit = 60
	}
	if c.Marketplace.RecentWindowDays <= 0 {
		c.Marketplace.RecentWindowDays = 30
	}
}

func (c *Config) applyAssistantDefaults() {
	a := &c.Assistant
	if a.Provider == "" {
		a.Provider = "openai"
	}
	keywordModel, chatModel := "gpt-4o-mini", "gpt-3.5-turbo"
	if a.Provider == "gemini" {
		keywordModel, chatModel = "gemini-2.5-flash", "gemini-2.5-flash"
	}
	applyTask(&a.Keywords, keywordModel, 50)
	applyTask(&a.Chat, chatModel, 100)
	applyTask(&a.Describe, chatModel, 150)
}

func applyTask(t *TaskConfig, model string, maxTokens int) {
	if t.Model == "" {
		t.Model = model
	}
	if t.MaxTokens <= 0 {
		t.MaxTokens = maxTokens
	}
	if t.Temperature == 0 {
		t.Temperature = 0.7
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be \"json\" or \"console\", got %q", c.Logging.Format)
	}
	switch c.Assistant.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("assistant.provider must be \"openai\" or \"gemini\", got %q", c.Assistant.Provider)
	}
	if _, ok := c.Assistant.Providers[c.Assistant.Provider]; !ok {
		return fmt.Errorf("assistant.providers.%s is required", c.Assistant.Provider)
	}
	for name, p := range c.Assistant.Providers {
		switch p.Budget.Action {
		case "", "warn", "reject":
			// ok
		default:
			return fmt.Errorf(
				"assistant.providers.%s.budget.action must be \"warn\" or \"reject\", got %q",
				name, p.Budget.Action,
			)
		}
	}
	return nil
}

// nonBlank drops empty entries left by unset ${VAR} references.
func nonBlank(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// findConfigPath prefers ./config and falls back to the config directory
// of the source tree, so tests run from any package directory.
func findConfigPath(env string) string {
	name := env + ".yaml"
	local := filepath.Join("config", name)
	if fileExists(local) {
		return local
	}
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Dir(filepath.Dir(filepath.Dir(file)))
	if p := filepath.Join(root, "config", name); fileExists(p) {
		return p
	}
	return local
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// envRef matches ${VAR}, ${VAR:-default} and ${VAR:?hint}.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// expandEnvVars substitutes environment references. An unset ${VAR:?hint}
// is an error naming every such variable.
func expandEnvVars(data []byte) ([]byte, error) {
	var missing []string
	out := envRef.ReplaceAllFunc(data, func(match []byte) []byte {
		m := envRef.FindSubmatch(match)
		name, op, arg := string(m[1]), string(m[2]), string(m[3])
		val := os.Getenv(name)
		switch {
		case val != "":
		case op == ":-":
			val = arg
		case op == ":?":
			missing = append(missing, fmt.Sprintf("%s (%s)", name, arg))
		}
		return []byte(val)
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return out, nil
}
