package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Intent engine specifics
	LLM       LLMConfig
	Detection DetectionConfig
	RateLimit RateLimitConfig
	Language  LanguageConfig
	Semantic  SemanticConfig
	API       APIConfig

	// Admin-configured intents
	Intents IntentsConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// LLMConfig holds the multi-provider fallback chain configuration.
type LLMConfig struct {
	Providers   []ProviderConfig `yaml:"providers"`
	ChatTimeout string           `yaml:"chat_timeout"`
}

// ProviderConfig describes a single AI provider in the chain.
// Priority is ascending: lower values are tried first.
type ProviderConfig struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Type      string `yaml:"type"` // groq, openai-compatible, ollama
	Enabled   bool   `yaml:"enabled"`
	Priority  int    `yaml:"priority"`
	APIKey    string `yaml:"api_key"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Model     string `yaml:"model"`
	Smart     bool   `yaml:"smart"`
}

// TierConfig controls one stage of the classification cascade.
type TierConfig struct {
	Enabled         bool    `yaml:"enabled"`
	ContextMessages int     `yaml:"context_messages"`
	Threshold       float64 `yaml:"threshold"`
}

// DetectionConfig holds the cascade tiers plus per-intent overrides.
type DetectionConfig struct {
	Tier1 TierConfig `yaml:"tier1"`
	Tier2 TierConfig `yaml:"tier2"`
	Tier3 TierConfig `yaml:"tier3"`
	Tier4 TierConfig `yaml:"tier4"`

	// Per-intent overrides, keyed by intent name.
	MinConfidence map[string]float64 `yaml:"min_confidence"`
	T2Threshold   map[string]float64 `yaml:"t2_threshold"`
	T3Threshold   map[string]float64 `yaml:"t3_threshold"`

	// Explicit smart-fallback provider allow-list. Empty means
	// "every provider with priority <= 1".
	SmartProviders []string `yaml:"smart_providers"`

	// Confidence bar below which the smart fallback re-runs Tier4.
	SmartFallbackBelow float64 `yaml:"smart_fallback_below"`
}

// RateLimitConfig tunes the per-provider cooldown bookkeeping.
type RateLimitConfig struct {
	BaseDelay         string `yaml:"base_delay"`
	MaxDelay          string `yaml:"max_delay"`
	ResetSuccessCount int    `yaml:"reset_success_count"`
	NotifyAfterErrors int    `yaml:"notify_after_errors"`
}

type LanguageConfig struct {
	MinLength int `yaml:"min_length"`
}

// SemanticConfig wires the embedding-search tier.
type SemanticConfig struct {
	QdrantURL    string `yaml:"qdrant_url"`
	QdrantAPIKey string `yaml:"qdrant_api_key"`
	Collection   string `yaml:"collection"`
	VectorSize   int    `yaml:"vector_size"`
	EmbedAPIKey  string `yaml:"embed_api_key"`
	EmbedBaseURL string `yaml:"embed_base_url"`
	EmbedModel   string `yaml:"embed_model"`
}

// APIConfig guards the HTTP surface.
type APIConfig struct {
	RateLimitPerMin int `yaml:"rate_limit_per_min"`
}

// IntentsConfig is the admin-configured intent universe.
type IntentsConfig struct {
	// Keyword sets fed to the fuzzy matcher.
	Keywords []KeywordSet `yaml:"keywords"`
	// Extra routable intents that carry no keywords (LLM-only intents).
	Routing []string `yaml:"routing"`
	// Labelled utterances seeded into the semantic tier's example store.
	Examples []ExampleSet `yaml:"examples"`
}

// ExampleSet is one intent's example utterances for semantic search.
type ExampleSet struct {
	Intent   string   `yaml:"intent"`
	Language string   `yaml:"language,omitempty"`
	Texts    []string `yaml:"texts"`
}

// KeywordSet is one intent's trigger keywords.
type KeywordSet struct {
	Intent   string   `yaml:"intent"`
	Language string   `yaml:"language,omitempty"`
	Keywords []string `yaml:"keywords"`
}

// RoutingIntents returns the full set of valid intent names: every keyword
// intent plus every declared routing-only intent.
func (c *Config) RoutingIntents() []string {
	seen := make(map[string]bool)
	var out []string
	for _, ks := range c.Intents.Keywords {
		if !seen[ks.Intent] {
			seen[ks.Intent] = true
			out = append(out, ks.Intent)
		}
	}
	for _, name := range c.Intents.Routing {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// LLM provider chain
	cfg.LLM.ChatTimeout = viper.GetString("llm.chat_timeout")
	if viper.IsSet("llm.providers") {
		providersRaw := viper.Get("llm.providers")
		if providersList, ok := providersRaw.([]interface{}); ok {
			for _, p := range providersList {
				if providerMap, ok := p.(map[string]interface{}); ok {
					provider := ProviderConfig{
						ID:        getStringFromMap(providerMap, "id"),
						Name:      getStringFromMap(providerMap, "name"),
						Type:      getStringFromMap(providerMap, "type"),
						Enabled:   getBoolFromMap(providerMap, "enabled"),
						Priority:  getIntFromMap(providerMap, "priority"),
						APIKey:    expandEnvVar(getStringFromMap(providerMap, "api_key")),
						APIKeyEnv: getStringFromMap(providerMap, "api_key_env"),
						BaseURL:   getStringFromMap(providerMap, "base_url"),
						Model:     getStringFromMap(providerMap, "model"),
						Smart:     getBoolFromMap(providerMap, "smart"),
					}
					if provider.ID == "" {
						provider.ID = provider.Name
					}
					cfg.LLM.Providers = append(cfg.LLM.Providers, provider)
				}
			}
		}
	}

	// Detection cascade
	cfg.Detection.Tier1 = loadTier("detection.tier1")
	cfg.Detection.Tier2 = loadTier("detection.tier2")
	cfg.Detection.Tier3 = loadTier("detection.tier3")
	cfg.Detection.Tier4 = loadTier("detection.tier4")
	cfg.Detection.MinConfidence = loadFloatMap("detection.min_confidence")
	cfg.Detection.T2Threshold = loadFloatMap("detection.t2_threshold")
	cfg.Detection.T3Threshold = loadFloatMap("detection.t3_threshold")
	cfg.Detection.SmartProviders = viper.GetStringSlice("detection.smart_providers")
	cfg.Detection.SmartFallbackBelow = viper.GetFloat64("detection.smart_fallback_below")

	// Provider cooldowns
	cfg.RateLimit.BaseDelay = viper.GetString("rate_limit.base_delay")
	cfg.RateLimit.MaxDelay = viper.GetString("rate_limit.max_delay")
	cfg.RateLimit.ResetSuccessCount = viper.GetInt("rate_limit.reset_success_count")
	cfg.RateLimit.NotifyAfterErrors = viper.GetInt("rate_limit.notify_after_errors")

	// Language routing
	cfg.Language.MinLength = viper.GetInt("language.min_length")

	// Semantic tier
	cfg.Semantic.QdrantURL = viper.GetString("semantic.qdrant_url")
	cfg.Semantic.QdrantAPIKey = expandEnvVar(viper.GetString("semantic.qdrant_api_key"))
	cfg.Semantic.Collection = viper.GetString("semantic.collection")
	cfg.Semantic.VectorSize = viper.GetInt("semantic.vector_size")
	cfg.Semantic.EmbedAPIKey = expandEnvVar(viper.GetString("semantic.embed_api_key"))
	cfg.Semantic.EmbedBaseURL = viper.GetString("semantic.embed_base_url")
	cfg.Semantic.EmbedModel = viper.GetString("semantic.embed_model")

	// HTTP API
	cfg.API.RateLimitPerMin = viper.GetInt("api.rate_limit_per_min")

	// Intents
	if viper.IsSet("intents.keywords") {
		keywordsRaw := viper.Get("intents.keywords")
		if keywordsList, ok := keywordsRaw.([]interface{}); ok {
			for _, k := range keywordsList {
				if keywordMap, ok := k.(map[string]interface{}); ok {
					set := KeywordSet{
						Intent:   getStringFromMap(keywordMap, "intent"),
						Language: getStringFromMap(keywordMap, "language"),
					}
					if words, ok := keywordMap["keywords"].([]interface{}); ok {
						for _, w := range words {
							if s, ok := w.(string); ok {
								set.Keywords = append(set.Keywords, s)
							}
						}
					}
					cfg.Intents.Keywords = append(cfg.Intents.Keywords, set)
				}
			}
		}
	}
	cfg.Intents.Routing = viper.GetStringSlice("intents.routing")
	if viper.IsSet("intents.examples") {
		examplesRaw := viper.Get("intents.examples")
		if examplesList, ok := examplesRaw.([]interface{}); ok {
			for _, e := range examplesList {
				if exampleMap, ok := e.(map[string]interface{}); ok {
					set := ExampleSet{
						Intent:   getStringFromMap(exampleMap, "intent"),
						Language: getStringFromMap(exampleMap, "language"),
					}
					if texts, ok := exampleMap["texts"].([]interface{}); ok {
						for _, t := range texts {
							if s, ok := t.(string); ok {
								set.Texts = append(set.Texts, s)
							}
						}
					}
					cfg.Intents.Examples = append(cfg.Intents.Examples, set)
				}
			}
		}
	}

	return cfg, nil
}

func loadTier(key string) TierConfig {
	return TierConfig{
		Enabled:         viper.GetBool(key + ".enabled"),
		ContextMessages: viper.GetInt(key + ".context_messages"),
		Threshold:       viper.GetFloat64(key + ".threshold"),
	}
}

func loadFloatMap(key string) map[string]float64 {
	out := make(map[string]float64)
	for name, v := range viper.GetStringMap(key) {
		switch n := v.(type) {
		case float64:
			out[name] = n
		case int:
			out[name] = float64(n)
		}
	}
	return out
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	// LLM defaults
	viper.SetDefault("llm.chat_timeout", "15s")

	// Cascade defaults: every tier on, thresholds matching the original
	// production tuning.
	viper.SetDefault("detection.tier1.enabled", true)
	viper.SetDefault("detection.tier1.context_messages", 0)
	viper.SetDefault("detection.tier1.threshold", 0.9)
	viper.SetDefault("detection.tier2.enabled", true)
	viper.SetDefault("detection.tier2.context_messages", 3)
	viper.SetDefault("detection.tier2.threshold", 0.8)
	viper.SetDefault("detection.tier3.enabled", true)
	viper.SetDefault("detection.tier3.context_messages", 3)
	viper.SetDefault("detection.tier3.threshold", 0.75)
	viper.SetDefault("detection.tier4.enabled", true)
	viper.SetDefault("detection.tier4.context_messages", 5)
	viper.SetDefault("detection.tier4.threshold", 0.0)
	viper.SetDefault("detection.smart_fallback_below", 0.6)

	// Cooldown defaults
	viper.SetDefault("rate_limit.base_delay", "1s")
	viper.SetDefault("rate_limit.max_delay", "5m")
	viper.SetDefault("rate_limit.reset_success_count", 3)
	viper.SetDefault("rate_limit.notify_after_errors", 5)

	viper.SetDefault("language.min_length", 3)

	viper.SetDefault("semantic.collection", "intent_examples")
	viper.SetDefault("semantic.vector_size", 1536)
	viper.SetDefault("semantic.embed_model", "text-embedding-3-small")

	viper.SetDefault("api.rate_limit_per_min", 120)
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		// Try viper first (handles both env and config)
		if v := viper.GetString(envVar); v != "" {
			return v
		}
		return os.Getenv(envVar)
	}

	return value
}

func getStringFromMap(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
