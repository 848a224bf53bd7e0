package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	NATS       NATSConfig
	Redis      RedisConfig
	LLM        LLMConfig
	Automation AutomationConfig
	App        AppConfig
}

type NATSConfig struct {
	URL           string
	MaxReconnects int `mapstructure:"max_reconnects"`
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int `mapstructure:"pool_size"`
}

type LLMConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string
	TimeoutMs int `mapstructure:"timeout_ms"`
}

type AutomationConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	APIKey    string `mapstructure:"api_key"`
	TimeoutMs int    `mapstructure:"timeout_ms"`
}

type AppConfig struct {
	Port           string
	WorkerID       string `mapstructure:"worker_id"`
	PhaseTimeoutMs int    `mapstructure:"phase_timeout_ms"`
}

// PhaseTimeout as duration; defaults are applied in Load.
func (a AppConfig) PhaseTimeout() time.Duration {
	return time.Duration(a.PhaseTimeoutMs) * time.Millisecond
}

func Load() (*Config, error) {
	viper.SetDefault("nats.url", "")
	viper.SetDefault("nats.max_reconnects", 10)

	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)

	viper.SetDefault("llm.api_key", "")
	viper.SetDefault("llm.base_url", "https://api.openai.com/v1")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.timeout_ms", 60000)

	viper.SetDefault("automation.base_url", "")
	viper.SetDefault("automation.api_key", "")
	viper.SetDefault("automation.timeout_ms", 15000)

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.worker_id", "worker-1")
	viper.SetDefault("app.phase_timeout_ms", 30000)

	viper.SetEnvPrefix("NEXUS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("nats.url")
	_ = viper.BindEnv("nats.max_reconnects")
	_ = viper.BindEnv("redis.addr")
	_ = viper.BindEnv("redis.password")
	_ = viper.BindEnv("redis.db")
	_ = viper.BindEnv("redis.pool_size")
	_ = viper.BindEnv("llm.api_key")
	_ = viper.BindEnv("llm.base_url")
	_ = viper.BindEnv("llm.model")
	_ = viper.BindEnv("llm.timeout_ms")
	_ = viper.BindEnv("automation.base_url")
	_ = viper.BindEnv("automation.api_key")
	_ = viper.BindEnv("automation.timeout_ms")
	_ = viper.BindEnv("app.port")
	_ = viper.BindEnv("app.worker_id")
	_ = viper.BindEnv("app.phase_timeout_ms")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
