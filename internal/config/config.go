package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"CandleSage/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken    string `yaml:"bot_token"`
		BotUsername string `yaml:"bot_username"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL     string `yaml:"base_url"`
		Timeframe   string `yaml:"timeframe"`
		CandleLimit int    `yaml:"candle_limit"`
	} `yaml:"data_source"`
	Quota struct {
		DailyLimit    int `yaml:"daily_limit"`
		ReferralBonus int `yaml:"referral_bonus"`
	} `yaml:"quota"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Cache struct {
		Backend       string `yaml:"backend"` // "memory" or "redis"
		RedisAddr     string `yaml:"redis_addr"`
		RedisPassword string `yaml:"redis_password"`
		RedisDB       int    `yaml:"redis_db"`
		TTL           string `yaml:"ttl"` // Go duration string, e.g. "5m"
	} `yaml:"cache"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Engine struct {
		RSIPeriod             int     `yaml:"rsi_period"`
		MACDFast              int     `yaml:"macd_fast"`
		MACDSlow              int     `yaml:"macd_slow"`
		MACDSignal            int     `yaml:"macd_signal"`
		SMAShort              int     `yaml:"sma_short"`
		SMALong               int     `yaml:"sma_long"`
		EMAShort              int     `yaml:"ema_short"`
		EMALong               int     `yaml:"ema_long"`
		ATRPeriod             int     `yaml:"atr_period"`
		LevelWindow           int     `yaml:"level_window"`
		LevelClusterTolerance float64 `yaml:"level_cluster_tolerance"`
		MaxLevelsPerKind      int     `yaml:"max_levels_per_kind"`
		VolatilityHigh        float64 `yaml:"volatility_high_threshold"`
		VolatilityMedium      float64 `yaml:"volatility_medium_threshold"`
		MissingPenalty        float64 `yaml:"confidence_penalty_per_missing_indicator"`
	} `yaml:"engine"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_BOT_USERNAME"); v != "" {
		cfg.Telegram.BotUsername = v
	}
	if v := os.Getenv("BINANCE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DAILY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Quota.DailyLimit = n
		}
	}
	if v := os.Getenv("REFERRAL_BONUS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Quota.ReferralBonus = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.Backend = "redis"
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Cache.RedisPassword = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.DataSource.Timeframe == "" {
		cfg.DataSource.Timeframe = "1h"
	}
	if cfg.DataSource.CandleLimit == 0 {
		cfg.DataSource.CandleLimit = 200
	}
	if cfg.Quota.DailyLimit == 0 {
		cfg.Quota.DailyLimit = 10
	}
	if cfg.Quota.ReferralBonus == 0 {
		cfg.Quota.ReferralBonus = 5
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/candlesage.db"
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.TTL == "" {
		cfg.Cache.TTL = "5m"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	defaults := model.DefaultParams()
	if cfg.Engine.RSIPeriod == 0 {
		cfg.Engine.RSIPeriod = defaults.RSIPeriod
	}
	if cfg.Engine.MACDFast == 0 {
		cfg.Engine.MACDFast = defaults.MACDFast
	}
	if cfg.Engine.MACDSlow == 0 {
		cfg.Engine.MACDSlow = defaults.MACDSlow
	}
	if cfg.Engine.MACDSignal == 0 {
		cfg.Engine.MACDSignal = defaults.MACDSignal
	}
	if cfg.Engine.SMAShort == 0 {
		cfg.Engine.SMAShort = defaults.SMAShort
	}
	if cfg.Engine.SMALong == 0 {
		cfg.Engine.SMALong = defaults.SMALong
	}
	if cfg.Engine.EMAShort == 0 {
		cfg.Engine.EMAShort = defaults.EMAShort
	}
	if cfg.Engine.EMALong == 0 {
		cfg.Engine.EMALong = defaults.EMALong
	}
	if cfg.Engine.ATRPeriod == 0 {
		cfg.Engine.ATRPeriod = defaults.ATRPeriod
	}
	if cfg.Engine.LevelWindow == 0 {
		cfg.Engine.LevelWindow = defaults.LevelWindow
	}
	if cfg.Engine.LevelClusterTolerance == 0 {
		cfg.Engine.LevelClusterTolerance = defaults.LevelClusterTolerance
	}
	if cfg.Engine.MaxLevelsPerKind == 0 {
		cfg.Engine.MaxLevelsPerKind = defaults.MaxLevelsPerKind
	}
	if cfg.Engine.VolatilityHigh == 0 {
		cfg.Engine.VolatilityHigh = defaults.VolatilityHighThreshold
	}
	if cfg.Engine.VolatilityMedium == 0 {
		cfg.Engine.VolatilityMedium = defaults.VolatilityMediumThreshold
	}
	if cfg.Engine.MissingPenalty == 0 {
		cfg.Engine.MissingPenalty = defaults.ConfidencePenaltyPerMissingIndicator
	}

	return cfg, nil
}

// CacheTTL parses the configured cache TTL.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// EngineParams maps the engine section to model.Params.
func (c *Config) EngineParams() model.Params {
	return model.Params{
		RSIPeriod:  c.Engine.RSIPeriod,
		MACDFast:   c.Engine.MACDFast,
		MACDSlow:   c.Engine.MACDSlow,
		MACDSignal: c.Engine.MACDSignal,
		SMAShort:   c.Engine.SMAShort,
		SMALong:    c.Engine.SMALong,
		EMAShort:   c.Engine.EMAShort,
		EMALong:    c.Engine.EMALong,
		ATRPeriod:  c.Engine.ATRPeriod,

		LevelWindow:           c.Engine.LevelWindow,
		LevelClusterTolerance: c.Engine.LevelClusterTolerance,
		MaxLevelsPerKind:      c.Engine.MaxLevelsPerKind,

		VolatilityHighThreshold:   c.Engine.VolatilityHigh,
		VolatilityMediumThreshold: c.Engine.VolatilityMedium,

		ConfidencePenaltyPerMissingIndicator: c.Engine.MissingPenalty,
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.BotUsername == "" {
		return fmt.Errorf("telegram.bot_username is required")
	}
	if c.Quota.DailyLimit <= 0 {
		return fmt.Errorf("quota.daily_limit must be positive")
	}
	if c.Quota.ReferralBonus < 0 {
		return fmt.Errorf("quota.referral_bonus must not be negative")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be \"memory\" or \"redis\", got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return fmt.Errorf("cache.redis_addr is required for the redis backend")
	}
	if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
		return fmt.Errorf("cache.ttl is not a valid duration: %w", err)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid port, got %d", c.Server.Port)
	}
	return c.EngineParams().Validate()
}
