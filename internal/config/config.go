package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UniverseSource names one exchange listing endpoint.
type UniverseSource struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Config holds all application configuration.
type Config struct {
	Scan struct {
		Mode         string  `yaml:"mode"` // "simple" or "trend"
		RSIPeriod    int     `yaml:"rsi_period"`
		RSIUpper     float64 `yaml:"rsi_upper"`
		RSILower     float64 `yaml:"rsi_lower"`
		MinMarketCap float64 `yaml:"min_market_cap"`
		LookbackDays int     `yaml:"lookback_days"`
		MaxTickers   int     `yaml:"max_tickers"`
		DelayMs      int     `yaml:"delay_ms"`
		FetchIV      bool    `yaml:"fetch_iv"`
	} `yaml:"scan"`
	Universe struct {
		Sources []UniverseSource `yaml:"sources"`
	} `yaml:"universe"`
	DataSource struct {
		Provider     string `yaml:"provider"` // "yahoo" or "alpaca"
		AlpacaKey    string `yaml:"alpaca_key"`
		AlpacaSecret string `yaml:"alpaca_secret"`
	} `yaml:"data_source"`
	Report struct {
		OutputPath string `yaml:"output_path"`
	} `yaml:"report"`
	Email struct {
		SMTPHost string `yaml:"smtp_host"`
		SMTPPort int    `yaml:"smtp_port"`
	} `yaml:"email"`
	Database struct {
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresURL string `yaml:"postgres_url"`
	} `yaml:"database"`
	Cache struct {
		RedisAddr     string `yaml:"redis_addr"`
		RedisPassword string `yaml:"redis_password"`
		RedisDB       int    `yaml:"redis_db"`
		TTLHours      int    `yaml:"ttl_hours"`
	} `yaml:"cache"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"` // empty = run once and exit
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
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
	if v := os.Getenv("SCAN_MODE"); v != "" {
		cfg.Scan.Mode = v
	}
	if v := os.Getenv("MAX_TICKERS"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			cfg.Scan.MaxTickers = n
		}
	}
	if v := os.Getenv("MIN_MARKET_CAP"); v != "" {
		var f float64
		if _, err := fmt.Sscanf(v, "%f", &f); err == nil {
			cfg.Scan.MinMarketCap = f
		}
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.DataSource.AlpacaKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.DataSource.AlpacaSecret = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.PostgresURL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.Scan.Mode == "" {
		cfg.Scan.Mode = "simple"
	}
	if cfg.Scan.RSIPeriod == 0 {
		cfg.Scan.RSIPeriod = 14
	}
	if cfg.Scan.RSIUpper == 0 {
		cfg.Scan.RSIUpper = 80
	}
	if cfg.Scan.RSILower == 0 {
		cfg.Scan.RSILower = 20
	}
	// Alpaca carries no market capitalization, so every cap reads as zero
	// there; the floor only defaults for sources that report one.
	if cfg.Scan.MinMarketCap == 0 && cfg.DataSource.Provider != "alpaca" {
		cfg.Scan.MinMarketCap = 1e9
	}
	if cfg.Scan.LookbackDays == 0 {
		if cfg.Scan.Mode == "trend" {
			cfg.Scan.LookbackDays = 260 // MA200 plus holiday cushion
		} else {
			cfg.Scan.LookbackDays = 30
		}
	}
	if cfg.Scan.MaxTickers == 0 {
		cfg.Scan.MaxTickers = 10000
	}
	if cfg.Scan.DelayMs == 0 {
		cfg.Scan.DelayMs = 750
	}
	if cfg.Report.OutputPath == "" {
		cfg.Report.OutputPath = "scan_results.csv"
	}
	if cfg.Email.SMTPHost == "" {
		cfg.Email.SMTPHost = "smtp.gmail.com"
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stock_sentinel.db"
	}
	if cfg.Cache.TTLHours == 0 {
		cfg.Cache.TTLHours = 24
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Scan.Mode != "simple" && c.Scan.Mode != "trend" {
		return fmt.Errorf("scan.mode must be \"simple\" or \"trend\", got %q", c.Scan.Mode)
	}
	if c.Scan.RSIPeriod <= 0 {
		return fmt.Errorf("scan.rsi_period must be positive")
	}
	if c.Scan.RSILower >= c.Scan.RSIUpper {
		return fmt.Errorf("scan.rsi_lower must be below scan.rsi_upper")
	}
	if c.Scan.RSILower < 0 || c.Scan.RSIUpper > 100 {
		return fmt.Errorf("rsi thresholds must lie within [0,100]")
	}
	if c.Scan.Mode == "trend" && c.Scan.LookbackDays < 201 {
		return fmt.Errorf("trend mode needs scan.lookback_days >= 201 for MA200")
	}
	switch c.DataSource.Provider {
	case "yahoo":
	case "alpaca":
		if c.DataSource.AlpacaKey == "" || c.DataSource.AlpacaSecret == "" {
			return fmt.Errorf("alpaca provider requires ALPACA_API_KEY and ALPACA_API_SECRET")
		}
		if c.Scan.MinMarketCap > 0 {
			return fmt.Errorf("alpaca reports no market cap; scan.min_market_cap must be 0 with this provider")
		}
	default:
		return fmt.Errorf("data_source.provider must be \"yahoo\" or \"alpaca\", got %q", c.DataSource.Provider)
	}
	return nil
}
