package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"GasSentinel/internal/optimizer"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Data struct {
		ReadingsPath string `yaml:"readings_path"`
		LevelsPath   string `yaml:"levels_path"`
	} `yaml:"data"`
	Schedule struct {
		WeeklyCron string `yaml:"weekly_cron"`
		DailyCron  string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Forecast struct {
		Horizon int      `yaml:"horizon"`
		Rooms   []string `yaml:"rooms"`
	} `yaml:"forecast"`
	Costs struct {
		Stockout      string `yaml:"stockout"`
		RentalPerDay  string `yaml:"rental_per_day"`
		RentalDays    int    `yaml:"rental_days"`
		UnitPrice     string `yaml:"unit_price"`
		BatchDiscount string `yaml:"batch_discount"`
	} `yaml:"costs"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`
	API struct {
		Addr     string        `yaml:"addr"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"api"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
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
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("READINGS_PATH"); v != "" {
		cfg.Data.ReadingsPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("API_ADDR"); v != "" {
		cfg.API.Addr = v
	}
	if v := os.Getenv("CRON_WEEKLY"); v != "" {
		cfg.Schedule.WeeklyCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("FORECAST_HORIZON"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Forecast.Horizon = n
		}
	}

	// Defaults
	if cfg.Schedule.WeeklyCron == "" {
		cfg.Schedule.WeeklyCron = "0 0 7 * * 1"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 8 * * 1-5"
	}
	if cfg.Forecast.Horizon == 0 {
		cfg.Forecast.Horizon = 7
	}
	if cfg.Costs.Stockout == "" {
		cfg.Costs.Stockout = "1000"
	}
	if cfg.Costs.RentalPerDay == "" {
		cfg.Costs.RentalPerDay = "0.09"
	}
	if cfg.Costs.RentalDays == 0 {
		cfg.Costs.RentalDays = 14
	}
	if cfg.Costs.UnitPrice == "" {
		cfg.Costs.UnitPrice = "50"
	}
	if cfg.Costs.BatchDiscount == "" {
		cfg.Costs.BatchDiscount = "0.10"
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "data/output"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/gas_sentinel.db"
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "gas.actions"
	}
	if cfg.API.Addr == "" {
		cfg.API.Addr = ":8080"
	}
	if cfg.API.CacheTTL == 0 {
		cfg.API.CacheTTL = 10 * time.Minute
	}

	return cfg, nil
}

// Validate checks the fields the daemon cannot run without.
// Telegram is optional; without it messages are only logged.
func (c *Config) Validate() error {
	if c.Data.ReadingsPath == "" {
		return fmt.Errorf("data.readings_path is required")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Forecast.Horizon < 1 {
		return fmt.Errorf("forecast.horizon must be positive")
	}
	if c.Costs.RentalDays < 0 {
		return fmt.Errorf("costs.rental_days must not be negative")
	}
	if _, err := c.OptimizerCosts(); err != nil {
		return err
	}
	return nil
}

// OptimizerCosts converts the costs section into the optimizer's cost model.
func (c *Config) OptimizerCosts() (optimizer.Costs, error) {
	var costs optimizer.Costs
	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"costs.stockout", c.Costs.Stockout, &costs.StockoutCost},
		{"costs.rental_per_day", c.Costs.RentalPerDay, &costs.RentalPerDay},
		{"costs.unit_price", c.Costs.UnitPrice, &costs.UnitPrice},
		{"costs.batch_discount", c.Costs.BatchDiscount, &costs.BatchDiscount},
	}
	for _, f := range fields {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return optimizer.Costs{}, fmt.Errorf("%s: %w", f.name, err)
		}
		if d.IsNegative() {
			return optimizer.Costs{}, fmt.Errorf("%s must not be negative", f.name)
		}
		*f.dst = d
	}
	costs.RentalDaysAvoided = c.Costs.RentalDays
	return costs, nil
}

// RentalPerDay returns the daily rental rate as a float for the problem analyzer.
func (c *Config) RentalPerDay() float64 {
	d, err := decimal.NewFromString(c.Costs.RentalPerDay)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
