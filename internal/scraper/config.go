package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every configuration knob that influences a crawl run.
// All values originate from Viper so the scraper can be configured via
// files, env vars, or CLI flags.
type Config struct {
	BaseURL        string
	UserAgent      string
	RequestTimeout time.Duration
	RespectRobots  bool
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		BaseURL:        strings.TrimRight(v.GetString("scraper.base_url"), "/"),
		UserAgent:      v.GetString("scraper.user_agent"),
		RequestTimeout: v.GetDuration("scraper.request_timeout"),
		RespectRobots:  v.GetBool("scraper.respect_robots"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("scraper.base_url must be set")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("scraper.base_url must be an http(s) URL")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("scraper.user_agent must be set")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("scraper.request_timeout must be > 0")
	}
	return nil
}
