package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// App is the process configuration: optional YAML file (WIZARD_CONFIG)
// overridden by env vars, then defaults.
type App struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	API struct {
		BaseURL   string        `yaml:"base_url"`
		CSRFToken string        `yaml:"csrf_token"`
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"user_agent"`
	} `yaml:"api"`

	Auth struct {
		JWTSecret string   `yaml:"jwt_secret"`
		Issuer    string   `yaml:"issuer"`
		Audience  string   `yaml:"audience"`
		Roles     []string `yaml:"roles"`
		Origins   []string `yaml:"allowed_origins"`
	} `yaml:"auth"`

	Wizard struct {
		BannerDelay time.Duration `yaml:"banner_delay"`
		CVBanner    time.Duration `yaml:"cv_banner"`
		OpenURL     time.Duration `yaml:"open_url_delay"`
		Recheck     time.Duration `yaml:"recheck_delay"`
		IdleTTL     time.Duration `yaml:"idle_ttl"`
		SweepEvery  time.Duration `yaml:"sweep_every"`
	} `yaml:"wizard"`

	Stores struct {
		PostgresURI string        `yaml:"postgres_uri"`
		MongoURI    string        `yaml:"mongo_uri"`
		MongoDB     string        `yaml:"mongo_db"`
		RedisAddr   string        `yaml:"redis_addr"`
		ActivityTTL time.Duration `yaml:"activity_ttl"`
		DraftTTL    time.Duration `yaml:"draft_ttl"`
		MajorsTTL   time.Duration `yaml:"majors_ttl"`
	} `yaml:"stores"`
}

// Load reads .env, the YAML file named by WIZARD_CONFIG (if any) and the
// environment.
func Load() (*App, error) {
	_ = godotenv.Load()

	cfg := &App{}
	if path := os.Getenv("WIZARD_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, cfg.validate()
}

func (c *App) applyEnv() error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}
	dur := func(dst *time.Duration, key string) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str(&c.Port, "PORT")
	str(&c.LogLevel, "LOG_LEVEL")
	str(&c.API.BaseURL, "CANDIDATE_API_URL")
	str(&c.API.CSRFToken, "CANDIDATE_API_CSRF_TOKEN")
	str(&c.API.UserAgent, "CANDIDATE_API_USER_AGENT")
	str(&c.Auth.JWTSecret, "JWT_SECRET")
	str(&c.Auth.Issuer, "JWT_ISSUER")
	str(&c.Auth.Audience, "JWT_AUDIENCE")
	str(&c.Stores.PostgresURI, "POSTGRES_URI")
	str(&c.Stores.MongoURI, "MONGO_URI")
	str(&c.Stores.MongoDB, "MONGO_DB")
	str(&c.Stores.RedisAddr, "REDIS_ADDR", "REDIS_URI", "REDIS_URL")
	if v := os.Getenv("WIZARD_ROLES"); v != "" {
		c.Auth.Roles = splitList(v)
	}
	if v := os.Getenv("WIZARD_ALLOWED_ORIGINS"); v != "" {
		c.Auth.Origins = splitList(v)
	}

	return errors.Join(
		dur(&c.API.Timeout, "CANDIDATE_API_TIMEOUT"),
		dur(&c.Wizard.BannerDelay, "WIZARD_BANNER_DELAY"),
		dur(&c.Wizard.IdleTTL, "WIZARD_IDLE_TTL"),
		dur(&c.Stores.ActivityTTL, "ACTIVITY_TTL"),
		dur(&c.Stores.DraftTTL, "DRAFT_TTL"),
	)
}

func (c *App) applyDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = 15 * time.Second
	}
	if len(c.Auth.Roles) == 0 {
		c.Auth.Roles = []string{"candidate"}
	}
	if c.Wizard.BannerDelay <= 0 {
		c.Wizard.BannerDelay = 3 * time.Second
	}
	if c.Wizard.CVBanner <= 0 {
		c.Wizard.CVBanner = 5 * time.Second
	}
	if c.Wizard.OpenURL <= 0 {
		c.Wizard.OpenURL = time.Second
	}
	if c.Wizard.Recheck <= 0 {
		c.Wizard.Recheck = 2 * time.Second
	}
	if c.Wizard.IdleTTL <= 0 {
		c.Wizard.IdleTTL = 30 * time.Minute
	}
	if c.Wizard.SweepEvery <= 0 {
		c.Wizard.SweepEvery = time.Minute
	}
	if c.Stores.MongoDB == "" {
		c.Stores.MongoDB = "erecruitment"
	}
	if c.Stores.ActivityTTL <= 0 {
		c.Stores.ActivityTTL = 7 * 24 * time.Hour
	}
	if c.Stores.DraftTTL <= 0 {
		c.Stores.DraftTTL = 30 * 24 * time.Hour
	}
	if c.Stores.MajorsTTL <= 0 {
		c.Stores.MajorsTTL = time.Hour
	}
}

func (c *App) validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("CANDIDATE_API_URL is required")
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

// parseDuration accepts Go durations ("3s") and bare milliseconds ("3000").
func parseDuration(v string) (time.Duration, error) {
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(v)
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
