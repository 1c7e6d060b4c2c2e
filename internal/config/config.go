// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go-ma-automation/internal/filter"
)

// Hard ceilings on the configurable caps.
const (
	maxDailyLimit  = 50
	maxWeeklyLimit = 200
)

type SMTPConfig struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     int    `yaml:"port" env:"SMTP_PORT"`
	Username string `yaml:"username" env:"SMTP_USERNAME"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"FROM_EMAIL"`
}

type TelegramConfig struct {
	Token  string `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
	ChatID int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
}

type Config struct {
	// Geographic targeting
	TargetLocation    string `yaml:"target_location"`
	SearchRadiusMiles int    `yaml:"search_radius_miles"`

	// Application limits
	DailyApplicationLimit  int `yaml:"daily_application_limit"`
	WeeklyApplicationLimit int `yaml:"weekly_application_limit"`

	// Scoring
	MinMARelevanceScore float64             `yaml:"min_ma_relevance_score"`
	ListingAcceptScore  float64             `yaml:"listing_accept_score"`
	MAKeywords          []string            `yaml:"ma_keywords"`
	TargetCompanies     map[string][]string `yaml:"target_companies"`
	KeywordSets         filter.KeywordSets  `yaml:"keyword_sets"`
	Geography           filter.Geography    `yaml:"geography"`

	// Submission pacing
	SubmissionDelaySeconds int `yaml:"submission_delay_seconds"`

	// Follow-up
	EmailFollowUp bool       `yaml:"email_follow_up"`
	FollowUpEmail string     `yaml:"follow_up_email"`
	SMTP          SMTPConfig `yaml:"smtp"`

	// Notifications
	Telegram TelegramConfig `yaml:"telegram"`

	// Paths
	DatabasePath string `yaml:"database_path"`
	OutputDir    string `yaml:"output_dir"`
}

func defaults() *Config {
	return &Config{
		TargetLocation:         "Rockville Centre, NY",
		SearchRadiusMiles:      25,
		DailyApplicationLimit:  15,
		WeeklyApplicationLimit: 75,
		MinMARelevanceScore:    70,
		ListingAcceptScore:     60,
		MAKeywords: []string{
			"M&A", "Mergers and Acquisitions", "Investment Banking",
			"Corporate Finance", "Private Equity", "Deal Advisory",
			"Transaction Services", "Business Development",
		},
		TargetCompanies:        filter.DefaultTargetCompanies(),
		KeywordSets:            filter.DefaultKeywords(),
		Geography:              filter.DefaultGeography(),
		SubmissionDelaySeconds: 30,
		EmailFollowUp:          true,
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		DatabasePath: "data/ma_applications.db",
		OutputDir:    "data/output",
	}
}

// Load reads the YAML config at path (missing file means pure defaults),
// overlays env vars for secrets, and validates. A validation failure aborts
// startup.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Secrets always come from the environment when present.
	if host := os.Getenv("SMTP_HOST"); host != "" {
		cfg.SMTP.Host = host
	}
	if port := os.Getenv("SMTP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
		}
		cfg.SMTP.Port = p
	}
	if user := os.Getenv("SMTP_USERNAME"); user != "" {
		cfg.SMTP.Username = user
	}
	if pass := os.Getenv("SMTP_PASSWORD"); pass != "" {
		cfg.SMTP.Password = pass
	}
	if from := os.Getenv("FROM_EMAIL"); from != "" {
		cfg.SMTP.From = from
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.Telegram.ChatID = id
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SearchRadiusMiles < 5 || c.SearchRadiusMiles > 50 {
		return fmt.Errorf("search_radius_miles must be between 5 and 50, got %d", c.SearchRadiusMiles)
	}
	if c.DailyApplicationLimit < 1 || c.DailyApplicationLimit > maxDailyLimit {
		return fmt.Errorf("daily_application_limit must be between 1 and %d, got %d", maxDailyLimit, c.DailyApplicationLimit)
	}
	if c.WeeklyApplicationLimit < 1 || c.WeeklyApplicationLimit > maxWeeklyLimit {
		return fmt.Errorf("weekly_application_limit must be between 1 and %d, got %d", maxWeeklyLimit, c.WeeklyApplicationLimit)
	}
	if c.MinMARelevanceScore < 0 || c.MinMARelevanceScore > 100 {
		return fmt.Errorf("min_ma_relevance_score must be between 0 and 100, got %v", c.MinMARelevanceScore)
	}
	if c.ListingAcceptScore < 0 || c.ListingAcceptScore > 100 {
		return fmt.Errorf("listing_accept_score must be between 0 and 100, got %v", c.ListingAcceptScore)
	}
	if c.SubmissionDelaySeconds < 0 {
		return fmt.Errorf("submission_delay_seconds cannot be negative, got %d", c.SubmissionDelaySeconds)
	}
	return nil
}
