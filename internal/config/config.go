package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "mijozbot/core/config"
	coredatabase "mijozbot/core/database"
)

// BotConfig holds mijozbot-specific settings.
type BotConfig struct {
	// SubjectPosts maps a subject button label to the message id of its
	// reference post in the staff channel.
	SubjectPosts map[string]int `yaml:"subject_posts"`
	// CoursesPostID is the staff-channel post forwarded for the courses info button.
	CoursesPostID int `yaml:"courses_post_id" envconfig:"BOT_COURSES_POST_ID"`
	// ManagerContact is shown by the contact info button.
	ManagerContact string `yaml:"manager_contact" envconfig:"BOT_MANAGER_CONTACT"`
	// AboutLink is shown by the about info button.
	AboutLink string `yaml:"about_link" envconfig:"BOT_ABOUT_LINK"`
}

// Config aggregates core, database, and bot configuration.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Bot      BotConfig           `yaml:"bot"`
}

// CoreConfig exposes the embedded core configuration for the cmd runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

var defaultSubjectPosts = map[string]int{
	"Ingliz tili": 983,
	"Rus tili":    986,
	"Ona tili":    984,
	"Tarix":       988,
	"Matematika":  985,
	"Fizika":      987,
	"Kimyo":       989,
	"Biologiya":   990,
}

const defaultCoursesPostID = 982

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates bot-level fields and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if cfg.Core.Telegram.AdminID == 0 {
		return fmt.Errorf("telegram.admin_id is required")
	}
	if cfg.Core.Telegram.StaffChatID == 0 {
		return fmt.Errorf("telegram.staff_chat_id is required")
	}
	if len(cfg.Bot.SubjectPosts) == 0 {
		cfg.Bot.SubjectPosts = defaultSubjectPosts
	}
	if cfg.Bot.CoursesPostID == 0 {
		cfg.Bot.CoursesPostID = defaultCoursesPostID
	}
	if cfg.Bot.ManagerContact == "" {
		cfg.Bot.ManagerContact = "@MenejerMutaxasiss"
	}
	if cfg.Bot.AboutLink == "" {
		cfg.Bot.AboutLink = "https://t.me/+GjOm3oOb3aA3MzIy"
	}
	return nil
}
