package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Duration accepts "168h"-style strings in yaml.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	v, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}
	*d = Duration(v)
	return nil
}

type Config struct {
	Listen      string      `yaml:"listen"`
	Logger      Logger      `yaml:"logger"`
	Storage     Storage     `yaml:"storage"`
	Ingest      Ingest      `yaml:"ingest"`
	Competition Competition `yaml:"competition"`
	Scoring     Scoring     `yaml:"scoring"`
	Verify      Verify      `yaml:"verify"`
	CORS        CORS        `yaml:"cors"`
}

type Logger struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Storage struct {
	Database string `yaml:"database"`
}

// Ingest guards the internal write surface (submission ingestion and the
// admin endpoints). Tokens are issued out of band to the judging pipeline.
type Ingest struct {
	JWT JWT `yaml:"jwt"`
}

type JWT struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

// Competition describes the weekly cadence and where the static contest
// material (problem set, participant roster) lives.
type Competition struct {
	Name     string    `yaml:"name"`
	Anchor   time.Time `yaml:"anchor"`
	Week     Duration  `yaml:"week"`
	Problems string    `yaml:"problems"`
	Roster   string    `yaml:"roster"`
}

// AllTimePolicy selects how the all-time leaderboard orders users.
type AllTimePolicy string

const (
	// PolicyWeighted ranks by the weighted point sum folded from weekly scores.
	PolicyWeighted AllTimePolicy = "weighted"
	// PolicyCount ranks by the raw number of problems solved.
	PolicyCount AllTimePolicy = "count"
)

type Scoring struct {
	Weights       Weights       `yaml:"weights"`
	AllTimePolicy AllTimePolicy `yaml:"all_time_policy"`
}

type Weights struct {
	Easy   int `yaml:"easy"`
	Medium int `yaml:"medium"`
	Hard   int `yaml:"hard"`
}

// Verify controls the background replay verifier. A zero interval disables it.
type Verify struct {
	Interval Duration `yaml:"interval"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.Competition.Week == 0 {
		c.Competition.Week = Duration(7 * 24 * time.Hour)
	}
	if c.Scoring.Weights == (Weights{}) {
		c.Scoring.Weights = Weights{Easy: 1, Medium: 2, Hard: 3}
	}
	if c.Scoring.AllTimePolicy == "" {
		c.Scoring.AllTimePolicy = PolicyWeighted
	}
}

func (c *Config) validate() error {
	if c.Competition.Anchor.IsZero() {
		return fmt.Errorf("competition.anchor is required")
	}
	// Window ids are derived from the window's start date, so windows must be
	// at least a day apart to keep ids unique.
	if c.Competition.Week < Duration(24*time.Hour) {
		return fmt.Errorf("competition.week must be at least 24h")
	}
	if c.Competition.Problems == "" {
		return fmt.Errorf("competition.problems is required")
	}
	switch c.Scoring.AllTimePolicy {
	case PolicyWeighted, PolicyCount:
	default:
		return fmt.Errorf("scoring.all_time_policy must be %q or %q", PolicyWeighted, PolicyCount)
	}
	return nil
}
