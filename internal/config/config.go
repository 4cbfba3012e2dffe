// Package config loads the runner configuration: built-in defaults, then the
// YAML file named by SCOUT_CONFIG, then environment overrides for secrets and
// paths.
package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv      = "SCOUT_CONFIG"
	youtubeAPIKeyEnv   = "YOUTUBE_API_KEY"
	anthropicAPIKeyEnv = "ANTHROPIC_API_KEY"
	anthropicModelEnv  = "ANTHROPIC_MODEL"
	workbookPathEnv    = "SCOUT_WORKBOOK"
	minSubscribersEnv  = "SCOUT_MIN_SUBSCRIBERS"
)

// Config holds the settings for one runner process.
type Config struct {
	YouTube  YouTubeConfig  `yaml:"youtube"`
	LLM      LLMConfig      `yaml:"llm"`
	Workbook WorkbookConfig `yaml:"workbook"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// YouTubeConfig wires the Data API client.
type YouTubeConfig struct {
	APIKey string `yaml:"apiKey"`
}

// LLMConfig wires the completion service.
type LLMConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// WorkbookConfig locates the operator spreadsheet.
type WorkbookConfig struct {
	Path string `yaml:"path"`
}

// PipelineConfig carries the per-run tuning knobs.
type PipelineConfig struct {
	TargetPerKeyword   int   `yaml:"targetPerKeyword"`
	ExcludeShortForm   bool  `yaml:"excludeShortForm"`
	MinDurationSeconds int   `yaml:"minDurationSeconds"`
	MaxDurationSeconds int   `yaml:"maxDurationSeconds"`
	MaxAgeDays         int   `yaml:"maxAgeDays"`
	MinSubscribers     int64 `yaml:"minSubscribers"`
	MaxWorkers         int   `yaml:"maxWorkers"`
	BatchSize          int   `yaml:"batchSize"`
	ScoringWorkers     int   `yaml:"scoringWorkers"`
}

func defaultConfig() Config {
	return Config{
		Pipeline: PipelineConfig{
			TargetPerKeyword:   5,
			ExcludeShortForm:   true,
			MinDurationSeconds: 180,
			MaxDurationSeconds: 1800,
			MaxAgeDays:         1000,
			MinSubscribers:     5000,
			MaxWorkers:         3,
			BatchSize:          2,
			ScoringWorkers:     3,
		},
	}
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func mergeConfig(base, override Config) Config {
	if override.YouTube.APIKey != "" {
		base.YouTube = override.YouTube
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.Workbook.Path != "" {
		base.Workbook = override.Workbook
	}

	p := override.Pipeline
	if p.TargetPerKeyword > 0 {
		base.Pipeline.TargetPerKeyword = p.TargetPerKeyword
	}
	if p.MinDurationSeconds > 0 {
		base.Pipeline.MinDurationSeconds = p.MinDurationSeconds
	}
	if p.MaxDurationSeconds > 0 {
		base.Pipeline.MaxDurationSeconds = p.MaxDurationSeconds
	}
	if p.MaxAgeDays > 0 {
		base.Pipeline.MaxAgeDays = p.MaxAgeDays
	}
	if p.MinSubscribers > 0 {
		base.Pipeline.MinSubscribers = p.MinSubscribers
	}
	if p.MaxWorkers > 0 {
		base.Pipeline.MaxWorkers = p.MaxWorkers
	}
	if p.BatchSize > 0 {
		base.Pipeline.BatchSize = p.BatchSize
	}
	if p.ScoringWorkers > 0 {
		base.Pipeline.ScoringWorkers = p.ScoringWorkers
	}
	return base
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(youtubeAPIKeyEnv); v != "" {
		c.YouTube.APIKey = v
	}
	if v := os.Getenv(anthropicAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(anthropicModelEnv); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(workbookPathEnv); v != "" {
		c.Workbook.Path = v
	}
	if v := os.Getenv(minSubscribersEnv); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.Pipeline.MinSubscribers = n
		}
	}
}
