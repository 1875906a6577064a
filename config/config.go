package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/CIDgravity/snakelet"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// config structure
type Config struct {
	API    APIConfig    `mapstructure:"API"`
	Tasks  TasksConfig  `mapstructure:"TASKS"`
	Github GithubConfig `mapstructure:"GITHUB"`
	LLM    LLMConfig    `mapstructure:"LLM"`
	Logs   LogsConfig   `mapstructure:"LOGS"`
}

type APIConfig struct {
	ListenPort            string   `mapstructure:"ListenPort"`
	RequestTimeoutSeconds int      `mapstructure:"RequestTimeoutSeconds"`
	AllowOrigins          []string `mapstructure:"AllowOrigins"`
}

type TasksConfig struct {
	MaxParallelTasksAllowed int `mapstructure:"MaxParallelTasksAllowed"` // concurrent github file requests
	ContextBatchSize        int `mapstructure:"ContextBatchSize"`        // files fetched together before the next batch starts
}

type GithubConfig struct {
	Token                string `mapstructure:"Token"` // optional, lowers rate limits when empty
	TimeoutSeconds       int    `mapstructure:"TimeoutSeconds"`
	MaxReadmeLength      int    `mapstructure:"MaxReadmeLength"`
	MaxTreeFiles         int    `mapstructure:"MaxTreeFiles"`
	MaxContextFiles      int    `mapstructure:"MaxContextFiles"`
	MaxContextFileLength int    `mapstructure:"MaxContextFileLength"`
	ManifestPath         string `mapstructure:"ManifestPath"`
	LocalRateLimit       bool   `mapstructure:"LocalRateLimit"`
}

type LLMConfig struct {
	Provider        string  `mapstructure:"Provider"` // openai | gemini
	Model           string  `mapstructure:"Model"`
	APIKey          string  `mapstructure:"APIKey"`
	BaseURL         string  `mapstructure:"BaseURL"`
	Temperature     float32 `mapstructure:"Temperature"`
	MaxOutputTokens int     `mapstructure:"MaxOutputTokens"`
	TimeoutSeconds  int     `mapstructure:"TimeoutSeconds"`
}

type LogsConfig struct {
	Level            string `mapstructure:"Level"` // error | warn | info | debug - case insensitive
	OutputLogsAsJSON bool   `mapstructure:"OutputLogsAsJSON"`
}

// Load reads defaults, then config/config.toml when present, then environment overrides
func Load() (*Config, error) {
	// .env is optional, real environment variables always win
	_ = godotenv.Load()

	cfg := GetDefault()

	configFilePath, err := findConfigFile()
	if err != nil {
		return nil, err
	}

	if configFilePath != "" {
		if _, err := snakelet.InitAndLoad(cfg, configFilePath); err != nil {
			return nil, err
		}
	} else {
		log.Debug("no config file found, using defaults and environment")
	}

	ApplyEnv(cfg, os.Getenv)
	Sanitize(cfg)

	return cfg, nil
}

// findConfigFile returns an empty path when no config file exists
func findConfigFile() (string, error) {
	dir, err := filepath.Abs(filepath.Dir(os.Args[0]))
	if err != nil {
		return "", err
	}

	for _, candidate := range []string{dir + "/config/config.toml", "config/config.toml"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}

	return "", nil
}

// ApplyEnv overrides secrets and deployment settings from the environment
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		cfg.API.ListenPort = v
	}

	if v := getenv("GITHUB_TOKEN"); v != "" {
		cfg.Github.Token = v
	}

	if v := getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = strings.ToLower(v)
	}

	if v := getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}

	if v := getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	if v := getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}

	// provider specific keys are only a fallback
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "gemini":
			cfg.LLM.APIKey = getenv("GEMINI_API_KEY")
		default:
			cfg.LLM.APIKey = getenv("OPENAI_API_KEY")
		}
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.Logs.Level = v
	}

	if v := getenv("LOG_JSON"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Logs.OutputLogsAsJSON = b
		}
	}
}

// Sanitize replaces invalid numeric values by their defaults
func Sanitize(cfg *Config) {
	def := GetDefault()

	if cfg.Tasks.MaxParallelTasksAllowed <= 0 {
		cfg.Tasks.MaxParallelTasksAllowed = def.Tasks.MaxParallelTasksAllowed
	}

	if cfg.Tasks.ContextBatchSize <= 0 {
		cfg.Tasks.ContextBatchSize = def.Tasks.ContextBatchSize
	}

	if cfg.API.RequestTimeoutSeconds <= 0 {
		cfg.API.RequestTimeoutSeconds = def.API.RequestTimeoutSeconds
	}

	if cfg.Github.TimeoutSeconds <= 0 {
		cfg.Github.TimeoutSeconds = def.Github.TimeoutSeconds
	}

	if cfg.Github.MaxReadmeLength <= 0 {
		cfg.Github.MaxReadmeLength = def.Github.MaxReadmeLength
	}

	if cfg.Github.MaxContextFiles <= 0 {
		cfg.Github.MaxContextFiles = def.Github.MaxContextFiles
	}

	if cfg.Github.MaxContextFileLength <= 0 {
		cfg.Github.MaxContextFileLength = def.Github.MaxContextFileLength
	}

	if cfg.Github.ManifestPath == "" {
		cfg.Github.ManifestPath = def.Github.ManifestPath
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = def.LLM.Provider
	}

	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 0.3 {
		cfg.LLM.Temperature = def.LLM.Temperature
	}

	if cfg.LLM.MaxOutputTokens <= 0 {
		cfg.LLM.MaxOutputTokens = def.LLM.MaxOutputTokens
	}

	if cfg.LLM.TimeoutSeconds <= 0 {
		cfg.LLM.TimeoutSeconds = def.LLM.TimeoutSeconds
	}
}

// GetDefault
func GetDefault() *Config {
	return &Config{
		API: APIConfig{
			ListenPort:            "5000",
			RequestTimeoutSeconds: 60,
			AllowOrigins:          []string{"*"},
		},
		Tasks: TasksConfig{
			MaxParallelTasksAllowed: 8,
			ContextBatchSize:        5,
		},
		Github: GithubConfig{
			TimeoutSeconds:       15,
			MaxReadmeLength:      10000,
			MaxTreeFiles:         500,
			MaxContextFiles:      30,
			MaxContextFileLength: 5000,
			ManifestPath:         "package.json",
			LocalRateLimit:       true,
		},
		LLM: LLMConfig{
			Provider:        "openai",
			Model:           "gpt-4o-mini",
			Temperature:     0.2,
			MaxOutputTokens: 1500,
			TimeoutSeconds:  45,
		},
		Logs: LogsConfig{
			Level:            "debug",
			OutputLogsAsJSON: false,
		},
	}
}
