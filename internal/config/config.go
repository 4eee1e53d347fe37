package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/retry"
)

// FileName is the optional config file read from the working directory.
const FileName = ".gemini-ci.json"

// Config holds the tunables for both pipelines.
type Config struct {
	Model           string        `json:"model"`
	MaxDiffChars    int           `json:"maxDiffChars"`
	MaxFiles        int           `json:"maxFiles"`
	MaxFileChars    int           `json:"maxFileChars"`
	MaxKeyFileChars int           `json:"maxKeyFileChars"`
	MaxRelatedChars int           `json:"maxRelatedChars"`
	MaxRelatedFiles int           `json:"maxRelatedFiles"`
	RecentCommits   int           `json:"recentCommits"`
	KeyFiles        []string      `json:"keyFiles"`
	Retry           RetryConfig   `json:"retry"`
	Privacy         PrivacyConfig `json:"privacy"`
}

// RetryConfig mirrors retry.Policy in file-friendly units.
type RetryConfig struct {
	MaxAttempts           int `json:"maxAttempts"`
	BaseDelaySeconds      int `json:"baseDelaySeconds"`
	RateLimitDelaySeconds int `json:"rateLimitDelaySeconds"`
	BufferSeconds         int `json:"bufferSeconds"`
}

// Policy converts the file representation into a retry.Policy.
func (r RetryConfig) Policy() retry.Policy {
	return retry.Policy{
		MaxAttempts:    r.MaxAttempts,
		BaseDelay:      time.Duration(r.BaseDelaySeconds) * time.Second,
		RateLimitDelay: time.Duration(r.RateLimitDelaySeconds) * time.Second,
		Buffer:         time.Duration(r.BufferSeconds) * time.Second,
	}
}

// PrivacyConfig controls redaction of prompt-bound text.
type PrivacyConfig struct {
	RedactSecrets bool     `json:"redactSecrets"`
	RedactPaths   []string `json:"redactPaths,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Model:           "gemini-1.5-pro",
		MaxDiffChars:    10000,
		MaxFiles:        5,
		MaxFileChars:    3000,
		MaxKeyFileChars: 2000,
		MaxRelatedChars: 1500,
		MaxRelatedFiles: 5,
		RecentCommits:   10,
		KeyFiles: []string{
			"package.json",
			"tsconfig.json",
			"next.config.js",
			"tailwind.config.mjs",
			"eslint.config.mjs",
		},
		Retry: RetryConfig{
			MaxAttempts:           5,
			BaseDelaySeconds:      2,
			RateLimitDelaySeconds: 60,
			BufferSeconds:         2,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
			RedactPaths:   []string{"**/.env*", "*.pem", "**/*secrets*"},
		},
	}
}

// LoadFile reads the working-directory config file. Returns a zero Config
// and nil error when the file does not exist.
func LoadFile() (Config, error) {
	data, err := os.ReadFile(FileName)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading %s: %w", FileName, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	return cfg, nil
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.MaxDiffChars > 0 {
		dst.MaxDiffChars = src.MaxDiffChars
	}
	if src.MaxFiles > 0 {
		dst.MaxFiles = src.MaxFiles
	}
	if src.MaxFileChars > 0 {
		dst.MaxFileChars = src.MaxFileChars
	}
	if src.MaxKeyFileChars > 0 {
		dst.MaxKeyFileChars = src.MaxKeyFileChars
	}
	if src.MaxRelatedChars > 0 {
		dst.MaxRelatedChars = src.MaxRelatedChars
	}
	if src.MaxRelatedFiles > 0 {
		dst.MaxRelatedFiles = src.MaxRelatedFiles
	}
	if src.RecentCommits > 0 {
		dst.RecentCommits = src.RecentCommits
	}
	if len(src.KeyFiles) > 0 {
		dst.KeyFiles = src.KeyFiles
	}
	if src.Retry.MaxAttempts > 0 {
		dst.Retry.MaxAttempts = src.Retry.MaxAttempts
	}
	if src.Retry.BaseDelaySeconds > 0 {
		dst.Retry.BaseDelaySeconds = src.Retry.BaseDelaySeconds
	}
	if src.Retry.RateLimitDelaySeconds > 0 {
		dst.Retry.RateLimitDelaySeconds = src.Retry.RateLimitDelaySeconds
	}
	if src.Retry.BufferSeconds > 0 {
		dst.Retry.BufferSeconds = src.Retry.BufferSeconds
	}
	if len(src.Privacy.RedactPaths) > 0 {
		dst.Privacy.RedactPaths = src.Privacy.RedactPaths
	}
	// JSON cannot distinguish an unset bool from false, so a file can only
	// keep redaction on; the --no-redact flag is the off switch.
	dst.Privacy.RedactSecrets = src.Privacy.RedactSecrets || dst.Privacy.RedactSecrets
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("GEMINI_CI_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("GEMINI_CI_MAX_DIFF_CHARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDiffChars = n
		}
	}
	if v := os.Getenv("GEMINI_CI_MAX_FILES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxFiles = n
		}
	}
	if v := os.Getenv("GEMINI_CI_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Retry.MaxAttempts = n
		}
	}
	if v := os.Getenv("GEMINI_CI_BASE_DELAY_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Retry.BaseDelaySeconds = n
		}
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.Model = v
	}
	if v, ok := overrides["maxDiffChars"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDiffChars = n
		}
	}
	if v, ok := overrides["maxFiles"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxFiles = n
		}
	}
	if v, ok := overrides["maxAttempts"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Retry.MaxAttempts = n
		}
	}
}
