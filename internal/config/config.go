// Package config provides the configuration schema and loader for the
// Protokollo meeting-analysis bot.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// LogLevel controls log verbosity for the Protokollo server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Duration wraps time.Duration with YAML support for strings like "15m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root configuration structure for Protokollo.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Discord   DiscordConfig   `yaml:"discord"`
	Providers ProvidersConfig `yaml:"providers"`
	Reports   ReportsConfig   `yaml:"reports"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
}

// ServerConfig holds logging and operational-endpoint settings.
type ServerConfig struct {
	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// HealthAddr is the TCP address serving /healthz, /readyz, and /metrics
	// (e.g., ":8081"). Empty disables the endpoint.
	HealthAddr string `yaml:"health_addr"`
}

// DiscordConfig holds the chat front-end credentials.
type DiscordConfig struct {
	// Token is the Discord bot token. Required.
	Token string `yaml:"token"`

	// GuildID scopes slash-command registration to one guild, which updates
	// instantly. Empty registers the commands globally.
	GuildID string `yaml:"guild_id"`
}

// ProvidersConfig declares which provider implementation handles each
// pipeline stage.
type ProvidersConfig struct {
	STT ProviderEntry `yaml:"stt"`
	LLM ProviderEntry `yaml:"llm"`
}

// ProviderEntry is the common configuration block shared by all provider
// types.
type ProviderEntry struct {
	// Name selects the provider implementation (e.g., "deepgram", "openai").
	Name string `yaml:"name"`

	// APIKey is the authentication key for the provider's API if any.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default API endpoint.
	// Leave empty to use the provider's built-in default.
	BaseURL string `yaml:"base_url"`

	// Model selects a specific model within the provider (e.g., "gpt-4o",
	// "nova-2").
	Model string `yaml:"model"`
}

// ReportsConfig holds rendering settings.
type ReportsConfig struct {
	// FontDir is the directory holding the TrueType fonts for PDF output.
	// Empty falls back to the PDF core fonts (Latin only).
	FontDir string `yaml:"font_dir"`

	// DefaultLanguage is the report language used when the user picks none:
	// "ru", "en", "kk", "es", "zh", or "original" to match the recording.
	DefaultLanguage string `yaml:"default_language"`
}

// PipelineConfig bounds the analysis run.
type PipelineConfig struct {
	// WorkDir is where downloads and intermediate audio land. Required.
	WorkDir string `yaml:"work_dir"`

	// MaxChunkBytes is the audio size above which files are split before
	// transcription. Zero disables splitting.
	MaxChunkBytes int64 `yaml:"max_chunk_bytes"`

	// MaxDownloadBytes caps a single direct download. Zero means no cap.
	MaxDownloadBytes int64 `yaml:"max_download_bytes"`

	// DownloadTimeout, TranscribeTimeout, and AnalyzeTimeout bound the
	// externally-dependent phases. Zero means no bound beyond the run
	// context.
	DownloadTimeout   Duration `yaml:"download_timeout"`
	TranscribeTimeout Duration `yaml:"transcribe_timeout"`
	AnalyzeTimeout    Duration `yaml:"analyze_timeout"`
}
