package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jstiltner/document-understanding/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	LLM      LLMConfig      `yaml:"llm" mapstructure:"llm"`
	OCR      OCRConfig      `yaml:"ocr" mapstructure:"ocr"`
	Review   ReviewConfig   `yaml:"review" mapstructure:"review"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string            `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string            `yaml:"database_url" mapstructure:"database_url"`
	Pool        *store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// LLMConfig holds provider credentials and model selection.
type LLMConfig struct {
	DefaultProvider   string  `yaml:"default_provider" mapstructure:"default_provider"`
	DefaultModel      string  `yaml:"default_model" mapstructure:"default_model"`
	AnthropicKey      string  `yaml:"anthropic_api_key" mapstructure:"anthropic_api_key"`
	AnthropicModels   string  `yaml:"anthropic_models" mapstructure:"anthropic_models"`
	OpenAIKey         string  `yaml:"openai_api_key" mapstructure:"openai_api_key"`
	OpenAIBaseURL     string  `yaml:"openai_base_url" mapstructure:"openai_base_url"`
	OpenAIModels      string  `yaml:"openai_models" mapstructure:"openai_models"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// OCRConfig configures PDF text extraction.
type OCRConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath     string  `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	MistralKey        string  `yaml:"mistral_api_key" mapstructure:"mistral_api_key"`
	MistralModel      string  `yaml:"mistral_ocr_model" mapstructure:"mistral_ocr_model"`
	MistralConfidence float64 `yaml:"mistral_confidence" mapstructure:"mistral_confidence"`
}

// ReviewConfig holds the confidence gate thresholds.
type ReviewConfig struct {
	MinConfidenceThreshold  float64 `yaml:"min_confidence_threshold" mapstructure:"min_confidence_threshold"`
	RequiredFieldsThreshold float64 `yaml:"required_fields_threshold" mapstructure:"required_fields_threshold"`
}

// PipelineConfig configures document processing behavior.
type PipelineConfig struct {
	SoftTimeout time.Duration `yaml:"soft_timeout" mapstructure:"soft_timeout"`
	HardTimeout time.Duration `yaml:"hard_timeout" mapstructure:"hard_timeout"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentDocuments int `yaml:"max_concurrent_documents" mapstructure:"max_concurrent_documents"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DOCPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("batch.max_concurrent_documents", 5)
	v.SetDefault("llm.default_provider", "anthropic")
	v.SetDefault("llm.default_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("llm.anthropic_models", "claude-sonnet-4-5-20250929,claude-haiku-4-5-20251001")
	v.SetDefault("llm.openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.openai_models", "gpt-4o,gpt-4o-mini")
	v.SetDefault("llm.requests_per_second", 2.0)
	v.SetDefault("ocr.provider", "local")
	v.SetDefault("ocr.pdftotext_path", "pdftotext")
	v.SetDefault("ocr.mistral_ocr_model", "pixtral-large-latest")
	v.SetDefault("ocr.mistral_confidence", 0.85)
	v.SetDefault("review.min_confidence_threshold", 0.7)
	v.SetDefault("review.required_fields_threshold", 0.8)
	v.SetDefault("pipeline.soft_timeout", 25*time.Minute)
	v.SetDefault("pipeline.hard_timeout", 30*time.Minute)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
