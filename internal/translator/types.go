// Package translator defines the external translation provider contract and
// its implementations. The pipeline treats every provider as an untrusted,
// possibly slow, possibly failing remote dependency.
package translator

import (
	"context"
	"time"
)

// ServiceConfig carries provider credentials and tuning, typically bound
// from the config file.
type ServiceConfig struct {
	Credentials string        `mapstructure:"credentials" json:"credentials"`
	APIKey      string        `mapstructure:"api_key" json:"api_key"`
	Model       string        `mapstructure:"model" json:"model"`
	BaseURL     string        `mapstructure:"base_url" json:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout"`
	ProjectID   string        `mapstructure:"project_id" json:"project_id"`
}

// TranslateRequest is one provider call: translate Text into TargetLang.
type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// ServiceResult is the outcome of one provider call.
type ServiceResult struct {
	ServiceName    string        `json:"service_name"`
	TranslatedText string        `json:"translated_text"`
	Latency        time.Duration `json:"latency"`
	Error          string        `json:"error,omitempty"`
}

// TranslationService is the provider contract consumed by the batch
// translator.
type TranslationService interface {
	Name() string
	Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error)
	IsAvailable(ctx context.Context) error
	SupportedLanguages(ctx context.Context) ([]string, error)
}
