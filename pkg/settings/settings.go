package settings

import (
	"github.com/go-go-golems/inkline/pkg/turns"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Provider identifies one of the supported wire protocols.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderClaude    Provider = "claude"
	ProviderResponses Provider = "responses"
	ProviderGemini    Provider = "gemini"
)

// Effort is a reasoning-effort level for providers that budget thinking.
type Effort string

const (
	EffortNone    Effort = ""
	EffortMinimal Effort = "minimal"
	EffortLow     Effort = "low"
	EffortMedium  Effort = "medium"
	EffortHigh    Effort = "high"
)

// StepSettings configures one provider exchange.
type StepSettings struct {
	Provider Provider `yaml:"provider"`
	Model    string   `yaml:"model"`

	APIKeys  map[string]string `yaml:"api_keys,omitempty"`
	BaseURLs map[string]string `yaml:"base_urls,omitempty"`

	MaxTokens   int      `yaml:"max_tokens,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
	System      string   `yaml:"system,omitempty"`

	// Reasoning configuration, mapped to provider enums by the builders.
	Effort           Effort `yaml:"effort,omitempty"`
	ReasoningSummary bool   `yaml:"reasoning_summary,omitempty"`
	Verbosity        string `yaml:"verbosity,omitempty"`

	// WebSearch requests the provider's search tool; it is only honored when
	// the model's capability flag allows it.
	WebSearch bool `yaml:"web_search,omitempty"`

	ImageDetail turns.ImageDetail `yaml:"image_detail,omitempty"`
}

// APIKey returns the key configured for the active provider.
func (s *StepSettings) APIKey() (string, error) {
	k, ok := s.APIKeys[string(s.Provider)+"-api-key"]
	if !ok || k == "" {
		return "", errors.Errorf("no API key for %s", s.Provider)
	}
	return k, nil
}

// BaseURL returns the base URL configured for the active provider, or the
// given default when none is set.
func (s *StepSettings) BaseURL(def string) string {
	if v, ok := s.BaseURLs[string(s.Provider)+"-base-url"]; ok && v != "" {
		return v
	}
	return def
}

// NewFromViper builds settings from the bound viper configuration, using
// "<provider>-api-key" and "<provider>-base-url" keys the way the rest of
// the configuration surface does.
func NewFromViper() *StepSettings {
	s := &StepSettings{
		Provider:    Provider(viper.GetString("provider")),
		Model:       viper.GetString("model"),
		APIKeys:     map[string]string{},
		BaseURLs:    map[string]string{},
		MaxTokens:   viper.GetInt("max-tokens"),
		System:      viper.GetString("system"),
		Effort:      Effort(viper.GetString("effort")),
		Verbosity:   viper.GetString("verbosity"),
		WebSearch:   viper.GetBool("web-search"),
		ImageDetail: turns.ImageDetail(viper.GetString("image-detail")),
	}
	if s.MaxTokens == 0 {
		s.MaxTokens = 4096
	}
	if s.ImageDetail == "" {
		s.ImageDetail = turns.ImageDetailAuto
	}
	for _, p := range []Provider{ProviderOpenAI, ProviderClaude, ProviderResponses, ProviderGemini} {
		if v := viper.GetString(string(p) + "-api-key"); v != "" {
			s.APIKeys[string(p)+"-api-key"] = v
		}
		if v := viper.GetString(string(p) + "-base-url"); v != "" {
			s.BaseURLs[string(p)+"-base-url"] = v
		}
	}
	return s
}
