// Package config resolves assistant endpoint, credential, and model settings
// from the environment, with optional .env overrides from the project
// directory. The resolver is a pure snapshot of environment state at
// construction time; nothing here mutates the process environment.
package config

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Environment keys the resolver reads.
const (
	KeyBaseURL        = "ANTHROPIC_BASE_URL"
	KeyAPIKey         = "ANTHROPIC_API_KEY"
	KeyAuthToken      = "ANTHROPIC_AUTH_TOKEN"
	KeyModel          = "ANTHROPIC_MODEL"
	KeySmallFastModel = "ANTHROPIC_SMALL_FAST_MODEL"
	KeyTimeoutMS      = "API_TIMEOUT_MS"
	KeyBedrockRegion  = "AWS_REGION"
	KeyVertexProject  = "VERTEX_PROJECT_ID"
)

// DefaultEndpoint is shown when no custom base URL is configured.
const DefaultEndpoint = "api.anthropic.com"

// redacted replaces secrets too short to partially reveal.
const redacted = "***"

// Provider labels for known endpoint hosts.
const (
	ProviderAnthropic = "Anthropic Claude"
	ProviderZhipu     = "Zhipu (GLM-4.5)"
	ProviderBedrock   = "AWS Bedrock"
	ProviderVertex    = "Google Vertex AI"
	ProviderCustom    = "Custom API"
)

// Resolver holds the settings snapshot taken at construction.
type Resolver struct {
	BaseURL        string
	APIKey         string
	Model          string
	SmallFastModel string
	TimeoutMS      int
	BedrockRegion  string
	VertexProject  string
}

// Resolve reads a .env file from projectDir (if present) plus the process
// environment and returns the settings snapshot. Environment variables win
// over .env entries, matching how the assistant CLI itself resolves them.
func Resolve(projectDir string) (*Resolver, error) {
	v := viper.New()

	envFile := filepath.Join(projectDir, ".env")
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		// A missing .env is the normal case; only real read/parse
		// failures are reported. viper returns ConfigParseError by
		// value, so match with errors.As rather than a type assertion.
		var parseErr viper.ConfigParseError
		if errors.As(err, &parseErr) {
			return nil, err
		}
	}
	v.AutomaticEnv()

	apiKey := v.GetString(KeyAPIKey)
	if apiKey == "" {
		apiKey = v.GetString(KeyAuthToken)
	}

	return &Resolver{
		BaseURL:        v.GetString(KeyBaseURL),
		APIKey:         apiKey,
		Model:          v.GetString(KeyModel),
		SmallFastModel: v.GetString(KeySmallFastModel),
		TimeoutMS:      parseInt(v.GetString(KeyTimeoutMS)),
		BedrockRegion:  v.GetString(KeyBedrockRegion),
		VertexProject:  v.GetString(KeyVertexProject),
	}, nil
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Custom reports whether a non-default endpoint is configured.
func (r *Resolver) Custom() bool {
	return r.BaseURL != ""
}

// Endpoint returns the endpoint to display, falling back to the default
// hosted API when no base URL is set.
func (r *Resolver) Endpoint() string {
	if r.BaseURL == "" {
		return DefaultEndpoint
	}
	return r.BaseURL
}

// Provider classifies the active provider by pattern-matching the endpoint.
func (r *Resolver) Provider() string {
	switch {
	case r.BaseURL == "":
		return ProviderAnthropic
	case strings.Contains(r.BaseURL, "z.ai"):
		return ProviderZhipu
	case strings.Contains(r.BaseURL, "bedrock"):
		return ProviderBedrock
	case strings.Contains(r.BaseURL, "vertex"):
		return ProviderVertex
	default:
		return ProviderCustom
	}
}

// Masked returns a display-safe view of all non-empty settings. Secret
// values (keys, tokens) reveal only the first 8 and last 4 characters;
// anything 12 characters or shorter is fully redacted.
func (r *Resolver) Masked() map[string]string {
	out := map[string]string{}

	put := func(key, value string, secret bool) {
		if value == "" {
			return
		}
		if secret {
			value = MaskSecret(value)
		}
		out[key] = value
	}

	put("base_url", r.BaseURL, false)
	put("api_key", r.APIKey, true)
	put("model", r.Model, false)
	put("small_fast_model", r.SmallFastModel, false)
	if r.TimeoutMS > 0 {
		out["timeout_ms"] = strconv.Itoa(r.TimeoutMS)
	}
	put("bedrock_region", r.BedrockRegion, false)
	put("vertex_project", r.VertexProject, false)

	return out
}

// MaskSecret hides the middle of a secret value, or all of it when the
// value is too short for a prefix/suffix to be safe.
func MaskSecret(value string) string {
	if len(value) <= 12 {
		return redacted
	}
	return value[:8] + "..." + value[len(value)-4:]
}
