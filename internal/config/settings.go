package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spigell/resume-agent/internal/secrets"
)

const (
	KeyOpenAIAPIKey     = "openai_api_key"
	KeyOpenAIAPIKeyFile = "openai_api_key_file"
	KeyDatabaseURL      = "database_url"
	KeyAppName          = "app_name"
	KeyDebug            = "debug"
	KeyFrontendURL      = "frontend_url"

	DefaultDatabaseURL = "postgresql://localhost:5432/resume_agent"
	DefaultAppName     = "Resume Agent"
	DefaultDebug       = false
	DefaultFrontendURL = "http://localhost:3000"
)

// Keys lists every recognized setting. Environment variables are matched
// against these names ignoring case.
var Keys = []string{
	KeyOpenAIAPIKey,
	KeyOpenAIAPIKeyFile,
	KeyDatabaseURL,
	KeyAppName,
	KeyDebug,
	KeyFrontendURL,
}

// Settings is the validated configuration of the process. It must not be
// modified after Load returns it.
type Settings struct {
	OpenAIAPIKey     string `mapstructure:"openai_api_key" json:"openai_api_key"`
	OpenAIAPIKeyFile string `mapstructure:"openai_api_key_file" json:"openai_api_key_file,omitempty"`
	DatabaseURL      string `mapstructure:"database_url" json:"database_url"`
	AppName          string `mapstructure:"app_name" json:"app_name"`
	Debug            bool   `mapstructure:"debug" json:"debug"`
	FrontendURL      string `mapstructure:"frontend_url" json:"frontend_url"`
}

func defaults() map[string]any {
	return map[string]any{
		KeyDatabaseURL: DefaultDatabaseURL,
		KeyAppName:     DefaultAppName,
		KeyDebug:       DefaultDebug,
		KeyFrontendURL: DefaultFrontendURL,
	}
}

// Redacted returns a copy that is safe to log.
func (s Settings) Redacted() Settings {
	s.OpenAIAPIKey = secrets.Mask(s.OpenAIAPIKey)
	return s
}

// AllowedOrigin returns the frontend URL reduced to scheme://host[:port].
func (s *Settings) AllowedOrigin() string {
	origin, err := parseOrigin(s.FrontendURL)
	if err != nil {
		return strings.TrimRight(s.FrontendURL, "/")
	}
	return origin
}

// Validate reports the first invalid field as an *Error.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.OpenAIAPIKey) == "" {
		return &Error{Key: KeyOpenAIAPIKey, Err: ErrMissing}
	}

	if _, err := parseOrigin(s.FrontendURL); err != nil {
		return &Error{Key: KeyFrontendURL, Err: err}
	}

	u, err := url.Parse(s.DatabaseURL)
	if err != nil {
		return &Error{Key: KeyDatabaseURL, Err: err}
	}
	if u.Scheme == "" {
		return &Error{Key: KeyDatabaseURL, Err: fmt.Errorf("%q has no scheme", s.DatabaseURL)}
	}

	return nil
}

func parseOrigin(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissing
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%q is not an http(s) url", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%q has no host", raw)
	}
	if u.Path != "" && u.Path != "/" {
		return "", fmt.Errorf("%q must be an origin without a path", raw)
	}

	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host), nil
}
