// Package settings holds the runtime configuration: backend endpoints,
// timeouts, input limits and the local server surface.
package settings

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Settings struct {
	BackendURL     string        `json:"backendUrl" yaml:"backend_url" mapstructure:"backend_url"`
	StreamPath     string        `json:"streamPath" yaml:"stream_path" mapstructure:"stream_path"`
	VerifyPath     string        `json:"verifyPath" yaml:"verify_path" mapstructure:"verify_path"`
	ConnectTimeout time.Duration `json:"connectTimeout" yaml:"connect_timeout" mapstructure:"connect_timeout"`
	// IdleTimeout is the longest silence allowed between two stream messages.
	IdleTimeout   time.Duration `json:"idleTimeout" yaml:"idle_timeout" mapstructure:"idle_timeout"`
	VerifyTimeout time.Duration `json:"verifyTimeout" yaml:"verify_timeout" mapstructure:"verify_timeout"`
	VerifyEnabled bool          `json:"verifyEnabled" yaml:"verify_enabled" mapstructure:"verify_enabled"`

	DefaultDepth        int `json:"defaultDepth" yaml:"default_depth" mapstructure:"default_depth"`
	MaxDepth            int `json:"maxDepth" yaml:"max_depth" mapstructure:"max_depth"`
	MaxExpressionLength int `json:"maxExpressionLength" yaml:"max_expression_length" mapstructure:"max_expression_length"`
	DisplayDigits       int `json:"displayDigits" yaml:"display_digits" mapstructure:"display_digits"`

	ListenAddr         string        `json:"listenAddr" yaml:"listen_addr" mapstructure:"listen_addr"`
	AuthToken          string        `json:"-" yaml:"auth_token,omitempty" mapstructure:"auth_token"`
	SessionIdleTimeout time.Duration `json:"sessionIdleTimeout" yaml:"session_idle_timeout" mapstructure:"session_idle_timeout"`

	LogLevel  string `json:"logLevel" yaml:"log_level" mapstructure:"log_level"`
	LogFormat string `json:"logFormat" yaml:"log_format" mapstructure:"log_format"`
	LogFile   string `json:"logFile,omitempty" yaml:"log_file,omitempty" mapstructure:"log_file"`
}

func Default() Settings {
	return Settings{
		BackendURL:          "http://localhost:8000",
		StreamPath:          "/data",
		VerifyPath:          "/verify",
		ConnectTimeout:      10 * time.Second,
		IdleTimeout:         120 * time.Second,
		VerifyTimeout:       30 * time.Second,
		VerifyEnabled:       true,
		DefaultDepth:        1000,
		MaxDepth:            10000,
		MaxExpressionLength: 100,
		DisplayDigits:       30,
		ListenAddr:          ":8080",
		SessionIdleTimeout:  10 * time.Minute,
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

var ErrInvalid = errors.New("invalid settings")

func (s Settings) Validate() error {
	var errs []error
	u, err := url.Parse(s.BackendURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("backend_url must be an http(s) URL, got %q", s.BackendURL))
	}
	for name, p := range map[string]string{"stream_path": s.StreamPath, "verify_path": s.VerifyPath} {
		if !strings.HasPrefix(p, "/") {
			errs = append(errs, fmt.Errorf("%s must start with /, got %q", name, p))
		}
	}
	for name, d := range map[string]time.Duration{
		"connect_timeout":      s.ConnectTimeout,
		"idle_timeout":         s.IdleTimeout,
		"verify_timeout":       s.VerifyTimeout,
		"session_idle_timeout": s.SessionIdleTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if s.MaxDepth < 1 {
		errs = append(errs, errors.New("max_depth must be at least 1"))
	}
	if s.DefaultDepth < 1 || s.DefaultDepth > s.MaxDepth {
		errs = append(errs, fmt.Errorf("default_depth must be between 1 and max_depth (%d)", s.MaxDepth))
	}
	if s.MaxExpressionLength < 1 {
		errs = append(errs, errors.New("max_expression_length must be at least 1"))
	}
	if s.DisplayDigits < 1 {
		errs = append(errs, errors.New("display_digits must be at least 1"))
	}
	switch strings.ToLower(s.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", s.LogFormat))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// StreamURL is the websocket URL of the streaming endpoint.
func (s Settings) StreamURL() string {
	base := strings.TrimRight(s.BackendURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + s.StreamPath
}

// ClampDepth caps depth at MaxDepth.
func (s Settings) ClampDepth(depth int) int {
	return min(depth, s.MaxDepth)
}
