package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "PCF"
	ConfigName = "pcfscope"
)

// keys lists every setting with its default, in the order they are
// written to a generated config file.
func keys(d Settings) []struct {
	Key   string
	Value any
} {
	return []struct {
		Key   string
		Value any
	}{
		{"backend_url", d.BackendURL},
		{"stream_path", d.StreamPath},
		{"verify_path", d.VerifyPath},
		{"connect_timeout", d.ConnectTimeout},
		{"idle_timeout", d.IdleTimeout},
		{"verify_timeout", d.VerifyTimeout},
		{"verify_enabled", d.VerifyEnabled},
		{"default_depth", d.DefaultDepth},
		{"max_depth", d.MaxDepth},
		{"max_expression_length", d.MaxExpressionLength},
		{"display_digits", d.DisplayDigits},
		{"listen_addr", d.ListenAddr},
		{"auth_token", d.AuthToken},
		{"session_idle_timeout", d.SessionIdleTimeout},
		{"log_level", d.LogLevel},
		{"log_format", d.LogFormat},
		{"log_file", d.LogFile},
	}
}

// NewViper returns a viper instance with defaults, PCF_ environment
// variables and the config search path set up. An explicit configFile
// replaces the search path.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()
	for _, k := range keys(Default()) {
		v.SetDefault(k.Key, k.Value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		return v
	}
	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", ConfigName))
	}
	return v
}

// LoadDotEnv loads .env from the working directory if present. Variables
// already set in the environment win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads the config file (if any) and unmarshals the merged result.
// Precedence is flags bound on v, then environment, then file, then
// defaults.
func Load(v *viper.Viper) (Settings, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		slog.Debug("config file loaded", "file", v.ConfigFileUsed())
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Changed lists the keys whose values differ between prev and next, in
// config file order.
func Changed(prev, next Settings) []string {
	before, after := keys(prev), keys(next)
	var out []string
	for i := range before {
		if before[i].Value != after[i].Value {
			out = append(out, before[i].Key)
		}
	}
	return out
}
