package analysis

import (
	"github.com/pcfscope/server/catalog"
	"github.com/pcfscope/server/normalize"
	"github.com/pcfscope/server/settings"
	"github.com/pcfscope/server/verify"
)

// ConfigFromSettings builds a session config for the current settings.
func ConfigFromSettings(s settings.Settings, cat *catalog.Catalog) Config {
	if cat == nil {
		cat = catalog.Default()
	}
	cfg := Config{
		URL:            s.StreamURL(),
		ConnectTimeout: s.ConnectTimeout,
		IdleTimeout:    s.IdleTimeout,
		VerifyTimeout:  s.VerifyTimeout,
		Catalog:        cat,
		Normalizer:     normalize.New(cat),
		DisplayDigits:  s.DisplayDigits,
	}
	if s.VerifyEnabled {
		cfg.Verifier = verify.NewClient(verify.Config{
			BaseURL: s.BackendURL,
			Path:    s.VerifyPath,
			Timeout: s.VerifyTimeout,
		})
	}
	return cfg
}
