package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/zalando/go-keyring"
)

// Settings holds the runtime configuration of the service.
// Values come from the environment; the upstream API key may also live in the OS keyring.
type Settings struct {
	Addr           string   `env:"LIFESTATS_ADDR" envDefault:"127.0.0.1:8050"`
	DBPath         string   `env:"LIFESTATS_DB_PATH"`
	BaseURL        string   `env:"LIFESTATS_BASE_URL" envDefault:"http://localhost:3050"`
	UpstreamURL    string   `env:"LIFESTATS_UPSTREAM_URL"`
	UpstreamAPIKey string   `env:"LIFESTATS_UPSTREAM_API_KEY"`
	CORSOrigins    []string `env:"LIFESTATS_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3050,http://127.0.0.1:3050"`
	OTelEndpoint   string   `env:"LIFESTATS_OTEL_ENDPOINT"`
}

// Load parses Settings from the environment.
func Load() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrConfigParse, err)
	}
	s.UpstreamURL = strings.TrimRight(strings.TrimSpace(s.UpstreamURL), "/")
	return s, nil
}

// ResolveAPIKey returns the upstream API key, preferring the environment over the keyring.
// A missing keyring entry is not an error; the key is simply empty.
func (s Settings) ResolveAPIKey() (string, error) {
	if key := strings.TrimSpace(s.UpstreamAPIKey); key != "" {
		return key, nil
	}
	key, err := keyring.Get(KeyringService, KeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			slog.Debug(MsgKeyringMiss, LogKeyComponent, CompMain)
			return "", nil
		}
		return "", fmt.Errorf("%s: %w", ErrKeyringRead, err)
	}
	return key, nil
}

// StoreAPIKey saves the upstream API key in the OS keyring.
func StoreAPIKey(key string) error {
	return keyring.Set(KeyringService, KeyringUser, strings.TrimSpace(key))
}

// DeleteAPIKey removes the upstream API key from the OS keyring.
// Deleting a key that does not exist is not an error.
func DeleteAPIKey() error {
	if err := keyring.Delete(KeyringService, KeyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
