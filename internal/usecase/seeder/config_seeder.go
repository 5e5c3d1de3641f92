package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmaldonado/patrimonio-backend/internal/domain"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/networth"
)

// ConfigKeyDisplayCurrency selects the currency the UI renders totals in
const ConfigKeyDisplayCurrency = "moneda_display"

// defaultConfig holds the config entries every installation needs.
// Existing values are never overwritten.
var defaultConfig = map[string]string{
	networth.ConfigKeyExchangeRate: "1000",
	ConfigKeyDisplayCurrency:       "ARS",
}

// ConfigSeeder ensures the required config keys exist at startup
type ConfigSeeder struct {
	repo domain.ConfigRepository
}

// NewConfigSeeder creates a new ConfigSeeder instance
func NewConfigSeeder(repo domain.ConfigRepository) *ConfigSeeder {
	return &ConfigSeeder{repo: repo}
}

// Seed creates any missing default config entries.
// Idempotent: keys that already hold a value are left untouched.
func (s *ConfigSeeder) Seed(ctx context.Context) error {
	for key, value := range defaultConfig {
		_, err := s.repo.Get(ctx, key)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to read config key %s: %w", key, err)
		}

		if err := s.repo.Set(ctx, key, value); err != nil {
			return fmt.Errorf("failed to seed config key %s: %w", key, err)
		}
	}

	return nil
}
