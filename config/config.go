package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"stakevault/crypto"
	"stakevault/native/staking"
)

// PlanConfig describes one staking plan seeded at initialization.
type PlanConfig struct {
	Name                string `toml:"Name"`
	LockDurationSeconds uint64 `toml:"LockDurationSeconds"`
	RateBps             uint64 `toml:"RateBps"`
	BonusBps            uint64 `toml:"BonusBps"`
	Active              bool   `toml:"Active"`
}

// Config carries the deployment settings for the staking ledger.
type Config struct {
	DataDir         string       `toml:"DataDir"`
	OwnerAddress    string       `toml:"OwnerAddress"`
	CustodyAddress  string       `toml:"CustodyAddress"`
	MinimumStakeWei string       `toml:"MinimumStakeWei"`
	Plans           []PlanConfig `toml:"Plans"`
}

// Load loads the configuration from the given path, creating a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./data"
	}
	if strings.TrimSpace(cfg.MinimumStakeWei) == "" {
		cfg.MinimumStakeWei = "1000000000000000000"
	}
	if len(cfg.Plans) == 0 {
		for _, plan := range staking.DefaultGenesisPlans() {
			cfg.Plans = append(cfg.Plans, PlanConfig{
				Name:                plan.Name,
				LockDurationSeconds: plan.LockDuration,
				RateBps:             plan.RateBps,
				BonusBps:            plan.BonusBps,
				Active:              plan.Active,
			})
		}
	}
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	applyDefaults(cfg)
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks address formats, the minimum stake and the seed plan table.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OwnerAddress) != "" {
		if _, err := crypto.DecodeAddress(c.OwnerAddress); err != nil {
			return fmt.Errorf("config: invalid OwnerAddress: %w", err)
		}
	}
	if strings.TrimSpace(c.CustodyAddress) != "" {
		if _, err := crypto.DecodeAddress(c.CustodyAddress); err != nil {
			return fmt.Errorf("config: invalid CustodyAddress: %w", err)
		}
	}
	if _, err := c.MinimumStake(); err != nil {
		return err
	}
	if len(c.Plans) > 0 && len(c.Plans) < 2 {
		return fmt.Errorf("config: at least two seed plans required, got %d", len(c.Plans))
	}
	for i, plan := range c.Plans {
		if strings.TrimSpace(plan.Name) == "" {
			return fmt.Errorf("config: plan %d missing name", i)
		}
	}
	return nil
}

// MinimumStake parses the configured minimum stake threshold.
func (c *Config) MinimumStake() (*big.Int, error) {
	raw := strings.TrimSpace(c.MinimumStakeWei)
	if raw == "" {
		return nil, fmt.Errorf("config: MinimumStakeWei not set")
	}
	min, ok := new(big.Int).SetString(raw, 10)
	if !ok || min.Sign() <= 0 {
		return nil, fmt.Errorf("config: invalid MinimumStakeWei %q", c.MinimumStakeWei)
	}
	return min, nil
}

// GenesisPlans converts the configured plan table into seedable plans.
func (c *Config) GenesisPlans() []staking.Plan {
	plans := make([]staking.Plan, 0, len(c.Plans))
	for _, plan := range c.Plans {
		plans = append(plans, staking.Plan{
			Name:         strings.TrimSpace(plan.Name),
			LockDuration: plan.LockDurationSeconds,
			RateBps:      plan.RateBps,
			BonusBps:     plan.BonusBps,
			Active:       plan.Active,
		})
	}
	return plans
}
