// Package stakevault assembles the staking reward ledger for embedding in a
// host application: storage, typed state, the accounting engine and the plan
// registry, with prometheus observing the event stream.
package stakevault

import (
	"fmt"
	"log/slog"
	"strings"

	"stakevault/config"
	"stakevault/core/state"
	"stakevault/crypto"
	"stakevault/native/staking"
	"stakevault/observability/logging"
	"stakevault/observability/metrics"
	"stakevault/storage"
)

// Service owns the wired ledger components and the backing database.
type Service struct {
	cfg      *config.Config
	db       storage.Database
	state    *state.Manager
	engine   *staking.Engine
	registry *staking.Registry
	log      *slog.Logger
}

// New opens the LevelDB store under the configured data directory and
// assembles a service around it.
func New(cfg *config.Config, env string) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("stakevault: nil config")
	}
	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	svc, err := NewWithDatabase(cfg, db, env)
	if err != nil {
		db.Close()
		return nil, err
	}
	return svc, nil
}

// NewWithDatabase assembles a service over an existing database. A ledger that
// has never been seeded is initialized from the configured owner and plan
// table; an already-seeded ledger is left untouched.
func NewWithDatabase(cfg *config.Config, db storage.Database, env string) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("stakevault: nil config")
	}
	if db == nil {
		return nil, fmt.Errorf("stakevault: nil database")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := logging.Setup("stakevault", env)

	manager := state.NewManager(db)
	vault, err := manager.VaultGet()
	if err != nil {
		return nil, err
	}
	if vault == nil {
		owner, err := requiredAddress(cfg.OwnerAddress, "OwnerAddress")
		if err != nil {
			return nil, err
		}
		if err := staking.Initialize(manager, owner, cfg.GenesisPlans()); err != nil {
			return nil, err
		}
		logger.Info("ledger initialized",
			slog.String("owner", cfg.OwnerAddress),
			slog.Int("plans", len(cfg.Plans)))
	}

	custody, err := requiredAddress(cfg.CustodyAddress, "CustodyAddress")
	if err != nil {
		return nil, err
	}
	minStake, err := cfg.MinimumStake()
	if err != nil {
		return nil, err
	}

	engine := staking.NewEngine()
	engine.SetState(manager)
	engine.SetPort(staking.NewBalancePort(manager, custody))
	engine.SetMinimumStake(minStake)
	engine.SetEmitter(metrics.Observer{})

	registry := staking.NewRegistry(manager)

	return &Service{
		cfg:      cfg,
		db:       db,
		state:    manager,
		engine:   engine,
		registry: registry,
		log:      logger,
	}, nil
}

func requiredAddress(raw, field string) ([20]byte, error) {
	if strings.TrimSpace(raw) == "" {
		return [20]byte{}, fmt.Errorf("stakevault: %s not configured", field)
	}
	addr, err := crypto.DecodeAddress(raw)
	if err != nil {
		return [20]byte{}, fmt.Errorf("stakevault: invalid %s: %w", field, err)
	}
	return addr.Array(), nil
}

// Engine returns the accounting engine.
func (s *Service) Engine() *staking.Engine { return s.engine }

// Registry returns the plan registry.
func (s *Service) Registry() *staking.Registry { return s.registry }

// State returns the typed state manager backing the service.
func (s *Service) State() *state.Manager { return s.state }

// Close releases the underlying database.
func (s *Service) Close() {
	if s == nil || s.db == nil {
		return
	}
	s.db.Close()
}
