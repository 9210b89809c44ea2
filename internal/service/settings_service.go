package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/profitpilotai/controlplane/internal/engine"
	"github.com/profitpilotai/controlplane/internal/errs"
	"github.com/profitpilotai/controlplane/internal/models"
	"github.com/profitpilotai/controlplane/internal/repository"
)

type SettingsService interface {
	// GetPairs is a read-only passthrough of the engine's instrument catalog.
	GetPairs(ctx context.Context) ([]models.Pair, error)
	GetSettings(loginID string) (*models.UserConfig, error)
	// SaveSettings replaces the account's configuration wholesale.
	SaveSettings(loginID string, config *models.UserConfig) (*models.UserConfig, error)
}

type settingsService struct {
	configs repository.ConfigRepository
	engine  engine.Engine
	log     *zap.Logger
}

func NewSettingsService(configs repository.ConfigRepository, eng engine.Engine, log *zap.Logger) SettingsService {
	return &settingsService{configs: configs, engine: eng, log: log}
}

func (s *settingsService) GetPairs(ctx context.Context) ([]models.Pair, error) {
	return s.engine.ActiveSymbols(ctx)
}

func (s *settingsService) GetSettings(loginID string) (*models.UserConfig, error) {
	config, err := s.configs.Get(loginID)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return models.DefaultConfig(loginID), nil
	}
	return config, nil
}

func (s *settingsService) SaveSettings(loginID string, config *models.UserConfig) (*models.UserConfig, error) {
	if !config.AccountMode.Valid() {
		return nil, errs.Validation("account_mode", string(config.AccountMode))
	}
	if !config.Strategy.Valid() {
		return nil, errs.Validation("strategy", string(config.Strategy))
	}
	if !config.TradingType.Valid() {
		return nil, errs.Validation("trading_type", string(config.TradingType))
	}

	// The identity always comes from the session, never the payload.
	config.LoginID = loginID
	if config.SelectedPairs == nil {
		config.SelectedPairs = []string{}
	}

	if err := s.configs.Save(config); err != nil {
		return nil, err
	}
	s.log.Info("settings saved",
		zap.String("login_id", loginID),
		zap.Int("selected_pairs", len(config.SelectedPairs)))
	return config, nil
}
