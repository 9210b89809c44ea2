package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/profitpilotai/controlplane/internal/errs"
	"github.com/profitpilotai/controlplane/internal/models"
	"github.com/profitpilotai/controlplane/internal/repository"
)

func newSettingsFixture(t *testing.T) (SettingsService, *repository.MemoryConfigRepository) {
	t.Helper()
	configs := repository.NewMemoryConfigRepository()
	settings := NewSettingsService(configs, &fakeEngine{}, zap.NewNop())
	return settings, configs
}

func TestSaveSettingsValidatesEnums(t *testing.T) {
	settings, _ := newSettingsFixture(t)

	base := models.UserConfig{
		DerivAPIToken: "tok",
		AccountMode:   models.ModeDemo,
		Strategy:      models.StrategyScalping,
		TradingType:   models.TradingForex,
	}

	tests := []struct {
		name   string
		mutate func(*models.UserConfig)
		field  string
	}{
		{"bad mode", func(c *models.UserConfig) { c.AccountMode = "paper" }, "account_mode"},
		{"bad strategy", func(c *models.UserConfig) { c.Strategy = "hodl" }, "strategy"},
		{"bad trading type", func(c *models.UserConfig) { c.TradingType = "crypto" }, "trading_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := base
			tt.mutate(&config)
			_, err := settings.SaveSettings("u1", &config)
			var ve *errs.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("SaveSettings = %v, expected ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Fatalf("field = %q, expected %q", ve.Field, tt.field)
			}
		})
	}
}

func TestSaveSettingsReplacesWholesale(t *testing.T) {
	settings, configs := newSettingsFixture(t)

	first := &models.UserConfig{
		DerivAPIToken: "tok",
		AccountMode:   models.ModeDemo,
		Strategy:      models.StrategyScalping,
		TradingType:   models.TradingForex,
		SelectedPairs: []string{"frxEURUSD", "frxGBPUSD"},
	}
	if _, err := settings.SaveSettings("u1", first); err != nil {
		t.Fatalf("first save: %v", err)
	}

	second := &models.UserConfig{
		DerivAPIToken: "tok2",
		AccountMode:   models.ModeReal,
		Strategy:      models.StrategyDayTrading,
		TradingType:   models.TradingBinary,
		SelectedPairs: []string{"frxUSDJPY"},
	}
	if _, err := settings.SaveSettings("u1", second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	stored, err := configs.Get("u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// Full replace: nothing of the first save survives.
	if stored.DerivAPIToken != "tok2" || stored.Strategy != models.StrategyDayTrading {
		t.Fatalf("stored config = %+v, expected second save", stored)
	}
	if len(stored.SelectedPairs) != 1 || stored.SelectedPairs[0] != "frxUSDJPY" {
		t.Fatalf("selected pairs = %v, expected [frxUSDJPY]", stored.SelectedPairs)
	}
	if stored.LoginID != "u1" {
		t.Fatalf("login_id = %q, expected u1", stored.LoginID)
	}
}

func TestGetSettingsFallsBackToDefaults(t *testing.T) {
	settings, _ := newSettingsFixture(t)

	config, err := settings.GetSettings("fresh")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if config.Strategy != models.StrategyScalping || config.AccountMode != models.ModeDemo {
		t.Fatalf("defaults = %+v", config)
	}
}

func TestGetPairsPassesThrough(t *testing.T) {
	settings, _ := newSettingsFixture(t)

	pairs, err := settings.GetPairs(context.Background())
	if err != nil {
		t.Fatalf("GetPairs: %v", err)
	}
	if len(pairs) != 1 || pairs[0].Symbol != "frxEURUSD" {
		t.Fatalf("pairs = %v", pairs)
	}
}
