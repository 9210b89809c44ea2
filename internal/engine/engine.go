// Package engine talks to the external execution engine that actually runs
// the trading bots. The control plane only relays lifecycle commands and
// reads the instrument catalog; it never implements trading logic.
package engine

import (
	"context"

	"github.com/profitpilotai/controlplane/internal/models"
)

type Engine interface {
	// StartBot asks the engine to run the account's bot with the given config.
	StartBot(ctx context.Context, loginID string, config *models.UserConfig) error
	// PauseBot suspends a running bot without tearing it down.
	PauseBot(ctx context.Context, loginID string, config *models.UserConfig) error
	// StopBot terminates the account's bot.
	StopBot(ctx context.Context, loginID string, config *models.UserConfig) error
	// ActiveSymbols returns the tradable instrument catalog.
	ActiveSymbols(ctx context.Context) ([]models.Pair, error)
}
