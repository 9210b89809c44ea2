package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/profitpilotai/controlplane/internal/engine"
	"github.com/profitpilotai/controlplane/internal/errs"
	"github.com/profitpilotai/controlplane/internal/models"
	"github.com/profitpilotai/controlplane/internal/repository"
)

// StatusPublisher receives committed bot status changes for fan-out.
type StatusPublisher interface {
	Publish(loginID string, status models.BotStatus)
}

// BotService owns one lifecycle state machine per account. All commands for
// an account are serialized on that account's mutex; different accounts
// proceed fully in parallel.
type BotService struct {
	engine    engine.Engine
	configs   repository.ConfigRepository
	publisher StatusPublisher
	timeout   time.Duration
	log       *zap.Logger

	mu   sync.Mutex
	bots map[string]*botEntry
}

type botEntry struct {
	mu    sync.Mutex
	state models.BotState
}

func NewBotService(eng engine.Engine, configs repository.ConfigRepository, publisher StatusPublisher, timeout time.Duration, log *zap.Logger) *BotService {
	return &BotService{
		engine:    eng,
		configs:   configs,
		publisher: publisher,
		timeout:   timeout,
		log:       log,
		bots:      make(map[string]*botEntry),
	}
}

// transition applies the lifecycle table. effective=false marks an idempotent
// no-op (Start while running, Stop while stopped) that must not reach the
// engine or republish the unchanged status.
func transition(current models.BotStatus, cmd models.BotCommand) (next models.BotStatus, effective bool, err error) {
	switch cmd {
	case models.CmdStart:
		if current == models.BotRunning {
			return current, false, nil
		}
		return models.BotRunning, true, nil

	case models.CmdPause:
		switch current {
		case models.BotRunning:
			return models.BotPaused, true, nil
		case models.BotPaused:
			return current, false, nil
		default:
			// Pause outside a run surfaces a client bug instead of hiding it.
			return current, false, errs.ErrInvalidTransition
		}

	case models.CmdStop:
		if current == models.BotStopped {
			return current, false, nil
		}
		return models.BotStopped, true, nil
	}
	return current, false, fmt.Errorf("unknown bot command %q", cmd)
}

// Command runs one lifecycle command for the account. The update is
// optimistic: state flips and is published before the engine call, and an
// engine failure rolls it back with a corrective event.
func (s *BotService) Command(ctx context.Context, loginID string, cmd models.BotCommand) (models.BotState, error) {
	entry := s.entry(loginID)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	next, effective, err := transition(entry.state.Status, cmd)
	if err != nil {
		return entry.state, err
	}
	if !effective {
		return entry.state, nil
	}

	config, err := s.configs.Get(loginID)
	if err != nil {
		return entry.state, err
	}
	if config == nil {
		config = models.DefaultConfig(loginID)
	}

	previous := entry.state
	entry.state = models.BotState{Status: next, LastTransitionAt: time.Now()}
	s.publisher.Publish(loginID, next)

	if err := s.forward(ctx, cmd, loginID, config); err != nil {
		entry.state = previous
		s.publisher.Publish(loginID, previous.Status)
		s.log.Warn("engine call failed, state rolled back",
			zap.String("login_id", loginID),
			zap.String("command", string(cmd)),
			zap.Error(err))
		if errors.Is(err, errs.ErrEngineUnavailable) {
			return entry.state, err
		}
		return entry.state, fmt.Errorf("%w: %v", errs.ErrEngineUnavailable, err)
	}

	s.log.Info("bot transition",
		zap.String("login_id", loginID),
		zap.String("command", string(cmd)),
		zap.String("from", string(previous.Status)),
		zap.String("to", string(next)))
	return entry.state, nil
}

func (s *BotService) forward(ctx context.Context, cmd models.BotCommand, loginID string, config *models.UserConfig) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	switch cmd {
	case models.CmdStart:
		return s.engine.StartBot(ctx, loginID, config)
	case models.CmdPause:
		return s.engine.PauseBot(ctx, loginID, config)
	case models.CmdStop:
		return s.engine.StopBot(ctx, loginID, config)
	}
	return fmt.Errorf("unknown bot command %q", cmd)
}

// Status reports the current lifecycle state without creating an entry.
func (s *BotService) Status(loginID string) models.BotState {
	s.mu.Lock()
	entry, ok := s.bots[loginID]
	s.mu.Unlock()
	if !ok {
		return models.BotState{Status: models.BotInactive}
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.state
}

// Ensure creates the account's BotState in `inactive` if absent. Called when
// an account is created so its state exists before the first command.
func (s *BotService) Ensure(loginID string) {
	s.entry(loginID)
}

// Remove drops the account's state machine as part of the delete cascade.
func (s *BotService) Remove(loginID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bots, loginID)
}

func (s *BotService) entry(loginID string) *botEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.bots[loginID]
	if !ok {
		entry = &botEntry{state: models.BotState{Status: models.BotInactive, LastTransitionAt: time.Now()}}
		s.bots[loginID] = entry
	}
	return entry
}
