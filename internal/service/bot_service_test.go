package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/profitpilotai/controlplane/internal/errs"
	"github.com/profitpilotai/controlplane/internal/models"
	"github.com/profitpilotai/controlplane/internal/repository"
)

type fakeEngine struct {
	mu    sync.Mutex
	fail  bool
	calls []string
}

func (f *fakeEngine) record(action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, action)
	if f.fail {
		return errs.ErrEngineUnavailable
	}
	return nil
}

func (f *fakeEngine) StartBot(ctx context.Context, loginID string, config *models.UserConfig) error {
	return f.record("start")
}

func (f *fakeEngine) PauseBot(ctx context.Context, loginID string, config *models.UserConfig) error {
	return f.record("pause")
}

func (f *fakeEngine) StopBot(ctx context.Context, loginID string, config *models.UserConfig) error {
	return f.record("stop")
}

func (f *fakeEngine) ActiveSymbols(ctx context.Context) ([]models.Pair, error) {
	return []models.Pair{{Symbol: "frxEURUSD", DisplayName: "EUR/USD"}}, nil
}

func (f *fakeEngine) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.BotStatus
}

func (p *recordingPublisher) Publish(loginID string, status models.BotStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, status)
}

func (p *recordingPublisher) snapshot() []models.BotStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.BotStatus(nil), p.events...)
}

func newBotFixture(t *testing.T) (*BotService, *fakeEngine, *recordingPublisher) {
	t.Helper()
	eng := &fakeEngine{}
	pub := &recordingPublisher{}
	configs := repository.NewMemoryConfigRepository()
	bots := NewBotService(eng, configs, pub, time.Second, zap.NewNop())
	return bots, eng, pub
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		name      string
		current   models.BotStatus
		cmd       models.BotCommand
		want      models.BotStatus
		effective bool
		wantErr   error
	}{
		{"inactive start", models.BotInactive, models.CmdStart, models.BotRunning, true, nil},
		{"inactive pause", models.BotInactive, models.CmdPause, models.BotInactive, false, errs.ErrInvalidTransition},
		{"inactive stop", models.BotInactive, models.CmdStop, models.BotStopped, true, nil},
		{"running start", models.BotRunning, models.CmdStart, models.BotRunning, false, nil},
		{"running pause", models.BotRunning, models.CmdPause, models.BotPaused, true, nil},
		{"running stop", models.BotRunning, models.CmdStop, models.BotStopped, true, nil},
		{"paused start", models.BotPaused, models.CmdStart, models.BotRunning, true, nil},
		{"paused pause", models.BotPaused, models.CmdPause, models.BotPaused, false, nil},
		{"paused stop", models.BotPaused, models.CmdStop, models.BotStopped, true, nil},
		{"stopped start", models.BotStopped, models.CmdStart, models.BotRunning, true, nil},
		{"stopped pause", models.BotStopped, models.CmdPause, models.BotStopped, false, errs.ErrInvalidTransition},
		{"stopped stop", models.BotStopped, models.CmdStop, models.BotStopped, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, effective, err := transition(tt.current, tt.cmd)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("transition error = %v, expected %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if next != tt.want {
				t.Fatalf("transition = %q, expected %q", next, tt.want)
			}
			if effective != tt.effective {
				t.Fatalf("effective = %v, expected %v", effective, tt.effective)
			}
		})
	}
}

func TestCommandPublishesCommittedTransitions(t *testing.T) {
	bots, eng, pub := newBotFixture(t)
	ctx := context.Background()

	state, err := bots.Command(ctx, "u1", models.CmdStart)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if state.Status != models.BotRunning {
		t.Fatalf("status = %q, expected running", state.Status)
	}

	// Idempotent retry: no engine call, no duplicate event.
	state, err = bots.Command(ctx, "u1", models.CmdStart)
	if err != nil {
		t.Fatalf("repeat start: %v", err)
	}
	if state.Status != models.BotRunning {
		t.Fatalf("status after repeat = %q, expected running", state.Status)
	}
	if got := eng.callCount(); got != 1 {
		t.Fatalf("engine calls = %d, expected 1", got)
	}
	if events := pub.snapshot(); len(events) != 1 || events[0] != models.BotRunning {
		t.Fatalf("events = %v, expected [running]", events)
	}
}

func TestStartFromStoppedThenPause(t *testing.T) {
	bots, _, _ := newBotFixture(t)
	ctx := context.Background()

	if _, err := bots.Command(ctx, "u1", models.CmdStop); err != nil {
		t.Fatalf("stop: %v", err)
	}
	state, err := bots.Command(ctx, "u1", models.CmdStart)
	if err != nil {
		t.Fatalf("start from stopped: %v", err)
	}
	if state.Status != models.BotRunning {
		t.Fatalf("status = %q, expected running", state.Status)
	}
	state, err = bots.Command(ctx, "u1", models.CmdPause)
	if err != nil {
		t.Fatalf("pause after restart: %v", err)
	}
	if state.Status != models.BotPaused {
		t.Fatalf("status = %q, expected paused", state.Status)
	}
}

func TestPauseFromInactiveRejected(t *testing.T) {
	bots, eng, pub := newBotFixture(t)

	state, err := bots.Command(context.Background(), "u1", models.CmdPause)
	if !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("pause from inactive = %v, expected ErrInvalidTransition", err)
	}
	if state.Status != models.BotInactive {
		t.Fatalf("status = %q, expected inactive", state.Status)
	}
	if eng.callCount() != 0 {
		t.Fatal("rejected command reached the engine")
	}
	if len(pub.snapshot()) != 0 {
		t.Fatal("rejected command published an event")
	}
}

func TestEngineFailureRollsBackAndPublishesCorrection(t *testing.T) {
	bots, eng, pub := newBotFixture(t)
	eng.fail = true

	state, err := bots.Command(context.Background(), "u1", models.CmdStart)
	if !errors.Is(err, errs.ErrEngineUnavailable) {
		t.Fatalf("command error = %v, expected ErrEngineUnavailable", err)
	}
	if state.Status != models.BotInactive {
		t.Fatalf("status after rollback = %q, expected inactive", state.Status)
	}
	if got := bots.Status("u1").Status; got != models.BotInactive {
		t.Fatalf("Status after rollback = %q, expected inactive", got)
	}

	// Subscribers saw the optimistic flip and then the correction.
	events := pub.snapshot()
	if len(events) != 2 || events[0] != models.BotRunning || events[1] != models.BotInactive {
		t.Fatalf("events = %v, expected [running inactive]", events)
	}
}

func TestStatusWithoutCommandsIsInactive(t *testing.T) {
	bots, _, _ := newBotFixture(t)
	if got := bots.Status("fresh").Status; got != models.BotInactive {
		t.Fatalf("Status = %q, expected inactive", got)
	}
}

func TestRemoveResetsState(t *testing.T) {
	bots, _, _ := newBotFixture(t)
	ctx := context.Background()

	if _, err := bots.Command(ctx, "u1", models.CmdStart); err != nil {
		t.Fatalf("start: %v", err)
	}
	bots.Remove("u1")
	if got := bots.Status("u1").Status; got != models.BotInactive {
		t.Fatalf("Status after Remove = %q, expected inactive", got)
	}
}

// Concurrent commands for one account must serialize: the final state has to
// match the last committed transition, with no lost or duplicated updates.
func TestConcurrentCommandsAreSerialized(t *testing.T) {
	bots, _, pub := newBotFixture(t)
	ctx := context.Background()

	commands := []models.BotCommand{
		models.CmdStart, models.CmdStop, models.CmdStart, models.CmdPause,
		models.CmdStop, models.CmdStart, models.CmdPause, models.CmdStop,
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, cmd := range commands {
				// InvalidTransition is a legal outcome under interleaving.
				bots.Command(ctx, "u1", cmd)
			}
		}()
	}
	wg.Wait()

	final := bots.Status("u1").Status
	events := pub.snapshot()
	if len(events) == 0 {
		t.Fatal("no events published")
	}
	if last := events[len(events)-1]; last != final {
		t.Fatalf("last published event %q does not match final state %q", last, final)
	}
	switch final {
	case models.BotRunning, models.BotPaused, models.BotStopped:
	default:
		t.Fatalf("final state %q is not reachable from the issued commands", final)
	}
}

// Commands for different accounts must not contend on one lock.
func TestAccountsProceedIndependently(t *testing.T) {
	bots, _, _ := newBotFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, loginID := range []string{"u1", "u2", "u3"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := bots.Command(ctx, id, models.CmdStart); err != nil {
				t.Errorf("start %s: %v", id, err)
			}
		}(loginID)
	}
	wg.Wait()

	for _, loginID := range []string{"u1", "u2", "u3"} {
		if got := bots.Status(loginID).Status; got != models.BotRunning {
			t.Fatalf("Status(%s) = %q, expected running", loginID, got)
		}
	}
}
