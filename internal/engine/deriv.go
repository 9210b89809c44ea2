package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/profitpilotai/controlplane/internal/errs"
	"github.com/profitpilotai/controlplane/internal/models"
)

const defaultCallTimeout = 10 * time.Second

// DerivEngine speaks the Deriv-style JSON protocol over a websocket. Each
// call dials a fresh connection, authorizes with the account's API token,
// sends one request and waits for its response. Calls are bounded by the
// configured timeout so a dead engine can never hang a caller.
type DerivEngine struct {
	wsURL   string
	appID   string
	timeout time.Duration
	log     *zap.Logger
}

func NewDerivEngine(wsURL, appID string, timeout time.Duration, log *zap.Logger) *DerivEngine {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &DerivEngine{wsURL: wsURL, appID: appID, timeout: timeout, log: log}
}

type engineResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	ActiveSymbols []struct {
		Symbol      string `json:"symbol"`
		DisplayName string `json:"display_name"`
	} `json:"active_symbols"`
}

func (e *DerivEngine) StartBot(ctx context.Context, loginID string, config *models.UserConfig) error {
	return e.command(ctx, "start", loginID, config)
}

func (e *DerivEngine) PauseBot(ctx context.Context, loginID string, config *models.UserConfig) error {
	return e.command(ctx, "pause", loginID, config)
}

func (e *DerivEngine) StopBot(ctx context.Context, loginID string, config *models.UserConfig) error {
	return e.command(ctx, "stop", loginID, config)
}

func (e *DerivEngine) command(ctx context.Context, action, loginID string, config *models.UserConfig) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	conn, err := e.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := e.authorize(ctx, conn, config.DerivAPIToken); err != nil {
		return err
	}

	req := map[string]interface{}{
		"bot": map[string]interface{}{
			"action":       action,
			"account_mode": config.AccountMode,
			"strategy":     config.Strategy,
			"trading_type": config.TradingType,
			"symbols":      config.SelectedPairs,
		},
		"passthrough": map[string]interface{}{"login_id": loginID},
	}

	resp, err := e.roundTrip(ctx, conn, req)
	if err != nil {
		return err
	}
	if resp.Error != nil {
		e.log.Warn("engine rejected bot command",
			zap.String("action", action),
			zap.String("login_id", loginID),
			zap.String("code", resp.Error.Code))
		return fmt.Errorf("%w: %s", errs.ErrEngineUnavailable, resp.Error.Message)
	}
	return nil
}

func (e *DerivEngine) ActiveSymbols(ctx context.Context) ([]models.Pair, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	conn, err := e.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	resp, err := e.roundTrip(ctx, conn, map[string]interface{}{
		"active_symbols": "brief",
		"product_type":   "basic",
	})
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrEngineUnavailable, resp.Error.Message)
	}

	pairs := make([]models.Pair, 0, len(resp.ActiveSymbols))
	for _, s := range resp.ActiveSymbols {
		pairs = append(pairs, models.Pair{Symbol: s.Symbol, DisplayName: s.DisplayName})
	}
	return pairs, nil
}

func (e *DerivEngine) dial(ctx context.Context) (*websocket.Conn, error) {
	url := fmt.Sprintf("%s?app_id=%s", e.wsURL, e.appID)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", errs.ErrEngineUnavailable, err)
	}
	return conn, nil
}

func (e *DerivEngine) authorize(ctx context.Context, conn *websocket.Conn, token string) error {
	resp, err := e.roundTrip(ctx, conn, map[string]interface{}{"authorize": token})
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("%w: authorize: %s", errs.ErrEngineUnavailable, resp.Error.Message)
	}
	return nil
}

func (e *DerivEngine) roundTrip(ctx context.Context, conn *websocket.Conn, req interface{}) (*engineResponse, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(e.timeout)
	}
	conn.SetWriteDeadline(deadline)
	conn.SetReadDeadline(deadline)

	if err := conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("%w: write: %v", errs.ErrEngineUnavailable, err)
	}

	_, raw, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", errs.ErrEngineUnavailable, err)
	}

	var resp engineResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", errs.ErrEngineUnavailable, err)
	}
	return &resp, nil
}
