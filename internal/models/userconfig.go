package models

type AccountMode string

const (
	ModeDemo AccountMode = "demo"
	ModeReal AccountMode = "real"
)

func (m AccountMode) Valid() bool {
	return m == ModeDemo || m == ModeReal
}

type Strategy string

const (
	StrategyScalping     Strategy = "scalping"
	StrategyDayTrading   Strategy = "day_trading"
	StrategySwingTrading Strategy = "swing_trading"
)

func (s Strategy) Valid() bool {
	switch s {
	case StrategyScalping, StrategyDayTrading, StrategySwingTrading:
		return true
	}
	return false
}

type TradingType string

const (
	TradingForex  TradingType = "forex"
	TradingBinary TradingType = "binary"
)

func (t TradingType) Valid() bool {
	return t == TradingForex || t == TradingBinary
}

// UserConfig is the per-account trading configuration handed to the execution
// engine with every bot command. Saves replace the whole record; there is no
// partial merge.
type UserConfig struct {
	LoginID       string      `json:"login_id" bson:"login_id"`
	DerivAPIToken string      `json:"deriv_api_token" bson:"deriv_api_token"`
	AccountMode   AccountMode `json:"account_mode" bson:"account_mode"`
	Strategy      Strategy    `json:"strategy" bson:"strategy"`
	TradingType   TradingType `json:"trading_type" bson:"trading_type"`
	SelectedPairs []string    `json:"selected_pairs" bson:"selected_pairs"`
}

// DefaultConfig is the configuration created alongside a new account.
func DefaultConfig(loginID string) *UserConfig {
	return &UserConfig{
		LoginID:       loginID,
		AccountMode:   ModeDemo,
		Strategy:      StrategyScalping,
		TradingType:   TradingForex,
		SelectedPairs: []string{},
	}
}
