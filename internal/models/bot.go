package models

import "time"

type BotStatus string

const (
	BotInactive BotStatus = "inactive"
	BotRunning  BotStatus = "running"
	BotPaused   BotStatus = "paused"
	BotStopped  BotStatus = "stopped"
)

type BotCommand string

const (
	CmdStart BotCommand = "start"
	CmdPause BotCommand = "pause"
	CmdStop  BotCommand = "stop"
)

// BotState is the lifecycle record for one account's bot. There is at most
// one live BotState per account for the process lifetime.
type BotState struct {
	Status           BotStatus `json:"status"`
	LastTransitionAt time.Time `json:"last_transition_at"`
}

// StatusEvent is the frame pushed to every live subscription of an account
// whenever its BotState changes.
type StatusEvent struct {
	Type   string    `json:"type"`
	Status BotStatus `json:"status"`
}

func NewStatusEvent(status BotStatus) StatusEvent {
	return StatusEvent{Type: "status", Status: status}
}
