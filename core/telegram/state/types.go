package state

import tele "gopkg.in/telebot.v4"

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// Session stores conversation state and temporary data for a user.
type Session struct {
	State    State
	TempData map[string]interface{}
}

// Manager orchestrates user sessions and FSM state transitions.
type Manager interface {
	// Enter transitions the user into a state and replaces the temp payload
	// wholesale, so payload keys always belong to the current state.
	Enter(userID int64, state State)
	SetTemp(userID int64, key string, value interface{})
	// UpdateTemp performs an atomic read-modify-write of one payload key.
	UpdateTemp(userID int64, key string, fn func(old interface{}) interface{})
	GetTemp(userID int64, key string) (interface{}, bool)
	GetTempInt64(userID int64, key string) (int64, bool)
	Clear(userID int64)

	GetState(userID int64) State
	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}
