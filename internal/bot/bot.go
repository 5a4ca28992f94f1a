// Package bot wires the mijozbot conversation flows: the subject-interest
// collection flow, contact registration with a staff notification, and the
// admin report/broadcast panel.
package bot

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"mijozbot/core/bootstrap"
	"mijozbot/core/telegram/state"
	"mijozbot/internal/config"
	"mijozbot/internal/service"
	"mijozbot/internal/storage"
)

// Conversation states. Absence of a session means the user is idle.
const (
	// StateCollectingSubjects: the user is picking subjects from the menu.
	StateCollectingSubjects state.State = "collecting_subjects"
	// StateAdminChoosingMode: the admin panel is open. The panel itself sets
	// no session state; the chosen mode callback does.
	StateAdminChoosingMode state.State = "admin_choosing_mode"
	// StateAdminEnteringUserID: the admin is typing a single broadcast target.
	StateAdminEnteringUserID state.State = "admin_entering_user_id"
	// StateAdminWaitingMessage: the next admin message becomes the broadcast.
	StateAdminWaitingMessage state.State = "admin_waiting_message"
)

// Session payload keys, scoped to the state that owns them.
const (
	tempSubjects = "subjects"       // StateCollectingSubjects: map[string]struct{}
	tempMode     = "mode"           // StateAdminWaitingMessage: "all" or "one"
	tempTargetID = "target_user_id" // StateAdminWaitingMessage, mode "one": int64
)

const (
	modeAll = "all"
	modeOne = "one"
)

// App holds the wiring of the bot: configuration, user registry, the FSM
// session manager, and the cross-flow subject cache.
type App struct {
	cfg   *config.Config
	db    *sqlx.DB
	users *service.Users
	fsm   state.Manager

	// subjectCache carries the finalized subject list from the subject flow
	// into registration, keyed by user id, outside the session payload.
	subjectCache *state.Stash

	// transport overrides the live bot transport in tests.
	transport Transport
}

// New bootstraps infrastructure and assembles the application.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config provided")
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:          cfg,
		db:           res.DB,
		users:        service.NewUsers(storage.NewUsers(res.DB)),
		fsm:          state.NewMemoryManager(),
		subjectCache: state.NewStash(),
	}
	app.registerFlows()
	return app, nil
}

// registerFlows binds conversation states to their handlers.
func (a *App) registerFlows() {
	state.RegisterHandler(StateCollectingSubjects, a.handleCollectingSubjects)
	state.RegisterHandler(StateAdminEnteringUserID, a.handleAdminEnterUserID)
	state.RegisterHandler(StateAdminWaitingMessage, a.handleAdminBroadcastMessage)
}
