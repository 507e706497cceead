// Package flow implements the dialogue actions driving multi-turn
// conversations. Each action is bound to one loaded user and advances the
// user's persisted status by exactly one step per inbound message, so the
// conversation survives process restarts: nothing about the dialogue lives in
// memory between turns.
package flow

import (
	"context"

	"github.com/m3rciful/todobot/internal/model"
)

// Reply is what a dialogue step hands back to the transport: a message and an
// optional reply keyboard described as rows of button labels.
type Reply struct {
	Text    string
	Buttons [][]string
}

// Action is one of the three fixed dialogue flows. Start resets or
// initializes the flow and runs its first step; Continue consumes one line of
// user text as the answer to the last prompt.
type Action interface {
	Start(ctx context.Context) (Reply, error)
	Continue(ctx context.Context, text string) (Reply, error)
}

// Store is the persistence surface the flows need.
type Store interface {
	LoginTaken(ctx context.Context, login string) (bool, error)
	Task(ctx context.Context, userID, taskID int64) (*model.Task, error)
	SaveUser(ctx context.Context, u *model.User) error
	SaveUserAndTask(ctx context.Context, u *model.User, t *model.Task) error
	PurgeDraftTasks(ctx context.Context, userID int64) error
}

// Kind tags which flow owns a status value.
type Kind int

const (
	// KindNone means free text should be ignored (completed flow).
	KindNone Kind = iota
	// KindRegistration covers the 0-9 status band.
	KindRegistration
	// KindCreate covers the 10-19 status band.
	KindCreate
	// KindUpdate covers the 20-29 status band.
	KindUpdate
)

// Select maps a persisted status to the flow that owns it. StatusFinish
// short-circuits to KindNone before band routing: completed users generate no
// reply for free text.
func Select(st model.Status) Kind {
	switch {
	case st == model.StatusFinish:
		return KindNone
	case st < 10:
		return KindRegistration
	case st < 20:
		return KindCreate
	case st < 30:
		return KindUpdate
	}
	return KindNone
}

// New constructs the action for a kind, bound to the given user.
func New(kind Kind, store Store, user *model.User) Action {
	switch kind {
	case KindRegistration:
		return NewRegistration(store, user)
	case KindCreate:
		return NewCreate(store, user)
	case KindUpdate:
		return NewUpdate(store, user)
	}
	return nil
}
