package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/todobot/core/logger"
	"github.com/m3rciful/todobot/internal/model"
	"github.com/m3rciful/todobot/internal/storage"
)

const (
	msgEnterName         = "Enter your name"
	msgNameRejected      = "That name is not allowed, try another one"
	msgEnterLogin        = "Enter a login"
	msgLoginRejected     = "That login is not available, try another one"
	msgRegistered        = "You are registered"
	msgAlreadyRegistered = "You are already registered"
)

// buttonsAfterRegistration is the reply keyboard offered once registration
// completes.
var buttonsAfterRegistration = [][]string{{"/create task", "/show tasks"}}

// Registration walks a user through name and login entry.
type Registration struct {
	store Store
	user  *model.User
}

// NewRegistration binds the registration flow to a loaded user.
func NewRegistration(store Store, user *model.User) *Registration {
	return &Registration{store: store, user: user}
}

// Start rewinds an unfinished registration to its first question and runs one
// step. A user that already finished keeps their status.
func (r *Registration) Start(ctx context.Context) (Reply, error) {
	if r.user.Status < model.StatusFinish {
		r.user.Status = model.StatusStart
	}
	return r.step(ctx, "")
}

// Continue consumes the answer to the last prompt.
func (r *Registration) Continue(ctx context.Context, text string) (Reply, error) {
	return r.step(ctx, text)
}

func (r *Registration) step(ctx context.Context, text string) (Reply, error) {
	switch r.user.Status {
	case model.StatusStart:
		r.user.Status = model.StatusEnterName
		if err := r.store.SaveUser(ctx, r.user); err != nil {
			return Reply{}, fmt.Errorf("registration: %w", err)
		}
		return Reply{Text: msgEnterName}, nil

	case model.StatusEnterName:
		if !ValidName(text) {
			return Reply{Text: msgNameRejected}, nil
		}
		name := strings.TrimSpace(text)
		r.user.Name = &name
		r.user.Status = model.StatusEnterLogin
		if err := r.store.SaveUser(ctx, r.user); err != nil {
			return Reply{}, fmt.Errorf("registration: %w", err)
		}
		return Reply{Text: msgEnterLogin}, nil

	case model.StatusEnterLogin:
		login := strings.TrimSpace(text)
		ok, err := validLogin(ctx, r.store, login)
		if err != nil {
			return Reply{}, fmt.Errorf("registration: %w", err)
		}
		if !ok {
			return Reply{Text: msgLoginRejected}, nil
		}
		r.user.Login = &login
		r.user.Status = model.StatusFinish
		if err := r.store.SaveUser(ctx, r.user); err != nil {
			// The pre-check raced with another registration; the constraint
			// is the backstop and the outcome is the same re-prompt.
			if errors.Is(err, storage.ErrConflict) {
				r.user.Login = nil
				r.user.Status = model.StatusEnterLogin
				logger.Warn(ctx, "service.users", "registration.login_conflict",
					slog.Int64("user_id", r.user.ID),
				)
				return Reply{Text: msgLoginRejected}, nil
			}
			return Reply{}, fmt.Errorf("registration: %w", err)
		}
		logger.Info(ctx, "service.users", "registration.finished",
			slog.Int64("user_id", r.user.ID),
		)
		return Reply{Text: msgRegistered, Buttons: buttonsAfterRegistration}, nil
	}

	return Reply{Text: msgAlreadyRegistered}, nil
}
