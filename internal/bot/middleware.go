package bot

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/todobot/core/telegram/helpers"
	"github.com/m3rciful/todobot/internal/model"
)

// withUser resolves the sender to a stored user before invoking the handler.
// Events from unknown identities are short-circuited with a register-first
// reply; no flow is entered.
func (h *Handlers) withUser(next func(tele.Context, *model.User) error) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		user, err := tghelpers.CurrentUser[*model.User](ctx, h.store, c.Sender().ID)
		if err != nil {
			return h.fail(c, "resolve_user", err)
		}
		if user == nil {
			return tghelpers.SendText(c, msgStartFirst)
		}
		return next(c, user)
	}
}
