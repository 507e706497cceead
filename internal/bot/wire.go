package bot

import (
	tg "github.com/m3rciful/todobot/core/telegram"
	"github.com/m3rciful/todobot/core/telegram/commands"
	"github.com/m3rciful/todobot/core/telegram/router"
)

// Register declares the bot's commands and callback operations on the
// registry.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Begin working with the bot",
	})
	reg.RegisterCommand("/registration", commands.Command{
		Handler:     h.withUser(h.Registration),
		Description: "Register a name and login",
	})
	reg.RegisterCommand("/create", commands.Command{
		Handler:     h.withUser(h.Create),
		Description: "Create a task",
	})
	reg.RegisterCommand("/show", commands.Command{
		Handler:     h.withUser(h.Show),
		Description: "Show your tasks",
	})

	_ = reg.RegisterCallback(opUpdateTask, h.withUser(h.UpdateTask))
	_ = reg.RegisterCallback(opCompleteTask, h.withUser(h.CompleteTask))
	_ = reg.RegisterCallback(opDeleteTask, h.withUser(h.DeleteTask))
}

// Routes assembles the full route table: commands, the callback route, and
// the free-text dialogue route.
func (h *Handlers) Routes(reg *tg.Registry) []tg.Route {
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(h.Text, reg, router.TextOptions{})...)
	return routes
}
