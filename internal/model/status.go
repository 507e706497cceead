package model

// Status is the persisted dialogue state of a user. It encodes which question
// was last asked, so a conversation can resume after a restart. The numeric
// values are stored in td_users.status and must not be renumbered: the three
// flows occupy separate bands (0-3 registration, 10-12 creation, 20-22 update).
type Status int

const (
	// StatusStart marks a fresh user that has not registered yet.
	StatusStart Status = 0
	// StatusEnterName means the bot is waiting for a display name.
	StatusEnterName Status = 1
	// StatusEnterLogin means the bot is waiting for a login.
	StatusEnterLogin Status = 2
	// StatusFinish marks a completed flow; free text is ignored in this state.
	StatusFinish Status = 3

	// StatusCreateTaskStart marks an initiated task creation flow.
	StatusCreateTaskStart Status = 10
	// StatusCreateTaskTitle means the bot is waiting for a task title.
	StatusCreateTaskTitle Status = 11
	// StatusCreateTaskDescription means the bot is waiting for a task description.
	StatusCreateTaskDescription Status = 12

	// StatusUpdateTaskStart marks an initiated task update flow.
	StatusUpdateTaskStart Status = 20
	// StatusUpdateTaskTitle means the bot is waiting for a new task title.
	StatusUpdateTaskTitle Status = 21
	// StatusUpdateTaskDescription means the bot is waiting for a new task description.
	StatusUpdateTaskDescription Status = 22
)

// String returns a log-friendly name for the status.
func (s Status) String() string {
	switch s {
	case StatusStart:
		return "start"
	case StatusEnterName:
		return "enter_name"
	case StatusEnterLogin:
		return "enter_login"
	case StatusFinish:
		return "finish"
	case StatusCreateTaskStart:
		return "create_task_start"
	case StatusCreateTaskTitle:
		return "create_task_title"
	case StatusCreateTaskDescription:
		return "create_task_description"
	case StatusUpdateTaskStart:
		return "update_task_start"
	case StatusUpdateTaskTitle:
		return "update_task_title"
	case StatusUpdateTaskDescription:
		return "update_task_description"
	}
	return "unknown"
}
