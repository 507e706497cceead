package model

const (
	// TitleMaxLen bounds td_tasks.title.
	TitleMaxLen = 100
	// DescriptionMaxLen bounds td_tasks.description.
	DescriptionMaxLen = 300
)

// Task is a to-do item stored in td_tasks. A task is created invisible during
// the creation dialogue and becomes visible only once the description step
// completes; invisible tasks are drafts and get purged when a new creation
// flow starts.
type Task struct {
	ID          int64   `db:"id"`
	UserID      int64   `db:"user_id"`
	Title       string  `db:"title"`
	Description *string `db:"description"`
	IsComplete  bool    `db:"is_complete"`
	IsVisible   bool    `db:"is_visible"`
}
