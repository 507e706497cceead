package model

// User is a bot participant stored in td_users. Name and Login stay nil until
// the registration dialogue fills them in; TaskID references the task an
// in-progress create or update flow is mutating.
type User struct {
	ID         int64   `db:"id"`
	Name       *string `db:"name"`
	Login      *string `db:"login"`
	TelegramID int64   `db:"tg_id"`
	Status     Status  `db:"status"`
	TaskID     *int64  `db:"task_id"`
}
