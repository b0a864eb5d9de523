package notification

import "time"

// Notification is a short in-app message about a timesheet lifecycle change.
type Notification struct {
	Id          int
	UserId      int
	TimesheetId int
	Message     string
	CreatedAt   time.Time
	ReadAt      time.Time
}

func (n Notification) IsRead() bool {
	return !n.ReadAt.IsZero()
}
