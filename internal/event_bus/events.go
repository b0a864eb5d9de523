package event_bus

import "time"

const (
	TimesheetSubmittedEvent EventType = "timesheet.submitted"
	TimesheetApprovedEvent  EventType = "timesheet.approved"
	TimesheetRejectedEvent  EventType = "timesheet.rejected"
)

type TimesheetSubmitted struct {
	TimesheetId int
	OwnerId     int
	PeriodStart time.Time
	PeriodEnd   time.Time
	TotalHours  float64
}

type TimesheetApproved struct {
	TimesheetId int
	OwnerId     int
	ApproverId  int
}

type TimesheetRejected struct {
	TimesheetId int
	OwnerId     int
	ReviewerId  int
	Reason      string
}
