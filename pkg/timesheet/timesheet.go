package timesheet

import (
	"time"

	"github.com/archsheet/archsheet/pkg/phase"
	"github.com/archsheet/archsheet/pkg/project"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Editable reports whether the owner may still change the timesheet.
// Once submitted, the sheet is read-only to the owner for good.
func (s Status) Editable() bool {
	return s == StatusDraft
}

// Reviewable reports whether a manager decision (approve/reject) applies.
func (s Status) Reviewable() bool {
	return s == StatusSubmitted
}

type Timesheet struct {
	Id     int
	UserId int
	Period Period
	Status Status
	// TotalHours is a persisted snapshot, refreshed on save/submit.
	TotalHours      float64
	SubmittedAt     time.Time
	ApprovedAt      time.Time
	ApprovedBy      int
	RejectionReason string
}

// TimeEntry is one cell of the grid: hours for one date against either a
// project/phase pair or an overhead category.
type TimeEntry struct {
	Id          int
	TimesheetId int
	Date        time.Time
	Hours       float64
	Description string
	// Exactly one of ProjectId (+PhaseId) or OverheadCategoryId is set;
	// 0 means absent.
	ProjectId          int
	PhaseId            int
	OverheadCategoryId int

	// Joined reference data; nil when the entry has no association or the
	// referenced row is gone.
	Project *project.Project
	Phase   *phase.Phase
}
