package project

import "time"

// Project is immutable reference data from the firm's project register.
// Hours are logged against a project/phase pair, never a bare project.
type Project struct {
	Id            int
	ProjectNumber string
	Name          string
	ClientName    string
	Description   string
	StartDate     time.Time
	// ExpectedEndDate and ActualEndDate are zero when not set.
	ExpectedEndDate time.Time
	ActualEndDate   time.Time
	// BudgetHours is the total hours budgeted across all phases; 0 when unbudgeted.
	BudgetHours float64
	IsActive    bool
	// ProjectManagerId references the user managing the project, 0 when unassigned.
	ProjectManagerId int
}
