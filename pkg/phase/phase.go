package phase

// Phase is a standardized project-lifecycle stage (e.g. "DD" — Design
// Development) hours are logged against. Immutable reference data.
type Phase struct {
	Id           int
	PhaseCode    string
	Name         string
	Description  string
	DisplayOrder int
	IsActive     bool
}
