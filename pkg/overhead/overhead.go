package overhead

// Category is a non-billable overhead bucket (PTO, admin, business
// development). An entry carries either a project/phase pair or an overhead
// category, never both.
type Category struct {
	Id           int
	CategoryCode string
	Name         string
	Description  string
	IsActive     bool
}
