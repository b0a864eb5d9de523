package user

// Role determines which timesheet operations a user may perform. Managers
// additionally review timesheets submitted by their reports.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

type User struct {
	Id        int
	Uid       string
	Email     string
	FirstName string
	LastName  string
	Role      Role
	// HourlyRate is the billing rate in the firm's currency; 0 when not set.
	HourlyRate float64
	IsActive   bool
	// ManagerId points to the user who reviews this user's timesheets.
	// 0 when the user has no assigned manager.
	ManagerId int
}

func (u User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	return u.FirstName + " " + u.LastName
}

func (u User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}
