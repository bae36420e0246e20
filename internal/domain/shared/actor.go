package shared

// Role is the coarse permission level of the person performing an operation
type Role string

const (
	// RoleAdmin can edit locked documents and approve requests
	RoleAdmin Role = "admin"
	// RoleManager can approve part requests
	RoleManager Role = "manager"
	// RoleStaff performs day-to-day operations
	RoleStaff Role = "staff"
)

// Actor identifies who is performing an operation. It arrives from the
// HTTP boundary; there is no session management in this service.
type Actor struct {
	ID   string
	Name string
	Role Role
}

// IsAdmin returns true for admin actors
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanApprove returns true for actors allowed to move requests into or
// out of the approved state
func (a Actor) CanApprove() bool {
	return a.Role == RoleAdmin || a.Role == RoleManager
}
