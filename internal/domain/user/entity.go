package user

type Role string

const (
	RoleOwner    Role = "owner"    // Business owner - full access
	RoleAdmin    Role = "admin"    // Payroll administrator
	RoleManager  Role = "manager"  // Marks attendance for the floor
	RoleEmployee Role = "employee" // Regular staff
)

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// IsAdministrative reports whether the role runs payroll rather than receiving it.
func (r Role) IsAdministrative() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	UserID     string
	EmployeeID *string
	Roles      []Role
}

// Can checks whether any of the actor's roles grants the permission.
func (a Actor) Can(permission Permission) bool {
	for _, role := range a.Roles {
		if HasPermission(role, permission) {
			return true
		}
	}
	return false
}

// IsAdministrative checks if the actor holds an owner or admin role
func (a Actor) IsAdministrative() bool {
	for _, role := range a.Roles {
		if role.IsAdministrative() {
			return true
		}
	}
	return false
}

// IsEmployee checks if the actor is the given employee
func (a Actor) IsEmployee(employeeID string) bool {
	return a.EmployeeID != nil && *a.EmployeeID == employeeID
}

// CanView allows an actor to read an employee's records when they are that
// employee or hold the broader permission.
func (a Actor) CanView(employeeID string, viewAll Permission) bool {
	return a.IsEmployee(employeeID) || a.Can(viewAll)
}

// Require returns ErrInsufficientPermissions when the actor lacks permission.
func (a Actor) Require(permission Permission) error {
	if !a.Can(permission) {
		return ErrInsufficientPermissions
	}
	return nil
}
