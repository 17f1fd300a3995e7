package domain

type Role string

const (
	RoleBuyer     Role = "buyer"
	RoleAdmin     Role = "admin"
	RoleSupplier  Role = "supplier"
	RoleInspector Role = "inspector"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleAdmin, RoleSupplier, RoleInspector:
		return true
	}
	return false
}

// Actor is the authenticated caller resolved by the authentication collaborator.
type Actor struct {
	ID   string
	Role Role
}
