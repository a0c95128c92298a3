package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Principal is the authenticated actor behind a request. It is injected by
// the auth boundary and threaded explicitly through every service call.
type Principal struct {
	ID   string
	Role Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// SystemPrincipal is used by background workers applying external events,
// such as payment confirmations. It carries admin rights.
func SystemPrincipal() Principal {
	return Principal{ID: "system", Role: RoleAdmin}
}
