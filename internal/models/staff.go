package models

// StaffRole is a staff category gating permitted actions.
type StaffRole string

const (
	RoleWaiter  StaffRole = "waiter"
	RoleChef    StaffRole = "chef"
	RoleManager StaffRole = "manager"
)

// Valid reports whether the value is a known staff role.
func (r StaffRole) Valid() bool {
	switch r {
	case RoleWaiter, RoleChef, RoleManager:
		return true
	}
	return false
}

// Staff is a staff member record. HashedPassword never leaves the
// staff service.
type Staff struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Role           StaffRole `json:"role"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
}

// CreateStaffRequest is the body of POST /staffs/.
type CreateStaffRequest struct {
	Name     string    `json:"name"`
	Role     StaffRole `json:"role"`
	Username string    `json:"username"`
	Password string    `json:"password"`
}

// Validate checks the create staff request.
func (req *CreateStaffRequest) Validate() error {
	if req.Name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(req.Name) > 64 {
		return ValidationError{Field: "name", Message: "name must be at most 64 characters"}
	}
	if !req.Role.Valid() {
		return ValidationError{Field: "role", Message: "role must be one of: waiter, chef, manager"}
	}
	if req.Username == "" {
		return ValidationError{Field: "username", Message: "username is required"}
	}
	if len(req.Password) < 6 {
		return ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}
	return nil
}

// LoginRequest is the body of POST /staffs/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the login response carrying a signed bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
