package user

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleFarmer Role = "farmer"
	RoleBuyer  Role = "buyer"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleFarmer, RoleBuyer:
		return true
	}
	return false
}

// Address is a free-form postal record; only the province is mandatory.
type Address struct {
	Street   string `json:"street,omitempty"`
	City     string `json:"city,omitempty"`
	Province string `json:"province"`
	Zip      string `json:"zip,omitempty"`
}

type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	OrganizationName string    `json:"organization_name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	Address          Address   `json:"address"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Profile is the public view of a user; it never carries the password hash.
// swagger:model UserProfile
type Profile struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	OrganizationName string  `json:"organization_name"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	Role             Role    `json:"role"`
	Address          Address `json:"address"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:               u.ID,
		Name:             u.Name,
		OrganizationName: u.OrganizationName,
		Email:            u.Email,
		Phone:            u.Phone,
		Role:             u.Role,
		Address:          u.Address,
	}
}
