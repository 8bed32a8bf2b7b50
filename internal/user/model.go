package user

import "time"

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleFarmer Role = "farmer"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	Verified  bool
	CreatedAt time.Time
}
