package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RolePlanner = "planner"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName    string
	LastName     string
	Department   string
	Role         string // admin, planner
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
