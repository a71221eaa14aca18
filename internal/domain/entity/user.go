package entity

import "time"

// Roles de usuario del panel de administración.
const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
)

// User usuario del panel de administración (login JWT).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string // admin | operador
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
