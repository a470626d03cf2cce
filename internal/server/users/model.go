// Package users implements the user directory: the durable record of every
// account, including the password hash and the refresh-token column managed
// by the credentials store.
package users

import "time"

// Roles assigned to accounts. New signups always get RoleUser.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	RefreshToken string
	CreatedAt    time.Time
}
