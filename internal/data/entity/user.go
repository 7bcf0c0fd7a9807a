package entity

import "github.com/google/uuid"

type UserRole string

const (
	RoleClient     UserRole = "CLIENT"
	RoleFreelancer UserRole = "FREELANCER"
	RoleAdmin      UserRole = "ADMIN"
)

type UserStatus string

const (
	StatusPendingVerification UserStatus = "PENDING_VERIFICATION"
	StatusActive              UserStatus = "ACTIVE"
)

type User struct {
	Base
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password"`
	FullName     string     `db:"full_name"`
	Bio          string     `db:"bio"`
	Role         UserRole   `db:"role"`
	Status       UserStatus `db:"status"`
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Caller is the authenticated identity a request acts as. It is passed
// explicitly into every service call.
type Caller struct {
	ID   uuid.UUID
	Role UserRole
}

func (c Caller) Owns(ownerID uuid.UUID) bool {
	return c.ID != uuid.Nil && c.ID == ownerID
}

func (c Caller) HasRole(role UserRole) bool {
	return c.Role == role
}
