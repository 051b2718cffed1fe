package domain

import "time"

// Role controls access to administrative endpoints.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Account is the domain model for registered shoppers and administrators.
// Accounts start unverified; login is only possible after the email
// verification step flips Verified.
type Account struct {
	ID                      string
	Name                    string
	Email                   string
	PasswordHash            string
	Role                    Role
	Verified                bool
	VerificationToken       *string
	VerificationTokenExpiry *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}
