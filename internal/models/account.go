package models

import "time"

type Role string

const (
	RoleBasic Role = "basic"
	RoleDemo  Role = "demo"
	RoleReal  Role = "real"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBasic, RoleDemo, RoleReal, RoleAdmin:
		return true
	}
	return false
}

// Account is the identity record behind every session, config and bot.
// LoginID is unique and immutable; PasswordHash is never serialized.
type Account struct {
	LoginID           string    `json:"login_id" bson:"login_id"`
	PasswordHash      string    `json:"-" bson:"password_hash"`
	Role              Role      `json:"role" bson:"role"`
	IsActive          bool      `json:"is_active" bson:"is_active"`
	PreferredStrategy string    `json:"preferred_strategy,omitempty" bson:"preferred_strategy,omitempty"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
}
