package domain

import (
	"errors"
	"time"
)

// Role tags form a closed set; anything else routes to the fallback view
// client-side and is rejected by RBAC server-side.
const (
	RoleBishop         = "bishop"
	RoleEQ             = "eq"
	RoleStakeRep       = "stake_rep"
	RoleStakeCommittee = "stake_committee"
	RoleStakePresident = "stake_president"
	RoleInstructor     = "instructor"
	RoleStudent        = "student"
)

// DefaultWard is assigned at signup until a stake representative places the
// member in a real ward.
const DefaultWard = "unassigned"

var knownRoles = map[string]struct{}{
	RoleBishop:         {},
	RoleEQ:             {},
	RoleStakeRep:       {},
	RoleStakeCommittee: {},
	RoleStakePresident: {},
	RoleInstructor:     {},
	RoleStudent:        {},
}

// KnownRole reports whether role belongs to the fixed role set.
func KnownRole(role string) bool {
	_, ok := knownRoles[role]
	return ok
}

// CommitteeRoles are the stake-level roles allowed to manage groups.
func CommitteeRoles() []string {
	return []string{RoleStakeRep, RoleStakeCommittee, RoleStakePresident}
}

// ReportRoles are all roles allowed to read aggregated stake reports.
func ReportRoles() []string {
	return []string{RoleBishop, RoleEQ, RoleStakeRep, RoleStakeCommittee, RoleStakePresident}
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrForbidden          = errors.New("access forbidden")
)

// User models a registered member of the stake.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Ward         string    `json:"ward"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
