package domain

import (
	"context"
	"time"
)

// ExchangeMode is the side of a barter the current account takes.
type ExchangeMode string

const (
	ModeLearn ExchangeMode = "learn"
	ModeTeach ExchangeMode = "teach"
)

// Valid reports whether the mode is one of the two known values.
func (m ExchangeMode) Valid() bool {
	return m == ModeLearn || m == ModeTeach
}

// Welcome bonus granted once at registration.
const (
	WelcomeCredits = 5
	InitialRating  = 5.0
)

// Account represents a registered member of the exchange.
// All mutable fields are owned by the ledger service; nothing else
// writes to an Account directly.
type Account struct {
	ID                string
	Name              string
	Email             string
	Avatar            string
	Bio               string
	PasswordHash      string
	SkillsToTeach     []string // insertion order preserved, no duplicates
	SkillsToLearn     []string
	Credits           int // invariant: never negative
	Rating            float64
	SessionsCompleted int
	BlockedUserIDs    []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasBlocked reports whether targetID is in the account's block set.
func (a *Account) HasBlocked(targetID string) bool {
	for _, id := range a.BlockedUserIDs {
		if id == targetID {
			return true
		}
	}
	return false
}

// Teaches reports whether the account offers the skill, case-insensitively.
func (a *Account) Teaches(skill string) bool {
	return containsFold(a.SkillsToTeach, skill)
}

// WantsToLearn reports whether the account wants the skill, case-insensitively.
func (a *Account) WantsToLearn(skill string) bool {
	return containsFold(a.SkillsToLearn, skill)
}

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Update(ctx context.Context, account *Account) error
	// List returns every account except the one with excludeID,
	// in insertion order.
	List(ctx context.Context, excludeID string) ([]*Account, error)
}
