package domain

import (
	"context"
	"time"
)

// Match statuses. Transitions only move forward:
// pending → accepted → active → completed, or pending → rejected.
const (
	MatchStatusPending   = "pending"
	MatchStatusAccepted  = "accepted"
	MatchStatusRejected  = "rejected"
	MatchStatusActive    = "active"
	MatchStatusCompleted = "completed"
)

// matchTransitions maps each status to the statuses reachable from it.
var matchTransitions = map[string][]string{
	MatchStatusPending:  {MatchStatusAccepted, MatchStatusRejected},
	MatchStatusAccepted: {MatchStatusActive},
	MatchStatusActive:   {MatchStatusCompleted},
}

// CanTransition reports whether a match may move from one status to another.
func CanTransition(from, to string) bool {
	for _, s := range matchTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// BarterMatch is one reciprocal teach/learn relationship between the
// requester and a partner, from request through completed session.
type BarterMatch struct {
	ID              string
	RequesterID     string
	PartnerID       string
	SkillOffered    string
	SkillRequested  string
	Status          string
	ScheduledTime   string // display slot chosen at scheduling, e.g. "Tomorrow, 5:00 PM"
	RequestMessage  string
	RejectionReason string
	SessionLink     string // generated placeholder URL; no real meeting is provisioned
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MatchRepository defines persistence operations for barter matches.
type MatchRepository interface {
	Create(ctx context.Context, match *BarterMatch) error
	GetByID(ctx context.Context, id string) (*BarterMatch, error)
	Update(ctx context.Context, match *BarterMatch) error
	// ListByAccount returns matches where the account is requester or
	// partner, in creation order.
	ListByAccount(ctx context.Context, accountID string) ([]*BarterMatch, error)
}
