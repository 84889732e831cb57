package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"strings"

	"github.com/msomdec/skillbarter/internal/domain"
	"github.com/msomdec/skillbarter/internal/oracle"
)

// SessionLinkBase is the fixed prefix of generated session links. No
// real meeting backend is provisioned; the link is a placeholder.
const SessionLinkBase = "https://meet.google.com/"

// MatchService maintains the barter relationships and runs the
// candidate-matching query.
type MatchService struct {
	accounts domain.AccountRepository
	matches  domain.MatchRepository
	advisor  oracle.Advisor
}

// NewMatchService creates a new MatchService.
func NewMatchService(accounts domain.AccountRepository, matches domain.MatchRepository, advisor oracle.Advisor) *MatchService {
	return &MatchService{accounts: accounts, matches: matches, advisor: advisor}
}

// FindCandidates returns partner candidates for the account's request.
//
// The exact path keeps pool insertion order and requires a reciprocal
// fit: in learn mode the candidate must teach the skill and want
// something the requester teaches; teach mode is symmetric. When the
// skill is outside the standard vocabulary, or no exact match exists,
// the advisory oracle ranks the pool instead; if the oracle fails the
// exact result (possibly empty) stands. The second return value
// reports whether the oracle ranking was used.
func (s *MatchService) FindCandidates(ctx context.Context, account *domain.Account, mode domain.ExchangeMode, skill string) ([]*domain.Account, bool, error) {
	if !mode.Valid() {
		return nil, false, fmt.Errorf("%w: unknown exchange mode %q", domain.ErrInvalidInput, mode)
	}
	if strings.TrimSpace(skill) == "" {
		return nil, false, fmt.Errorf("%w: skill is required", domain.ErrInvalidInput)
	}

	pool, err := s.accounts.List(ctx, account.ID)
	if err != nil {
		return nil, false, fmt.Errorf("list candidate pool: %w", err)
	}

	unblocked := pool[:0]
	for _, c := range pool {
		if !account.HasBlocked(c.ID) {
			unblocked = append(unblocked, c)
		}
	}
	pool = unblocked

	var exact []*domain.Account
	for _, c := range pool {
		if reciprocalFit(account, c, mode, skill) {
			exact = append(exact, c)
		}
	}

	if len(exact) > 0 && domain.IsStandardSkill(skill) {
		return exact, false, nil
	}

	ranked, err := s.consultOracle(ctx, pool, mode, skill)
	if err != nil {
		slog.Warn("oracle matching failed, using exact result", "skill", skill, "error", err)
		return exact, false, nil
	}
	return ranked, true, nil
}

func (s *MatchService) consultOracle(ctx context.Context, pool []*domain.Account, mode domain.ExchangeMode, skill string) ([]*domain.Account, error) {
	query := oracle.MatchQuery{Mode: mode, Skill: skill}
	byID := make(map[string]*domain.Account, len(pool))
	for _, c := range pool {
		byID[c.ID] = c
		query.Candidates = append(query.Candidates, oracle.Candidate{
			ID:      c.ID,
			Name:    c.Name,
			Teaches: c.SkillsToTeach,
			Learns:  c.SkillsToLearn,
			Bio:     c.Bio,
		})
	}

	ids, err := s.advisor.SuggestPartners(ctx, query)
	if err != nil {
		return nil, err
	}

	// Keep the oracle's ranking, dropping ids outside the pool.
	var ranked []*domain.Account
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ranked = append(ranked, c)
		}
	}
	return ranked, nil
}

func reciprocalFit(account, candidate *domain.Account, mode domain.ExchangeMode, skill string) bool {
	if mode == domain.ModeLearn {
		if !candidate.Teaches(skill) {
			return false
		}
		for _, want := range candidate.SkillsToLearn {
			if account.Teaches(want) {
				return true
			}
		}
		return false
	}

	if !candidate.WantsToLearn(skill) {
		return false
	}
	for _, offer := range candidate.SkillsToTeach {
		if account.WantsToLearn(offer) {
			return true
		}
	}
	return false
}

// CreateRequest records a new pending barter request to the partner.
func (s *MatchService) CreateRequest(ctx context.Context, requester *domain.Account, partnerID, skillOffered, skillRequested, message, scheduledTime string) (*domain.BarterMatch, error) {
	if partnerID == "" || skillRequested == "" {
		return nil, fmt.Errorf("%w: partner and skill are required", domain.ErrInvalidInput)
	}
	if requester.HasBlocked(partnerID) {
		return nil, fmt.Errorf("%w: partner is blocked", domain.ErrInvalidInput)
	}
	if _, err := s.accounts.GetByID(ctx, partnerID); err != nil {
		return nil, fmt.Errorf("get partner: %w", err)
	}

	match := &domain.BarterMatch{
		RequesterID:    requester.ID,
		PartnerID:      partnerID,
		SkillOffered:   skillOffered,
		SkillRequested: skillRequested,
		Status:         domain.MatchStatusPending,
		RequestMessage: message,
		ScheduledTime:  scheduledTime,
	}

	if err := s.matches.Create(ctx, match); err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	return match, nil
}

// RespondToRequest accepts or rejects a pending request. Accepting
// generates the session link; rejecting requires a non-empty reason
// and mutates nothing when the reason is missing.
func (s *MatchService) RespondToRequest(ctx context.Context, matchID string, accept bool, reason string) (*domain.BarterMatch, error) {
	if !accept && strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: a reason is required to decline a request", domain.ErrInvalidInput)
	}

	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	target := domain.MatchStatusAccepted
	if !accept {
		target = domain.MatchStatusRejected
	}
	if !domain.CanTransition(match.Status, target) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, match.Status, target)
	}

	if accept {
		match.Status = domain.MatchStatusAccepted
		match.SessionLink = SessionLinkBase + generateMeetCode()
	} else {
		match.Status = domain.MatchStatusRejected
		match.RejectionReason = reason
	}

	if err := s.matches.Update(ctx, match); err != nil {
		return nil, fmt.Errorf("update match: %w", err)
	}
	return match, nil
}

// Activate moves an accepted match to active when its session starts.
func (s *MatchService) Activate(ctx context.Context, matchID string) (*domain.BarterMatch, error) {
	return s.transition(ctx, matchID, domain.MatchStatusActive)
}

// Complete moves an active match to its terminal completed status.
func (s *MatchService) Complete(ctx context.Context, matchID string) (*domain.BarterMatch, error) {
	return s.transition(ctx, matchID, domain.MatchStatusCompleted)
}

func (s *MatchService) transition(ctx context.Context, matchID, target string) (*domain.BarterMatch, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(match.Status, target) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, match.Status, target)
	}
	match.Status = target
	if err := s.matches.Update(ctx, match); err != nil {
		return nil, fmt.Errorf("update match: %w", err)
	}
	return match, nil
}

// GetMatch returns a match by id.
func (s *MatchService) GetMatch(ctx context.Context, matchID string) (*domain.BarterMatch, error) {
	return s.matches.GetByID(ctx, matchID)
}

// ListMatches returns every match the account participates in.
func (s *MatchService) ListMatches(ctx context.Context, accountID string) ([]*domain.BarterMatch, error) {
	return s.matches.ListByAccount(ctx, accountID)
}

// DeriveExchange picks the reciprocal skill pairing for a request: the
// requested skill is the funnel skill, and the offered skill is the
// first skill the partner wants that the requester can teach (learn
// mode), falling back to the requester's first teachable skill.
func DeriveExchange(requester, partner *domain.Account, mode domain.ExchangeMode, skill string) (offered, requested string) {
	if mode == domain.ModeTeach {
		// The requester teaches the skill; they receive whatever the
		// partner can teach that they want to learn.
		for _, offer := range partner.SkillsToTeach {
			if requester.WantsToLearn(offer) {
				return skill, offer
			}
		}
		fallback := ""
		if len(partner.SkillsToTeach) > 0 {
			fallback = partner.SkillsToTeach[0]
		}
		return skill, fallback
	}

	for _, want := range partner.SkillsToLearn {
		if requester.Teaches(want) {
			return want, skill
		}
	}
	fallback := ""
	if len(requester.SkillsToTeach) > 0 {
		fallback = requester.SkillsToTeach[0]
	}
	return fallback, skill
}

const meetAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// generateMeetCode builds the 3-4-3 dash-joined link code.
func generateMeetCode() string {
	var b strings.Builder
	for i, n := range []int{3, 4, 3} {
		if i > 0 {
			b.WriteByte('-')
		}
		buf := make([]byte, n)
		rand.Read(buf)
		for _, c := range buf {
			b.WriteByte(meetAlphabet[int(c)%len(meetAlphabet)])
		}
	}
	return b.String()
}
