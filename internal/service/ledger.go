package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/msomdec/skillbarter/internal/domain"
)

// LedgerService is the single owner of an account's mutable fields.
// Every mutation goes through a named operation here; nothing else in
// the application writes to an Account. Credit mutations clamp at
// zero, so the non-negative balance invariant holds unconditionally.
type LedgerService struct {
	accounts domain.AccountRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(accounts domain.AccountRepository) *LedgerService {
	return &LedgerService{accounts: accounts}
}

// GetAccount returns an account by id.
func (s *LedgerService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// AddSkill appends a skill to the account's teach or learn list.
// Duplicates (case-insensitive) are rejected; insertion order is kept.
func (s *LedgerService) AddSkill(ctx context.Context, accountID string, mode domain.ExchangeMode, skill string) error {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return fmt.Errorf("%w: skill name is required", domain.ErrInvalidInput)
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: unknown exchange mode %q", domain.ErrInvalidInput, mode)
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	switch mode {
	case domain.ModeTeach:
		if account.Teaches(skill) {
			return fmt.Errorf("%w: skill already listed", domain.ErrInvalidInput)
		}
		account.SkillsToTeach = append(account.SkillsToTeach, skill)
	case domain.ModeLearn:
		if account.WantsToLearn(skill) {
			return fmt.Errorf("%w: skill already listed", domain.ErrInvalidInput)
		}
		account.SkillsToLearn = append(account.SkillsToLearn, skill)
	}

	return s.accounts.Update(ctx, account)
}

// RemoveSkill removes a skill from the account's teach or learn list.
func (s *LedgerService) RemoveSkill(ctx context.Context, accountID string, mode domain.ExchangeMode, skill string) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: unknown exchange mode %q", domain.ErrInvalidInput, mode)
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	switch mode {
	case domain.ModeTeach:
		account.SkillsToTeach = removeFold(account.SkillsToTeach, skill)
	case domain.ModeLearn:
		account.SkillsToLearn = removeFold(account.SkillsToLearn, skill)
	}

	return s.accounts.Update(ctx, account)
}

// UpdateProfile edits the account's display fields. Empty arguments
// leave the corresponding field unchanged.
func (s *LedgerService) UpdateProfile(ctx context.Context, accountID, name, bio, avatar string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		account.Name = name
	}
	if bio != "" {
		account.Bio = bio
	}
	if avatar != "" {
		account.Avatar = avatar
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ApplyCreditDelta adjusts the account's balance, clamping at zero.
// Returns the resulting balance.
func (s *LedgerService) ApplyCreditDelta(ctx context.Context, accountID string, delta int) (int, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return 0, err
	}

	account.Credits = max(0, account.Credits+delta)

	if err := s.accounts.Update(ctx, account); err != nil {
		return 0, err
	}
	return account.Credits, nil
}

// SetRating replaces the account's average rating. The accepted range
// is 0 to 5.
func (s *LedgerService) SetRating(ctx context.Context, accountID string, rating float64) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 0 and 5", domain.ErrInvalidInput)
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	account.Rating = rating
	return s.accounts.Update(ctx, account)
}

// RecordSessionCompleted increments the completed-session counter.
// Called exactly once per rated session.
func (s *LedgerService) RecordSessionCompleted(ctx context.Context, accountID string) error {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	account.SessionsCompleted++
	return s.accounts.Update(ctx, account)
}

// Block adds targetID to the account's block set with a required
// reason. Blocking the same target twice is a no-op; the target's own
// account is never touched.
func (s *LedgerService) Block(ctx context.Context, accountID, targetID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: a reason is required to report a user", domain.ErrInvalidInput)
	}
	if targetID == accountID {
		return fmt.Errorf("%w: cannot block yourself", domain.ErrInvalidInput)
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if account.HasBlocked(targetID) {
		return nil
	}
	if _, err := s.accounts.GetByID(ctx, targetID); err != nil {
		return err
	}

	account.BlockedUserIDs = append(account.BlockedUserIDs, targetID)
	return s.accounts.Update(ctx, account)
}

func removeFold(list []string, skill string) []string {
	out := list[:0]
	for _, s := range list {
		if !strings.EqualFold(s, skill) {
			out = append(out, s)
		}
	}
	return out
}
