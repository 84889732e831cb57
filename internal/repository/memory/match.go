package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/skillbarter/internal/domain"
)

// MatchRepository implements domain.MatchRepository in memory.
type MatchRepository struct {
	mu    sync.RWMutex
	byID  map[string]*domain.BarterMatch
	order []string
}

// NewMatchRepository creates an empty in-memory match store.
func NewMatchRepository() *MatchRepository {
	return &MatchRepository{byID: make(map[string]*domain.BarterMatch)}
}

func (r *MatchRepository) Create(_ context.Context, match *domain.BarterMatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	match.CreatedAt = now
	match.UpdatedAt = now

	m := *match
	r.byID[match.ID] = &m
	r.order = append(r.order, match.ID)
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (*domain.BarterMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *m
	return &c, nil
}

func (r *MatchRepository) Update(_ context.Context, match *domain.BarterMatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[match.ID]; !ok {
		return domain.ErrNotFound
	}
	match.UpdatedAt = time.Now().UTC()
	m := *match
	r.byID[match.ID] = &m
	return nil
}

func (r *MatchRepository) ListByAccount(_ context.Context, accountID string) ([]*domain.BarterMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*domain.BarterMatch
	for _, id := range r.order {
		m := r.byID[id]
		if m.RequesterID == accountID || m.PartnerID == accountID {
			c := *m
			matches = append(matches, &c)
		}
	}
	return matches, nil
}
