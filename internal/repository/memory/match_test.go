package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/skillbarter/internal/domain"
)

func TestMatchListByAccount(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchRepository()

	mine := &domain.BarterMatch{RequesterID: "me", PartnerID: "a"}
	theirs := &domain.BarterMatch{RequesterID: "a", PartnerID: "b"}
	incoming := &domain.BarterMatch{RequesterID: "b", PartnerID: "me"}
	for _, m := range []*domain.BarterMatch{mine, theirs, incoming} {
		if err := repo.Create(ctx, m); err != nil {
			t.Fatalf("creating match: %v", err)
		}
	}

	list, err := repo.ListByAccount(ctx, "me")
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(list) != 2 || list[0].ID != mine.ID || list[1].ID != incoming.ID {
		t.Errorf("got %d matches, want [mine incoming] in creation order", len(list))
	}
}

func TestMatchUpdateMissing(t *testing.T) {
	repo := NewMatchRepository()

	err := repo.Update(context.Background(), &domain.BarterMatch{ID: "ghost"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("updating missing match: got %v, want ErrNotFound", err)
	}
}

func TestMatchReadsAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchRepository()

	match := &domain.BarterMatch{RequesterID: "me", PartnerID: "a", Status: domain.MatchStatusPending}
	if err := repo.Create(ctx, match); err != nil {
		t.Fatalf("creating match: %v", err)
	}

	got, err := repo.GetByID(ctx, match.ID)
	if err != nil {
		t.Fatalf("getting match: %v", err)
	}
	got.Status = "mutated"

	again, err := repo.GetByID(ctx, match.ID)
	if err != nil {
		t.Fatalf("getting match again: %v", err)
	}
	if again.Status != domain.MatchStatusPending {
		t.Error("mutating a returned match leaked into the store")
	}
}
