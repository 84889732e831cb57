package memory

import (
	"context"
	"fmt"

	"github.com/msomdec/skillbarter/internal/domain"
)

// communityFixtures are the seeded partner pool. Candidate matching
// preserves this insertion order on the exact-match path.
var communityFixtures = []domain.Account{
	{
		ID:                "1",
		Name:              "Aarav Sharma",
		Email:             "aarav@example.in",
		Avatar:            "https://picsum.photos/seed/aarav/200",
		SkillsToTeach:     []string{"React Development", "TypeScript", "Node.js"},
		SkillsToLearn:     []string{"Video Editing (Premiere Pro)", "Python Programming"},
		Credits:           8,
		Bio:               "Software Architect based in Bangalore. I can help you build scalable web apps.",
		Rating:            4.9,
		SessionsCompleted: 14,
	},
	{
		ID:                "2",
		Name:              "Priya Patel",
		Email:             "priya@example.in",
		Avatar:            "https://picsum.photos/seed/priya/200",
		SkillsToTeach:     []string{"Video Editing (Premiere Pro)", "After Effects", "Cinematography"},
		SkillsToLearn:     []string{"Python Programming", "Data Science", "SQL & Databases"},
		Credits:           5,
		Bio:               "Filmmaker from Mumbai. Looking to automate my editing workflows with Python.",
		Rating:            4.7,
		SessionsCompleted: 8,
	},
	{
		ID:                "3",
		Name:              "Vihaan Gupta",
		Email:             "vihaan@example.in",
		Avatar:            "https://picsum.photos/seed/vihaan/200",
		SkillsToTeach:     []string{"Graphic Design (Figma)", "UI/UX Design", "Branding"},
		SkillsToLearn:     []string{"React Development", "Public Speaking"},
		Credits:           3,
		Bio:               "Product Designer at a top fintech. I love teaching clean interface design.",
		Rating:            5.0,
		SessionsCompleted: 22,
	},
	{
		ID:                "4",
		Name:              "Ananya Iyer",
		Email:             "ananya@example.in",
		Avatar:            "https://picsum.photos/seed/ananya/200",
		SkillsToTeach:     []string{"Public Speaking", "Business Communication"},
		SkillsToLearn:     []string{"Digital Marketing", "Content Writing"},
		Credits:           6,
		Bio:               "Soft skills trainer helping engineers communicate better. Learning SEO on the side.",
		Rating:            4.8,
		SessionsCompleted: 11,
	},
}

// SeedCommunity loads the fixture accounts into the repository.
// Safe to call on a fresh store only; duplicate emails fail.
func SeedCommunity(ctx context.Context, accounts *AccountRepository) error {
	for i := range communityFixtures {
		a := communityFixtures[i]
		if err := accounts.Create(ctx, &a); err != nil {
			return fmt.Errorf("seed account %s: %w", a.Name, err)
		}
	}
	return nil
}
