// Package oracle wraps the generative advisory service. The oracle is
// consulted, never trusted: every caller owns a deterministic fallback
// and no oracle error escalates past the consuming service.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/msomdec/skillbarter/internal/domain"
)

// Candidate is one pool member presented to the oracle for ranking.
type Candidate struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Teaches []string `json:"teaches"`
	Learns  []string `json:"learns"`
	Bio     string   `json:"bio"`
}

// MatchQuery describes a partner-suggestion request.
type MatchQuery struct {
	Mode       domain.ExchangeMode
	Skill      string
	Candidates []Candidate
}

// Turn is one prior exchange in a support conversation.
type Turn struct {
	Role string // "user" or "model"
	Text string
}

// Advisor is the narrow surface the rest of the application consults.
type Advisor interface {
	// SuggestPartners returns candidate ids ranked by the oracle.
	SuggestPartners(ctx context.Context, query MatchQuery) ([]string, error)
	// FocusVerdict evaluates the focus of a live session on the given topic.
	FocusVerdict(ctx context.Context, topic string) (domain.FocusVerdict, error)
	// Insight produces a one-sentence strategic tip for the account.
	Insight(ctx context.Context, account *domain.Account) (string, error)
	// Chat answers a support question with optional prior turns,
	// grounded in the account's skill context.
	Chat(ctx context.Context, account *domain.Account, message string, history []Turn) (string, error)
}

// ParseVerdict decodes a focus-verdict payload. Missing feedback and a
// zero focus score fall back to benign defaults, matching how the
// verdict has always been read.
func ParseVerdict(payload string) (domain.FocusVerdict, error) {
	var v domain.FocusVerdict
	if err := json.Unmarshal([]byte(stripFences(payload)), &v); err != nil {
		return domain.FocusVerdict{}, fmt.Errorf("parse focus verdict: %w", err)
	}
	if v.Feedback == "" {
		v.Feedback = "Monitoring focus..."
	}
	if v.FocusScore == 0 {
		v.FocusScore = 100
	}
	if v.ViolationType == "" {
		v.ViolationType = domain.ViolationNone
	}
	return v, nil
}

// ParseIDList decodes a JSON array of candidate ids.
func ParseIDList(payload string) ([]string, error) {
	var ids []string
	if err := json.Unmarshal([]byte(stripFences(payload)), &ids); err != nil {
		return nil, fmt.Errorf("parse id list: %w", err)
	}
	return ids, nil
}

// stripFences removes a markdown code fence the model may wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
