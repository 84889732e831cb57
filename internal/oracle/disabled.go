package oracle

import (
	"context"
	"errors"

	"github.com/msomdec/skillbarter/internal/domain"
)

// ErrDisabled is returned by Disabled for every call.
var ErrDisabled = errors.New("oracle: no API key configured")

// Disabled is the advisor used when no API key is configured. Callers
// already treat advisor failures as soft, so every method just errors.
type Disabled struct{}

var _ Advisor = Disabled{}

func (Disabled) SuggestPartners(context.Context, MatchQuery) ([]string, error) {
	return nil, ErrDisabled
}

func (Disabled) FocusVerdict(context.Context, string) (domain.FocusVerdict, error) {
	return domain.FocusVerdict{}, ErrDisabled
}

func (Disabled) Insight(context.Context, *domain.Account) (string, error) {
	return "", ErrDisabled
}

func (Disabled) Chat(context.Context, *domain.Account, string, []Turn) (string, error) {
	return "", ErrDisabled
}
