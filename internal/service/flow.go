package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/msomdec/skillbarter/internal/domain"
	"github.com/msomdec/skillbarter/internal/oracle"
)

// Screen is the tagged render state: one variant per screen, each
// carrying exactly the data that screen needs. A screen with missing
// required data is unrepresentable.
type Screen interface {
	ScreenName() string
}

type LoginScreen struct{}
type RegistrationScreen struct{}
type ModeSelectScreen struct{}

type SkillSelectScreen struct {
	Mode   domain.ExchangeMode
	Skills []string // the account's own list for the chosen mode
}

type PartnerSelectScreen struct {
	Mode  domain.ExchangeMode
	Skill string
}

type SchedulingScreen struct {
	Mode    domain.ExchangeMode
	Skill   string
	Partner *domain.Account
}

type DashboardScreen struct{}
type MySessionsScreen struct{}
type ProfileScreen struct{}
type CreditsScreen struct{}

type SessionScreen struct {
	Match     *domain.BarterMatch
	IsLearner bool
}

type RatingScreen struct {
	Match *domain.BarterMatch
}

func (LoginScreen) ScreenName() string         { return "LOGIN" }
func (RegistrationScreen) ScreenName() string  { return "REGISTRATION" }
func (ModeSelectScreen) ScreenName() string    { return "MODE_SELECT" }
func (SkillSelectScreen) ScreenName() string   { return "SKILL_SELECT" }
func (PartnerSelectScreen) ScreenName() string { return "PARTNER_SELECT" }
func (SchedulingScreen) ScreenName() string    { return "SCHEDULING" }
func (DashboardScreen) ScreenName() string     { return "DASHBOARD" }
func (MySessionsScreen) ScreenName() string    { return "MY_SESSIONS" }
func (ProfileScreen) ScreenName() string       { return "PROFILE" }
func (CreditsScreen) ScreenName() string       { return "CREDITS" }
func (SessionScreen) ScreenName() string       { return "SESSION" }
func (RatingScreen) ScreenName() string        { return "RATING" }

// funnel is the sum-typed in-flight selection state. A partner cannot
// exist without a skill, nor a skill without a mode.
type funnel interface{ funnelStage() string }

type funnelNone struct{}
type funnelMode struct{ mode domain.ExchangeMode }
type funnelSkill struct {
	mode  domain.ExchangeMode
	skill string
}
type funnelPartner struct {
	mode    domain.ExchangeMode
	skill   string
	partner *domain.Account
}

func (funnelNone) funnelStage() string    { return "none" }
func (funnelMode) funnelStage() string    { return "mode" }
func (funnelSkill) funnelStage() string   { return "skill" }
func (funnelPartner) funnelStage() string { return "partner" }

// liveSession pairs the active match with its monitor and the side the
// current account took when the funnel ran.
type liveSession struct {
	match     *domain.BarterMatch
	isLearner bool
	monitor   *SessionMonitor
	ended     bool
	reason    domain.TerminationType
}

// station is where the user currently is; the funnel and live session
// are tracked alongside so sidebar navigation never loses them.
type station int

const (
	stationLogin station = iota
	stationRegistration
	stationModeSelect
	stationSkillSelect
	stationPartnerSelect
	stationScheduling
	stationDashboard
	stationMySessions
	stationProfile
	stationCredits
	stationSession
	stationRating
)

// FlowController sequences one user through the barter-initiation and
// session-completion funnels. Events arrive one at a time from HTTP
// handlers and monitor callbacks; the mutex serializes them.
type FlowController struct {
	ledger     *LedgerService
	registry   *MatchService
	advisor    oracle.Advisor
	monitorCfg MonitorConfig

	mu        sync.Mutex
	accountID string
	at        station
	sel       funnel
	session   *liveSession
}

// NewFlowController creates a controller in the initial LOGIN state.
func NewFlowController(ledger *LedgerService, registry *MatchService, advisor oracle.Advisor, cfg MonitorConfig) *FlowController {
	return &FlowController{
		ledger:     ledger,
		registry:   registry,
		advisor:    advisor,
		monitorCfg: cfg,
		at:         stationLogin,
		sel:        funnelNone{},
	}
}

// Login authenticates the controller. New users continue through
// registration; returning users land on mode selection.
func (c *FlowController) Login(accountID string, isNewUser bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.at != stationLogin {
		return fmt.Errorf("%w: already authenticated", domain.ErrInvalidTransition)
	}

	c.accountID = accountID
	if isNewUser {
		c.at = stationRegistration
	} else {
		c.at = stationModeSelect
	}
	return nil
}

// CompleteRegistration commits the profile and moves to mode selection.
func (c *FlowController) CompleteRegistration(ctx context.Context, name, bio, avatar string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.at != stationRegistration {
		return fmt.Errorf("%w: not in registration", domain.ErrInvalidTransition)
	}

	if _, err := c.ledger.UpdateProfile(ctx, c.accountID, name, bio, avatar); err != nil {
		return err
	}
	c.at = stationModeSelect
	return nil
}

// SelectMode stores the exchange mode and advances to skill selection.
func (c *FlowController) SelectMode(mode domain.ExchangeMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.at != stationModeSelect {
		return fmt.Errorf("%w: not selecting a mode", domain.ErrInvalidTransition)
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: unknown exchange mode %q", domain.ErrInvalidInput, mode)
	}

	c.sel = funnelMode{mode: mode}
	c.at = stationSkillSelect
	return nil
}

// SelectSkill stores the skill and advances to partner selection.
func (c *FlowController) SelectSkill(skill string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.at != stationSkillSelect {
		return fmt.Errorf("%w: not selecting a skill", domain.ErrInvalidTransition)
	}
	f, ok := c.sel.(funnelMode)
	if !ok {
		return fmt.Errorf("%w: no exchange mode chosen", domain.ErrInvalidTransition)
	}
	if skill == "" {
		return fmt.Errorf("%w: skill is required", domain.ErrInvalidInput)
	}

	c.sel = funnelSkill{mode: f.mode, skill: skill}
	c.at = stationPartnerSelect
	return nil
}

// SelectPartner stores the partner and advances to scheduling.
func (c *FlowController) SelectPartner(partner *domain.Account) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.at != stationPartnerSelect {
		return fmt.Errorf("%w: not selecting a partner", domain.ErrInvalidTransition)
	}
	f, ok := c.sel.(funnelSkill)
	if !ok {
		return fmt.Errorf("%w: no skill chosen", domain.ErrInvalidTransition)
	}
	if partner == nil {
		return fmt.Errorf("%w: partner is required", domain.ErrInvalidInput)
	}

	c.sel = funnelPartner{mode: f.mode, skill: f.skill, partner: partner}
	c.at = stationScheduling
	return nil
}

// FinalizeSchedule emits the pending barter request and returns the
// user to the dashboard. The funnel selections are kept: the exchange
// mode still decides which side the user is on when the session runs.
func (c *FlowController) FinalizeSchedule(ctx context.Context, timeSlot string) (*domain.BarterMatch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.at != stationScheduling {
		return nil, fmt.Errorf("%w: not scheduling", domain.ErrInvalidTransition)
	}
	f, ok := c.sel.(funnelPartner)
	if !ok {
		return nil, fmt.Errorf("%w: no partner chosen", domain.ErrInvalidTransition)
	}
	if timeSlot == "" {
		return nil, fmt.Errorf("%w: a time slot is required", domain.ErrInvalidInput)
	}

	requester, err := c.ledger.GetAccount(ctx, c.accountID)
	if err != nil {
		return nil, err
	}

	offered, requested := DeriveExchange(requester, f.partner, f.mode, f.skill)
	match, err := c.registry.CreateRequest(ctx, requester, f.partner.ID, offered, requested, "", timeSlot)
	if err != nil {
		return nil, err
	}

	c.at = stationDashboard
	return match, nil
}

// Navigate moves to a sidebar destination. Allowed from any
// authenticated state; it never touches the funnel or an in-progress
// session. Navigating to MODE_SELECT restarts the funnel and clears
// the selections.
func (c *FlowController) Navigate(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.at == stationLogin || c.at == stationRegistration {
		return fmt.Errorf("%w: not authenticated", domain.ErrInvalidTransition)
	}

	switch name {
	case "DASHBOARD":
		c.at = stationDashboard
	case "MY_SESSIONS":
		c.at = stationMySessions
	case "PROFILE":
		c.at = stationProfile
	case "CREDITS":
		c.at = stationCredits
	case "MODE_SELECT":
		c.sel = funnelNone{}
		c.at = stationModeSelect
	default:
		return fmt.Errorf("%w: unknown destination %q", domain.ErrInvalidInput, name)
	}
	return nil
}

// StartSession activates the match and enters the live session. The
// user is the learner only when the funnel ran in learn mode. Calling
// it again for the running session's match returns to the session
// screen after a sidebar detour.
func (c *FlowController) StartSession(ctx context.Context, matchID string) (*domain.BarterMatch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		if c.session.match.ID == matchID && !c.session.ended {
			c.at = stationSession
			return c.session.match, nil
		}
		return nil, fmt.Errorf("%w: another session is in progress", domain.ErrInvalidTransition)
	}
	if c.at != stationDashboard && c.at != stationMySessions {
		return nil, fmt.Errorf("%w: sessions start from the dashboard", domain.ErrInvalidTransition)
	}

	match, err := c.registry.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.RequesterID != c.accountID && match.PartnerID != c.accountID {
		return nil, domain.ErrUnauthorized
	}

	if match.Status == domain.MatchStatusAccepted {
		match, err = c.registry.Activate(ctx, matchID)
		if err != nil {
			return nil, err
		}
	}
	if match.Status != domain.MatchStatusActive {
		return nil, fmt.Errorf("%w: match is %s", domain.ErrInvalidTransition, match.Status)
	}

	isLearner := false
	switch f := c.sel.(type) {
	case funnelMode:
		isLearner = f.mode == domain.ModeLearn
	case funnelSkill:
		isLearner = f.mode == domain.ModeLearn
	case funnelPartner:
		isLearner = f.mode == domain.ModeLearn
	}

	monitor := NewSessionMonitor(c.advisor, match.SkillRequested, c.monitorCfg, func(reason domain.TerminationType) {
		// Moderation ended the session after the grace delay.
		if err := c.EndSession(context.Background(), reason); err != nil {
			// The user may have exited first; nothing to settle twice.
			return
		}
	})

	c.session = &liveSession{match: match, isLearner: isLearner, monitor: monitor}
	c.at = stationSession
	monitor.Start()
	return match, nil
}

// EndSession concludes the live session. A normal termination moves to
// the rating step with the credit delta deferred; a fault termination
// settles immediately and returns to the dashboard.
func (c *FlowController) EndSession(ctx context.Context, termination domain.TerminationType) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Guarded by the session reference, not the screen: moderation can
	// end a session the user has navigated away from.
	if c.session == nil || c.session.ended {
		return fmt.Errorf("%w: no session in progress", domain.ErrInvalidTransition)
	}

	s := c.session
	if st := s.monitor.Status(); st.IsTerminated {
		// The monitor already decided the outcome. A user end during
		// the grace delay cannot downgrade it to a normal finish.
		termination = st.TerminationReason
	}
	s.monitor.Stop()
	s.ended = true
	s.reason = termination

	if termination == domain.TerminationNormal {
		c.at = stationRating
		return nil
	}

	// Fault path: settle now, discard the session.
	delta := CreditDelta(termination, s.isLearner)
	if _, err := c.ledger.ApplyCreditDelta(ctx, c.accountID, delta); err != nil {
		return err
	}
	if _, err := c.registry.Complete(ctx, s.match.ID); err != nil {
		return err
	}

	c.session = nil
	c.at = stationDashboard
	return nil
}

// SubmitRating finishes a normally-terminated session: the completed
// counter increments, the deferred normal-path delta is applied, and
// the funnel resets.
func (c *FlowController) SubmitRating(ctx context.Context, stars int, feedback string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || !c.session.ended || c.session.reason != domain.TerminationNormal {
		return fmt.Errorf("%w: nothing to rate", domain.ErrInvalidTransition)
	}
	if stars < 1 || stars > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5 stars", domain.ErrInvalidInput)
	}

	s := c.session
	if err := c.ledger.RecordSessionCompleted(ctx, c.accountID); err != nil {
		return err
	}
	delta := CreditDelta(domain.TerminationNormal, s.isLearner)
	if _, err := c.ledger.ApplyCreditDelta(ctx, c.accountID, delta); err != nil {
		return err
	}
	if _, err := c.registry.Complete(ctx, s.match.ID); err != nil {
		return err
	}

	c.session = nil
	c.sel = funnelNone{}
	c.at = stationDashboard
	return nil
}

// Logout clears all ephemeral and authenticated state and stops any
// running monitor. The controller returns to LOGIN.
func (c *FlowController) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		c.session.monitor.Stop()
		c.session = nil
	}
	c.accountID = ""
	c.sel = funnelNone{}
	c.at = stationLogin
}

// Monitor returns the live session's monitor, or nil outside a session.
func (c *FlowController) Monitor() *SessionMonitor {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session.monitor
}

// Screen assembles the tagged render state for the current position.
func (c *FlowController) Screen(ctx context.Context) (Screen, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.at {
	case stationLogin:
		return LoginScreen{}, nil
	case stationRegistration:
		return RegistrationScreen{}, nil
	case stationModeSelect:
		return ModeSelectScreen{}, nil
	case stationSkillSelect:
		f, ok := c.sel.(funnelMode)
		if !ok {
			return nil, fmt.Errorf("%w: skill select without a mode", domain.ErrInvalidTransition)
		}
		account, err := c.ledger.GetAccount(ctx, c.accountID)
		if err != nil {
			return nil, err
		}
		skills := account.SkillsToLearn
		if f.mode == domain.ModeTeach {
			skills = account.SkillsToTeach
		}
		return SkillSelectScreen{Mode: f.mode, Skills: skills}, nil
	case stationPartnerSelect:
		f, ok := c.sel.(funnelSkill)
		if !ok {
			return nil, fmt.Errorf("%w: partner select without a skill", domain.ErrInvalidTransition)
		}
		return PartnerSelectScreen{Mode: f.mode, Skill: f.skill}, nil
	case stationScheduling:
		f, ok := c.sel.(funnelPartner)
		if !ok {
			return nil, fmt.Errorf("%w: scheduling without a partner", domain.ErrInvalidTransition)
		}
		return SchedulingScreen{Mode: f.mode, Skill: f.skill, Partner: f.partner}, nil
	case stationDashboard:
		return DashboardScreen{}, nil
	case stationMySessions:
		return MySessionsScreen{}, nil
	case stationProfile:
		return ProfileScreen{}, nil
	case stationCredits:
		return CreditsScreen{}, nil
	case stationSession:
		if c.session == nil {
			return nil, fmt.Errorf("%w: session screen without an active match", domain.ErrInvalidTransition)
		}
		return SessionScreen{Match: c.session.match, IsLearner: c.session.isLearner}, nil
	case stationRating:
		if c.session == nil {
			return nil, fmt.Errorf("%w: rating screen without an active match", domain.ErrInvalidTransition)
		}
		return RatingScreen{Match: c.session.match}, nil
	}
	return nil, fmt.Errorf("%w: unknown station", domain.ErrInvalidTransition)
}

// Selection reports the funnel selections for the partner query, or
// ok=false when the funnel has not reached the skill stage.
func (c *FlowController) Selection() (mode domain.ExchangeMode, skill string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch f := c.sel.(type) {
	case funnelSkill:
		return f.mode, f.skill, true
	case funnelPartner:
		return f.mode, f.skill, true
	}
	return "", "", false
}

// FlowManager hands out one controller per authenticated account.
type FlowManager struct {
	ledger     *LedgerService
	registry   *MatchService
	advisor    oracle.Advisor
	monitorCfg MonitorConfig

	mu    sync.Mutex
	flows map[string]*FlowController
}

// NewFlowManager creates an empty manager.
func NewFlowManager(ledger *LedgerService, registry *MatchService, advisor oracle.Advisor, cfg MonitorConfig) *FlowManager {
	return &FlowManager{
		ledger:     ledger,
		registry:   registry,
		advisor:    advisor,
		monitorCfg: cfg,
		flows:      make(map[string]*FlowController),
	}
}

// Login returns the account's controller, creating and authenticating
// one if needed.
func (m *FlowManager) Login(accountID string, isNewUser bool) (*FlowController, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.flows[accountID]; ok {
		return c, nil
	}
	c := NewFlowController(m.ledger, m.registry, m.advisor, m.monitorCfg)
	if err := c.Login(accountID, isNewUser); err != nil {
		return nil, err
	}
	m.flows[accountID] = c
	return c, nil
}

// For returns the account's controller. A valid cookie can outlive the
// in-memory flow (the process restarted), so a missing controller is
// recreated already authenticated at mode selection.
func (m *FlowManager) For(accountID string) *FlowController {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.flows[accountID]; ok {
		return c
	}
	c := NewFlowController(m.ledger, m.registry, m.advisor, m.monitorCfg)
	_ = c.Login(accountID, false)
	m.flows[accountID] = c
	return c
}

// Logout resets and drops the account's controller.
func (m *FlowManager) Logout(accountID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.flows[accountID]; ok {
		c.Logout()
		delete(m.flows, accountID)
	}
}
