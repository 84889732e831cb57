package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/msomdec/skillbarter/internal/domain"
	"github.com/msomdec/skillbarter/internal/oracle"
	"github.com/msomdec/skillbarter/internal/repository/memory"
	"github.com/msomdec/skillbarter/internal/service"
)

// memPrefs is an in-memory stand-in for the sqlite preference store.
type memPrefs struct {
	mu   sync.Mutex
	data map[string]string
}

func (p *memPrefs) Get(_ context.Context, accountID, key string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.data[accountID+"/"+key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (p *memPrefs) Set(_ context.Context, accountID, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.data == nil {
		p.data = make(map[string]string)
	}
	p.data[accountID+"/"+key] = value
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	accounts := memory.NewAccountRepository()
	matches := memory.NewMatchRepository()
	if err := memory.SeedCommunity(context.Background(), accounts); err != nil {
		t.Fatalf("seeding community: %v", err)
	}

	advisor := oracle.Disabled{}
	auth := service.NewAuthService(accounts, "0123456789abcdef0123456789abcdef", bcrypt.MinCost)
	ledger := service.NewLedgerService(accounts)
	registry := service.NewMatchService(accounts, matches, advisor)
	assistant := service.NewAssistantService(accounts, advisor, nil)
	flows := service.NewFlowManager(ledger, registry, advisor, service.MonitorConfig{})

	h := New(auth, ledger, registry, assistant, flows, &memPrefs{})
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return srv
}

// client wraps the test server with a cookie jar-free helper that
// carries the auth cookie by hand.
type client struct {
	t      *testing.T
	srv    *httptest.Server
	cookie *http.Cookie
}

func (c *client) do(method, path string, body any) (*http.Response, []byte) {
	c.t.Helper()

	var payload *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshaling body: %v", err)
		}
		payload = bytes.NewBuffer(b)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, c.srv.URL+path, payload)
	if err != nil {
		c.t.Fatalf("building request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		c.t.Fatalf("reading response: %v", err)
	}

	for _, ck := range resp.Cookies() {
		if ck.Name == AuthCookieName {
			c.cookie = ck
		}
	}
	return resp, buf.Bytes()
}

func (c *client) register(name, email string) {
	c.t.Helper()
	resp, body := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": "hunter2hunter2",
	})
	if resp.StatusCode != http.StatusCreated {
		c.t.Fatalf("register returned %d: %s", resp.StatusCode, body)
	}
}

func TestHealth(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}

	resp, _ := c.do(http.MethodGet, "/api/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health returned %d", resp.StatusCode)
	}
}

func TestAuthRequired(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}

	resp, _ := c.do(http.MethodGet, "/api/auth/me", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("me without cookie returned %d, want 401", resp.StatusCode)
	}
}

func TestRegisterSetsCookieAndWelcomeBonus(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	c.register("Maya", "maya@example.com")

	if c.cookie == nil {
		t.Fatal("no auth cookie set on registration")
	}

	resp, body := c.do(http.MethodGet, "/api/auth/me", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me returned %d: %s", resp.StatusCode, body)
	}

	var account accountResponse
	if err := json.Unmarshal(body, &account); err != nil {
		t.Fatalf("decoding account: %v", err)
	}
	if account.Credits != domain.WelcomeCredits {
		t.Errorf("credits = %d, want %d", account.Credits, domain.WelcomeCredits)
	}
}

func TestRegisterValidation(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}

	resp, _ := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Maya",
		"email":    "not-an-email",
		"password": "hunter2hunter2",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad email returned %d, want 400", resp.StatusCode)
	}
}

func TestFunnelOverHTTP(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	c.register("Maya", "maya@example.com")

	// New registrations land on the registration screen first.
	resp, body := c.do(http.MethodPost, "/api/flow/registration", map[string]string{
		"name": "Maya", "bio": "Here to trade skills",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("registration step returned %d: %s", resp.StatusCode, body)
	}

	// Stock the profile so a reciprocal partner exists. Aarav teaches
	// React and wants Python.
	for _, s := range []map[string]string{
		{"mode": "teach", "skill": "Python Programming"},
		{"mode": "learn", "skill": "React Development"},
	} {
		resp, body = c.do(http.MethodPost, "/api/profile/skills", s)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("adding skill returned %d: %s", resp.StatusCode, body)
		}
	}

	resp, body = c.do(http.MethodPost, "/api/flow/mode", map[string]string{"mode": "learn"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("mode step returned %d: %s", resp.StatusCode, body)
	}
	resp, body = c.do(http.MethodPost, "/api/flow/skill", map[string]string{"skill": "React Development"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("skill step returned %d: %s", resp.StatusCode, body)
	}

	resp, body = c.do(http.MethodGet, "/api/partners", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("partners returned %d: %s", resp.StatusCode, body)
	}
	var partners partnersResponse
	if err := json.Unmarshal(body, &partners); err != nil {
		t.Fatalf("decoding partners: %v", err)
	}
	if len(partners.Candidates) == 0 {
		t.Fatalf("no candidates: %s", body)
	}
	if partners.Candidates[0].Name != "Aarav Sharma" {
		t.Errorf("first candidate = %q, want Aarav Sharma", partners.Candidates[0].Name)
	}

	resp, body = c.do(http.MethodPost, "/api/flow/partner", map[string]string{
		"partnerId": partners.Candidates[0].ID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("partner step returned %d: %s", resp.StatusCode, body)
	}

	resp, body = c.do(http.MethodPost, "/api/flow/schedule", map[string]string{
		"timeSlot": "Tomorrow, 5:00 PM",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("schedule returned %d: %s", resp.StatusCode, body)
	}
	var match matchResponse
	if err := json.Unmarshal(body, &match); err != nil {
		t.Fatalf("decoding match: %v", err)
	}
	if match.Status != domain.MatchStatusPending {
		t.Errorf("match status = %q, want pending", match.Status)
	}
	if match.SkillRequested != "React Development" {
		t.Errorf("skill requested = %q", match.SkillRequested)
	}
}

func TestFunnelStepOutOfOrder(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	c.register("Maya", "maya@example.com")

	// Still on the registration screen; the skill step is premature.
	resp, _ := c.do(http.MethodPost, "/api/flow/skill", map[string]string{"skill": "React Development"})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("out-of-order step returned %d, want 409", resp.StatusCode)
	}
}

func TestEndSessionRejectsClientFaultClaims(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	c.register("Maya", "maya@example.com")

	// Fault types are assigned by the session monitor, never taken
	// from the request body.
	for _, termination := range []string{"teacher_fault", "learner_fault"} {
		resp, body := c.do(http.MethodPost, "/api/sessions/end", map[string]string{
			"termination": termination,
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("end with %q returned %d, want %d: %s",
				termination, resp.StatusCode, http.StatusBadRequest, body)
		}
	}
}

func TestThemePreference(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	c.register("Maya", "maya@example.com")

	resp, body := c.do(http.MethodGet, "/api/preferences/theme", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get theme returned %d", resp.StatusCode)
	}
	var got map[string]string
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decoding theme: %v", err)
	}
	if got["theme"] != domain.ThemeDark {
		t.Errorf("default theme = %q, want dark", got["theme"])
	}

	if resp, _ = c.do(http.MethodPut, "/api/preferences/theme", map[string]string{"theme": "light"}); resp.StatusCode != http.StatusOK {
		t.Fatalf("set theme returned %d", resp.StatusCode)
	}

	_, body = c.do(http.MethodGet, "/api/preferences/theme", nil)
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decoding theme: %v", err)
	}
	if got["theme"] != domain.ThemeLight {
		t.Errorf("theme after update = %q, want light", got["theme"])
	}

	resp, _ = c.do(http.MethodPut, "/api/preferences/theme", map[string]string{"theme": "neon"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid theme returned %d, want 400", resp.StatusCode)
	}
}

func TestInsightDegradesGracefully(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	c.register("Maya", "maya@example.com")

	// The advisor is disabled in tests; the endpoint still answers.
	resp, body := c.do(http.MethodGet, "/api/assistant/insight", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("insight returned %d: %s", resp.StatusCode, body)
	}
	var got map[string]string
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decoding insight: %v", err)
	}
	if got["insight"] == "" {
		t.Error("empty insight with disabled advisor, want fallback text")
	}
}

func TestStandardSkillsCatalog(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}

	resp, body := c.do(http.MethodGet, "/api/skills/standard", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("skills returned %d", resp.StatusCode)
	}
	var got map[string][]string
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decoding skills: %v", err)
	}
	if len(got["skills"]) != len(domain.StandardSkills) {
		t.Errorf("catalog has %d skills, want %d", len(got["skills"]), len(domain.StandardSkills))
	}
}

func TestRespondToRequestOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	requester := &client{t: t, srv: srv}
	requester.register("Maya", "maya@example.com")
	partner := &client{t: t, srv: srv}
	partner.register("Ravi", "ravi@example.com")

	// Both complete registration so their flows are usable.
	for _, c := range []*client{requester, partner} {
		if resp, body := c.do(http.MethodPost, "/api/flow/registration", map[string]string{"name": "x"}); resp.StatusCode != http.StatusOK {
			t.Fatalf("registration step returned %d: %s", resp.StatusCode, body)
		}
	}

	// Drive the requester's funnel straight at Ravi.
	steps := []struct {
		path string
		body map[string]string
	}{
		{"/api/flow/mode", map[string]string{"mode": "learn"}},
		{"/api/flow/skill", map[string]string{"skill": "Public Speaking"}},
	}
	for _, s := range steps {
		if resp, body := requester.do(http.MethodPost, s.path, s.body); resp.StatusCode != http.StatusOK {
			t.Fatalf("%s returned %d: %s", s.path, resp.StatusCode, body)
		}
	}

	// The partner id comes from the partner's own profile.
	_, meBody := partner.do(http.MethodGet, "/api/auth/me", nil)
	var partnerAccount accountResponse
	if err := json.Unmarshal(meBody, &partnerAccount); err != nil {
		t.Fatalf("decoding partner account: %v", err)
	}

	if resp, body := requester.do(http.MethodPost, "/api/flow/partner", map[string]string{"partnerId": partnerAccount.ID}); resp.StatusCode != http.StatusOK {
		t.Fatalf("partner step returned %d: %s", resp.StatusCode, body)
	}
	resp, body := requester.do(http.MethodPost, "/api/flow/schedule", map[string]string{"timeSlot": "Saturday, 11:00 AM"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("schedule returned %d: %s", resp.StatusCode, body)
	}
	var match matchResponse
	if err := json.Unmarshal(body, &match); err != nil {
		t.Fatalf("decoding match: %v", err)
	}

	// A third party cannot answer the request.
	stranger := &client{t: t, srv: srv}
	stranger.register("Eve", "eve@example.com")
	resp, _ = stranger.do(http.MethodPost, fmt.Sprintf("/api/matches/%s/respond", match.ID), map[string]any{"accept": true})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("stranger responding returned %d, want 401", resp.StatusCode)
	}

	// Declining needs a reason.
	resp, _ = partner.do(http.MethodPost, fmt.Sprintf("/api/matches/%s/respond", match.ID), map[string]any{"accept": false})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("reasonless decline returned %d, want 400", resp.StatusCode)
	}

	// Accepting issues the session link.
	resp, body = partner.do(http.MethodPost, fmt.Sprintf("/api/matches/%s/respond", match.ID), map[string]any{"accept": true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("accept returned %d: %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &match); err != nil {
		t.Fatalf("decoding match: %v", err)
	}
	if match.Status != domain.MatchStatusAccepted || match.SessionLink == "" {
		t.Errorf("accepted match = status %q link %q", match.Status, match.SessionLink)
	}
}
