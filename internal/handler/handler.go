// Package handler exposes the JSON API over net/http.
package handler

import (
	"net/http"

	"github.com/msomdec/skillbarter/internal/domain"
	"github.com/msomdec/skillbarter/internal/service"
)

// Handler holds the services the API routes dispatch to.
type Handler struct {
	auth      *service.AuthService
	ledger    *service.LedgerService
	registry  *service.MatchService
	assistant *service.AssistantService
	flows     *service.FlowManager
	prefs     domain.PreferenceRepository
}

func New(
	auth *service.AuthService,
	ledger *service.LedgerService,
	registry *service.MatchService,
	assistant *service.AssistantService,
	flows *service.FlowManager,
	prefs domain.PreferenceRepository,
) *Handler {
	return &Handler{
		auth:      auth,
		ledger:    ledger,
		registry:  registry,
		assistant: assistant,
		flows:     flows,
		prefs:     prefs,
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Routes builds the route table. Everything except health and the two
// credential endpoints requires the auth cookie.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.handleHealth)

	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", h.RequireAuth(h.handleLogout))
	mux.HandleFunc("GET /api/auth/me", h.RequireAuth(h.handleMe))

	mux.HandleFunc("GET /api/flow/screen", h.RequireAuth(h.handleScreen))
	mux.HandleFunc("POST /api/flow/navigate", h.RequireAuth(h.handleNavigate))
	mux.HandleFunc("POST /api/flow/registration", h.RequireAuth(h.handleCompleteRegistration))
	mux.HandleFunc("POST /api/flow/mode", h.RequireAuth(h.handleSelectMode))
	mux.HandleFunc("POST /api/flow/skill", h.RequireAuth(h.handleSelectSkill))
	mux.HandleFunc("POST /api/flow/partner", h.RequireAuth(h.handleSelectPartner))
	mux.HandleFunc("POST /api/flow/schedule", h.RequireAuth(h.handleSchedule))

	mux.HandleFunc("GET /api/partners", h.RequireAuth(h.handlePartners))
	mux.HandleFunc("GET /api/matches", h.RequireAuth(h.handleListMatches))
	mux.HandleFunc("GET /api/matches/{id}", h.RequireAuth(h.handleGetMatch))
	mux.HandleFunc("POST /api/matches/{id}/respond", h.RequireAuth(h.handleRespond))

	mux.HandleFunc("POST /api/sessions/start", h.RequireAuth(h.handleStartSession))
	mux.HandleFunc("POST /api/sessions/end", h.RequireAuth(h.handleEndSession))
	mux.HandleFunc("GET /api/sessions/status", h.RequireAuth(h.handleSessionStatus))
	mux.HandleFunc("POST /api/sessions/rating", h.RequireAuth(h.handleSubmitRating))

	mux.HandleFunc("PUT /api/profile", h.RequireAuth(h.handleUpdateProfile))
	mux.HandleFunc("POST /api/profile/skills", h.RequireAuth(h.handleAddSkill))
	mux.HandleFunc("DELETE /api/profile/skills", h.RequireAuth(h.handleRemoveSkill))
	mux.HandleFunc("POST /api/profile/block", h.RequireAuth(h.handleBlock))
	mux.HandleFunc("GET /api/skills/standard", h.handleStandardSkills)

	mux.HandleFunc("GET /api/assistant/insight", h.RequireAuth(h.handleInsight))
	mux.HandleFunc("POST /api/assistant/chat", h.RequireAuth(h.handleChat))

	mux.HandleFunc("GET /api/preferences/theme", h.RequireAuth(h.handleGetTheme))
	mux.HandleFunc("PUT /api/preferences/theme", h.RequireAuth(h.handleSetTheme))

	return mux
}
