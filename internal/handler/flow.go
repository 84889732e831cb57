package handler

import (
	"net/http"

	"github.com/msomdec/skillbarter/internal/domain"
	"github.com/msomdec/skillbarter/internal/service"
)

type screenResponse struct {
	Screen string `json:"screen"`
	Data   any    `json:"data,omitempty"`
}

func toScreenResponse(s service.Screen) screenResponse {
	resp := screenResponse{Screen: s.ScreenName()}
	switch v := s.(type) {
	case service.SkillSelectScreen:
		resp.Data = map[string]any{"mode": v.Mode, "skills": emptyIfNil(v.Skills)}
	case service.PartnerSelectScreen:
		resp.Data = map[string]any{"mode": v.Mode, "skill": v.Skill}
	case service.SchedulingScreen:
		resp.Data = map[string]any{
			"mode":    v.Mode,
			"skill":   v.Skill,
			"partner": toCandidateResponse(v.Partner),
		}
	case service.SessionScreen:
		resp.Data = map[string]any{
			"match":     toMatchResponse(v.Match),
			"isLearner": v.IsLearner,
		}
	case service.RatingScreen:
		resp.Data = map[string]any{"match": toMatchResponse(v.Match)}
	}
	return resp
}

func (h *Handler) handleScreen(w http.ResponseWriter, r *http.Request) {
	flow := h.flows.For(accountID(r))
	screen, err := flow.Screen(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toScreenResponse(screen))
}

func (h *Handler) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	flow := h.flows.For(accountID(r))
	if err := flow.Navigate(req.Screen); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithScreen(w, r, flow)
}

func (h *Handler) handleCompleteRegistration(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	flow := h.flows.For(accountID(r))
	if err := flow.CompleteRegistration(r.Context(), req.Name, req.Bio, req.Avatar); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithScreen(w, r, flow)
}

func (h *Handler) handleSelectMode(w http.ResponseWriter, r *http.Request) {
	var req selectModeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	flow := h.flows.For(accountID(r))
	if err := flow.SelectMode(domain.ExchangeMode(req.Mode)); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithScreen(w, r, flow)
}

func (h *Handler) handleSelectSkill(w http.ResponseWriter, r *http.Request) {
	var req selectSkillRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	flow := h.flows.For(accountID(r))
	if err := flow.SelectSkill(req.Skill); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithScreen(w, r, flow)
}

func (h *Handler) handleSelectPartner(w http.ResponseWriter, r *http.Request) {
	var req selectPartnerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	partner, err := h.ledger.GetAccount(r.Context(), req.PartnerID)
	if err != nil {
		writeError(w, err)
		return
	}

	flow := h.flows.For(accountID(r))
	if err := flow.SelectPartner(partner); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithScreen(w, r, flow)
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	flow := h.flows.For(accountID(r))
	match, err := flow.FinalizeSchedule(r.Context(), req.TimeSlot)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMatchResponse(match))
}

func (h *Handler) respondWithScreen(w http.ResponseWriter, r *http.Request, flow *service.FlowController) {
	screen, err := flow.Screen(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toScreenResponse(screen))
}
