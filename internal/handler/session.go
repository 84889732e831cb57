package handler

import (
	"fmt"
	"net/http"

	"github.com/msomdec/skillbarter/internal/domain"
)

func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	flow := h.flows.For(accountID(r))
	match, err := flow.StartSession(r.Context(), req.MatchID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponse(match))
}

func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	var req endSessionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	termination := domain.TerminationType(req.Termination)
	if termination == "" {
		termination = domain.TerminationNormal
	}

	flow := h.flows.For(accountID(r))
	if err := flow.EndSession(r.Context(), termination); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithScreen(w, r, flow)
}

type sessionStatusResponse struct {
	IsLearning        bool    `json:"isLearning"`
	AlertCount        int     `json:"alertCount"`
	IsTerminated      bool    `json:"isTerminated"`
	TerminationReason string  `json:"terminationReason,omitempty"`
	LastFeedback      string  `json:"lastFeedback,omitempty"`
	FocusScore        int     `json:"focusScore"`
	ElapsedSeconds    float64 `json:"elapsedSeconds"`
}

func (h *Handler) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	flow := h.flows.For(accountID(r))
	monitor := flow.Monitor()
	if monitor == nil {
		writeError(w, fmt.Errorf("%w: no session in progress", domain.ErrInvalidTransition))
		return
	}

	status := monitor.Status()
	writeJSON(w, http.StatusOK, sessionStatusResponse{
		IsLearning:        status.IsLearning,
		AlertCount:        status.AlertCount,
		IsTerminated:      status.IsTerminated,
		TerminationReason: string(status.TerminationReason),
		LastFeedback:      status.LastFeedback,
		FocusScore:        status.FocusScore,
		ElapsedSeconds:    monitor.Elapsed().Seconds(),
	})
}

func (h *Handler) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	flow := h.flows.For(accountID(r))
	if err := flow.SubmitRating(r.Context(), req.Stars, req.Feedback); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithScreen(w, r, flow)
}
