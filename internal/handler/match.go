package handler

import (
	"fmt"
	"net/http"

	"github.com/msomdec/skillbarter/internal/domain"
)

type partnersResponse struct {
	Candidates []candidateResponse `json:"candidates"`
	// Semantic is true when the list came from the language-model
	// fallback rather than exact skill matching.
	Semantic bool `json:"semantic"`
}

// handlePartners lists candidate partners for the funnel's current
// mode and skill selection.
func (h *Handler) handlePartners(w http.ResponseWriter, r *http.Request) {
	id := accountID(r)
	flow := h.flows.For(id)

	mode, skill, ok := flow.Selection()
	if !ok {
		writeError(w, fmt.Errorf("%w: choose a mode and skill first", domain.ErrInvalidTransition))
		return
	}

	account, err := h.ledger.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	candidates, semantic, err := h.registry.FindCandidates(r.Context(), account, mode, skill)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := partnersResponse{Candidates: make([]candidateResponse, 0, len(candidates)), Semantic: semantic}
	for _, c := range candidates {
		resp.Candidates = append(resp.Candidates, toCandidateResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.registry.ListMatches(r.Context(), accountID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		resp = append(resp, toMatchResponse(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	match, err := h.registry.GetMatch(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if id := accountID(r); match.RequesterID != id && match.PartnerID != id {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponse(match))
}

// handleRespond accepts or rejects a pending request addressed to the
// authenticated account.
func (h *Handler) handleRespond(w http.ResponseWriter, r *http.Request) {
	var req respondRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	matchID := r.PathValue("id")
	match, err := h.registry.GetMatch(r.Context(), matchID)
	if err != nil {
		writeError(w, err)
		return
	}
	if match.PartnerID != accountID(r) {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	match, err = h.registry.RespondToRequest(r.Context(), matchID, req.Accept, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponse(match))
}
