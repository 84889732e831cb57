package handler

import (
	"net/http"

	"github.com/msomdec/skillbarter/internal/domain"
)

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	account, err := h.ledger.UpdateProfile(r.Context(), accountID(r), req.Name, req.Bio, req.Avatar)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (h *Handler) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	var req skillRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id := accountID(r)
	if err := h.ledger.AddSkill(r.Context(), id, domain.ExchangeMode(req.Mode), req.Skill); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithAccount(w, r, id)
}

func (h *Handler) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	var req skillRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id := accountID(r)
	if err := h.ledger.RemoveSkill(r.Context(), id, domain.ExchangeMode(req.Mode), req.Skill); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithAccount(w, r, id)
}

func (h *Handler) handleBlock(w http.ResponseWriter, r *http.Request) {
	var req blockRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id := accountID(r)
	if err := h.ledger.Block(r.Context(), id, req.TargetID, req.Reason); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithAccount(w, r, id)
}

// handleStandardSkills lists the curated skill catalog.
func (h *Handler) handleStandardSkills(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"skills": domain.StandardSkills})
}

func (h *Handler) respondWithAccount(w http.ResponseWriter, r *http.Request, id string) {
	account, err := h.ledger.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}
