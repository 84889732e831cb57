package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/skillbarter/internal/domain"
)

// handleGetTheme returns the stored theme, defaulting to dark for
// accounts that never set one.
func (h *Handler) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.prefs.Get(r.Context(), accountID(r), domain.ThemeKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]string{"theme": domain.ThemeDark})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

func (h *Handler) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.prefs.Set(r.Context(), accountID(r), domain.ThemeKey, req.Theme); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}
