package server

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/umputun/themer/app/enum"
	"github.com/umputun/themer/app/selection"
)

// modeResponse is the state of the selector as seen by clients.
type modeResponse struct {
	Dark    bool     `json:"dark"`
	Theme   string   `json:"theme"`
	Label   string   `json:"label"`
	Icon    string   `json:"icon"`
	Classes []string `json:"classes"`
}

type selectRequest struct {
	Theme string `json:"theme"`
}

// handleGetTheme returns the current dark mode state.
// GET /api/theme
func (s *Server) handleGetTheme(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	resp := s.modeResponse()
	s.mu.Unlock()
	rest.RenderJSON(w, resp)
}

// handleToggle flips dark mode and returns the new state.
// POST /api/theme/toggle
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	dark := s.selector.Toggle(r.Context())
	resp := s.modeResponse()
	s.mu.Unlock()

	log.Printf("[DEBUG] toggle, dark=%v", dark)
	rest.RenderJSON(w, resp)
}

// handleSelect validates and stores an explicit theme choice.
// PUT /api/selection with {"theme":"dark"}
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusBadRequest, err, "invalid request body")
		return
	}

	theme, err := s.selection.Select(r.Context(), req.Theme)
	if errors.Is(err, selection.ErrRegistryNotLoaded) {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusServiceUnavailable, err, "themes not loaded")
		return
	}
	if errors.Is(err, selection.ErrInvalidTheme) {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusBadRequest, err, "invalid theme")
		return
	}
	if err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusInternalServerError, err, "failed to select theme")
		return
	}

	rest.RenderJSON(w, selectRequest{Theme: theme})
}

// handleGetSelection returns the stored theme choice.
// GET /api/selection
func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	theme, err := s.selection.Current(r.Context())
	if errors.Is(err, selection.ErrNoSelection) {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusNotFound, err, "no theme selected")
		return
	}
	if err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusInternalServerError, err, "failed to read selection")
		return
	}
	rest.RenderJSON(w, selectRequest{Theme: theme})
}

// handleResetSelection drops the stored theme choice.
// DELETE /api/selection
func (s *Server) handleResetSelection(w http.ResponseWriter, r *http.Request) {
	if err := s.selection.Reset(r.Context()); err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusInternalServerError, err, "failed to reset selection")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListKeys returns stored keys metadata and cache stats if the store is cached.
// GET /api/keys
func (s *Server) handleListKeys(w http.ResponseWriter, r *http.Request) {
	if s.keys == nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusNotFound, errors.New("no key store"), "keys not available")
		return
	}
	keys, err := s.keys.List(r.Context())
	if err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusInternalServerError, err, "failed to list keys")
		return
	}
	resp := rest.JSON{"keys": keys}
	if cs, ok := s.keys.(cacheStater); ok {
		resp["cache"] = cs.Stats()
	}
	rest.RenderJSON(w, resp)
}

// handleListThemes returns allowed theme names.
// GET /api/themes
func (s *Server) handleListThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := s.selection.Themes()
	if err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusServiceUnavailable, err, "themes not loaded")
		return
	}
	rest.RenderJSON(w, rest.JSON{"themes": themes})
}

// modeResponse builds the response from selector state, must be called with lock held.
func (s *Server) modeResponse() modeResponse {
	dark := s.selector.IsDark()
	return modeResponse{
		Dark:    dark,
		Theme:   enum.ThemeOf(dark).String(),
		Label:   s.selector.Label(),
		Icon:    s.selector.Icon(),
		Classes: s.document.Classes(),
	}
}
