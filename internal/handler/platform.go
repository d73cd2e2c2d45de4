package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/sakif/bounty-tracker/internal/service"
)

// PlatformHandler serves CRUD for bug bounty platforms.
//
// Every handler here follows the same four steps:
//  1. Read the caller's user ID (set by the auth middleware)
//  2. Decode the path, query and body
//  3. Call the service
//  4. Write the result, or map the error with writeError
type PlatformHandler struct {
	svc    *service.PlatformService
	logger *slog.Logger
}

func NewPlatformHandler(svc *service.PlatformService, logger *slog.Logger) *PlatformHandler {
	return &PlatformHandler{svc: svc, logger: logger}
}

type platformRequest struct {
	Name  string             `json:"name"`
	URL   string             `json:"url"`
	Kind  model.PlatformKind `json:"kind"`
	Notes string             `json:"notes"`
}

func (req platformRequest) input() service.PlatformInput {
	return service.PlatformInput{Name: req.Name, URL: req.URL, Kind: req.Kind, Notes: req.Notes}
}

// HandleList returns the caller's platforms.
//
// HTTP: GET /api/platforms?limit=&offset=
func (h *PlatformHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	limit, offset, err := pagination(r)
	if err != nil {
		writeError(w, err)
		return
	}
	platforms, err := h.svc.List(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, platforms)
}

// HandleGet returns one platform.
//
// HTTP: GET /api/platforms/{id}
func (h *PlatformHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleCreate adds a platform.
//
// HTTP: POST /api/platforms
// REQUEST BODY: {"name": "HackerOne", "url": "https://hackerone.com", "kind": "hackerone"}
func (h *PlatformHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req platformRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.svc.Create(r.Context(), userID, req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// HandleUpdate replaces a platform's fields.
//
// HTTP: PUT /api/platforms/{id}
func (h *PlatformHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req platformRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.svc.Update(r.Context(), userID, r.PathValue("id"), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleDelete removes a platform along with its stored credential.
//
// HTTP: DELETE /api/platforms/{id}
func (h *PlatformHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
