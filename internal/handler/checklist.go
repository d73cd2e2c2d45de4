package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/bounty-tracker/internal/service"
)

// ChecklistHandler serves checklists and their items. Items are edited
// through their own routes so that ticking a box doesn't resend the list.
type ChecklistHandler struct {
	svc    *service.ChecklistService
	logger *slog.Logger
}

func NewChecklistHandler(svc *service.ChecklistService, logger *slog.Logger) *ChecklistHandler {
	return &ChecklistHandler{svc: svc, logger: logger}
}

type checklistRequest struct {
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

type itemRequest struct {
	Text string `json:"text"`
}

// HTTP: GET /api/checklists
func (h *ChecklistHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	limit, offset, err := pagination(r)
	if err != nil {
		writeError(w, err)
		return
	}
	lists, err := h.svc.List(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// HTTP: GET /api/checklists/{id}
func (h *ChecklistHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	c, err := h.svc.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleCreate creates a checklist, optionally with initial items.
//
// HTTP: POST /api/checklists
// REQUEST BODY: {"title": "Recon", "category": "web", "items": ["subdomains", "ports"]}
func (h *ChecklistHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req checklistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.svc.Create(r.Context(), userID, service.ChecklistInput{
		Title: req.Title, Category: req.Category, Items: req.Items,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// HandleUpdate renames a checklist. Items in the body are ignored.
//
// HTTP: PUT /api/checklists/{id}
func (h *ChecklistHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req checklistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.svc.Update(r.Context(), userID, r.PathValue("id"), service.ChecklistInput{
		Title: req.Title, Category: req.Category,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HTTP: DELETE /api/checklists/{id}
func (h *ChecklistHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

// HTTP: POST /api/checklists/{id}/items
func (h *ChecklistHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	item, err := h.svc.AddItem(r.Context(), userID, r.PathValue("id"), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// HTTP: PATCH /api/checklists/{id}/items/{itemID}/toggle
func (h *ChecklistHandler) HandleToggleItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	item, err := h.svc.ToggleItem(r.Context(), userID, r.PathValue("id"), r.PathValue("itemID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// HTTP: DELETE /api/checklists/{id}/items/{itemID}
func (h *ChecklistHandler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteItem(r.Context(), userID, r.PathValue("id"), r.PathValue("itemID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
