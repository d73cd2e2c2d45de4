package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/bounty-tracker/internal/apperror"
	"github.com/sakif/bounty-tracker/internal/service"
)

// ReadingHandler serves the reading list.
type ReadingHandler struct {
	svc    *service.ReadingService
	logger *slog.Logger
}

func NewReadingHandler(svc *service.ReadingService, logger *slog.Logger) *ReadingHandler {
	return &ReadingHandler{svc: svc, logger: logger}
}

type readingRequest struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
	IsRead   bool   `json:"isRead"`
}

func (req readingRequest) input() service.ReadingInput {
	return service.ReadingInput{
		Title: req.Title, URL: req.URL, Category: req.Category, Notes: req.Notes, IsRead: req.IsRead,
	}
}

// setReadRequest uses a pointer so a body without isRead is rejected
// instead of meaning "unread".
type setReadRequest struct {
	IsRead *bool `json:"isRead"`
}

func (h *ReadingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	limit, offset, err := pagination(r)
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.svc.List(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ReadingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	it, err := h.svc.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *ReadingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req readingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	it, err := h.svc.Create(r.Context(), userID, req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (h *ReadingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req readingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	it, err := h.svc.Update(r.Context(), userID, r.PathValue("id"), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// HandleSetRead marks an entry read or unread.
//
// HTTP: PATCH /api/reading/{id}/read
// REQUEST BODY: {"isRead": true}
func (h *ReadingHandler) HandleSetRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req setReadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.IsRead == nil {
		writeError(w, apperror.ValidationFailed("isRead", "isRead is required"))
		return
	}
	it, err := h.svc.SetRead(r.Context(), userID, r.PathValue("id"), *req.IsRead)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *ReadingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
