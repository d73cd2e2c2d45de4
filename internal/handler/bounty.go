package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/sakif/bounty-tracker/internal/service"
)

// BountyHandler serves monetary bounty targets and their progress.
type BountyHandler struct {
	svc    *service.BountyService
	logger *slog.Logger
}

func NewBountyHandler(svc *service.BountyService, logger *slog.Logger) *BountyHandler {
	return &BountyHandler{svc: svc, logger: logger}
}

type bountyRequest struct {
	Title         string      `json:"title"`
	TargetAmount  model.Money `json:"targetAmount"`
	CurrentAmount model.Money `json:"currentAmount"`
	Deadline      *time.Time  `json:"deadline"`
	Notes         string      `json:"notes"`
}

func (req bountyRequest) input() service.BountyInput {
	return service.BountyInput{
		Title:         req.Title,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      req.Deadline,
		Notes:         req.Notes,
	}
}

// HTTP: GET /api/bounties
func (h *BountyHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	limit, offset, err := pagination(r)
	if err != nil {
		writeError(w, err)
		return
	}
	bounties, err := h.svc.List(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bounties)
}

// HTTP: GET /api/bounties/{id}
func (h *BountyHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	b, err := h.svc.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// HandleProgress returns percent, remaining amount and countdown as of now.
//
// HTTP: GET /api/bounties/{id}/progress
func (h *BountyHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Progress(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HTTP: POST /api/bounties
func (h *BountyHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req bountyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	b, err := h.svc.Create(r.Context(), userID, req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// HTTP: PUT /api/bounties/{id}
func (h *BountyHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req bountyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	b, err := h.svc.Update(r.Context(), userID, r.PathValue("id"), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// HTTP: DELETE /api/bounties/{id}
func (h *BountyHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
