package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/bounty-tracker/internal/apperror"
	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/sakif/bounty-tracker/internal/service"
)

// ReportHandler serves submitted vulnerability reports.
type ReportHandler struct {
	svc    *service.ReportService
	logger *slog.Logger
}

func NewReportHandler(svc *service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, logger: logger}
}

// reportRequest accepts bountyAmount as a number or a string; model.Money
// decodes both.
type reportRequest struct {
	PlatformID   *string            `json:"platformId"`
	Title        string             `json:"title"`
	Severity     model.Severity     `json:"severity"`
	Status       model.ReportStatus `json:"status"`
	BountyAmount model.Money        `json:"bountyAmount"`
	SubmittedAt  *time.Time         `json:"submittedAt"`
	URL          string             `json:"url"`
	Description  string             `json:"description"`
}

func (req reportRequest) input() service.ReportInput {
	return service.ReportInput{
		PlatformID:   req.PlatformID,
		Title:        req.Title,
		Severity:     req.Severity,
		Status:       req.Status,
		BountyAmount: req.BountyAmount,
		SubmittedAt:  req.SubmittedAt,
		URL:          req.URL,
		Description:  req.Description,
	}
}

// HandleList returns the caller's reports, optionally filtered.
//
// HTTP: GET /api/reports?status=&severity=&platform=&q=&limit=&offset=
//
// Unknown status or severity values are rejected rather than silently
// matching nothing.
func (h *ReportHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	limit, offset, err := pagination(r)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	filter := model.ReportFilter{
		Status:     model.ReportStatus(q.Get("status")),
		Severity:   model.Severity(q.Get("severity")),
		PlatformID: q.Get("platform"),
		Query:      q.Get("q"),
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		writeError(w, apperror.ValidationFailed("status", "unknown status "+q.Get("status")))
		return
	}
	if filter.Severity != "" && !filter.Severity.IsValid() {
		writeError(w, apperror.ValidationFailed("severity", "unknown severity "+q.Get("severity")))
		return
	}

	reports, err := h.svc.List(r.Context(), userID, filter, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// HandleStats returns report counts and the total earned.
//
// HTTP: GET /api/reports/stats
func (h *ReportHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	stats, err := h.svc.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleGet returns one report.
//
// HTTP: GET /api/reports/{id}
func (h *ReportHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	report, err := h.svc.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleCreate records a report.
//
// HTTP: POST /api/reports
// REQUEST BODY: {"title": "Stored XSS", "severity": "high", "bountyAmount": 500}
func (h *ReportHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req reportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	report, err := h.svc.Create(r.Context(), userID, req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

// HandleUpdate replaces a report's fields.
//
// HTTP: PUT /api/reports/{id}
func (h *ReportHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req reportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	report, err := h.svc.Update(r.Context(), userID, r.PathValue("id"), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleDelete removes a report.
//
// HTTP: DELETE /api/reports/{id}
func (h *ReportHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
