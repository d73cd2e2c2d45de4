package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/bounty-tracker/internal/service"
)

// IntegrationHandler manages external platform credentials and runs the
// profile sync.
//
// The API token goes in through PUT and never comes back out: GET only
// says whether one is stored and for which username.
type IntegrationHandler struct {
	creds  *service.CredentialService
	sync   *service.SyncService
	logger *slog.Logger
}

func NewIntegrationHandler(creds *service.CredentialService, sync *service.SyncService, logger *slog.Logger) *IntegrationHandler {
	return &IntegrationHandler{creds: creds, sync: sync, logger: logger}
}

type credentialRequest struct {
	Username string `json:"username"`
	APIToken string `json:"api_token"`
}

// HandleGetCredentials reports whether a credential is configured.
//
// HTTP: GET /api/integrations/{platformID}/credentials
// RESPONSE: {"platformId": "...", "configured": true, "username": "alice", "updatedAt": "..."}
func (h *IntegrationHandler) HandleGetCredentials(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	status, err := h.creds.Status(r.Context(), userID, r.PathValue("platformID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// HandlePutCredentials stores or replaces the credential.
//
// HTTP: PUT /api/integrations/{platformID}/credentials
// REQUEST BODY: {"username": "alice", "api_token": "..."}
func (h *IntegrationHandler) HandlePutCredentials(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req credentialRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	status, err := h.creds.Save(r.Context(), userID, r.PathValue("platformID"), req.Username, req.APIToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// HTTP: DELETE /api/integrations/{platformID}/credentials
func (h *IntegrationHandler) HandleDeleteCredentials(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.creds.Delete(r.Context(), userID, r.PathValue("platformID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSync fetches a fresh profile summary from the platform's API.
//
// HTTP: POST /api/integrations/{platformID}/sync
//
// ERROR MAPPING:
//   - no credential stored           → 404 not_found
//   - stored credential unusable     → 422 invalid_credentials
//   - platform rejected the token    → 424 upstream_unauthorized
//   - platform denied access         → 403 forbidden
//   - platform down or misbehaving   → 502 upstream_error
//
// Balance and report failures don't show up here; the summary just has
// zeros where their data would be.
func (h *IntegrationHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	summary, err := h.sync.Sync(r.Context(), userID, r.PathValue("platformID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
