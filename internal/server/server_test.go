package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/bounty-tracker/internal/auth"
	"github.com/sakif/bounty-tracker/internal/config"
)

// These tests run the whole stack (router, middleware, handlers, services,
// an in-memory database) through httptest.

func testConfig() config.Config {
	return config.Config{
		Env:                "test",
		Port:               8080,
		DBPath:             ":memory:",
		CredentialSecret:   "server-test-credential-secret",
		LocalUserID:        "local",
		HackerOneBaseURL:   "http://127.0.0.1:1",
		HackerOneTimeout:   2 * time.Second,
		CORSAllowedOrigins: []string{"*"},
	}
}

func newTestServer(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	s, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.Handler()
}

// do sends a request and decodes a JSON response into out when non-nil.
func do(t *testing.T, h http.Handler, method, path, body string, out any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, testConfig())
	rec := do(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLocalMode_ActsAsLocalUser(t *testing.T) {
	h := newTestServer(t, testConfig())

	var me struct {
		ID string `json:"id"`
	}
	rec := do(t, h, http.MethodGet, "/api/me", "", &me)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "local", me.ID)

	// Login routes only exist when auth is enabled.
	rec = do(t, h, http.MethodGet, "/auth/github/login", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthMode_RequiresSession(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = "server-test-jwt-secret-0123456789"
	cfg.GitHubClientID = "id"
	cfg.GitHubClientSecret = "secret"
	h := newTestServer(t, cfg)

	rec := do(t, h, http.MethodGet, "/api/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/auth/github/login", "", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "github.com")

	// A valid token for an unknown user gets past auth but finds no user.
	tokens, err := auth.NewTokenService(cfg.JWTSecret, time.Hour)
	require.NoError(t, err)
	token, err := tokens.Generate("ghost")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	recorder := httptest.NewRecorder()
	h.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCORSPreflightOnSync(t *testing.T) {
	h := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/integrations/p1/sync", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestReportsFlow(t *testing.T) {
	h := newTestServer(t, testConfig())

	var platform struct {
		ID string `json:"id"`
	}
	rec := do(t, h, http.MethodPost, "/api/platforms", `{"name":"HackerOne","kind":"hackerone"}`, &platform)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := `{"platformId":"` + platform.ID + `","title":"Stored XSS","severity":"high","status":"resolved","bountyAmount":"500.25"}`
	var report struct {
		ID           string          `json:"id"`
		BountyAmount json.RawMessage `json:"bountyAmount"`
	}
	rec = do(t, h, http.MethodPost, "/api/reports", body, &report)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "500.25", string(report.BountyAmount), "money is a JSON number")

	rec = do(t, h, http.MethodPost, "/api/reports", `{"title":"IDOR","severity":"critical"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var filtered []map[string]any
	rec = do(t, h, http.MethodGet, "/api/reports?severity=high&q=xss", "", &filtered)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, filtered, 1)
	assert.Equal(t, report.ID, filtered[0]["id"])

	rec = do(t, h, http.MethodGet, "/api/reports?status=bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var stats struct {
		Total       int            `json:"total"`
		BySeverity  map[string]int `json:"bySeverity"`
		TotalEarned json.Number    `json:"totalEarned"`
	}
	rec = do(t, h, http.MethodGet, "/api/reports/stats", "", &stats)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.BySeverity["critical"])
	assert.Equal(t, "500.25", stats.TotalEarned.String())

	rec = do(t, h, http.MethodDelete, "/api/reports/"+report.ID, "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/reports/"+report.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChecklistAndReadingRoutes(t *testing.T) {
	h := newTestServer(t, testConfig())

	var list struct {
		ID    string `json:"id"`
		Items []struct {
			ID   string `json:"id"`
			Done bool   `json:"done"`
		} `json:"items"`
	}
	rec := do(t, h, http.MethodPost, "/api/checklists", `{"title":"Recon","items":["subdomains"]}`, &list)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, list.Items, 1)

	var item struct {
		Done bool `json:"done"`
	}
	rec = do(t, h, http.MethodPatch, "/api/checklists/"+list.ID+"/items/"+list.Items[0].ID+"/toggle", "", &item)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, item.Done)

	var entry struct {
		ID     string `json:"id"`
		IsRead bool   `json:"isRead"`
	}
	rec = do(t, h, http.MethodPost, "/api/reading", `{"title":"OWASP WSTG","url":"https://owasp.org/www-project-web-security-testing-guide/"}`, &entry)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/reading/"+entry.ID+"/read", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodPatch, "/api/reading/"+entry.ID+"/read", `{"isRead":true}`, &entry)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, entry.IsRead)

	var dash struct {
		Checklists         int     `json:"checklists"`
		ChecklistProgress  float64 `json:"checklistProgress"`
		UnreadReadingItems int     `json:"unreadReadingItems"`
	}
	rec = do(t, h, http.MethodGet, "/api/dashboard", "", &dash)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, dash.Checklists)
	assert.InDelta(t, 100.0, dash.ChecklistProgress, 0.001)
	assert.Zero(t, dash.UnreadReadingItems)
}

func TestIntegrationSync(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/hackers/alice", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"attributes":{"reputation":120,"signal":3,"impact":7}}}`)
	})
	mux.HandleFunc("GET /v1/hackers/payments/balance", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"attributes":{"balance":250.00}}}`)
	})
	mux.HandleFunc("GET /v1/hackers/alice/reports", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":[
			{"attributes":{"state":"resolved","bounty_awarded_at":"2024-01-01","bounty_amount":250.00}},
			{"attributes":{"state":"duplicate"}},
			{"attributes":{"state":"triaged"}}]}`)
	})
	h1 := httptest.NewServer(mux)
	t.Cleanup(h1.Close)

	cfg := testConfig()
	cfg.HackerOneBaseURL = h1.URL + "/v1"
	h := newTestServer(t, cfg)

	var platform struct {
		ID string `json:"id"`
	}
	rec := do(t, h, http.MethodPost, "/api/platforms", `{"name":"HackerOne","kind":"hackerone"}`, &platform)
	require.Equal(t, http.StatusCreated, rec.Code)
	base := "/api/integrations/" + platform.ID

	rec = do(t, h, http.MethodPost, base+"/sync", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "no credential stored yet")

	rec = do(t, h, http.MethodPut, base+"/credentials", `{"username":"alice","api_token":"tok123"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "tok123")

	rec = do(t, h, http.MethodGet, base+"/credentials", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"configured":true`)
	assert.NotContains(t, rec.Body.String(), "tok123")

	rec = do(t, h, http.MethodPost, base+"/sync", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"user_info": {"username":"alice","reputation":120,"signal":3,"impact":7},
		"bounties":  {"total_awarded":250,"total_count":1},
		"reports":   {"total_count":3,"resolved_count":1,"duplicate_count":1,"not_applicable_count":0},
		"programs":  {"invited_count":0,"participating_count":0}
	}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, base+"/credentials", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestIntegrationSync_ProfileFailures(t *testing.T) {
	tests := []struct {
		name       string
		respond    func(w http.ResponseWriter)
		wantStatus int
		wantKind   string
	}{
		{
			name:       "token rejected by the platform",
			respond:    func(w http.ResponseWriter) { w.WriteHeader(http.StatusUnauthorized) },
			wantStatus: http.StatusFailedDependency,
			wantKind:   "upstream_unauthorized",
		},
		{
			name:       "maintenance page instead of JSON",
			respond:    func(w http.ResponseWriter) { io.WriteString(w, "<html>maintenance</html>") },
			wantStatus: http.StatusBadGateway,
			wantKind:   "upstream_error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /v1/hackers/alice", func(w http.ResponseWriter, r *http.Request) {
				tt.respond(w)
			})
			h1 := httptest.NewServer(mux)
			t.Cleanup(h1.Close)

			cfg := testConfig()
			cfg.HackerOneBaseURL = h1.URL + "/v1"
			h := newTestServer(t, cfg)

			var platform struct {
				ID string `json:"id"`
			}
			rec := do(t, h, http.MethodPost, "/api/platforms", `{"name":"HackerOne","kind":"hackerone"}`, &platform)
			require.Equal(t, http.StatusCreated, rec.Code)
			base := "/api/integrations/" + platform.ID
			rec = do(t, h, http.MethodPut, base+"/credentials", `{"username":"alice","api_token":"tok123"}`, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				Error string `json:"error"`
			}
			rec = do(t, h, http.MethodPost, base+"/sync", "", &body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantKind, body.Error)
		})
	}
}
