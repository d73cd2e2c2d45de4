package hackerone

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/bounty-tracker/internal/apperror"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient points a client at an httptest server running mux.
func newTestClient(t *testing.T, mux *http.ServeMux, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewClient(Config{BaseURL: srv.URL + "/v1/", Timeout: timeout}, testLogger())
	c.httpClient = srv.Client()
	return c
}

var alice = Credentials{Username: "alice", Token: "tok123"}

func TestProfile_SendsBasicAuthAndDecodes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/hackers/alice", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "alice", user)
		assert.Equal(t, "tok123", pass)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		io.WriteString(w, `{"data":{"id":"1","type":"user","attributes":{
			"username":"alice","reputation":120,"signal":3.4,"impact":7,
			"invited_programs_count":2,"participating_programs_count":5}}}`)
	})
	c := newTestClient(t, mux, time.Second)

	p, err := c.Profile(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, 120.0, p.Reputation)
	assert.Equal(t, 3.4, p.Signal)
	assert.Equal(t, 5.0, p.ParticipatingProgramsCount)
}

func TestProfile_StatusMapping(t *testing.T) {
	tests := []struct {
		status  int
		target  error
		message string
	}{
		{http.StatusUnauthorized, apperror.ErrUnauthorized, ""},
		{http.StatusForbidden, apperror.ErrForbidden, ""},
		{http.StatusNotFound, apperror.ErrNotFound, ""},
		{http.StatusTooManyRequests, apperror.ErrUpstream, "hackerone returned unexpected status 429"},
		{http.StatusInternalServerError, apperror.ErrUpstream, "hackerone returned unexpected status 500"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /v1/hackers/alice", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			c := newTestClient(t, mux, time.Second)

			_, err := c.Profile(context.Background(), alice)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			if tt.message != "" {
				assert.EqualError(t, err, tt.message)
			}
		})
	}
}

func TestProfile_NonJSONBodyIsUpstreamError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/hackers/alice", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, "<html>maintenance</html>")
	})
	c := newTestClient(t, mux, time.Second)

	p, err := c.Profile(context.Background(), alice)
	assert.Nil(t, p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrUpstream), "got %v", err)
	assert.Contains(t, err.Error(), "malformed response")
}

func TestProfile_TimeoutIsUpstreamError(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/hackers/alice", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	c := newTestClient(t, mux, 50*time.Millisecond)
	t.Cleanup(func() { close(release) })

	_, err := c.Profile(context.Background(), alice)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrUpstream), "got %v", err)
}

func TestBalance(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string // "" means nil
	}{
		{"attributes object", `{"data":{"attributes":{"balance":250.00}}}`, "250"},
		{"flat data", `{"data":{"balance":"1337.5"}}`, "1337.5"},
		{"null balance", `{"data":{"attributes":{"balance":null}}}`, ""},
		{"missing balance", `{"data":{}}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /v1/hackers/payments/balance", func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			})
			c := newTestClient(t, mux, time.Second)

			bal, err := c.Balance(context.Background(), alice)
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, bal)
				return
			}
			require.NotNil(t, bal)
			assert.Equal(t, tt.want, bal.String())
		})
	}
}

func TestReports_SkipsMalformedRecords(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/hackers/alice/reports", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":[
			{"attributes":{"state":"resolved","bounty_awarded_at":"2024-01-01T00:00:00Z","bounty_amount":"250.00"}},
			{"attributes":{"state":42}},
			"not an object",
			{"attributes":{"state":"duplicate"}}
		]}`)
	})
	c := newTestClient(t, mux, time.Second)

	reports, err := c.Reports(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, StateResolved, reports[0].State)
	require.NotNil(t, reports[0].BountyAwardedAt)
	assert.True(t, reports[0].BountyAmount.Valid)
	assert.Equal(t, StateDuplicate, reports[1].State)
	assert.Nil(t, reports[1].BountyAwardedAt)
	assert.False(t, reports[1].BountyAmount.Valid)
}

func TestCall_TagsOutcome(t *testing.T) {
	boom := errors.New("boom")

	ok := Call(true, func() (int, error) { return 7, nil })
	assert.Equal(t, Ok, ok.Outcome)
	assert.Equal(t, 7, ok.Value)

	hard := Call(true, func() (int, error) { return 0, boom })
	assert.Equal(t, HardFailed, hard.Outcome)
	assert.ErrorIs(t, hard.Reason, boom)

	soft := Call(false, func() (int, error) { return 0, boom })
	assert.Equal(t, SoftFailed, soft.Outcome)
	assert.Equal(t, "soft_failed", soft.Outcome.String())
}
