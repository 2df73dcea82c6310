package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mpreston/teamsync/internal/action"
	"github.com/mpreston/teamsync/internal/errors"
	"github.com/mpreston/teamsync/internal/handlers"
	"github.com/mpreston/teamsync/internal/logger"
	"github.com/mpreston/teamsync/internal/models"
	"github.com/mpreston/teamsync/internal/store"
	"github.com/mpreston/teamsync/internal/testutil"
)

// stubTeams answers with scripted results, for surface behavior the real
// store does not produce on demand.
type stubTeams struct {
	createCode  string
	createState *models.State
	createErr   error

	state    *models.State
	stateErr error

	applyState   *models.State
	applyIgnored bool
	applyErr     error
}

func (s *stubTeams) CreateTeam(ctx context.Context) (string, *models.State, error) {
	return s.createCode, s.createState, s.createErr
}

func (s *stubTeams) GetState(ctx context.Context, code string) (*models.State, error) {
	return s.state, s.stateErr
}

func (s *stubTeams) ApplyAction(ctx context.Context, code string, act action.Action) (*models.State, bool, error) {
	return s.applyState, s.applyIgnored, s.applyErr
}

// newServer wires the real store over an in-memory repository behind the
// router, the way the app does.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	teams := store.New(logger.New(), repo, testutil.NewFixedClock(), &testutil.CodeSequence{Codes: []string{"AB12"}})
	srv := httptest.NewServer(handlers.NewForTesting(teams).Router())
	t.Cleanup(srv.Close)
	return srv
}

func newStubServer(t *testing.T, teams *stubTeams) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handlers.NewForTesting(teams).Router())
	t.Cleanup(srv.Close)
	return srv
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body handlers.HealthResponse
	decodeBody(t, resp, &body)
	if !body.OK {
		t.Errorf("expected ok=true")
	}
}

func TestCORSHeadersOnEveryResponse(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected permissive origin, got %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); !strings.Contains(got, "PUT") {
		t.Errorf("expected PUT in allowed methods, got %q", got)
	}
}

func TestOptionsPreflight(t *testing.T) {
	srv := newServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/teams/AB12/action", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for preflight, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected permissive origin, got %q", got)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if len(body) != 0 {
		t.Errorf("expected empty object body, got %v", body)
	}
}

func TestCreateTeam(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Post(srv.URL+"/teams", "application/json", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body handlers.TeamResponse
	decodeBody(t, resp, &body)
	if body.TeamCode != "AB12" {
		t.Errorf("expected teamCode AB12, got %q", body.TeamCode)
	}
	if body.State == nil || body.State.AdminPIN != models.DefaultAdminPIN {
		t.Errorf("expected default state, got %+v", body.State)
	}
}

func TestGetState_UnknownTeam(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/teams/ZZZZ/state")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	var body handlers.APIError
	decodeBody(t, resp, &body)
	if body.Code != handlers.ErrCodeNotFound {
		t.Errorf("expected code NOT_FOUND, got %q", body.Code)
	}
}

func TestGetState_NormalizesCode(t *testing.T) {
	srv := newServer(t)

	if _, err := http.Post(srv.URL+"/teams", "application/json", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := http.Get(srv.URL + "/teams/ab12/state")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for lowercase code, got %d", resp.StatusCode)
	}
	var body handlers.TeamResponse
	decodeBody(t, resp, &body)
	if body.TeamCode != "AB12" {
		t.Errorf("expected normalized teamCode AB12, got %q", body.TeamCode)
	}
}

func TestApplyAction_Flow(t *testing.T) {
	srv := newServer(t)

	payload := `{"action":"createSession","data":{"session":{"id":"s1","title":"Friday Night XI"}}}`
	resp, err := http.Post(srv.URL+"/teams/AB12/action", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body handlers.TeamResponse
	decodeBody(t, resp, &body)
	if body.Ignored {
		t.Errorf("expected action applied")
	}
	if len(body.State.Sessions) != 1 || body.State.Sessions[0].ID != "s1" {
		t.Errorf("expected the new session in the response, got %+v", body.State.Sessions)
	}
	if body.State.SelectedSessionID != "s1" {
		t.Errorf("expected the new session selected, got %q", body.State.SelectedSessionID)
	}
}

func TestApplyAction_UnknownAction(t *testing.T) {
	srv := newServer(t)

	payload := `{"action":"deleteEverything","data":{}}`
	resp, err := http.Post(srv.URL+"/teams/AB12/action", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body handlers.APIError
	decodeBody(t, resp, &body)
	if body.Code != handlers.ErrCodeUnknownAction {
		t.Errorf("expected code UNKNOWN_ACTION, got %q", body.Code)
	}
}

func TestApplyAction_MissingAction(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"empty object", "{}"},
		{"malformed body treated as empty", "{not json"},
		{"no action field", `{"data":{"x":1}}`},
	}
	srv := newServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/teams/AB12/action", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			var body handlers.APIError
			decodeBody(t, resp, &body)
			if body.Code != handlers.ErrCodeBadRequest {
				t.Errorf("expected code BAD_REQUEST, got %q", body.Code)
			}
			if body.Message != "Missing action" {
				t.Errorf("expected Missing action, got %q", body.Message)
			}
		})
	}
}

func TestApplyAction_RejectedPIN(t *testing.T) {
	srv := newServer(t)

	payload := `{"action":"resetState","data":{"adminPIN":"0000"}}`
	resp, err := http.Post(srv.URL+"/teams/AB12/action", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for wrong PIN, got %d", resp.StatusCode)
	}
}

func TestApplyAction_IgnoredMarker(t *testing.T) {
	st := models.DefaultState(testutil.NewFixedClock().Now())
	st.Sessions = []models.Session{{ID: "s1"}}
	srv := newStubServer(t, &stubTeams{applyState: st, applyIgnored: true})

	payload := `{"action":"updateSession","data":{"session":{"id":"s1"}}}`
	resp, err := http.Post(srv.URL+"/teams/AB12/action", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for an ignored action, got %d", resp.StatusCode)
	}
	var body handlers.TeamResponse
	decodeBody(t, resp, &body)
	if !body.Ignored {
		t.Errorf("expected ignored marker set")
	}
	if len(body.State.Sessions) != 1 {
		t.Errorf("expected the unmodified state returned, got %+v", body.State)
	}
}

func TestApplyAction_StoreUnavailable(t *testing.T) {
	srv := newStubServer(t, &stubTeams{
		applyErr: errors.Unavailable("document store unreachable", context.DeadlineExceeded),
	})

	payload := `{"action":"addChat","data":{"message":{"id":"c1"}}}`
	resp, err := http.Post(srv.URL+"/teams/AB12/action", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
	var body handlers.APIError
	decodeBody(t, resp, &body)
	if body.Code != handlers.ErrCodeUnavailable {
		t.Errorf("expected code STORE_UNAVAILABLE, got %q", body.Code)
	}
}

func TestPutState_MethodNotAllowed(t *testing.T) {
	srv := newServer(t)

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/teams/AB12/state", strings.NewReader(`{"sessions":[]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
	var body handlers.APIError
	decodeBody(t, resp, &body)
	if body.Code != handlers.ErrCodeMethodNotAllowed {
		t.Errorf("expected code METHOD_NOT_ALLOWED, got %q", body.Code)
	}
	if !strings.Contains(body.Message, "/action") {
		t.Errorf("expected the message to point at the action route, got %q", body.Message)
	}
}

func TestTeamQR(t *testing.T) {
	srv := newServer(t)

	if _, err := http.Post(srv.URL+"/teams", "application/json", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := http.Get(srv.URL + "/teams/AB12/qr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "image/png" {
		t.Errorf("expected image/png, got %q", got)
	}
}

func TestTeamQR_UnknownTeam(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/teams/ZZZZ/qr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown code, got %d", resp.StatusCode)
	}
}
