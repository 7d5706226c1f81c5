// internal/handlers/lobby_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunchtable/ltcg-service/internal/auth"
	"github.com/lunchtable/ltcg-service/internal/lobby"
	"github.com/lunchtable/ltcg-service/internal/models"
)

type fakeEngine struct {
	nextID int
}

func (f *fakeEngine) CreateMatch(context.Context, uuid.UUID) (string, error) {
	f.nextID++
	return fmt.Sprintf("match_%020d", f.nextID), nil
}
func (f *fakeEngine) JoinMatch(context.Context, string, uuid.UUID) error { return nil }
func (f *fakeEngine) StartMatch(context.Context, string) error           { return nil }

func newTestServer() *Server {
	svc := lobby.NewService(lobby.NewMemoryStore(), &fakeEngine{}, nil)
	return NewServer(svc, nil, nil, nil, nil, nil)
}

func authedRequest(t *testing.T, method, target string, body string, userID uuid.UUID) *http.Request {
	t.Helper()
	token, err := auth.CreateJWT(userID.String())
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Cookie", "auth_token="+token)
	return req
}

// TestCreatePvpLobbyHandler checks the authenticated happy path.
func TestCreatePvpLobbyHandler(t *testing.T) {
	auth.Init() // ephemeral keys, no DB needed
	s := newTestServer()
	host := uuid.New()

	req := authedRequest(t, "POST", "/pvp/create", `{"visibility":"public"}`, host)
	w := httptest.NewRecorder()
	CreatePvpLobbyHandler(s).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created models.PvpLobby
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.MatchID)
	assert.Equal(t, host, created.HostID)
	assert.Equal(t, models.LobbyWaiting, created.Status)
	assert.Nil(t, created.AwayID)
}

func TestCreatePvpLobbyHandlerRequiresAuth(t *testing.T) {
	auth.Init()
	s := newTestServer()

	req := httptest.NewRequest("POST", "/pvp/create", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	CreatePvpLobbyHandler(s).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePvpLobbyHandlerDuplicateWaiting(t *testing.T) {
	auth.Init()
	s := newTestServer()
	host := uuid.New()

	w := httptest.NewRecorder()
	CreatePvpLobbyHandler(s).ServeHTTP(w, authedRequest(t, "POST", "/pvp/create", `{}`, host))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	CreatePvpLobbyHandler(s).ServeHTTP(w, authedRequest(t, "POST", "/pvp/create", `{}`, host))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "You already have a waiting PvP lobby")
}

func TestJoinPvpLobbyHandlerSelfJoin(t *testing.T) {
	auth.Init()
	s := newTestServer()
	host := uuid.New()

	w := httptest.NewRecorder()
	CreatePvpLobbyHandler(s).ServeHTTP(w, authedRequest(t, "POST", "/pvp/create", `{}`, host))
	require.Equal(t, http.StatusOK, w.Code)
	var created models.PvpLobby
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	body := fmt.Sprintf(`{"matchId":%q}`, created.MatchID)
	w = httptest.NewRecorder()
	JoinPvpLobbyHandler(s).ServeHTTP(w, authedRequest(t, "POST", "/pvp/join", body, host))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot join your own lobby.")
}

// TestListPublicPvpLobbiesHandlerNoAuth checks the public listing is safely
// callable without any token.
func TestListPublicPvpLobbiesHandlerNoAuth(t *testing.T) {
	auth.Init()
	s := newTestServer()
	host, away := uuid.New(), uuid.New()

	w := httptest.NewRecorder()
	CreatePvpLobbyHandler(s).ServeHTTP(w, authedRequest(t, "POST", "/pvp/create", `{}`, host))
	require.Equal(t, http.StatusOK, w.Code)
	var created models.PvpLobby
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	req := httptest.NewRequest("GET", "/pvp/public", nil)
	w = httptest.NewRecorder()
	ListPublicPvpLobbiesHandler(s).ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []models.PvpLobby
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	// After a join the waiting listing is empty again unless includeActive is set.
	body := fmt.Sprintf(`{"matchId":%q}`, created.MatchID)
	w = httptest.NewRecorder()
	JoinPvpLobbyHandler(s).ServeHTTP(w, authedRequest(t, "POST", "/pvp/join", body, away))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	ListPublicPvpLobbiesHandler(s).ServeHTTP(w, httptest.NewRequest("GET", "/pvp/public", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Empty(t, listed)

	w = httptest.NewRecorder()
	ListPublicPvpLobbiesHandler(s).ServeHTTP(w, httptest.NewRequest("GET", "/pvp/public?includeActive=true", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)
}

func TestCancelPvpLobbyHandlerAfterJoin(t *testing.T) {
	auth.Init()
	s := newTestServer()
	host, away := uuid.New(), uuid.New()

	w := httptest.NewRecorder()
	CreatePvpLobbyHandler(s).ServeHTTP(w, authedRequest(t, "POST", "/pvp/create", `{}`, host))
	require.Equal(t, http.StatusOK, w.Code)
	var created models.PvpLobby
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	body := fmt.Sprintf(`{"matchId":%q}`, created.MatchID)
	w = httptest.NewRecorder()
	JoinPvpLobbyHandler(s).ServeHTTP(w, authedRequest(t, "POST", "/pvp/join", body, away))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	CancelPvpLobbyHandler(s).ServeHTTP(w, authedRequest(t, "POST", "/pvp/cancel", body, host))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
