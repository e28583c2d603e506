package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/istdurstig/istdurstig-server/internal/auth"
	"github.com/istdurstig/istdurstig-server/internal/clock"
	"github.com/istdurstig/istdurstig-server/internal/search"
	"github.com/istdurstig/istdurstig-server/internal/service"
	"github.com/istdurstig/istdurstig-server/internal/store"
	"github.com/istdurstig/istdurstig-server/internal/validation"
)

var testNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// testEnvelope decodes both success and error envelopes.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), "body: %s", resp.Body.String())
	return env
}

// testServer wraps the API server with the pieces tests poke at directly.
type testServer struct {
	*Server
	api   humatest.TestAPI
	store *store.Store
	clock *clock.Fixed
}

// setupTestServer builds the full stack over a temp-dir store and an
// in-memory search index. configure may adjust the options before the
// server is built.
func setupTestServer(t *testing.T, configure ...func(*Options)) *testServer {
	t.Helper()

	st, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	log := slog.New(slog.DiscardHandler)

	index, err := search.NewPlantIndex(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	clk := clock.NewFixed(testNow)

	// Long-lived tokens so tests can move the clock forward by days.
	tokens, err := auth.NewTokenService(make([]byte, 32), 30*24*time.Hour, clk.Now)
	require.NoError(t, err)

	hasher := auth.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	access := service.NewAccessResolver(st, st, clk)

	services := &Services{
		Auth:      service.NewAuthService(st, tokens, hasher, validation.New(), clk, log),
		User:      service.NewUserService(st),
		Plant:     service.NewPlantService(st, st, access, index, validation.New(), clk, log),
		PlantList: service.NewPlantListService(st, st, st, validation.New(), clk, log),
	}

	opts := Options{
		Clock:       clk,
		Database:    st,
		SearchIndex: index,
	}
	for _, fn := range configure {
		fn(&opts)
	}

	s := NewServer(services, opts, log)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.API()),
		store:  st,
		clock:  clk,
	}
}

// signup creates an account and returns its bearer header and user ID.
func (ts *testServer) signup(t *testing.T, email, firstName string) (authHeader, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":      email,
		"password":   "correct horse battery",
		"first_name": firstName,
		"last_name":  "Tester",
	})
	require.Equal(t, http.StatusOK, resp.Code, "signup failed: %s", resp.Body.String())

	env := decode[AuthResponse](t, resp)
	return "Authorization: Bearer " + env.Data.Token, env.Data.ID
}

func (ts *testServer) createList(t *testing.T, authHeader, name string) PlantListResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/plant-lists", authHeader, map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, resp.Code, "create list failed: %s", resp.Body.String())
	return decode[PlantListResponse](t, resp).Data
}

func (ts *testServer) createPlant(t *testing.T, authHeader, listID, name string, extra map[string]any) PlantResponse {
	t.Helper()

	body := map[string]any{
		"name":          name,
		"frequency":     "MEDIUM",
		"plant_list_id": listID,
	}
	for k, v := range extra {
		body[k] = v
	}

	resp := ts.api.Post("/api/v1/plants", authHeader, body)
	require.Equal(t, http.StatusCreated, resp.Code, "create plant failed: %s", resp.Body.String())
	return decode[PlantResponse](t, resp).Data
}
