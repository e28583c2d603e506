package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/istdurstig/istdurstig-server/internal/auth"
	"github.com/istdurstig/istdurstig-server/internal/clock"
	"github.com/istdurstig/istdurstig-server/internal/domain"
	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
	"github.com/istdurstig/istdurstig-server/internal/store"
	"github.com/istdurstig/istdurstig-server/internal/validation"
)

var testNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// fastHash keeps argon2 cheap in tests.
var fastHash = auth.HashParams{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

type testEnv struct {
	store  *store.Store
	clock  *clock.Fixed
	access *AccessResolver
	plants *PlantService
	lists  *PlantListService
	auth   *AuthService
	users  *UserService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return setupTestEnvWith(t, nil, nil)
}

// setupTestEnvWith builds the services over a fresh store. lists replaces the
// list store seen by the services when non-nil; indexer may be nil.
func setupTestEnvWith(t *testing.T, lists PlantListStore, indexer PlantIndexer) *testEnv {
	t.Helper()

	s, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	if lists == nil {
		lists = s
	}

	clk := clock.NewFixed(testNow)
	logger := slog.New(slog.DiscardHandler)

	tokens, err := auth.NewTokenService(make([]byte, 32), time.Hour, clk.Now)
	require.NoError(t, err)

	access := NewAccessResolver(lists, s, clk)
	return &testEnv{
		store:  s,
		clock:  clk,
		access: access,
		plants: NewPlantService(s, lists, access, indexer, validation.New(), clk, logger),
		lists:  NewPlantListService(lists, s, s, validation.New(), clk, logger),
		auth:   NewAuthService(s, tokens, fastHash, validation.New(), clk, logger),
		users:  NewUserService(s),
	}
}

// register signs up a user and returns it.
func (e *testEnv) register(t *testing.T, email, firstName string) *domain.User {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), RegisterRequest{
		Email:     email,
		Password:  "correct horse battery",
		FirstName: firstName,
	})
	require.NoError(t, err)
	return resp.User
}

// newList creates a list owned by ownerID.
func (e *testEnv) newList(t *testing.T, ownerID, name string) *domain.PlantList {
	t.Helper()
	l, err := e.lists.CreatePlantList(context.Background(), ownerID, name, "")
	require.NoError(t, err)
	return l
}

// newPlant creates a plant on listID as userID.
func (e *testEnv) newPlant(t *testing.T, userID, listID, name string) *domain.Plant {
	t.Helper()
	p, err := e.plants.CreatePlant(context.Background(), userID, listID, PlantInput{
		Name:      name,
		Frequency: "MEDIUM",
	})
	require.NoError(t, err)
	return p
}

// validationDetails returns the per-field messages of a validation failure.
func validationDetails(t *testing.T, err error) map[string]string {
	t.Helper()
	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr), "want domain error, got %v", err)
	require.Equal(t, domainerrors.CodeInvalidInput, domainErr.Code)
	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok, "details: %#v", domainErr.Details)
	return details
}
