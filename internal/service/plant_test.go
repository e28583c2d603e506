package service

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/istdurstig/istdurstig-server/internal/domain"
	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
	"github.com/istdurstig/istdurstig-server/internal/search"
)

func TestCreatePlant(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	l := env.newList(t, "owner", "Kitchen")

	t.Run("on a list", func(t *testing.T) {
		p, err := env.plants.CreatePlant(ctx, "owner", l.ID, PlantInput{
			Name:      "Basil",
			Type:      "herb",
			Tags:      []string{"kitchen", "Kitchen", " edible "},
			Frequency: "frequent",
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(p.ID, "plant-"))
		assert.Equal(t, domain.FrequencyFrequent, p.Schedule.Frequency)
		assert.Nil(t, p.Schedule.LastWatered)
		assert.Empty(t, p.CareHistory)

		got, err := env.lists.GetPlantList(ctx, "owner", l.ID)
		require.NoError(t, err)
		assert.Contains(t, got.PlantIDs, p.ID)
	})

	t.Run("without a list", func(t *testing.T) {
		p, err := env.plants.CreatePlant(ctx, "owner", "", PlantInput{Name: "Orphan", Frequency: "RARE"})
		require.NoError(t, err)

		_, err = env.plants.GetPlant(ctx, "owner", p.ID)
		assert.ErrorIs(t, err, domainerrors.ErrAccessDenied)
	})

	t.Run("invalid frequency", func(t *testing.T) {
		_, err := env.plants.CreatePlant(ctx, "owner", l.ID, PlantInput{Name: "Bad", Frequency: "HOURLY"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := env.plants.CreatePlant(ctx, "owner", l.ID, PlantInput{Frequency: "MEDIUM"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	})

	t.Run("list not found", func(t *testing.T) {
		_, err := env.plants.CreatePlant(ctx, "owner", "plist-missing", PlantInput{Name: "X", Frequency: "MEDIUM"})
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	})

	t.Run("stranger cannot add to list", func(t *testing.T) {
		_, err := env.plants.CreatePlant(ctx, "stranger", l.ID, PlantInput{Name: "X", Frequency: "MEDIUM"})
		assert.ErrorIs(t, err, domainerrors.ErrAccessDenied)
	})
}

func TestPlantInput_ValidationDetails(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	l := env.newList(t, "owner", "Kitchen")

	_, err := env.plants.CreatePlant(ctx, "owner", l.ID, PlantInput{
		Name:      "Fern",
		PhotoURL:  "not a url",
		Frequency: "HOURLY",
	})
	details := validationDetails(t, err)
	assert.Equal(t, "must be one of FREQUENT, MEDIUM, RARE", details["frequency"])
	assert.Equal(t, "must be a valid URL", details["photo_url"])
	assert.NotContains(t, details, "name")

	_, err = env.plants.CreatePlant(ctx, "owner", l.ID, PlantInput{Frequency: "MEDIUM"})
	details = validationDetails(t, err)
	assert.Equal(t, "is required", details["name"])

	p := env.newPlant(t, "owner", l.ID, "Fern")
	_, err = env.plants.UpdatePlant(ctx, "owner", p.ID, PlantInput{
		Name:      strings.Repeat("f", 101),
		Frequency: "RARE",
	})
	details = validationDetails(t, err)
	assert.Equal(t, "must not exceed 100 characters", details["name"])

	_, err = env.plants.AddCareEvent(ctx, "owner", p.ID, CareEventRequest{Type: "PRUNING"})
	details = validationDetails(t, err)
	assert.Equal(t, "must be one of WATERING, FERTILIZING, TRANSPLANTING", details["type"])

	got, err := env.plants.GetPlant(ctx, "owner", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fern", got.Name)
	assert.Empty(t, got.CareHistory)
}

func TestGetPlant_NotFoundBeforeAccessDenied(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	l := env.newList(t, "owner", "Kitchen")
	p := env.newPlant(t, "owner", l.ID, "Mint")

	_, err := env.plants.GetPlant(ctx, "stranger", "plant-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = env.plants.GetPlant(ctx, "stranger", p.ID)
	assert.ErrorIs(t, err, domainerrors.ErrAccessDenied)

	got, err := env.plants.GetPlant(ctx, "owner", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mint", got.Name)
}

func TestUpdatePlant_KeepsLastWatered(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	l := env.newList(t, "owner", "Kitchen")
	p := env.newPlant(t, "owner", l.ID, "Mint")

	_, err := env.plants.AddCareEvent(ctx, "owner", p.ID, CareEventRequest{Type: "WATERING"})
	require.NoError(t, err)

	updated, err := env.plants.UpdatePlant(ctx, "owner", p.ID, PlantInput{
		Name:      "Peppermint",
		Frequency: "RARE",
	})
	require.NoError(t, err)
	assert.Equal(t, "Peppermint", updated.Name)
	assert.Equal(t, domain.FrequencyRare, updated.Schedule.Frequency)
	require.NotNil(t, updated.Schedule.LastWatered)
	assert.Equal(t, civil.DateOf(testNow), *updated.Schedule.LastWatered)
	assert.Len(t, updated.CareHistory, 1)

	_, err = env.plants.UpdatePlant(ctx, "stranger", p.ID, PlantInput{Name: "X", Frequency: "RARE"})
	assert.ErrorIs(t, err, domainerrors.ErrAccessDenied)
}

func TestAddCareEvent(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	l := env.newList(t, "owner", "Kitchen")
	p := env.newPlant(t, "owner", l.ID, "Ficus")

	t.Run("watering updates schedule", func(t *testing.T) {
		got, err := env.plants.AddCareEvent(ctx, "owner", p.ID, CareEventRequest{
			Type:   "watering",
			Notes:  "morning",
			Fields: map[string]any{domain.FieldAmount: 0.5},
		})
		require.NoError(t, err)
		require.Len(t, got.CareHistory, 1)

		ev := got.CareHistory[0]
		assert.NotEmpty(t, ev.ID)
		assert.Equal(t, "owner", ev.AuthorID)
		assert.Equal(t, domain.CareEventWatering, ev.Type())
		assert.Equal(t, domain.Watering{AmountLiters: 0.5}, ev.Details)
		require.NotNil(t, got.Schedule.LastWatered)
		assert.Equal(t, civil.DateOf(testNow), *got.Schedule.LastWatered)
	})

	t.Run("fertilizing leaves schedule alone", func(t *testing.T) {
		env.clock.Advance(48 * time.Hour)
		got, err := env.plants.AddCareEvent(ctx, "owner", p.ID, CareEventRequest{
			Type:   "FERTILIZING",
			Fields: map[string]any{domain.FieldFertilizerType: "liquid"},
		})
		require.NoError(t, err)
		require.Len(t, got.CareHistory, 2)
		assert.Equal(t, domain.Fertilizing{FertilizerType: "liquid"}, got.CareHistory[1].Details)
		assert.Equal(t, civil.DateOf(testNow), *got.Schedule.LastWatered)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := env.plants.AddCareEvent(ctx, "owner", p.ID, CareEventRequest{Type: "PRUNING"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	})

	t.Run("bad field type", func(t *testing.T) {
		_, err := env.plants.AddCareEvent(ctx, "owner", p.ID, CareEventRequest{
			Type:   "WATERING",
			Fields: map[string]any{domain.FieldAmount: "lots"},
		})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	})

	t.Run("stranger", func(t *testing.T) {
		_, err := env.plants.AddCareEvent(ctx, "stranger", p.ID, CareEventRequest{Type: "WATERING"})
		assert.ErrorIs(t, err, domainerrors.ErrAccessDenied)
	})

	t.Run("missing plant", func(t *testing.T) {
		_, err := env.plants.AddCareEvent(ctx, "owner", "plant-missing", CareEventRequest{Type: "WATERING"})
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	})
}

func TestDeletePlant_CascadesAcrossLists(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	mine := env.newList(t, "alice", "Mine")
	theirs := env.newList(t, "bob", "Theirs")
	p := env.newPlant(t, "alice", mine.ID, "Aloe")

	// Bob holds the plant too, on a list Alice has no rights on, twice.
	for range 2 {
		theirsNow, err := env.store.GetPlantList(ctx, theirs.ID)
		require.NoError(t, err)
		theirsNow.AddPlant(p.ID, testNow)
		require.NoError(t, env.store.SavePlantList(ctx, theirsNow))
	}

	require.NoError(t, env.plants.DeletePlant(ctx, "alice", p.ID))

	_, err := env.store.GetPlant(ctx, p.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	for _, id := range []string{mine.ID, theirs.ID} {
		l, err := env.store.GetPlantList(ctx, id)
		require.NoError(t, err)
		assert.NotContains(t, l.PlantIDs, p.ID)
	}

	holders, err := env.store.FindPlantListsContainingPlant(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, holders)

	// Deleting again succeeds.
	assert.NoError(t, env.plants.DeletePlant(ctx, "alice", p.ID))
}

func TestDeletePlant_RequiresAccess(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	l := env.newList(t, "owner", "Kitchen")
	p := env.newPlant(t, "owner", l.ID, "Aloe")

	err := env.plants.DeletePlant(ctx, "stranger", p.ID)
	assert.ErrorIs(t, err, domainerrors.ErrAccessDenied)

	_, err = env.store.GetPlant(ctx, p.ID)
	assert.NoError(t, err)
}

func TestListPlantsForUser_Dedupes(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	a := env.newList(t, "owner", "A")
	b := env.newList(t, "owner", "B")
	p1 := env.newPlant(t, "owner", a.ID, "One")
	p2 := env.newPlant(t, "owner", b.ID, "Two")

	_, err := env.lists.AddPlantToList(ctx, "owner", b.ID, p1.ID)
	require.NoError(t, err)

	plants, err := env.plants.ListPlantsForUser(ctx, "owner")
	require.NoError(t, err)

	var ids []string
	for _, p := range plants {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{p1.ID, p2.ID}, ids)

	none, err := env.plants.ListPlantsForUser(ctx, "stranger")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListPlantsDueToday(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	l := env.newList(t, "owner", "Kitchen")
	thirsty := env.newPlant(t, "owner", l.ID, "Never watered")
	watered := env.newPlant(t, "owner", l.ID, "Watered")

	_, err := env.plants.AddCareEvent(ctx, "owner", watered.ID, CareEventRequest{Type: "WATERING"})
	require.NoError(t, err)

	due, err := env.plants.ListPlantsDueToday(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, thirsty.ID, due[0].ID)

	// MEDIUM is five days; due once that interval has fully passed.
	env.clock.Advance(5 * 24 * time.Hour)
	due, err = env.plants.ListPlantsDueToday(ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, due, 1)

	env.clock.Advance(24 * time.Hour)
	due, err = env.plants.ListPlantsDueToday(ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, due, 2)
}

type fakeIndexer struct {
	hits    []string
	indexed map[string]bool
}

func (f *fakeIndexer) IndexPlant(_ context.Context, p *domain.Plant) error {
	if f.indexed == nil {
		f.indexed = make(map[string]bool)
	}
	f.indexed[p.ID] = true
	return nil
}

func (f *fakeIndexer) DeletePlant(_ context.Context, plantID string) error {
	delete(f.indexed, plantID)
	return nil
}

func (f *fakeIndexer) SearchWithin(_ context.Context, _ string, ids []string, limit int) ([]string, error) {
	var out []string
	for _, id := range f.hits {
		if slices.Contains(ids, id) && len(out) < limit {
			out = append(out, id)
		}
	}
	return out, nil
}

func TestSearchPlants_FiltersByAccess(t *testing.T) {
	idx := &fakeIndexer{}
	env := setupTestEnvWith(t, nil, idx)
	ctx := context.Background()

	mine := env.newList(t, "alice", "Mine")
	theirs := env.newList(t, "bob", "Theirs")
	visible := env.newPlant(t, "alice", mine.ID, "Fern")
	hidden := env.newPlant(t, "bob", theirs.ID, "Fern too")

	assert.True(t, idx.indexed[visible.ID])
	assert.True(t, idx.indexed[hidden.ID])

	idx.hits = []string{hidden.ID, visible.ID}

	got, err := env.plants.SearchPlants(ctx, "alice", "fern", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, visible.ID, got[0].ID)

	_, err = env.plants.SearchPlants(ctx, "alice", "  ", 10)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	require.NoError(t, env.plants.DeletePlant(ctx, "alice", visible.ID))
	assert.False(t, idx.indexed[visible.ID])
}

func TestSearchPlants_VisibleMatchOutranked(t *testing.T) {
	index, err := search.NewPlantIndex(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	env := setupTestEnvWith(t, nil, index)
	ctx := context.Background()

	theirs := env.newList(t, "bob", "Greenhouse")
	for range 10 {
		env.newPlant(t, "bob", theirs.ID, "Fern")
	}
	mine := env.newList(t, "alice", "Kitchen")
	want := env.newPlant(t, "alice", mine.ID, "Fern by the big old kitchen window sill")

	got, err := env.plants.SearchPlants(ctx, "alice", "fern", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want.ID, got[0].ID)
}

func TestSearchPlants_NameFallback(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	l := env.newList(t, "owner", "Kitchen")
	env.newPlant(t, "owner", l.ID, "Sweet Basil")
	env.newPlant(t, "owner", l.ID, "Mint")

	got, err := env.plants.SearchPlants(ctx, "owner", "basil", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Sweet Basil", got[0].Name)
}
