package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
)

var eventTime = time.Date(2024, time.April, 2, 9, 30, 0, 0, time.UTC)

func TestNewCareEvent_Watering(t *testing.T) {
	ev, err := NewCareEvent("evt-1", eventTime, CareEventInput{
		Type:     "WATERING",
		Notes:    "morning",
		AuthorID: "user-1",
		Fields:   map[string]any{FieldAmount: 0.5},
	})
	require.NoError(t, err)

	assert.Equal(t, CareEventWatering, ev.Type())
	assert.Equal(t, Watering{AmountLiters: 0.5}, ev.Details)
	assert.Equal(t, "evt-1", ev.ID)
	assert.Equal(t, eventTime, ev.Timestamp)
	assert.Equal(t, "morning", ev.Notes)
	assert.Equal(t, "user-1", ev.AuthorID)
}

func TestNewCareEvent_MissingFieldsUseDefaults(t *testing.T) {
	tests := []struct {
		typ  string
		want CareDetails
	}{
		{"WATERING", Watering{AmountLiters: 0}},
		{"FERTILIZING", Fertilizing{FertilizerType: ""}},
		{"TRANSPLANTING", Transplanting{PotSize: "", SoilType: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			ev, err := NewCareEvent("evt-1", eventTime, CareEventInput{Type: tt.typ, AuthorID: "user-1"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.Details)
		})
	}
}

func TestNewCareEvent_TypeIsCaseInsensitive(t *testing.T) {
	ev, err := NewCareEvent("evt-1", eventTime, CareEventInput{
		Type:   " fertilizing ",
		Fields: map[string]any{FieldFertilizerType: "NPK 7-3-6"},
	})
	require.NoError(t, err)

	assert.Equal(t, Fertilizing{FertilizerType: "NPK 7-3-6"}, ev.Details)
}

func TestNewCareEvent_Transplanting(t *testing.T) {
	ev, err := NewCareEvent("evt-1", eventTime, CareEventInput{
		Type:   "TRANSPLANTING",
		Fields: map[string]any{FieldPotSize: "18cm", FieldSoilType: "cactus mix"},
	})
	require.NoError(t, err)

	assert.Equal(t, Transplanting{PotSize: "18cm", SoilType: "cactus mix"}, ev.Details)
}

func TestNewCareEvent_UnknownType(t *testing.T) {
	_, err := NewCareEvent("evt-1", eventTime, CareEventInput{Type: "WIDGET"})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestNewCareEvent_RejectsMalformedFields(t *testing.T) {
	tests := []struct {
		name   string
		typ    string
		fields map[string]any
	}{
		{"negative amount", "WATERING", map[string]any{FieldAmount: -1.0}},
		{"string amount", "WATERING", map[string]any{FieldAmount: "lots"}},
		{"numeric fertilizer", "FERTILIZING", map[string]any{FieldFertilizerType: 12}},
		{"boolean soil", "TRANSPLANTING", map[string]any{FieldSoilType: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCareEvent("evt-1", eventTime, CareEventInput{Type: tt.typ, Fields: tt.fields})
			assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
		})
	}
}

func TestNewCareEvent_AcceptsJSONNumbers(t *testing.T) {
	ev, err := NewCareEvent("evt-1", eventTime, CareEventInput{
		Type:   "WATERING",
		Fields: map[string]any{FieldAmount: json.Number("1.25")},
	})
	require.NoError(t, err)

	assert.Equal(t, Watering{AmountLiters: 1.25}, ev.Details)
}

func TestCareEvent_JSONKeepsVariant(t *testing.T) {
	events := []CareEvent{
		{ID: "a", Timestamp: eventTime, AuthorID: "u", Details: Watering{AmountLiters: 0.3}},
		{ID: "b", Timestamp: eventTime, AuthorID: "u", Notes: "spring", Details: Fertilizing{FertilizerType: "liquid"}},
		{ID: "c", Timestamp: eventTime, AuthorID: "u", Details: Transplanting{PotSize: "L", SoilType: "peat"}},
	}

	data, err := json.Marshal(events)
	require.NoError(t, err)

	var decoded []CareEvent
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Len(t, decoded, 3)
	for i := range events {
		assert.Equal(t, events[i].Details, decoded[i].Details)
		assert.Equal(t, events[i].Notes, decoded[i].Notes)
		assert.True(t, events[i].Timestamp.Equal(decoded[i].Timestamp))
	}
}

func TestCareEvent_JSONWireShape(t *testing.T) {
	ev := CareEvent{ID: "a", Timestamp: eventTime, AuthorID: "u", Details: Watering{AmountLiters: 0}}

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "WATERING", raw["type"])
	assert.Equal(t, 0.0, raw["amount_liters"])
	assert.NotContains(t, raw, "fertilizer_type")
}

func TestCareEvent_UnmarshalUnknownType(t *testing.T) {
	var ev CareEvent
	err := json.Unmarshal([]byte(`{"id":"a","type":"PRUNING"}`), &ev)

	assert.Error(t, err)
}

func TestCareEvent_MarshalWithoutDetails(t *testing.T) {
	_, err := json.Marshal(CareEvent{ID: "a"})

	assert.Error(t, err)
}
