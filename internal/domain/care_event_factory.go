package domain

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
)

// Field keys understood by NewCareEvent.
const (
	FieldAmount         = "amount"
	FieldFertilizerType = "fertilizerType"
	FieldPotSize        = "potSize"
	FieldSoilType       = "soilType"
)

// CareEventInput is the untyped request to record a care action.
// Fields carries the variant-specific values keyed by the Field* constants.
type CareEventInput struct {
	Type     string
	Notes    string
	AuthorID string
	Fields   map[string]any
}

// ParseCareEventType parses a care event type, ignoring case and surrounding space.
func ParseCareEventType(s string) (CareEventType, error) {
	t := CareEventType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case CareEventWatering, CareEventFertilizing, CareEventTransplanting:
		return t, nil
	default:
		return "", domainerrors.InvalidInputf("unknown care event type %q", s)
	}
}

// NewCareEvent builds a care event stamped at the given instant.
//
// Missing fields fall back to zero values (0 liters, empty strings).
// An unknown type, a field of the wrong JSON type, or a negative or
// non-finite amount is rejected with InvalidInput.
func NewCareEvent(id string, at time.Time, in CareEventInput) (CareEvent, error) {
	t, err := ParseCareEventType(in.Type)
	if err != nil {
		return CareEvent{}, err
	}

	var details CareDetails
	switch t {
	case CareEventWatering:
		amount, err := floatField(in.Fields, FieldAmount)
		if err != nil {
			return CareEvent{}, err
		}
		if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
			return CareEvent{}, domainerrors.InvalidInputf("%s must be a non-negative number", FieldAmount)
		}
		details = Watering{AmountLiters: amount}

	case CareEventFertilizing:
		fertilizer, err := stringField(in.Fields, FieldFertilizerType)
		if err != nil {
			return CareEvent{}, err
		}
		details = Fertilizing{FertilizerType: fertilizer}

	case CareEventTransplanting:
		pot, err := stringField(in.Fields, FieldPotSize)
		if err != nil {
			return CareEvent{}, err
		}
		soil, err := stringField(in.Fields, FieldSoilType)
		if err != nil {
			return CareEvent{}, err
		}
		details = Transplanting{PotSize: pot, SoilType: soil}
	}

	return CareEvent{
		ID:        id,
		Timestamp: at,
		Notes:     in.Notes,
		AuthorID:  in.AuthorID,
		Details:   details,
	}, nil
}

func floatField(fields map[string]any, key string) (float64, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return 0, nil
	}

	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, domainerrors.InvalidInputf("%s must be a number", key)
		}
		return f, nil
	default:
		return 0, domainerrors.InvalidInputf("%s must be a number", key)
	}
}

func stringField(fields map[string]any, key string) (string, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", nil
	}

	s, ok := v.(string)
	if !ok {
		return "", domainerrors.InvalidInputf("%s must be a string", key)
	}
	return s, nil
}
