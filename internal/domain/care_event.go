package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// CareEventType discriminates the care event variants.
type CareEventType string

// Known care event types.
const (
	CareEventWatering      CareEventType = "WATERING"
	CareEventFertilizing   CareEventType = "FERTILIZING"
	CareEventTransplanting CareEventType = "TRANSPLANTING"
)

// CareEventTypes lists every variant.
var CareEventTypes = []CareEventType{CareEventWatering, CareEventFertilizing, CareEventTransplanting}

// CareEvent is one entry in a plant's care history. Events are immutable
// once created; Details holds the variant-specific payload.
type CareEvent struct {
	ID        string
	Timestamp time.Time
	Notes     string
	AuthorID  string
	Details   CareDetails
}

// CareDetails is implemented only by Watering, Fertilizing and Transplanting.
type CareDetails interface {
	Type() CareEventType
	careDetails()
}

// Watering records water given to a plant.
type Watering struct {
	AmountLiters float64
}

// Fertilizing records a fertilizer application.
type Fertilizing struct {
	FertilizerType string
}

// Transplanting records a move to a new pot.
type Transplanting struct {
	PotSize  string
	SoilType string
}

func (Watering) Type() CareEventType      { return CareEventWatering }
func (Fertilizing) Type() CareEventType   { return CareEventFertilizing }
func (Transplanting) Type() CareEventType { return CareEventTransplanting }

func (Watering) careDetails()      {}
func (Fertilizing) careDetails()   {}
func (Transplanting) careDetails() {}

// Type returns the event's variant.
func (e CareEvent) Type() CareEventType {
	if e.Details == nil {
		return ""
	}
	return e.Details.Type()
}

// IsWatering reports whether the event is a watering.
func (e CareEvent) IsWatering() bool {
	_, ok := e.Details.(Watering)
	return ok
}

// careEventJSON is the flat storage shape of a CareEvent.
type careEventJSON struct {
	ID             string        `json:"id"`
	Type           CareEventType `json:"type"`
	Timestamp      time.Time     `json:"timestamp"`
	Notes          string        `json:"notes,omitempty"`
	AuthorID       string        `json:"author_id"`
	AmountLiters   *float64      `json:"amount_liters,omitempty"`
	FertilizerType *string       `json:"fertilizer_type,omitempty"`
	PotSize        *string       `json:"pot_size,omitempty"`
	SoilType       *string       `json:"soil_type,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e CareEvent) MarshalJSON() ([]byte, error) {
	out := careEventJSON{
		ID:        e.ID,
		Timestamp: e.Timestamp,
		Notes:     e.Notes,
		AuthorID:  e.AuthorID,
	}

	switch d := e.Details.(type) {
	case Watering:
		out.Type = CareEventWatering
		out.AmountLiters = &d.AmountLiters
	case Fertilizing:
		out.Type = CareEventFertilizing
		out.FertilizerType = &d.FertilizerType
	case Transplanting:
		out.Type = CareEventTransplanting
		out.PotSize = &d.PotSize
		out.SoilType = &d.SoilType
	default:
		return nil, fmt.Errorf("marshal care event %s: unknown details %T", e.ID, e.Details)
	}

	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *CareEvent) UnmarshalJSON(data []byte) error {
	var in careEventJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var details CareDetails
	switch in.Type {
	case CareEventWatering:
		details = Watering{AmountLiters: deref(in.AmountLiters)}
	case CareEventFertilizing:
		details = Fertilizing{FertilizerType: deref(in.FertilizerType)}
	case CareEventTransplanting:
		details = Transplanting{PotSize: deref(in.PotSize), SoilType: deref(in.SoilType)}
	default:
		return fmt.Errorf("unmarshal care event %s: unknown type %q", in.ID, in.Type)
	}

	*e = CareEvent{
		ID:        in.ID,
		Timestamp: in.Timestamp,
		Notes:     in.Notes,
		AuthorID:  in.AuthorID,
		Details:   details,
	}
	return nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
