package event

import "encoding/json"

// ShiftEvent is one pending shift change awaiting a batched push. It never
// travels over a socket; the batcher aggregates these into a single push
// notification per recipient.
type ShiftEvent struct {
	ShiftID   string `json:"shift_id"`
	HomeID    string `json:"home_id"`
	PatternID string `json:"pattern_id,omitempty"`
	StartsAt  string `json:"starts_at,omitempty"`
	Action    string `json:"action"`
}

// DedupeKey serializes the event content. Two byte-identical events enqueued
// for the same user within one flush window collapse into one entry.
func (e ShiftEvent) DedupeKey() string {
	b, err := json.Marshal(e)
	if err != nil {
		return e.ShiftID + "/" + e.Action
	}

	return string(b)
}
