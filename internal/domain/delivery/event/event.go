package event

import "encoding/json"

// Event is one unit of the socket vocabulary. Op is the client-facing type
// tag carried on the wire.
type Event interface {
	Op() string
}

// Frame is the JSON envelope of every socket message, inbound and outbound.
// Some legacy event classes put their body under "payload" instead of
// "data"; both fields stay to keep the client contract intact.
type Frame struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Format wraps an event into its wire frame.
func Format(ev Event) ([]byte, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}

	frame := Frame{Type: ev.Op()}
	if _, usesPayload := ev.(payloadEvent); usesPayload {
		frame.Payload = body
	} else {
		frame.Data = body
	}

	return json.Marshal(frame)
}

// payloadEvent marks event classes whose body travels under "payload".
type payloadEvent interface {
	payloadField()
}
