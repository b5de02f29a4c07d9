package models

import "encoding/json"

// Envelope is the body shape every API response uses.
type Envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type EventType string

const (
	EventProfile EventType = "profile"
	EventBot     EventType = "bot"
	EventBalance EventType = "balance"
)

// Event is a server push delivered over the user event stream.
type Event struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}
