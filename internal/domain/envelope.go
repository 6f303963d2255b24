package domain

import (
	"net/http"

	"github.com/google/uuid"
)

// Envelope is one unit of work for the delivery pipeline: an event together
// with the settings it is addressed with and the headers of the client that
// produced it.
type Envelope struct {
	ID            string            `json:"id"`
	Kind          Kind              `json:"kind"`
	Event         Event             `json:"event"`
	Settings      map[string]string `json:"settings"`
	ClientHeaders http.Header       `json:"client_headers,omitempty"`
}

func NewEnvelope(kind Kind, event Event, settings map[string]string, clientHeaders http.Header) Envelope {
	return Envelope{
		ID:            uuid.NewString(),
		Kind:          kind,
		Event:         event,
		Settings:      settings,
		ClientHeaders: clientHeaders,
	}
}
