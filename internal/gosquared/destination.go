package gosquared

import "github.com/leshachaplin/gosquared/internal/domain"

const (
	PageviewEndpoint = "https://api.gosquared.com/tracking/v1/pageview"
	EventEndpoint    = "https://api.gosquared.com/tracking/v1/event"
	IdentifyEndpoint = "https://api.gosquared.com/tracking/v1/identify"

	defaultEventName = "track"
)

// Page builds the pageview request for ev.
func Page(ev domain.Event, settings map[string]string) (domain.Request, error) {
	return NewRequest(PageviewEndpoint, NewPageviewPayload(ev), settings)
}

// Track builds the event request for ev, named "track" when ev has no track data.
func Track(ev domain.Event, settings map[string]string) (domain.Request, error) {
	name, properties := TrackProperties(ev)
	return NewRequest(EventEndpoint, NewTrackPayload(ev, name, properties), settings)
}

// User builds the identify request for ev.
func User(ev domain.Event, settings map[string]string) (domain.Request, error) {
	return NewRequest(IdentifyEndpoint, NewIdentifyPayload(ev), settings)
}
