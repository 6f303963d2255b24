package gosquared

import (
	"strings"

	"github.com/leshachaplin/gosquared/internal/domain"
)

// InsertIfNonEmpty stores value under key unless value is blank.
func InsertIfNonEmpty(m map[string]string, key, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	m[key] = value
}

// TrackProperties extracts the event name and the non-blank properties of a
// track event. Spaces in property keys become underscores. Events without a
// track payload are named "track" and carry no properties.
func TrackProperties(ev domain.Event) (string, map[string]string) {
	properties := make(map[string]string)

	data, ok := ev.Data.AsTrack()
	if !ok {
		return defaultEventName, properties
	}

	for k, v := range data.Properties {
		InsertIfNonEmpty(properties, strings.ReplaceAll(k, " ", "_"), v)
	}
	return data.Name, properties
}

// PageProperties returns the non-blank properties of a page event.
func PageProperties(ev domain.Event) map[string]string {
	properties := make(map[string]string)
	if data, ok := ev.Data.AsPage(); ok {
		for k, v := range data.Properties {
			InsertIfNonEmpty(properties, k, v)
		}
	}
	return properties
}
