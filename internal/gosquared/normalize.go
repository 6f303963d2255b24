package gosquared

import (
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/leshachaplin/gosquared/internal/domain"
)

// isoLayout renders UTC as "+00:00" rather than "Z".
const isoLayout = "2006-01-02T15:04:05-07:00"

// ParseLanguage returns the language part of a locale such as "fr-CA".
// An empty locale yields an empty language.
func ParseLanguage(locale string) string {
	language, _, _ := strings.Cut(locale, "-")
	return language
}

// ScreenFromEvent copies the client screen size and density. Depth is never set.
func ScreenFromEvent(ev domain.Event) Screen {
	density := ev.Context.Client.ScreenDensity
	return Screen{
		Height:     ev.Context.Client.ScreenHeight,
		Width:      ev.Context.Client.ScreenWidth,
		PixelRatio: &density,
	}
}

// CampaignFromEvent copies the campaign fields verbatim, blanks included.
func CampaignFromEvent(ev domain.Event) Campaign {
	c := ev.Context.Campaign
	return Campaign{
		Name:    c.Name,
		Source:  c.Source,
		Medium:  c.Medium,
		Content: c.Content,
		Term:    c.Term,
	}
}

// TimezoneOffsetFromString resolves either an IANA zone name or a "UTC+N"
// string into an offset from UTC in minutes. Zone names use the offset in
// effect right now.
func TimezoneOffsetFromString(tz string) (int, bool) {
	return timezoneOffsetAt(tz, time.Now())
}

func timezoneOffsetAt(tz string, now time.Time) (int, bool) {
	if tz != "" && tz != "Local" {
		if loc, err := time.LoadLocation(tz); err == nil {
			_, offset := now.In(loc).Zone()
			return offset / 60, true
		}
	}

	if hours, ok := strings.CutPrefix(tz, "UTC"); ok {
		if h, err := strconv.Atoi(hours); err == nil {
			return h * 60, true
		}
	}

	return 0, false
}

// FormatLastSeenAsISO formats epoch seconds as an RFC 3339 timestamp in UTC.
// Non-positive values have no timestamp.
func FormatLastSeenAsISO(lastSeen int64) (string, bool) {
	if lastSeen <= 0 {
		return "", false
	}
	return time.Unix(lastSeen, 0).UTC().Format(isoLayout), true
}
