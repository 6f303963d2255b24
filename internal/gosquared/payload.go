package gosquared

import (
	"strconv"

	"github.com/leshachaplin/gosquared/internal/domain"
)

// Every optional field is a pointer or an omitempty map so that unset values
// never reach the wire, not even as null.

type PageInfo struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Previous int32  `json:"previous"`
	Index    int32  `json:"index"`
}

type Screen struct {
	Height     int32    `json:"height"`
	Width      int32    `json:"width"`
	PixelRatio *float32 `json:"pixel_ratio,omitempty"`
	Depth      *float64 `json:"depth,omitempty"`
}

type Campaign struct {
	Name    string `json:"name"`
	Source  string `json:"source"`
	Medium  string `json:"medium"`
	Content string `json:"content"`
	Term    string `json:"term"`
}

type Location struct {
	TimezoneOffset int `json:"timezone_offset"`
}

type Total struct {
	Visits    int `json:"visits"`
	Pageviews int `json:"pageviews"`
}

// Visit holds the contextual fields shared by pageviews and events.
type Visit struct {
	Timestamp    *string   `json:"timestamp,omitempty"`
	Referrer     *string   `json:"referrer,omitempty"`
	IP           *string   `json:"ip,omitempty"`
	Language     *string   `json:"language,omitempty"`
	UserAgent    *string   `json:"user_agent,omitempty"`
	Returning    *bool     `json:"returning,omitempty"`
	CharacterSet *string   `json:"character_set,omitempty"`
	Screen       *Screen   `json:"screen,omitempty"`
	Campaign     *Campaign `json:"campaign,omitempty"`
}

// newVisit fills the contextual fields from the event. Blank context values
// are sent as empty strings; only returning and character_set stay absent.
func newVisit(ev domain.Event) Visit {
	screen := ScreenFromEvent(ev)
	campaign := CampaignFromEvent(ev)
	timestamp := strconv.FormatInt(ev.Timestamp, 10)
	referrer := ev.Context.Page.Referrer
	ip := ev.Context.Client.IP
	language := ParseLanguage(ev.Context.Client.Locale)
	userAgent := ev.Context.Client.UserAgent

	return Visit{
		Timestamp: &timestamp,
		Referrer:  &referrer,
		IP:        &ip,
		Language:  &language,
		UserAgent: &userAgent,
		Screen:    &screen,
		Campaign:  &campaign,
	}
}

type PageviewPayload struct {
	VisitorID string   `json:"visitor_id"`
	Page      PageInfo `json:"page"`
	Visit
}

func NewPageviewPayload(ev domain.Event) PageviewPayload {
	return PageviewPayload{
		VisitorID: ev.Context.User.AnonymousID,
		Page: PageInfo{
			URL:   ev.Context.Page.URL,
			Title: ev.Context.Page.Title,
		},
		Visit: newVisit(ev),
	}
}

type TrackEvent struct {
	Name string            `json:"name"`
	Data map[string]string `json:"data"`
}

type TrackPayload struct {
	Event     TrackEvent `json:"event"`
	PersonID  *string    `json:"person_id,omitempty"`
	VisitorID *string    `json:"visitor_id,omitempty"`
	Page      *PageInfo  `json:"page,omitempty"`
	Visit
	Location     *Location `json:"location,omitempty"`
	LastPageview *string   `json:"last_pageview,omitempty"`
	Total        *Total    `json:"total,omitempty"`
}

// NewTrackPayload builds an event payload from an already extracted name and
// property set; see TrackProperties.
func NewTrackPayload(ev domain.Event, name string, properties map[string]string) TrackPayload {
	if properties == nil {
		properties = map[string]string{}
	}
	personID := ev.Context.User.UserID
	visitorID := ev.Context.User.AnonymousID

	p := TrackPayload{
		Event: TrackEvent{
			Name: name,
			Data: properties,
		},
		PersonID:  &personID,
		VisitorID: &visitorID,
		Page: &PageInfo{
			URL:   ev.Context.Page.URL,
			Title: ev.Context.Page.Title,
		},
		Visit: newVisit(ev),
	}

	if offset, ok := TimezoneOffsetFromString(ev.Context.Client.Timezone); ok {
		p.Location = &Location{TimezoneOffset: offset}
	}

	return p
}

type Company struct {
	Name     *string `json:"name,omitempty"`
	Size     *uint32 `json:"size,omitempty"`
	Industry *string `json:"industry,omitempty"`
	Position *string `json:"position,omitempty"`
}

func (c Company) isZero() bool {
	return c.Name == nil && c.Size == nil && c.Industry == nil && c.Position == nil
}

type IdentifyProperties struct {
	Email       *string           `json:"email,omitempty"`
	Status      *string           `json:"status,omitempty"`
	Name        *string           `json:"name,omitempty"`
	FirstName   *string           `json:"first_name,omitempty"`
	LastName    *string           `json:"last_name,omitempty"`
	Username    *string           `json:"username,omitempty"`
	Avatar      *string           `json:"avatar,omitempty"`
	Description *string           `json:"description,omitempty"`
	Phone       *string           `json:"phone,omitempty"`
	CreatedAt   *string           `json:"created_at,omitempty"`
	Company     *Company          `json:"company,omitempty"`
	Custom      map[string]string `json:"custom,omitempty"`
}

func (p IdentifyProperties) isZero() bool {
	return p.Email == nil && p.Status == nil && p.Name == nil &&
		p.FirstName == nil && p.LastName == nil && p.Username == nil &&
		p.Avatar == nil && p.Description == nil && p.Phone == nil &&
		p.CreatedAt == nil && p.Company == nil && len(p.Custom) == 0
}

type IdentifyPayload struct {
	PersonID   string              `json:"person_id"`
	VisitorID  *string             `json:"visitor_id,omitempty"`
	Properties *IdentifyProperties `json:"properties,omitempty"`
}

func NewIdentifyPayload(ev domain.Event) IdentifyPayload {
	var (
		props   IdentifyProperties
		company Company
	)
	custom := make(map[string]string)

	for key, value := range ev.Context.User.Properties {
		v := value
		switch key {
		case "email":
			props.Email = &v
		case "status":
			props.Status = &v
		case "name":
			props.Name = &v
		case "first_name":
			props.FirstName = &v
		case "last_name":
			props.LastName = &v
		case "username":
			props.Username = &v
		case "avatar":
			props.Avatar = &v
		case "description":
			props.Description = &v
		case "phone":
			props.Phone = &v
		case "created_at":
			props.CreatedAt = &v
		case "company.name":
			company.Name = &v
		case "company.size":
			if size, err := strconv.ParseUint(v, 10, 32); err == nil {
				s := uint32(size)
				company.Size = &s
			}
		case "company.industry":
			company.Industry = &v
		case "company.position":
			company.Position = &v
		default:
			InsertIfNonEmpty(custom, key, v)
		}
	}

	if !company.isZero() {
		props.Company = &company
	}
	if len(custom) > 0 {
		props.Custom = custom
	}

	p := IdentifyPayload{
		PersonID:  ev.Context.User.UserID,
		VisitorID: optional(ev.Context.User.AnonymousID),
	}
	if !props.isZero() {
		p.Properties = &props
	}
	return p
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
