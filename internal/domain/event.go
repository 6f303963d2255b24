package domain

type Kind string

const (
	KindPage  Kind = "page"
	KindTrack Kind = "track"
	KindUser  Kind = "user"
)

func (k Kind) Valid() bool {
	switch k {
	case KindPage, KindTrack, KindUser:
		return true
	default:
		return false
	}
}

// Event is the vendor-neutral analytics record for one user action.
type Event struct {
	Timestamp int64   `json:"timestamp"`
	Context   Context `json:"context"`
	Data      Data    `json:"data"`
}

type Context struct {
	User     User     `json:"user"`
	Page     Page     `json:"page"`
	Client   Client   `json:"client"`
	Campaign Campaign `json:"campaign"`
}

type User struct {
	UserID      string            `json:"user_id"`
	AnonymousID string            `json:"anonymous_id"`
	Properties  map[string]string `json:"properties"`
}

type Page struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Referrer string `json:"referrer"`
}

type Client struct {
	IP            string  `json:"ip"`
	UserAgent     string  `json:"user_agent"`
	Locale        string  `json:"locale"`
	Timezone      string  `json:"timezone"`
	ScreenHeight  int32   `json:"screen_height"`
	ScreenWidth   int32   `json:"screen_width"`
	ScreenDensity float32 `json:"screen_density"`
}

type Campaign struct {
	Name    string `json:"name"`
	Source  string `json:"source"`
	Medium  string `json:"medium"`
	Content string `json:"content"`
	Term    string `json:"term"`
}

// Data is the kind-specific part of an Event. Exactly one of Page and Track
// is expected to be set, matching Type. Identify events carry no data of
// their own and use Context.User.Properties instead.
type Data struct {
	Type  Kind       `json:"type"`
	Page  *PageData  `json:"page,omitempty"`
	Track *TrackData `json:"track,omitempty"`
}

type PageData struct {
	Properties map[string]string `json:"properties"`
}

type TrackData struct {
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties"`
}

func (d Data) AsPage() (PageData, bool) {
	if d.Type != KindPage || d.Page == nil {
		return PageData{}, false
	}
	return *d.Page, true
}

func (d Data) AsTrack() (TrackData, bool) {
	if d.Type != KindTrack || d.Track == nil {
		return TrackData{}, false
	}
	return *d.Track, true
}
