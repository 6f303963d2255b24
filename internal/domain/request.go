package domain

import "net/http"

type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Request describes an outbound HTTP call. Building one performs no I/O.
type Request struct {
	Method               string   `json:"method"`
	URL                  string   `json:"url"`
	Headers              []Header `json:"headers"`
	Body                 string   `json:"body"`
	ForwardClientHeaders bool     `json:"forward_client_headers"`
}

func (r Request) Header(key string) string {
	key = http.CanonicalHeaderKey(key)
	for _, h := range r.Headers {
		if http.CanonicalHeaderKey(h.Key) == key {
			return h.Value
		}
	}
	return ""
}
