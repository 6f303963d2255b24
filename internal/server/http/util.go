package http

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
)

func encodeJSONResponse[T any](w http.ResponseWriter, code int, data T) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if code == http.StatusNoContent {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// clientHeaders captures the headers of the calling client for forwarding.
// X-Forwarded-For is filled in from the connection when the client did not
// send one.
func clientHeaders(r *http.Request) http.Header {
	h := r.Header.Clone()
	if h.Get("X-Forwarded-For") == "" {
		if ip := getClientIP(r); ip != "0.0.0.0" {
			h.Set("X-Forwarded-For", ip)
		}
	}
	return h
}

func getClientIP(req *http.Request) string {
	out, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		if xoff := req.Header.Get("X-Original-Forwarded-For"); xoff != "" {
			out = xoff
		} else {
			xff := strings.Split(req.Header.Get("X-Forwarded-For"), ",")
			if len(xff) == 0 {
				return ""
			}

			if xff[0] != req.Header.Get("X-Envoy-External-Address") {
				out = strings.TrimSpace(xff[0])
			}
		}
	}

	if ip := net.ParseIP(out); out != "" && ip != nil {
		if ip.IsLoopback() {
			return "127.0.0.1"
		}

		return out
	}

	return "0.0.0.0"
}
