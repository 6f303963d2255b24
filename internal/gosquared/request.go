package gosquared

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/leshachaplin/gosquared/internal/domain"
)

// NewRequest validates the settings and assembles a POST of payload to
// endpoint, authenticated through the query string.
func NewRequest(endpoint string, payload any, rawSettings map[string]string) (domain.Request, error) {
	settings, err := NewSettings(rawSettings)
	if err != nil {
		return domain.Request{}, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Request{}, errors.Wrapf(ErrSerializationFailed, "encode payload: %v", err)
	}

	return domain.Request{
		Method: http.MethodPost,
		URL: endpoint +
			"?api_key=" + url.QueryEscape(settings.APIKey) +
			"&site_token=" + url.QueryEscape(settings.SiteToken),
		Headers: []domain.Header{
			{Key: "Content-Type", Value: "application/json"},
		},
		Body:                 string(body),
		ForwardClientHeaders: true,
	}, nil
}
