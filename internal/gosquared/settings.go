package gosquared

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	settingAPIKey    = "api_key"
	settingSiteToken = "site_token"
)

// Settings are the credentials a request is addressed with. They are built
// from the caller's settings on every call.
type Settings struct {
	APIKey    string
	SiteToken string
}

// NewSettings validates the raw settings. api_key must be non-blank after
// trimming; site_token only has to be non-empty.
func NewSettings(raw map[string]string) (Settings, error) {
	apiKey, ok := raw[settingAPIKey]
	if !ok || strings.TrimSpace(apiKey) == "" {
		return Settings{}, errors.Wrapf(ErrMissingConfiguration, "missing or empty '%s' setting", settingAPIKey)
	}

	siteToken, ok := raw[settingSiteToken]
	if !ok || siteToken == "" {
		return Settings{}, errors.Wrapf(ErrMissingConfiguration, "missing '%s' setting", settingSiteToken)
	}

	return Settings{
		APIKey:    apiKey,
		SiteToken: siteToken,
	}, nil
}
