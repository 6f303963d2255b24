package dispatch

import (
	"errors"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

var _ retryablehttp.LeveledLogger = leveledLogger{}

// leveledLogger adapts zerolog to retryablehttp. Query strings are dropped
// from logged URLs and URL errors since they carry credentials.
type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(redact(keysAndValues)).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info().Fields(redact(keysAndValues)).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(redact(keysAndValues)).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(redact(keysAndValues)).Msg(msg)
}

func redact(keysAndValues []interface{}) []interface{} {
	out := make([]interface{}, len(keysAndValues))
	for i, v := range keysAndValues {
		if u, ok := v.(*url.URL); ok && u != nil {
			stripped := *u
			stripped.RawQuery = ""
			v = stripped.String()
		}
		if err, ok := v.(error); ok {
			v = redactError(err)
		}
		out[i] = v
	}
	return out
}

// redactError drops the query string from the URL of a *url.Error in err.
func redactError(err error) error {
	var urlErr *url.Error
	if err == nil || !errors.As(err, &urlErr) {
		return err
	}
	return &url.Error{
		Op:  urlErr.Op,
		URL: stripQuery(urlErr.URL),
		Err: urlErr.Err,
	}
}

func stripQuery(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
