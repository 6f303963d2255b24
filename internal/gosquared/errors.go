package gosquared

import "github.com/pkg/errors"

var (
	ErrMissingConfiguration = errors.New("missing configuration")
	ErrSerializationFailed  = errors.New("serialization failed")
)
