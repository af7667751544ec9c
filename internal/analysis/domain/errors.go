package domain

import "errors"

var (
	ErrInvalidRegion = errors.New("county is outside the supported region list")
	ErrUpstreamData  = errors.New("demographic API returned unusable data")
)
