package domain

import "errors"

// Validation errors returned by DiscoveryRequest.Validate. They are plain
// sentinels; the transport layer maps them to its own error taxonomy.
var (
	ErrEmptyName    = errors.New("entity name must not be empty")
	ErrBadDomain    = errors.New("base domain must be a well-formed URL authority")
	ErrNoCategories = errors.New("at least one category must be requested")
	ErrBadThreshold = errors.New("confidence threshold must be within [0,1]")
)
