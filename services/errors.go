package services

import "errors"

// Tagged errors returned by the billing and payroll services. Handlers
// map these to HTTP status codes with errors.Is; anything else is a 500.
var (
	ErrConflict              = errors.New("conflict")
	ErrNotFound              = errors.New("not_found")
	ErrNothingToBill         = errors.New("nothing_to_bill")
	ErrEmptyDraft            = errors.New("empty_draft")
	ErrInvalidState          = errors.New("invalid_state")
	ErrDeliveryNotConfigured = errors.New("delivery_not_configured")
	ErrDeliveryFailed        = errors.New("delivery_failed")
	ErrStaleDraft            = errors.New("stale_draft")
	ErrUnknownServiceType    = errors.New("unknown_service_type")
)
