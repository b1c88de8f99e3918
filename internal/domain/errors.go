package domain

import "errors"

var (
	ErrClientNotFound = errors.New("client not found")
	ErrClientInactive = errors.New("client is deactivated")
)

var (
	ErrEmptyQuery        = errors.New("search query is required")
	ErrQueryTooLong      = errors.New("query too long")
	ErrSelfSubjectNotSet = errors.New("self subject not configured for this client")
)

var (
	ErrDailyQuotaExceeded   = errors.New("daily quota exceeded")
	ErrMonthlyQuotaExceeded = errors.New("monthly search plan exhausted")
	ErrBurstLimited         = errors.New("too many requests, slow down")
)
