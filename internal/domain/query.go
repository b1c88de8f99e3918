package domain

import "strings"

const MaxQueryLength = 500

const DefaultSearchType = "general"

// SearchQuery is the validated inbound search payload.
type SearchQuery struct {
	Query      string
	Country    string
	Locality   string
	SearchType string
}

func (q *SearchQuery) Validate() error {
	if strings.TrimSpace(q.Query) == "" {
		return ErrEmptyQuery
	}

	if len(q.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}

	return nil
}

func (q *SearchQuery) Sanitize() {
	q.Query = strings.TrimSpace(q.Query)
	if len(q.Query) > MaxQueryLength {
		q.Query = q.Query[:MaxQueryLength]
	}
	q.Country = strings.ToLower(strings.TrimSpace(q.Country))
	q.Locality = strings.TrimSpace(q.Locality)
	q.SearchType = strings.ToLower(strings.TrimSpace(q.SearchType))
	if q.SearchType == "" {
		q.SearchType = DefaultSearchType
	}
}
