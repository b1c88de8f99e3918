package domain

import "time"

// SearchLogEntry is one row of the append-only request audit trail.
// Written exactly once per request attempt, success or failure.
type SearchLogEntry struct {
	ID            int64
	ClientToken   string
	IP            string
	UserAgent     string
	Query         string
	TargetedQuery string
	SearchType    string
	Locality      string
	Country       string
	ResultCount   int
	Success       bool
	ErrorMessage  string
	StatusCode    int
	CreatedAt     time.Time
}

type QueryCount struct {
	Query string
	Count int64
}

type CountryCount struct {
	Country string
	Count   int64
}

type DayCount struct {
	Day   time.Time
	Count int64
}

type ClientUsage struct {
	Token      string
	Used       int64
	DailyQuota int
	Unlimited  bool
}

// UsageStats is the aggregate view served by the stats endpoint and
// the admin dashboard.
type UsageStats struct {
	TotalSearches   int64
	SuccessSearches int64
	TodaySearches   int64
	DistinctClients int64
	TopQueries      []QueryCount
	TopCountries    []CountryCount
	DailySeries     []DayCount
	ClientsToday    []ClientUsage
}
