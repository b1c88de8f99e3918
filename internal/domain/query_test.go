package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   SearchQuery
		wantErr error
	}{
		{"ok", SearchQuery{Query: "Jane Doe"}, nil},
		{"empty", SearchQuery{Query: ""}, ErrEmptyQuery},
		{"whitespace", SearchQuery{Query: "   "}, ErrEmptyQuery},
		{"max len", SearchQuery{Query: strings.Repeat("a", MaxQueryLength)}, nil},
		{"too long", SearchQuery{Query: strings.Repeat("a", MaxQueryLength+1)}, ErrQueryTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SearchQuery.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearchQuery_Sanitize(t *testing.T) {
	tests := []struct {
		name string
		in   SearchQuery
		want SearchQuery
	}{
		{
			"trim and lower",
			SearchQuery{Query: "  Jane Doe  ", Country: " US ", Locality: " Texas ", SearchType: "Criminal"},
			SearchQuery{Query: "Jane Doe", Country: "us", Locality: "Texas", SearchType: "criminal"},
		},
		{
			"default search type",
			SearchQuery{Query: "Jane Doe"},
			SearchQuery{Query: "Jane Doe", SearchType: DefaultSearchType},
		},
		{
			"truncate",
			SearchQuery{Query: strings.Repeat("a", MaxQueryLength+100)},
			SearchQuery{Query: strings.Repeat("a", MaxQueryLength), SearchType: DefaultSearchType},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.in
			q.Sanitize()
			if q != tt.want {
				t.Errorf("Sanitize() = %+v, want %+v", q, tt.want)
			}
		})
	}
}

func TestClientIdentity_HasUnlimitedAccess(t *testing.T) {
	now := mustParse(t, "2025-06-15T12:00:00Z")
	past := mustParse(t, "2025-06-01T00:00:00Z")
	future := mustParse(t, "2025-07-01T00:00:00Z")

	tests := []struct {
		name   string
		client ClientIdentity
		want   bool
	}{
		{"permanent flag", ClientIdentity{Unlimited: true}, true},
		{"no override", ClientIdentity{}, false},
		{"window in future", ClientIdentity{UnlimitedUntil: &future}, true},
		{"window expired", ClientIdentity{UnlimitedUntil: &past}, false},
		{"flag beats expired window", ClientIdentity{Unlimited: true, UnlimitedUntil: &past}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.client.HasUnlimitedAccess(now); got != tt.want {
				t.Errorf("HasUnlimitedAccess() = %v, want %v", got, tt.want)
			}
		})
	}
}
