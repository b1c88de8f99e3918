package targeting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kitbuilder587/osint-gateway/internal/domain"
)

// SelfMarker in a raw query is replaced with the client's stored
// self-subject string before targeting.
const SelfMarker = "@@"

// Result carries both query forms; they are logged separately.
type Result struct {
	RawQuery      string
	TargetedQuery string
	Country       string
}

// Engine rewrites a raw user query into the boolean search expression
// sent upstream. Pure string transformation, deterministic for a given
// input.
type Engine struct {
	modifiers map[string]string
}

func NewEngine() *Engine {
	return &Engine{modifiers: defaultModifiers}
}

// Target applies, in order: self-subject substitution (failing fast
// when no subject is configured), the search-type template, and the
// locality qualifier for countries that support one.
func (e *Engine) Target(q domain.SearchQuery, selfSubject string) (Result, error) {
	country := q.Country
	if !allowedCountries[country] {
		country = DefaultCountry
	}

	working := q.Query
	if strings.Contains(working, SelfMarker) {
		if selfSubject == "" {
			return Result{}, domain.ErrSelfSubjectNotSet
		}
		working = strings.ReplaceAll(working, SelfMarker, selfSubject)
	}

	if template, ok := e.modifiers[q.SearchType]; ok {
		working = fmt.Sprintf(template, working)
	}

	if q.Locality != "" && localityCountries[country] {
		working = working + " " + q.Locality
	}

	return Result{
		RawQuery:      q.Query,
		TargetedQuery: working,
		Country:       country,
	}, nil
}

// KnownTypes lists the search-type tags with a targeting template,
// sorted for stable presentation.
func (e *Engine) KnownTypes() []string {
	types := make([]string, 0, len(e.modifiers))
	for tag := range e.modifiers {
		types = append(types, tag)
	}
	sort.Strings(types)
	return types
}
