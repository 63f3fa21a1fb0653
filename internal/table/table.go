// Package table is the pagination and filter state of the admin tables.
package table

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultLimit is the page size of every admin table.
const DefaultLimit = 10

// State is the query behind one admin table. Methods return a new State.
type State struct {
	Page   int
	Limit  int
	Search string
	// Filter is the value of FilterKey, e.g. a role or a status.
	Filter    string
	FilterKey string
	Total     int
}

// New returns page 1 of an unfiltered table. filterKey names the query
// parameter the table's filter uses ("role", "status"); it may be empty.
func New(filterKey string) State {
	return State{Page: 1, Limit: DefaultLimit, FilterKey: filterKey}
}

// TotalPages is at least 1 so an empty table still has a page.
func (s State) TotalPages() int {
	limit := s.limit()
	if s.Total <= 0 {
		return 1
	}
	return (s.Total + limit - 1) / limit
}

// NextPage advances unless already on the last page.
func (s State) NextPage() State {
	if s.Page < s.TotalPages() {
		s.Page++
	}
	return s
}

// PrevPage goes back unless already on page 1.
func (s State) PrevPage() State {
	if s.Page > 1 {
		s.Page--
	}
	return s
}

// SetSearch changes the search term and returns to page 1.
func (s State) SetSearch(q string) State {
	q = strings.TrimSpace(q)
	if q == s.Search {
		return s
	}
	s.Search = q
	s.Page = 1
	return s
}

// SetFilter changes the filter value and returns to page 1.
func (s State) SetFilter(v string) State {
	if v == s.Filter {
		return s
	}
	s.Filter = v
	s.Page = 1
	return s
}

// CycleFilter moves to the next of options, wrapping to "" (no filter)
// after the last one.
func (s State) CycleFilter(options []string) State {
	if len(options) == 0 {
		return s.SetFilter("")
	}
	if s.Filter == "" {
		return s.SetFilter(options[0])
	}
	for i, o := range options {
		if o == s.Filter {
			if i+1 < len(options) {
				return s.SetFilter(options[i+1])
			}
			return s.SetFilter("")
		}
	}
	return s.SetFilter("")
}

// SetTotal records the server's row count and pulls Page back in range.
func (s State) SetTotal(total int) State {
	if total < 0 {
		total = 0
	}
	s.Total = total
	if last := s.TotalPages(); s.Page > last {
		s.Page = last
	}
	if s.Page < 1 {
		s.Page = 1
	}
	return s
}

// Query encodes the state for the admin list endpoints.
func (s State) Query() url.Values {
	q := url.Values{}
	page := s.Page
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(s.limit()))
	if s.Search != "" {
		q.Set("search", s.Search)
	}
	if s.Filter != "" && s.FilterKey != "" {
		q.Set(s.FilterKey, s.Filter)
	}
	return q
}

func (s State) limit() int {
	if s.Limit <= 0 {
		return DefaultLimit
	}
	return s.Limit
}
