// Package filter selects the visible subset of a catalog for a search and
// facet state. It does no I/O.
package filter

import (
	"strings"

	"crannies/internal/book"
)

// SearchBy names the field a search query is matched against.
type SearchBy string

const (
	SearchAll         SearchBy = "all"
	SearchTitle       SearchBy = "title"
	SearchAuthor      SearchBy = "author"
	SearchBestSellers SearchBy = "best-sellers"
	SearchTrending    SearchBy = "trending"
)

// ParseSearchBy maps a query parameter to a facet. Unknown values search all
// fields.
func ParseSearchBy(s string) SearchBy {
	switch v := SearchBy(strings.ToLower(strings.TrimSpace(s))); v {
	case SearchTitle, SearchAuthor, SearchBestSellers, SearchTrending:
		return v
	default:
		return SearchAll
	}
}

// State is the transient filter of one view. Nil pointers leave that
// dimension unconstrained.
type State struct {
	SearchQuery      string
	SearchBy         SearchBy
	SelectedGenre    *string
	SelectedYear     *int
	ShowOnlyTrending *bool
}

// Active reports whether any part of s can exclude a book.
func (s State) Active() bool {
	if normalize(s.SearchQuery) != "" {
		return true
	}
	if s.SearchBy == SearchBestSellers || s.SearchBy == SearchTrending {
		return true
	}
	if s.SelectedGenre != nil && *s.SelectedGenre != "" && *s.SelectedGenre != book.GenreAll {
		return true
	}
	return s.SelectedYear != nil || s.ShowOnlyTrending != nil
}

// Result is the outcome of Apply.
type Result struct {
	Books []book.Book
	// Total is the size of the input list.
	Total  int
	active bool
}

// NoResults reports that nothing survived the filter.
func (r Result) NoResults() bool {
	return len(r.Books) == 0
}

// Active reports whether the state constrained the list.
func (r Result) Active() bool { return r.active }

// Apply returns the books that pass every dimension of s, in their original
// order.
func Apply(books []book.Book, s State) Result {
	q := normalize(s.SearchQuery)
	out := make([]book.Book, 0, len(books))
	for _, b := range books {
		if matchSearch(b, s.SearchBy, q) &&
			matchGenre(b, s.SelectedGenre) &&
			matchYear(b, s.SelectedYear) &&
			matchTrending(b, s.ShowOnlyTrending) {
			out = append(out, b)
		}
	}
	return Result{Books: out, Total: len(books), active: s.Active()}
}

func normalize(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func contains(field, q string) bool {
	return strings.Contains(strings.ToLower(field), q)
}

func matchAll(b book.Book, q string) bool {
	return contains(b.Title+" "+b.Author+" "+b.Genre, q)
}

func matchSearch(b book.Book, by SearchBy, q string) bool {
	switch by {
	case SearchTitle:
		return contains(b.Title, q)
	case SearchAuthor:
		return contains(b.Author, q)
	case SearchBestSellers:
		return b.BestSeller && (q == "" || matchAll(b, q))
	case SearchTrending:
		return b.Trending && (q == "" || matchAll(b, q))
	default:
		return matchAll(b, q)
	}
}

func matchGenre(b book.Book, genre *string) bool {
	if genre == nil || *genre == "" || *genre == book.GenreAll {
		return true
	}
	return b.Genre == *genre
}

func matchYear(b book.Book, year *int) bool {
	return year == nil || b.Year == *year
}

func matchTrending(b book.Book, trending *bool) bool {
	return trending == nil || b.Trending == *trending
}
