package book

import (
	"errors"
	"slices"
)

var (
	// ErrPositionOutOfRange is returned when no book sits at a position.
	ErrPositionOutOfRange = errors.New("position out of range")
	// ErrBuiltInBook is returned when a mutation targets the built-in list.
	ErrBuiltInBook = errors.New("built-in books cannot be modified")
)

// Book is one catalog entry. Title is the de facto key: it is what the
// collection stores and what IndexByTitle maps, but uniqueness is not enforced.
type Book struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Year        int    `json:"year"`
	BestSeller  bool   `json:"best_seller"`
	Trending    bool   `json:"trending"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Link        string `json:"link"`
}

// Genre names with special meaning to the genre pickers.
const (
	GenreAll   = "All"
	GenreOther = "Other"
)

// GenreList is the fixed set offered by the genre filters and the add/edit form.
var GenreList = []string{
	"Classic",
	"Dystopian",
	"Mystery",
	"Romance",
	"Epic",
	"Horror",
	"Adventure",
}

// IsListedGenre reports whether genre is one of GenreList.
func IsListedGenre(genre string) bool {
	return slices.Contains(GenreList, genre)
}

// UniqueGenres returns the distinct genres of books in first-seen order.
func UniqueGenres(books []Book) []string {
	seen := make(map[string]struct{}, len(books))
	out := make([]string, 0, len(books))
	for _, b := range books {
		if _, ok := seen[b.Genre]; ok {
			continue
		}
		seen[b.Genre] = struct{}{}
		out = append(out, b.Genre)
	}
	return out
}
