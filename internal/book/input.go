package book

import (
	"strings"
)

// Input is the add/edit form. Genre "Other" takes its value from CustomGenre;
// a missing Year is stored as 0. Image holds a URL unless an uploaded file
// replaces it.
type Input struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Genre       string `json:"genre" validate:"required"`
	CustomGenre string `json:"custom_genre" validate:"required_if=Genre Other"`
	Year        *int   `json:"year" validate:"omitempty,book_year"`
	BestSeller  bool   `json:"best_seller"`
	Trending    bool   `json:"trending"`
	Description string `json:"description"`
	Image       string `json:"image" validate:"omitempty,uri"`
	Link        string `json:"link" validate:"omitempty,uri"`
}

func (Input) ValidationMessages() map[string]string {
	return map[string]string{
		"title.required":           "Title is required",
		"author.required":          "Author is required",
		"genre.required":           "Genre is required",
		"custom_genre.required_if": "Enter a genre when Other is selected",
		"year.book_year":           "Year cannot be in the future",
		"image.uri":                "Image must be a URL",
		"link.uri":                 "Link must be a URL",
	}
}

// Normalize trims the text fields in place.
func (in *Input) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Genre = strings.TrimSpace(in.Genre)
	in.CustomGenre = strings.TrimSpace(in.CustomGenre)
	in.Description = strings.TrimSpace(in.Description)
	in.Image = strings.TrimSpace(in.Image)
	in.Link = strings.TrimSpace(in.Link)
}

// Book converts the form into a catalog entry.
func (in Input) Book() Book {
	genre := in.Genre
	if genre == GenreOther {
		genre = in.CustomGenre
	}
	var year int
	if in.Year != nil {
		year = *in.Year
	}
	return Book{
		Title:       in.Title,
		Author:      in.Author,
		Genre:       genre,
		Year:        year,
		BestSeller:  in.BestSeller,
		Trending:    in.Trending,
		Description: in.Description,
		Image:       in.Image,
		Link:        in.Link,
	}
}

// InputFrom fills the edit form from an existing book. Genres outside
// GenreList are shown as "Other" with the value in CustomGenre.
func InputFrom(b Book) Input {
	year := b.Year
	in := Input{
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Year:        &year,
		BestSeller:  b.BestSeller,
		Trending:    b.Trending,
		Description: b.Description,
		Image:       b.Image,
		Link:        b.Link,
	}
	if !IsListedGenre(b.Genre) {
		in.Genre = GenreOther
		in.CustomGenre = b.Genre
	}
	return in
}
