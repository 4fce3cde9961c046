// Package card turns catalog entries into display view-models.
package card

import (
	"crannies/internal/book"
)

const (
	TagBestSeller = "Best Seller"
	TagTrending   = "Trending"

	ActionAdd    = "Add to Collection"
	ActionRemove = "Remove from Collection"
)

// View is everything a front end needs to draw one book card.
type View struct {
	Index        int      `json:"index"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	Genre        string   `json:"genre"`
	Year         int      `json:"year"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	ImageAlt     string   `json:"image_alt"`
	Link         string   `json:"link"`
	BestSeller   bool     `json:"best_seller"`
	Trending     bool     `json:"trending"`
	Tags         []string `json:"tags"`
	InCollection bool     `json:"in_collection"`
	ActionLabel  string   `json:"action_label"`
	Editable     bool     `json:"editable"`
	Deletable    bool     `json:"deletable"`
}

// Render builds the view for b at catalog position index. Only positions in
// the custom region, index >= builtInCount, get edit and delete affordances;
// a negative index means the book was not found and is never editable.
func Render(b book.Book, index int, inCollection bool, builtInCount int) View {
	custom := index >= 0 && index >= builtInCount

	tags := make([]string, 0, 2)
	if b.BestSeller {
		tags = append(tags, TagBestSeller)
	}
	if b.Trending {
		tags = append(tags, TagTrending)
	}

	action := ActionAdd
	if inCollection {
		action = ActionRemove
	}

	return View{
		Index:        index,
		Title:        b.Title,
		Author:       b.Author,
		Genre:        b.Genre,
		Year:         b.Year,
		Description:  b.Description,
		Image:        b.Image,
		ImageAlt:     b.Title + " cover",
		Link:         b.Link,
		BestSeller:   b.BestSeller,
		Trending:     b.Trending,
		Tags:         tags,
		InCollection: inCollection,
		ActionLabel:  action,
		Editable:     custom,
		Deletable:    custom,
	}
}

// Membership is satisfied by collection.Set.
type Membership interface {
	Has(title string) bool
}

// RenderAll renders books, a subset of cat, resolving each position through
// the catalog's title index.
func RenderAll(cat book.Catalog, books []book.Book, collected Membership) []View {
	idx := cat.IndexByTitle()
	out := make([]View, 0, len(books))
	for _, b := range books {
		pos, ok := idx[b.Title]
		if !ok {
			pos = -1
		}
		out = append(out, Render(b, pos, collected.Has(b.Title), cat.BuiltInCount()))
	}
	return out
}
