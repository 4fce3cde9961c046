package catalog

// Site is an external reading site shown on the home page.
type Site struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Image string `json:"image"`
	Meta  string `json:"meta"`
}

var recommendedSites = []Site{
	{Label: "Project Gutenberg", URL: "https://www.gutenberg.org", Image: "photos/recommended-sites/gutenberg.jpg", Meta: "Classics • ePub/Kindle"},
	{Label: "Open Library", URL: "https://openlibrary.org", Image: "photos/recommended-sites/openlibrary.png", Meta: "Borrow & Read Online"},
	{Label: "Libby / OverDrive", URL: "https://libbyapp.com", Image: "photos/recommended-sites/libby.jpg", Meta: "Library card required"},
	{Label: "Wikisource", URL: "https://wikisource.org", Image: "photos/recommended-sites/wikisource.jpg", Meta: "Free public-domain texts"},
	{Label: "Google Books", URL: "https://books.google.com", Image: "photos/recommended-sites/google-books.png", Meta: "Previews + full PD books"},
	{Label: "Wattpad", URL: "https://wattpad.com", Image: "photos/recommended-sites/wattpad.jpg", Meta: "Original stories"},
	{Label: "LibriVox", URL: "https://librivox.org", Image: "photos/recommended-sites/librivox.jpg", Meta: "Free audiobooks"},
}

// RecommendedSites returns a copy of the recommended reading sites.
func RecommendedSites() []Site {
	out := make([]Site, len(recommendedSites))
	copy(out, recommendedSites)
	return out
}
