package book

// BuiltIn returns a fresh copy of the books compiled into the program.
func BuiltIn() []Book {
	out := make([]Book, len(builtIn))
	copy(out, builtIn)
	return out
}

var builtIn = []Book{
	{
		Title:       "The Great Gatsby",
		Author:      "F. Scott Fitzgerald",
		Genre:       "Classic",
		Year:        1925,
		BestSeller:  true,
		Trending:    true,
		Description: "A jazz age masterpiece exploring wealth, obsession, and the American Dream through the eyes of Nick Carraway and the mysterious Jay Gatsby.",
		Image:       "https://covers.openlibrary.org/b/id/7222246-L.jpg",
		Link:        "https://openlibrary.org/works/OL468431W/The_Great_Gatsby",
	},
	{
		Title:       "To Kill a Mockingbird",
		Author:      "Harper Lee",
		Genre:       "Classic",
		Year:        1960,
		BestSeller:  true,
		Description: "A coming-of-age story in the racially divided South, seen through the eyes of Scout Finch as her father defends a Black man accused of a grave crime.",
		Image:       "https://covers.openlibrary.org/b/id/8225261-L.jpg",
		Link:        "https://openlibrary.org/works/OL3140822W/To_Kill_a_Mockingbird",
	},
	{
		Title:       "1984",
		Author:      "George Orwell",
		Genre:       "Dystopian",
		Year:        1949,
		Trending:    true,
		Description: "Government surveillance, propaganda and the loss of truth, in a state where independent thought is a crime and Big Brother watches all.",
		Image:       "https://covers.openlibrary.org/b/id/1535610-L.jpg",
		Link:        "https://openlibrary.org/works/OL1168083W/Nineteen_Eighty-Four",
	},
	{
		Title:       "The Adventures of Sherlock Holmes",
		Author:      "Arthur Conan Doyle",
		Genre:       "Mystery",
		Year:        1892,
		BestSeller:  true,
		Description: "A detective uses observation and deduction to solve twelve mysteries in Victorian London with his partner Dr. Watson.",
		Image:       "https://covers.openlibrary.org/b/id/8105070-L.jpg",
		Link:        "https://openlibrary.org/works/OL262421W/The_Adventures_of_Sherlock_Holmes",
	},
	{
		Title:       "Pride and Prejudice",
		Author:      "Jane Austen",
		Genre:       "Romance",
		Year:        1813,
		Trending:    true,
		Description: "Social class, misunderstandings and the slow-burning relationship between Elizabeth Bennet and the proud Mr. Darcy.",
		Image:       "https://covers.openlibrary.org/b/id/8225294-L.jpg",
		Link:        "https://openlibrary.org/works/OL66554W/Pride_and_Prejudice",
	},
	{
		Title:       "The Odyssey",
		Author:      "Homer",
		Genre:       "Epic",
		Year:        -800,
		BestSeller:  true,
		Description: "A Greek hero's journey home from war, past mythical creatures and vengeful gods across stormy seas.",
		Image:       "https://covers.openlibrary.org/b/id/8235116-L.jpg",
		Link:        "https://openlibrary.org/works/OL26446888W/The_Odyssey",
	},
	{
		Title:       "Frankenstein",
		Author:      "Mary Shelley",
		Genre:       "Horror",
		Year:        1818,
		BestSeller:  true,
		Description: "A Gothic novel about creation, identity and what it means to be human, told through Victor Frankenstein and his creature.",
		Image:       "https://covers.openlibrary.org/b/id/8328296-L.jpg",
		Link:        "https://openlibrary.org/works/OL450063W/Frankenstein_or_The_Modern_Prometheus",
	},
	{
		Title:       "Little Women",
		Author:      "Louisa May Alcott",
		Genre:       "Classic",
		Year:        1868,
		Trending:    true,
		Description: "Four sisters grow up during the Civil War, learning about love, ambition and family.",
		Image:       "https://covers.openlibrary.org/b/id/8231991-L.jpg",
		Link:        "https://openlibrary.org/works/OL29983W/Little_Women",
	},
	{
		Title:       "Moby-Dick",
		Author:      "Herman Melville",
		Genre:       "Adventure",
		Year:        1851,
		Trending:    true,
		Description: "Captain Ahab's obsessive hunt for the white whale, and man's struggle against nature.",
		Image:       "https://covers.openlibrary.org/b/id/5080145-L.jpg",
		Link:        "https://openlibrary.org/works/OL102749W/Moby_Dick",
	},
}
