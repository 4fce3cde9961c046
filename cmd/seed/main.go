package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"crannies/internal/book"
	"crannies/internal/collection"
	"crannies/internal/config"
	"crannies/internal/logging"
	"crannies/internal/store"

	"go.uber.org/zap"
)

func main() {
	var (
		count        = flag.Int("count", 12, "Number of demo books to add")
		collectEvery = flag.Int("collect-every", 3, "Add every Nth seeded book to the collection (0 disables)")
		seedValue    = flag.Uint64("seed", 1, "Random seed")
		configPath   = flag.String("config", os.Getenv(config.EnvConfigFile), "Config file (toml or yaml)")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	kv, err := store.Open(ctx, cfg.Store.Options())
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer kv.Close()

	books := book.NewStore(kv, book.BuiltIn(), nil, logger)
	tracker := collection.NewTracker(kv, nil, logger)

	logger.Info("generating demo books", zap.Int("count", *count))
	demo := demoBooks(*count, rand.New(rand.NewPCG(*seedValue, *seedValue)))

	added, collected, err := seed(ctx, books, tracker, demo, *collectEvery)
	if err != nil {
		logger.Fatal("seed failed", zap.Int("added", added), zap.Error(err))
	}
	logger.Info("seed complete",
		zap.Int("added", added),
		zap.Int("collected", collected),
		zap.Int("catalog_size", books.Load(ctx).Len()),
	)
}

// seed adds every book whose title is not in the catalog yet, and puts
// every collectEvery-th added book in the collection.
func seed(ctx context.Context, books *book.Store, tracker *collection.Tracker, demo []book.Book, collectEvery int) (added, collected int, err error) {
	existing := books.Load(ctx).IndexByTitle()
	for _, b := range demo {
		if _, ok := existing[b.Title]; ok {
			continue
		}
		if _, _, err := books.Add(ctx, b); err != nil {
			return added, collected, fmt.Errorf("add %q: %w", b.Title, err)
		}
		existing[b.Title] = -1
		added++

		if collectEvery > 0 && added%collectEvery == 0 {
			if tracker.Load(ctx).Has(b.Title) {
				continue
			}
			if _, err := tracker.Toggle(ctx, b.Title); err != nil {
				return added, collected, fmt.Errorf("collect %q: %w", b.Title, err)
			}
			collected++
		}
	}
	return added, collected, nil
}

func demoBooks(n int, r *rand.Rand) []book.Book {
	authors := []string{
		"Ada Marsh", "Tomas Reyes", "Ines Volk", "Kofi Mensah", "Lena Hart",
		"Oskar Lind", "Priya Nair", "Hugo Blanc",
	}
	out := make([]book.Book, 0, n)
	for i := range n {
		genre := book.GenreList[r.IntN(len(book.GenreList))]
		out = append(out, book.Book{
			Title:       fmt.Sprintf("The %s of %s", getRandomWord(r), getRandomWord(r)),
			Author:      authors[r.IntN(len(authors))],
			Genre:       genre,
			Year:        1950 + r.IntN(75),
			BestSeller:  r.IntN(4) == 0,
			Trending:    r.IntN(3) == 0,
			Description: fmt.Sprintf("Demo book %d, a %s story about %s.", i+1, genre, getRandomWord(r)),
		})
	}
	return out
}

func getRandomWord(r *rand.Rand) string {
	words := []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
	return words[r.IntN(len(words))]
}
