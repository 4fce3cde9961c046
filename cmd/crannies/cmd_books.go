package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"crannies/internal/book"
	"crannies/internal/upload"

	"github.com/spf13/cobra"
)

var errValidation = errors.New("validation failed")

// bookFlags are the add/edit form fields. Only flags given on the command
// line replace the form's current values.
type bookFlags struct {
	title, author, genre, customGenre string
	description, image, link          string
	imageFile                         string
	year                              int
	bestSeller, trending              bool
}

func (f *bookFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.title, "title", "", "Title")
	fl.StringVar(&f.author, "author", "", "Author")
	fl.StringVar(&f.genre, "genre", "", `Genre, or "Other" together with --custom-genre`)
	fl.StringVar(&f.customGenre, "custom-genre", "", `Genre name when --genre is "Other"`)
	fl.IntVar(&f.year, "year", 0, "Publication year")
	fl.BoolVar(&f.bestSeller, "best-seller", false, "Mark as best seller")
	fl.BoolVar(&f.trending, "trending", false, "Mark as trending")
	fl.StringVar(&f.description, "description", "", "Description")
	fl.StringVar(&f.image, "image", "", "Cover image URL")
	fl.StringVar(&f.imageFile, "image-file", "", "Cover image file, stored inline (replaces --image)")
	fl.StringVar(&f.link, "link", "", "Link to the book")
}

func (f *bookFlags) apply(cmd *cobra.Command, in *book.Input) {
	fl := cmd.Flags()
	strs := map[string]struct {
		dst *string
		v   string
	}{
		"title":        {&in.Title, f.title},
		"author":       {&in.Author, f.author},
		"genre":        {&in.Genre, f.genre},
		"custom-genre": {&in.CustomGenre, f.customGenre},
		"description":  {&in.Description, f.description},
		"image":        {&in.Image, f.image},
		"link":         {&in.Link, f.link},
	}
	for name, s := range strs {
		if fl.Changed(name) {
			*s.dst = s.v
		}
	}
	if fl.Changed("year") {
		year := f.year
		in.Year = &year
	}
	if fl.Changed("best-seller") {
		in.BestSeller = f.bestSeller
	}
	if fl.Changed("trending") {
		in.Trending = f.trending
	}
}

// build validates the form and reads the image file, if any. A file that
// cannot be read rejects the whole submission.
func (a *app) build(cmd *cobra.Command, f *bookFlags, in book.Input) (book.Book, error) {
	f.apply(cmd, &in)
	in.Normalize()
	if errs := a.validator.Struct(in); len(errs) > 0 {
		for _, fe := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", fe.Field, fe.Message)
		}
		return book.Book{}, errValidation
	}

	b := in.Book()
	if f.imageFile != "" {
		file, err := os.Open(f.imageFile)
		if err != nil {
			return book.Book{}, fmt.Errorf("open image file: %w", err)
		}
		defer file.Close()
		image, err := upload.ReadDataURL(cmd.Context(), file, upload.DefaultMaxBytes)
		if err != nil {
			return book.Book{}, fmt.Errorf("read image file: %w", err)
		}
		b.Image = image
	}
	return b, nil
}

func parseIndex(s string) (int, error) {
	pos, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid book index %q", s)
	}
	return pos, nil
}

func newBooksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Add, edit and delete custom books",
	}
	cmd.AddCommand(newBooksShowCmd(a), newBooksAddCmd(a), newBooksEditCmd(a), newBooksDeleteCmd(a))
	return cmd
}

func newBooksShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <index>",
		Short: "Print one book card as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			view, err := a.svc.Card(cmd.Context(), pos)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), view)
		},
	}
}

func newBooksAddCmd(a *app) *cobra.Command {
	f := &bookFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a custom book",
		Example: `  crannies books add --title "Dune" --author "Frank Herbert" --genre Other \
    --custom-genre "Science Fiction" --year 1965 --best-seller`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.build(cmd, f, book.Input{})
			if err != nil {
				return err
			}
			view, err := a.svc.Add(cmd.Context(), b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q at index %d\n", view.Title, view.Index)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newBooksEditCmd(a *app) *cobra.Command {
	f := &bookFlags{}
	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Edit a custom book; built-in books cannot be edited",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			current, err := a.svc.Book(cmd.Context(), pos)
			if err != nil {
				return err
			}
			b, err := a.build(cmd, f, book.InputFrom(current))
			if err != nil {
				return err
			}
			view, err := a.svc.Update(cmd.Context(), pos, b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %q at index %d\n", view.Title, view.Index)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newBooksDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete a custom book and drop it from the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			removed, err := a.svc.Delete(cmd.Context(), pos)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", removed.Title)
			return nil
		},
	}
}
