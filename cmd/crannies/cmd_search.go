package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"crannies/internal/card"
	"crannies/internal/catalog"
	"crannies/internal/filter"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		by       string
		genre    string
		year     int
		trending string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Filter the catalog",
		Long: `Lists catalog books matching the query. --by narrows the search to title,
author, best-sellers or trending; the default searches title, author and genre.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := filter.State{
				SearchQuery: strings.Join(args, " "),
				SearchBy:    filter.ParseSearchBy(by),
			}
			if genre != "" {
				state.SelectedGenre = &genre
			}
			if cmd.Flags().Changed("year") {
				state.SelectedYear = &year
			}
			if trending != "" {
				v, err := strconv.ParseBool(trending)
				if err != nil {
					return fmt.Errorf("--trending must be true or false: %w", err)
				}
				state.ShowOnlyTrending = &v
			}

			page := a.svc.Browse(cmd.Context(), state)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), page)
			}
			return writePage(cmd.OutOrStdout(), page, "No books match your search.")
		},
	}
	cmd.Flags().StringVar(&by, "by", string(filter.SearchAll), "Search facet: all, title, author, best-sellers, trending")
	cmd.Flags().StringVar(&genre, "genre", "", "Only this genre")
	cmd.Flags().IntVar(&year, "year", 0, "Only this publication year")
	cmd.Flags().StringVar(&trending, "trending", "", "Only trending (true) or non-trending (false) books")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the page as JSON")
	return cmd
}

func newGenresCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List the genres offered by the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, g := range a.svc.Genres(cmd.Context()) {
				fmt.Fprintln(cmd.OutOrStdout(), g)
			}
			return nil
		},
	}
}

func newSitesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List recommended reading sites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.New().Headers("SITE", "URL", "ABOUT")
			for _, s := range catalog.RecommendedSites() {
				t.Row(s.Label, s.URL, s.Meta)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

func writePage(w io.Writer, page catalog.Page, empty string) error {
	if page.NoResults {
		_, err := fmt.Fprintln(w, empty)
		return err
	}
	t := table.New().Headers("#", "TITLE", "AUTHOR", "GENRE", "YEAR", "TAGS", "")
	for _, v := range page.Cards {
		t.Row(strconv.Itoa(v.Index), v.Title, v.Author, v.Genre, strconv.Itoa(v.Year), strings.Join(v.Tags, ", "), collectedMark(v))
	}
	_, err := fmt.Fprintf(w, "%s\n%d of %d books · %d in collection\n", t.Render(), len(page.Cards), page.Total, page.Collected)
	return err
}

func collectedMark(v card.View) string {
	if v.InCollection {
		return "★"
	}
	return ""
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
