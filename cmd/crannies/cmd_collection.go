package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCollectionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collection",
		Short: "Show and change your collection",
	}
	cmd.AddCommand(newCollectionListCmd(a), newCollectionToggleCmd(a), newCollectionCountCmd(a))
	return cmd
}

func newCollectionListCmd(a *app) *cobra.Command {
	var (
		genre  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List collected books in catalog order",
		RunE: func(cmd *cobra.Command, args []string) error {
			page := a.svc.CollectionBooks(cmd.Context(), strings.Join(args, " "), genre)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), page)
			}
			empty := "No books match your search."
			if page.Collected == 0 {
				empty = "Your collection is empty."
			}
			return writePage(cmd.OutOrStdout(), page, empty)
		},
	}
	cmd.Flags().StringVar(&genre, "genre", "", "Only this genre")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the page as JSON")
	return cmd
}

func newCollectionToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <title>",
		Short: "Add a title to the collection, or remove it if present",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return fmt.Errorf("title is required")
			}
			res, err := a.tracker.Toggle(cmd.Context(), title)
			if err != nil {
				return err
			}
			verb := "Removed %q from your collection (%d)\n"
			if res.InCollection {
				verb = "Added %q to your collection (%d)\n"
			}
			fmt.Fprintf(cmd.OutOrStdout(), verb, title, res.Set.Len())
			return nil
		},
	}
}

func newCollectionCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of collected titles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.tracker.Count(cmd.Context()))
			return nil
		},
	}
}
