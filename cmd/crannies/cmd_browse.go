package main

import (
	"crannies/internal/events"
	"crannies/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const browserOrigin = "tui"

func newBrowseCmd(a *app) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive catalog browser",
		Long:  `Opens the terminal browser. Logs are discarded unless --log-file is set.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := events.WithOrigin(cmd.Context(), browserOrigin)
			sub := a.bus.Subscribe(browserOrigin)
			defer a.bus.Unsubscribe(sub.ID)

			m := tui.New(ctx, a.svc, a.tracker, tui.Options{Query: query, Changes: sub.C})
			_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Initial search")
	return cmd
}
