package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/csams/nutshell/internal/app"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(refreshCmd)
	refreshCmd.SetOut(os.Stdout)
	refreshCmd.ValidArgsFunction = completeShows
}

var refreshCmd = &cobra.Command{
	Use:   "refresh [show]",
	Short: "Fetch a show's feed again and replace its cached episodes",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		show := resolveShow(args)
		c, err := app.New(show, app.Options{})
		handleErr(err)

		episodes, err := c.Refresh(context.Background())
		handleErr(err)

		if c.Store.Mock() {
			cmd.Println(lipgloss.NewStyle().Foreground(failed).Render("Feed unreachable, cached placeholder episodes"))
			return
		}
		cmd.Printf("%s %d episodes\n", lipgloss.NewStyle().Foreground(accent).Render(show.Name), len(episodes))
	},
}
