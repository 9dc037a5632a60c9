package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/csams/nutshell/internal/app"
	"github.com/csams/nutshell/internal/listing"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntP("limit", "n", 0, "Show at most this many episodes")
	listCmd.Flags().StringP("search", "s", "", "Only episodes whose title or description contains this text")
	listCmd.SetOut(os.Stdout)
	listCmd.ValidArgsFunction = completeShows
}

var listCmd = &cobra.Command{
	Use:   "list [show]",
	Short: "Print a show's episodes, newest first",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		show := resolveShow(args)
		c, err := app.New(show, app.Options{})
		handleErr(err)

		episodes, err := c.Load(context.Background())
		handleErr(err)

		rows := listing.ShowList(episodes, "")
		if query := lo.Must(cmd.Flags().GetString("search")); query != "" {
			l := listing.New(show, episodes, len(episodes))
			guids := lo.SliceToMap(l.Search(query).Cards, func(card listing.Card) (string, bool) {
				return card.GUID, true
			})
			rows = lo.Filter(rows, func(r listing.Row, _ int) bool { return guids[r.GUID] })
		}
		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && len(rows) > limit {
			rows = rows[:limit]
		}

		cmd.Println(lipgloss.NewStyle().Bold(true).Foreground(accent).Render(show.Name))
		if c.Store.Mock() {
			cmd.Println(lipgloss.NewStyle().Foreground(failed).Render("Feed unreachable, showing placeholder episodes"))
		}
		cmd.Print(renderRows(rows))
	},
}

func renderRows(rows []listing.Row) string {
	var (
		date     = lipgloss.NewStyle().Width(20).Foreground(dimmed)
		duration = lipgloss.NewStyle().Width(9).Align(lipgloss.Right)
		marker   = lipgloss.NewStyle().Width(3).Align(lipgloss.Center).Foreground(accent)
		title    = lipgloss.NewStyle().MaxWidth(72)
	)

	var out string
	for _, r := range rows {
		audio := ""
		if !r.HasAudio {
			audio = "-"
		}
		out += lipgloss.JoinHorizontal(lipgloss.Top,
			date.Render(r.Date),
			duration.Render(r.Duration),
			marker.Render(audio),
			title.Render(r.Title),
		) + "\n"
	}
	out += lipgloss.NewStyle().Foreground(dimmed).Render(fmt.Sprintf("%d episodes", len(rows))) + "\n"
	return out
}
