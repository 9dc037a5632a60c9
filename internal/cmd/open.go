package cmd

import (
	"fmt"

	"github.com/csams/nutshell/internal/app"
	"github.com/csams/nutshell/internal/config"
	"github.com/csams/nutshell/internal/route"
	"github.com/csams/nutshell/internal/session"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().BoolP("direct", "d", false, "Open the episode path directly instead of through the show page")
}

// openCmd opens an episode address such as /news-in-a-nutshell/some-episode.
// By default the slug is stashed in the session and the show page opened,
// which then follows the stash once its episodes are loaded.
var openCmd = &cobra.Command{
	Use:     "open <path>",
	Short:   "Open an episode by its /<show>/<episode> path",
	Example: "  nutshell open /news-in-a-nutshell/some-episode",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		showSlug, slug := route.Parse(args[0])
		if showSlug == "" {
			handleErr(fmt.Errorf("not an episode path: %q", args[0]))
		}

		show, err := config.Show(showSlug)
		handleErr(err)

		if slug == "" || lo.Must(cmd.Flags().GetBool("direct")) {
			handleErr(runUI(show, app.Options{Path: args[0]}))
			return
		}

		handleErr(session.New("").Put(show.BasePath(), slug))
		handleErr(runUI(show, app.Options{}))
	},
}
