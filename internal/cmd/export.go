package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/csams/nutshell/internal/app"
	"github.com/csams/nutshell/internal/detail"
	"github.com/csams/nutshell/internal/export"
	"github.com/csams/nutshell/internal/key"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("dir", "o", ".", "Directory the show's pages are written under")
	exportCmd.Flags().Bool("sources", false, "Fetch each episode's sources into its page")
	exportCmd.Flags().IntP("workers", "w", 4, "Episodes exported at once")
	exportCmd.SetOut(os.Stdout)
	exportCmd.ValidArgsFunction = completeShows
}

var exportCmd = &cobra.Command{
	Use:   "export [show]",
	Short: "Write a show's listing and episode pages as HTML fragments",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		show := resolveShow(args)
		c, err := app.New(show, app.Options{})
		handleErr(err)

		episodes, err := c.Load(ctx)
		handleErr(err)

		opts := export.Options{
			Dir:      lo.Must(filepath.Abs(lo.Must(cmd.Flags().GetString("dir")))),
			Origin:   c.Origin,
			PageSize: viper.GetInt(key.ListingPageSize),
			Related:  viper.GetInt(key.DetailRelatedCount),
			Workers:  lo.Must(cmd.Flags().GetInt("workers")),
		}
		if lo.Must(cmd.Flags().GetBool("sources")) {
			opts.Loader = detail.NewSourceLoader(detail.LoaderOptions{
				Timeout:   viper.GetDuration(key.FeedTimeout),
				UserAgent: viper.GetString(key.FeedUserAgent),
			})
		}

		summary, err := export.New(opts).Export(ctx, show, episodes)
		handleErr(err)

		cmd.Printf("%s %d pages, %d episodes\n%s\n",
			lipgloss.NewStyle().Foreground(accent).Render("Exported"),
			summary.Pages, summary.Episodes,
			lipgloss.NewStyle().Foreground(dimmed).Render(summary.Dir),
		)
	},
}
