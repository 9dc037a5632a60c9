// Package cmd implements the nutshell command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/csams/nutshell/internal/app"
	"github.com/csams/nutshell/internal/config"
	"github.com/csams/nutshell/internal/key"
	"github.com/csams/nutshell/internal/log"
	"github.com/csams/nutshell/internal/models"
	"github.com/csams/nutshell/internal/ui"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	accent = lipgloss.Color("#7aa2f7")
	dimmed = lipgloss.Color("#565f89")
	failed = lipgloss.Color("#f7768e")
)

func init() {
	rootCmd.PersistentFlags().StringSliceP("proxy", "P", nil, "Relays tried in order when the direct feed request fails")
	lo.Must0(viper.BindPFlag(key.FeedProxies, rootCmd.PersistentFlags().Lookup("proxy")))

	rootCmd.PersistentFlags().DurationP("timeout", "t", 0, "Timeout for a single feed or sources request")
	lo.Must0(viper.BindPFlag(key.FeedTimeout, rootCmd.PersistentFlags().Lookup("timeout")))

	rootCmd.PersistentFlags().String("origin", "", "Origin used to build shareable episode links")
	lo.Must0(viper.BindPFlag(key.SiteOrigin, rootCmd.PersistentFlags().Lookup("origin")))

	rootCmd.ValidArgsFunction = completeShows
}

var rootCmd = &cobra.Command{
	Use:   "nutshell [show]",
	Short: "Browse and listen to a podcast show in the terminal",
	Long: lipgloss.NewStyle().Bold(true).Foreground(accent).Render("nutshell") + "\n" +
		lipgloss.NewStyle().Italic(true).Foreground(dimmed).Render("Browse, search and listen to a show's episodes from its RSS feed."),
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		show := resolveShow(args)
		handleErr(runUI(show, app.Options{}))
	},
}

// Execute runs the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// runUI runs the terminal UI until it quits or the process is signalled.
func runUI(show models.Show, opts app.Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := app.New(show, opts)
	if err != nil {
		return err
	}
	return ui.NewApp(c, nil).Run(ctx)
}

func resolveShow(args []string) models.Show {
	var slug string
	if len(args) > 0 {
		slug = args[0]
	}
	show, err := config.Show(slug)
	handleErr(err)
	return show
}

func completeShows(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	shows, err := config.Shows()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return lo.Map(shows, func(s models.Show, _ int) string { return s.Slug }), cobra.ShellCompDirectiveNoFileComp
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", lipgloss.NewStyle().Foreground(failed).Render("✗"), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
