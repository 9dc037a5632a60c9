package cmd

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/csams/nutshell/internal/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

type whereTarget struct {
	name     string
	where    func() string
	argLong  string
	argShort mo.Option[string]
}

var wherePaths = []whereTarget{
	{"Config", where.Config, "config", mo.Some("c")},
	{"Cache", where.Cache, "cache", mo.None[string]()},
	{"Logs", where.Logs, "logs", mo.Some("l")},
	{"Session", where.Session, "session", mo.None[string]()},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, n := range wherePaths {
		if short, ok := n.argShort.Get(); ok {
			whereCmd.Flags().BoolP(n.argLong, short, false, n.name+" path")
		} else {
			whereCmd.Flags().Bool(n.argLong, false, n.name+" path")
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(wherePaths, func(t whereTarget, _ int) string {
		return t.argLong
	})...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Print the paths nutshell reads and writes",
	Run: func(cmd *cobra.Command, args []string) {
		for _, n := range wherePaths {
			if lo.Must(cmd.Flags().GetBool(n.argLong)) {
				cmd.Println(n.where())
				return
			}
		}

		header := lipgloss.NewStyle().Bold(true).Foreground(accent).Render
		for i, n := range wherePaths {
			cmd.Printf("%s %s\n", header(n.name+"?"), lipgloss.NewStyle().Foreground(dimmed).Render("--"+n.argLong))
			cmd.Println(n.where())
			if i < len(wherePaths)-1 {
				cmd.Println()
			}
		}
	},
}
