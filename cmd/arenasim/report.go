package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/hexbrawl/server/internal/simstore"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregate stored runs per comp pairing",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	db, err := simstore.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	summaries, err := db.Summaries()
	if err != nil {
		return fmt.Errorf("summaries: %w", err)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(os.Stdout, "No runs stored yet. Run 'arenasim run --left … --right …' first.")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	table.Header("LEFT", "RIGHT", "GAMES", "LEFT W", "RIGHT W", "DRAWS", "LEFT%", "AVG TICKS", "AVG DMG")

	for _, s := range summaries {
		leftPct := 0.0
		if s.Games > 0 {
			leftPct = 100 * float64(s.LeftWins) / float64(s.Games)
		}
		table.Append(
			s.LeftComp,
			s.RightComp,
			strconv.Itoa(s.Games),
			strconv.Itoa(s.LeftWins),
			strconv.Itoa(s.RightWins),
			strconv.Itoa(s.Draws),
			fmt.Sprintf("%.1f%%", leftPct),
			fmt.Sprintf("%.0f", s.AvgTicks),
			fmt.Sprintf("%.1f", s.AvgDamage),
		)
	}
	table.Render()
	return nil
}
