package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/hexbrawl/server/internal/catalog"
)

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "Print the unit catalogue",
	Args:  cobra.NoArgs,
	RunE:  runUnits,
}

func runUnits(cmd *cobra.Command, args []string) error {
	cat := catalog.Default()
	if err := cat.Validate(); err != nil {
		return fmt.Errorf("catalogue: %w", err)
	}

	units := cat.PlayerUnits()
	sort.Slice(units, func(i, j int) bool {
		if units[i].Cost != units[j].Cost {
			return units[i].Cost < units[j].Cost
		}
		return units[i].ID < units[j].ID
	})

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	table.Header("ID", "NAME", "COST", "AFFINITY", "TRAITS", "HP", "ATK", "AS", "RNG", "MANA", "ABILITY")

	for _, u := range units {
		ability := "—"
		if u.Ability != nil {
			ability = u.Ability.Name
		}
		table.Append(
			u.ID,
			u.Name,
			strconv.Itoa(u.Cost),
			string(u.Affinity),
			strings.Join(u.Traits, ","),
			strconv.Itoa(u.Base.Health),
			strconv.Itoa(u.Base.Attack),
			fmt.Sprintf("%.2f", u.Base.AttackSpeed),
			strconv.Itoa(u.Base.Range),
			strconv.Itoa(u.Base.ManaCap),
			ability,
		)
	}
	table.Render()
	return nil
}
