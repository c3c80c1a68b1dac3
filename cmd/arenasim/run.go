package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hexbrawl/server/internal/catalog"
	"github.com/hexbrawl/server/internal/game"
	"github.com/hexbrawl/server/internal/simstore"
	"github.com/hexbrawl/server/pkg/combat"
)

var (
	leftComp  string
	rightComp string
	gameCount int
	baseSeed  int64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run seeded combats between two comps and store the outcomes",
	Long: `Run seeded combats between two comps and store the outcomes.

A comp is a comma-separated list of unit ids, each with an optional star
level, e.g. --left "direwolf,direwolf:2,ember_archer". Units are placed
row by row from the back of the board.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&leftComp, "left", "", "left comp, e.g. \"direwolf:2,ember_archer\"")
	runCmd.Flags().StringVar(&rightComp, "right", "", "right comp")
	runCmd.Flags().IntVar(&gameCount, "games", 100, "number of seeded games to run")
	runCmd.Flags().Int64Var(&baseSeed, "seed", 1, "seed of the first game; game i uses seed+i")
	runCmd.MarkFlagRequired("left")
	runCmd.MarkFlagRequired("right")
}

func runRun(cmd *cobra.Command, args []string) error {
	cat := catalog.Default()
	if err := cat.Validate(); err != nil {
		return fmt.Errorf("catalogue: %w", err)
	}

	left, leftLabel, err := parseComp(cat, "left", leftComp)
	if err != nil {
		return err
	}
	right, rightLabel, err := parseComp(cat, "right", rightComp)
	if err != nil {
		return err
	}

	db, err := simstore.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	runs := make([]simstore.Run, 0, gameCount)
	tally := map[string]int{}
	for i := 0; i < gameCount; i++ {
		seed := baseSeed + int64(i)
		result := combat.Run(left, right, seed)
		winner := winnerLabel(result.Winner)
		tally[winner]++
		runs = append(runs, simstore.Run{
			LeftComp:        leftLabel,
			RightComp:       rightLabel,
			Seed:            seed,
			Winner:          winner,
			Ticks:           result.DurationTicks,
			DurationSeconds: result.DurationSeconds(),
			Survivors:       result.Survivors,
			Damage:          result.Damage,
		})
	}
	if err := db.InsertRuns(runs); err != nil {
		return fmt.Errorf("store runs: %w", err)
	}

	fmt.Fprintf(os.Stdout, "%s vs %s: %d games — left %d, right %d, draws %d\n",
		leftLabel, rightLabel, gameCount,
		tally[simstore.WinnerLeft], tally[simstore.WinnerRight], tally[simstore.WinnerDraw])
	return nil
}

// parseComp turns "id[:star],id[:star],…" into positioned unit specs and a
// canonical label for aggregation.
func parseComp(cat *catalog.Catalog, side, spec string) ([]combat.UnitSpec, string, error) {
	tokens := strings.Split(spec, ",")
	if spec == "" || len(tokens) == 0 {
		return nil, "", fmt.Errorf("--%s: empty comp", side)
	}
	if len(tokens) > catalog.BoardWidth*catalog.BoardHeight {
		return nil, "", fmt.Errorf("--%s: %d units exceed the %d-hex board", side, len(tokens), catalog.BoardWidth*catalog.BoardHeight)
	}

	var specs []combat.UnitSpec
	var canonical []string
	for i, token := range tokens {
		token = strings.TrimSpace(token)
		id, star := token, 1
		if at := strings.IndexByte(token, ':'); at >= 0 {
			id = token[:at]
			parsed, err := strconv.Atoi(token[at+1:])
			if err != nil || parsed < 1 || parsed > 3 {
				return nil, "", fmt.Errorf("--%s: bad star level in %q", side, token)
			}
			star = parsed
		}
		tmpl, ok := cat.Unit(id)
		if !ok {
			return nil, "", fmt.Errorf("--%s: unknown unit %q (try 'arenasim units')", side, id)
		}

		inst := &game.UnitInstance{ID: fmt.Sprintf("%s-%d", side, i), TemplateID: id, Star: star}
		stats := game.BaseStats(cat, inst)
		us := combat.UnitSpec{
			InstanceID:   inst.ID,
			TemplateID:   tmpl.ID,
			Name:         tmpl.Name,
			Star:         star,
			X:            i % catalog.BoardWidth,
			Y:            i / catalog.BoardWidth,
			Health:       stats.Health,
			Attack:       stats.Attack,
			AbilityPower: stats.AbilityPower,
			Armor:        stats.Armor,
			MagicResist:  stats.MagicResist,
			AttackSpeed:  stats.AttackSpeed,
			Range:        stats.Range,
			ManaCap:      stats.ManaCap,
			MoveSpeed:    stats.MoveSpeed,
			CritChance:   stats.CritChance,
			CritDamage:   stats.CritDamage,
			Magical:      tmpl.Affinity.Magical(),
			Affinity:     string(tmpl.Affinity),
		}
		if tmpl.Ability != nil {
			us.AbilityName = tmpl.Ability.Name
			us.AbilityDamageMult = tmpl.Ability.DamageMult
			us.AbilityCastSeconds = tmpl.Ability.CastSeconds
		}
		specs = append(specs, us)
		canonical = append(canonical, fmt.Sprintf("%s:%d", id, star))
	}
	sort.Strings(canonical)
	return specs, strings.Join(canonical, ","), nil
}

func winnerLabel(side int) string {
	switch side {
	case combat.SideHost:
		return simstore.WinnerLeft
	case combat.SideAway:
		return simstore.WinnerRight
	default:
		return simstore.WinnerDraw
	}
}
