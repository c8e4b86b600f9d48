package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Crownicles/Crownicles-sub006/internal/database"
	"github.com/Crownicles/Crownicles-sub006/internal/game/fightpet"
	"github.com/Crownicles/Crownicles-sub006/internal/game/mission"
	"github.com/Crownicles/Crownicles-sub006/internal/game/tables"
	"github.com/Crownicles/Crownicles-sub006/internal/game/witch"
	"github.com/Crownicles/Crownicles-sub006/internal/i18n"
	"github.com/Crownicles/Crownicles-sub006/internal/random"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newRootCmd builds the command tree. Every persistent flag can also be set through
// a CROWNICLES_* environment variable.
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CROWNICLES")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "crownctl",
		Short:         "Crownicles game tables and simulations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("json", false, "output JSON")
	root.PersistentFlags().Int64("seed", 0, "random seed (0 draws one)")
	_ = v.BindPFlag("json", root.PersistentFlags().Lookup("json"))
	_ = v.BindPFlag("seed", root.PersistentFlags().Lookup("seed"))

	root.AddCommand(migrateCmd(v))
	root.AddCommand(missionsCmd(v))
	root.AddCommand(smallEventsCmd(v))
	root.AddCommand(fightPetCmd(v))
	root.AddCommand(witchCmd(v))
	return root
}

func newRandom(v *viper.Viper) (random.Source, error) {
	if seed := v.GetInt64("seed"); seed != 0 {
		return random.New(seed), nil
	}
	return random.NewFromCrypto()
}

func printJSON(w io.Writer, val any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(val)
}

func newTable(w io.Writer, header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(header)
	return tw
}

func migrateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := v.GetString("database-path")
			if path == "" {
				return fmt.Errorf("--database-path (or CROWNICLES_DATABASE_PATH) required")
			}
			db, err := database.OpenAndMigrate(cmd.Context(), v.GetString("database-driver"), path)
			if err != nil {
				return err
			}
			defer db.Close()
			applied, err := database.AppliedVersions(cmd.Context(), db)
			if err != nil {
				return err
			}
			versions := make([]string, 0, len(applied))
			for name := range applied {
				versions = append(versions, name)
			}
			sort.Strings(versions)
			if v.GetBool("json") {
				return printJSON(cmd.OutOrStdout(), map[string]any{"applied": versions})
			}
			for _, name := range versions {
				fmt.Fprintln(cmd.OutOrStdout(), "applied", name)
			}
			return nil
		},
	}
	cmd.Flags().String("database-path", "", "sqlite database path")
	cmd.Flags().String("database-driver", database.DriverCGO, "sqlite3 (cgo) or sqlite (pure go)")
	_ = v.BindPFlag("database-path", cmd.Flags().Lookup("database-path"))
	_ = v.BindPFlag("database-driver", cmd.Flags().Lookup("database-driver"))
	return cmd
}

func missionsCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{Use: "missions", Short: "Inspect missions"}
	cmd.AddCommand(missionsListCmd(v))
	cmd.AddCommand(missionsVariantCmd(v))
	return cmd
}

type missionRow struct {
	ID          string               `json:"id"`
	Objectives  tables.PerDifficulty `json:"objectives"`
	Money       tables.PerDifficulty `json:"money"`
	XP          tables.PerDifficulty `json:"xp"`
	Description string               `json:"description"`
}

func missionsListCmd(v *viper.Viper) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered missions with their table values",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tables.Load()
			if err != nil {
				return err
			}
			tag := i18n.ResolveTag(lang, i18n.Default())
			var rows []missionRow
			for _, id := range mission.NewRegistry().IDs() {
				def, ok := t.Mission(id)
				if !ok {
					continue
				}
				rows = append(rows, missionRow{
					ID:          id,
					Objectives:  def.Objectives,
					Money:       def.Money,
					XP:          def.XP,
					Description: i18n.DescribeMission(tag, id, 0, def.Objectives.Easy),
				})
			}
			if v.GetBool("json") {
				return printJSON(cmd.OutOrStdout(), rows)
			}
			tw := newTable(cmd.OutOrStdout(), table.Row{"ID", "Objectives", "Money", "XP", "Description"})
			for _, r := range rows {
				tw.AppendRow(table.Row{r.ID, triple(r.Objectives), triple(r.Money), triple(r.XP), r.Description})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "en", "description language (en, fr)")
	return cmd
}

func triple(p tables.PerDifficulty) string {
	return fmt.Sprintf("%d/%d/%d", p.Easy, p.Medium, p.Hard)
}

func missionsVariantCmd(v *viper.Viper) *cobra.Command {
	var difficulty, lang string
	var level, mapID, classID int
	cmd := &cobra.Command{
		Use:   "variant <mission-id>",
		Short: "Draw a variant as an assignment would",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			m, err := mission.NewRegistry().Get(id)
			if err != nil {
				return fmt.Errorf("mission %q: %w", id, err)
			}
			diff, err := mission.ParseDifficulty(difficulty)
			if err != nil {
				return err
			}
			rnd, err := newRandom(v)
			if err != nil {
				return err
			}
			t, err := tables.Load()
			if err != nil {
				return err
			}
			def, _ := t.Mission(id)
			objective := def.Objectives.For(string(diff))
			variant := m.GenerateRandomVariant(diff, mission.Player{Level: level, MapID: mapID, ClassID: classID}, rnd)
			desc := i18n.DescribeMission(i18n.ResolveTag(lang, i18n.Default()), id, int(variant), objective)
			if v.GetBool("json") {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"id": id, "difficulty": diff, "variant": variant, "objective": objective, "description": desc,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s [%s] variant=%d objective=%d\n%s\n", id, diff, variant, objective, desc)
			return nil
		},
	}
	cmd.Flags().StringVar(&difficulty, "difficulty", "easy", "easy, medium or hard")
	cmd.Flags().StringVar(&lang, "lang", "en", "description language (en, fr)")
	cmd.Flags().IntVar(&level, "level", 1, "player level")
	cmd.Flags().IntVar(&mapID, "map", 1, "player map id")
	cmd.Flags().IntVar(&classID, "class", 0, "player class id")
	return cmd
}

type smallEventRow struct {
	ID      string  `json:"id"`
	Weight  int     `json:"weight"`
	Percent float64 `json:"percent"`
}

func smallEventsCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{Use: "smallevents", Short: "Inspect small events"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List small events with their draw weights",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tables.Load()
			if err != nil {
				return err
			}
			total := 0
			for _, w := range t.SmallEvents {
				total += max(w, 0)
			}
			var rows []smallEventRow
			for _, id := range t.SmallEventIDs() {
				w := t.SmallEvents[id]
				pct := 0.0
				if total > 0 {
					pct = 100 * float64(max(w, 0)) / float64(total)
				}
				rows = append(rows, smallEventRow{ID: id, Weight: w, Percent: pct})
			}
			if v.GetBool("json") {
				return printJSON(cmd.OutOrStdout(), rows)
			}
			tw := newTable(cmd.OutOrStdout(), table.Row{"ID", "Weight", "Chance"})
			for _, r := range rows {
				tw.AppendRow(table.Row{r.ID, r.Weight, fmt.Sprintf("%.1f%%", r.Percent)})
			}
			tw.AppendFooter(table.Row{"total", total, "100%"})
			tw.Render()
			return nil
		},
	})
	return cmd
}

type fightSimulation struct {
	Action    string  `json:"action"`
	Trials    int     `json:"trials"`
	Successes int     `json:"successes"`
	Rate      float64 `json:"rate"`
}

func fightPetCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{Use: "fightpet", Short: "Feral pet fight tools"}
	var feminine bool
	var trials, level, rarity, round int
	sim := &cobra.Command{
		Use:   "simulate <action>",
		Short: "Estimate the success rate of a fight action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			action, err := fightpet.NewRegistry().Get(id)
			if err != nil {
				return fmt.Errorf("action %q: %w", id, err)
			}
			if trials <= 0 {
				return fmt.Errorf("--trials must be positive")
			}
			rnd, err := newRandom(v)
			if err != nil {
				return err
			}
			res := fightSimulation{Action: id, Trials: trials}
			for i := 0; i < trials; i++ {
				fc := &fightpet.FightContext{
					PlayerLevel: level,
					Pet:         fightpet.FeralPet{TypeID: random.IntBetween(rnd, 1, fightpet.PetTypeCount), Feminine: feminine, Rarity: rarity},
					Round:       round,
				}
				if action.ApplyOutcome(fc, rnd) {
					res.Successes++
				}
			}
			res.Rate = float64(res.Successes) / float64(res.Trials)
			if v.GetBool("json") {
				return printJSON(cmd.OutOrStdout(), res)
			}
			tw := newTable(cmd.OutOrStdout(), table.Row{"Action", "Trials", "Successes", "Rate"})
			tw.AppendRow(table.Row{res.Action, res.Trials, res.Successes, fmt.Sprintf("%.1f%%", 100*res.Rate)})
			tw.Render()
			return nil
		},
	}
	sim.Flags().BoolVar(&feminine, "feminine", false, "fight a female pet")
	sim.Flags().IntVar(&trials, "trials", 1000, "number of rounds to simulate")
	sim.Flags().IntVar(&level, "level", 10, "player level")
	sim.Flags().IntVar(&rarity, "rarity", 1, "pet rarity")
	sim.Flags().IntVar(&round, "round", 1, "fight round (1-based)")
	cmd.AddCommand(sim)
	return cmd
}

type witchSimulation struct {
	Action   string         `json:"action"`
	Trials   int            `json:"trials"`
	Outcomes map[string]int `json:"outcomes"`
	// Rarities counts brewed potions by rarity.
	Rarities map[int]int `json:"rarities"`
}

func witchCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{Use: "witch", Short: "Witch encounter tools"}
	var trials int
	potions := &cobra.Command{
		Use:   "potions <action>",
		Short: "Simulate a witch action and tally outcomes and potion rarities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			action, err := witch.NewRegistry().Get(id)
			if err != nil {
				return fmt.Errorf("action %q: %w", id, err)
			}
			if trials <= 0 {
				return fmt.Errorf("--trials must be positive")
			}
			rnd, err := newRandom(v)
			if err != nil {
				return err
			}
			res := simulateWitch(id, action, trials, rnd)
			if v.GetBool("json") {
				return printJSON(cmd.OutOrStdout(), res)
			}
			tw := newTable(cmd.OutOrStdout(), table.Row{"Result", "Count", "Share"})
			for _, o := range []witch.Outcome{witch.OutcomePotion, witch.OutcomeNothing, witch.OutcomeBad} {
				n := res.Outcomes[string(o)]
				tw.AppendRow(table.Row{string(o), n, share(n, trials)})
			}
			tw.AppendSeparator()
			for rarity := witch.RarityCommon; rarity <= witch.RarityMythical; rarity++ {
				if n := res.Rarities[rarity]; n > 0 {
					tw.AppendRow(table.Row{fmt.Sprintf("rarity %d", rarity), n, share(n, res.Outcomes[string(witch.OutcomePotion)])})
				}
			}
			tw.Render()
			return nil
		},
	}
	potions.Flags().IntVar(&trials, "trials", 1000, "number of draws")
	cmd.AddCommand(potions)
	return cmd
}

func simulateWitch(id string, action witch.Action, trials int, rnd random.Source) witchSimulation {
	res := witchSimulation{Action: id, Trials: trials, Outcomes: map[string]int{}, Rarities: map[int]int{}}
	for i := 0; i < trials; i++ {
		outcome := action.Outcome(rnd)
		if outcome == witch.OutcomePotion {
			p := action.GeneratePotion(rnd)
			if p == nil {
				outcome = witch.OutcomeNothing
			} else {
				res.Rarities[p.Rarity]++
			}
		}
		res.Outcomes[string(outcome)]++
	}
	return res
}

func share(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))
}
