package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/alchimist/internal/game/calendar"
	"github.com/cory-johannsen/alchimist/internal/game/check"
	"github.com/cory-johannsen/alchimist/internal/game/harvest"
	"github.com/cory-johannsen/alchimist/internal/rules"
	"github.com/cory-johannsen/alchimist/internal/scripting"
)

type appFunc func() *app

func newRollCmd(get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "roll <expr>...",
		Short: `Roll dice notation such as "2W6+5"`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, expr := range args {
				res, err := get().svc.RollDice(expr)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), res)
			}
			return nil
		},
	}
}

func newFormulaCmd(get appFunc) *cobra.Command {
	var points int
	cmd := &cobra.Command{
		Use:   "formula <text>",
		Short: `Evaluate a cost formula such as "16-ZfP/2"`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok := get().svc.EvaluateFormula(args[0], points)
			if !ok {
				return fmt.Errorf("cannot evaluate formula %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
	cmd.Flags().IntVar(&points, "points", 0, "extra points bound to ZfP/TaP")
	return cmd
}

func newHarvestCmd(get appFunc) *cobra.Command {
	var (
		points int
		roll   bool
	)
	cmd := &cobra.Command{
		Use:   "harvest <text>",
		Short: `Parse a yield such as "2W6+5 Blätter und eine Samenkapsel"`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p *int
			if cmd.Flags().Changed("points") {
				p = &points
			}
			out := cmd.OutOrStdout()
			if roll {
				for _, it := range get().svc.RollYield(args[0], p) {
					fmt.Fprintln(out, it)
				}
				return nil
			}
			for _, it := range get().svc.ParseYield(args[0], p) {
				printItem(out, it)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&points, "points", 0, "extra points; segments gated by a higher threshold are dropped")
	cmd.Flags().BoolVar(&roll, "roll", false, "roll dice quantities")
	return cmd
}

func printItem(w io.Writer, it harvest.Item) {
	if it.Threshold != nil {
		fmt.Fprintf(w, "%s × %s [%s]\n", it.Quantity, it.Product, it.Threshold)
		return
	}
	fmt.Fprintf(w, "%s × %s\n", it.Quantity, it.Product)
}

func newExpiryCmd(get appFunc) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "expiry <duration>",
		Short: `Compute when something with a shelf life such as "W3+1 Monate" expires`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := get().svc
			start := svc.Today()
			if from != "" {
				d, err := calendar.ParseDate(from)
				if err != nil {
					return err
				}
				start = d
			}
			fmt.Fprintln(cmd.OutOrStdout(), svc.Expiry(start, args[0]))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start date (default: campaign date)")
	return cmd
}

// attemptFlags are shared by check, brew and forage.
type attemptFlags struct {
	rating     int
	boost      int
	difficulty int
	reducers   int
	attributes []int
}

func (f *attemptFlags) register(cmd *cobra.Command, withReducers bool) {
	cmd.Flags().IntVar(&f.rating, "rating", 0, "skill rating")
	cmd.Flags().IntVar(&f.boost, "boost", 0, "rating bought with resource points")
	cmd.Flags().IntVar(&f.difficulty, "difficulty", 0, "difficulty modifier")
	cmd.Flags().IntSliceVar(&f.attributes, "attributes", nil, "three attribute values, e.g. 12,13,14")
	if withReducers {
		cmd.Flags().IntVar(&f.reducers, "reducers", 0, "cost-reducing traits")
	}
	_ = cmd.MarkFlagRequired("attributes")
}

func (f *attemptFlags) attempt() (rules.Attempt, error) {
	if len(f.attributes) != 3 {
		return rules.Attempt{}, errors.New("--attributes needs exactly three values")
	}
	return rules.Attempt{
		Rating:     f.rating,
		Boost:      f.boost,
		Attributes: [3]int{f.attributes[0], f.attributes[1], f.attributes[2]},
		Modifier:   f.difficulty,
		Reducers:   f.reducers,
	}, nil
}

func newCheckCmd(get appFunc) *cobra.Command {
	var f attemptFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Resolve a three-attribute check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := f.attempt()
			if err != nil {
				return err
			}
			rec, err := get().svc.ResolveCheck(check.Check{
				Rating:     a.Rating,
				Boost:      a.Boost,
				Difficulty: a.Modifier,
				Attributes: a.Attributes,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rec.Outcome)
			return nil
		},
	}
	f.register(cmd, false)
	return cmd
}

func newBrewCmd(get appFunc) *cobra.Command {
	var f attemptFlags
	cmd := &cobra.Command{
		Use:   "brew <recipe>",
		Short: "Brew a recipe from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.attempt()
			if err != nil {
				return err
			}
			res, err := get().svc.Brew(args[0], a)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", res.Recipe.Name, res.Outcome)
			fmt.Fprintf(out, "cost: %d\n", res.Cost)
			fmt.Fprintf(out, "quality: %s\n", res.Quality)
			if res.Outcome.Success {
				fmt.Fprintf(out, "products: %s\n", harvest.Summary(res.Products))
				fmt.Fprintf(out, "expires: %s\n", res.Expires)
			}
			return nil
		},
	}
	f.register(cmd, true)
	return cmd
}

func newForageCmd(get appFunc) *cobra.Command {
	var f attemptFlags
	cmd := &cobra.Command{
		Use:   "forage <herb>",
		Short: "Search for a herb from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.attempt()
			if err != nil {
				return err
			}
			res, err := get().svc.Forage(args[0], a)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", res.Herb.Name, res.Outcome)
			if res.Outcome.Success {
				fmt.Fprintf(out, "found: %s\n", harvest.Summary(res.Items))
				fmt.Fprintf(out, "expires: %s\n", res.Expires)
			}
			return nil
		},
	}
	f.register(cmd, false)
	return cmd
}

func newCatalogCmd(get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List herbs and recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := get().svc.Catalog()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "herbs:")
			for _, h := range reg.Herbs() {
				fmt.Fprintf(out, "  %-14s %s (difficulty %+d)\n", h.ID, h.Name, h.Difficulty)
			}
			fmt.Fprintln(out, "recipes:")
			for _, r := range reg.Recipes() {
				fmt.Fprintf(out, "  %-14s %s (difficulty %+d, %s)\n", r.ID, r.Name, r.Difficulty, strings.Join(r.Attributes, "/"))
			}
			return nil
		},
	}
}

func newScriptCmd(get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "script <hook> [args...]",
		Short: "Call a rule script function with string arguments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), get().scripts.CallString(scripting.GlobalScope, args[0], args[1:]...))
			return nil
		},
	}
}
