package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		flags globalFlags
		a     *app
	)
	root := &cobra.Command{
		Use:           "alchimist",
		Short:         "Resolve tabletop rule text and attribute checks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			flags.seeded = cmd.Flags().Changed("seed")
			var err error
			a, err = newApp(flags, cmd.ErrOrStderr())
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a != nil {
				a.close()
			}
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default: built-in defaults and ALCHIMIST_* environment)")
	root.PersistentFlags().Uint64Var(&flags.seed, "seed", 0, "roll with a seeded source for replayable results")
	root.PersistentFlags().StringVar(&flags.today, "today", "", `campaign date, e.g. "1 Praios 1040 BF"`)
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log at debug level to stderr")

	get := func() *app { return a }
	root.AddCommand(
		newRollCmd(get),
		newFormulaCmd(get),
		newHarvestCmd(get),
		newExpiryCmd(get),
		newCheckCmd(get),
		newBrewCmd(get),
		newForageCmd(get),
		newCatalogCmd(get),
		newScriptCmd(get),
	)
	return root
}
