package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/shiftreport/internal/lines"
	"github.com/Simplici0/shiftreport/internal/seed"
	"github.com/Simplici0/shiftreport/internal/settings"
	"github.com/Simplici0/shiftreport/internal/validate"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change wage, threshold and prices",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	Args:  cobra.NoArgs,
	RunE: withStore(func(cmd *cobra.Command, store *settings.Store, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), renderSettings(store.Snapshot()))
		return nil
	}),
}

var settingsWageCmd = &cobra.Command{
	Use:   "wage AMOUNT",
	Short: "Set the hourly wage",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, store *settings.Store, args []string) error {
		wage, err := validate.PositiveFloat(args[0], "wage")
		if err != nil {
			return err
		}
		if err := store.SetWage(wage); err != nil {
			return err
		}
		return done(cmd, "Wage set to $%.2f", wage)
	}),
}

var settingsThresholdCmd = &cobra.Command{
	Use:   "threshold QUANTITY",
	Short: "Set the quantity above which the over price applies",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, store *settings.Store, args []string) error {
		threshold, err := validate.PositiveInt(args[0], "threshold")
		if err != nil {
			return err
		}
		if err := store.SetQuantityThreshold(threshold); err != nil {
			return err
		}
		return done(cmd, "Quantity threshold set to %d", threshold)
	}),
}

var settingsPriceCmd = &cobra.Command{
	Use:   "price LINE OVER UNDER",
	Short: "Set the machine prices of a metered line",
	Args:  cobra.ExactArgs(3),
	RunE: withStore(func(cmd *cobra.Command, store *settings.Store, args []string) error {
		id, ok := lines.Parse(args[0])
		if !ok || !lines.IsMetered(id) {
			return fmt.Errorf("%q: %w", args[0], settings.ErrUnknownLine)
		}
		over, err := validate.NonNegativeFloat(args[1], "over")
		if err != nil {
			return err
		}
		under, err := validate.NonNegativeFloat(args[2], "under")
		if err != nil {
			return err
		}
		if err := store.SetMachinePrice(id, over, under); err != nil {
			return err
		}
		return done(cmd, "%s prices set to %.4f / %.4f", id, over, under)
	}),
}

var handpackCmd = &cobra.Command{
	Use:   "handpack",
	Short: "Manage hand-pack products",
}

var handpackAddCmd = &cobra.Command{
	Use:   "add NAME PRICE",
	Short: "Add or update a hand-pack product",
	Args:  cobra.ExactArgs(2),
	RunE: withStore(func(cmd *cobra.Command, store *settings.Store, args []string) error {
		name, err := validate.Required(args[0], "name")
		if err != nil {
			return err
		}
		price, err := validate.NonNegativeFloat(args[1], "price")
		if err != nil {
			return err
		}
		if err := store.UpsertHandpack(name, price); err != nil {
			return err
		}
		return done(cmd, "Hand-pack %q priced at %.4f", name, price)
	}),
}

var handpackRemoveCmd = &cobra.Command{
	Use:     "rm NAME",
	Aliases: []string{"remove"},
	Short:   "Remove a hand-pack product",
	Args:    cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, store *settings.Store, args []string) error {
		deleted, err := store.DeleteHandpack(args[0])
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("hand-pack %q not found", args[0])
		}
		return done(cmd, "Hand-pack %q removed", args[0])
	}),
}

var settingsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the settings file and add missing catalog entries",
	Long: `Seed writes the default settings file when none exists and adds the hand-pack
products and machine prices of an optional YAML catalog that are not configured
yet. Existing values are left alone.

  handpacks:
    Tray 12: 1.25
  prices:
    AZ: [0.235, 0.382]`,
	Args: cobra.NoArgs,
	RunE: withStore(func(cmd *cobra.Command, store *settings.Store, args []string) error {
		var catalog seed.Catalog
		if path, _ := cmd.Flags().GetString("file"); path != "" {
			var err error
			if catalog, err = seed.LoadCatalog(path); err != nil {
				return err
			}
		}
		stats, err := seed.Run(store, catalog)
		if err != nil {
			return err
		}
		return done(cmd, "Seeded %s: %d added, %d already present", store.Path(), stats.Inserts, stats.Unchanged)
	}),
}

func init() {
	settingsSeedCmd.Flags().StringP("file", "f", "", "catalog file")

	handpackCmd.AddCommand(handpackAddCmd, handpackRemoveCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsWageCmd, settingsThresholdCmd, settingsPriceCmd, handpackCmd, settingsSeedCmd)
}

func withStore(run func(cmd *cobra.Command, store *settings.Store, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		return run(cmd, store, args)
	}
}

func done(cmd *cobra.Command, format string, args ...any) error {
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf(format, args...)))
	return nil
}
