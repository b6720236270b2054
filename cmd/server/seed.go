package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedOwner string

// seedCmd fills an owner's collection with the demo dishes.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add the demo meals to an owner's collection",
	Example: `  meal-planner seed --owner 665f1c2e9b1d4a0012ab34cd
  meal-planner seed --owner 665f1c2e9b1d4a0012ab34cd --config ./deploy`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedOwner, "owner", "", "Owner (user) ID to seed")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if seedOwner == "" {
		return errors.New("--owner is required")
	}
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	added, err := a.meals.SeedDemoMeals(cmd.Context(), seedOwner)
	if err != nil {
		logger.Error("seed failed", zap.String("ownerId", seedOwner), zap.Error(err))
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %d demo meals for %s\n", added, seedOwner)
	return nil
}
