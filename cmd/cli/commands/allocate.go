package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/binfill/pkg/core/model"
	"github.com/jakechorley/binfill/pkg/core/services"
)

// AllocateCmd creates the allocate command
func AllocateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "allocate <username>",
		Short: "Show how a user's production would be split across containers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			app.Logger.Debug("allocate command", zap.String("user_id", username))

			result, err := services.AllocateUser(app.Ctx, app.Source, app.Allocator, app.Production, app.Logger, username)
			if err != nil {
				return err
			}

			unit := app.Cfg.ProductionUnit
			fmt.Printf("\nDistribution for %s (type %s, dim factor %g)\n", result.User.Username, result.User.Type, result.User.DimFactor)
			if !result.Production.Defined {
				fmt.Printf("No production defined for type %s, nothing would be distributed\n", result.User.Type)
			}

			for _, fraction := range sortedFractions(result.Table) {
				quantity := result.Production.Quantity(fraction)
				fmt.Printf("\n%s (%.3f %s per cycle)\n", fraction, quantity, unit)
				for _, share := range result.Table[fraction] {
					fmt.Printf("  %-12s %9.1f m  %6.1f%%  %.3f %s\n",
						share.ContainerID, share.Distance, share.Weight*100, quantity*share.Weight, unit)
				}
			}
			fmt.Println()

			return nil
		},
	}
}

func sortedFractions(table model.DistributionTable) []string {
	fractions := make([]string, 0, len(table))
	for fraction := range table {
		fractions = append(fractions, fraction)
	}
	slices.Sort(fractions)
	return fractions
}
