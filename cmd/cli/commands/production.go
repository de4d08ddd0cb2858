package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/binfill/pkg/core/services"
)

// ProductionCmd creates the production command
func ProductionCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "production",
		Short: "List every user's production per cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			productions, err := services.ListProduction(app.Ctx, app.Source, app.Production, app.Logger)
			if err != nil {
				return err
			}

			fractions := app.Production.Fractions
			unit := app.Cfg.ProductionUnit

			fmt.Printf("\nProduction per cycle (%s)\n\n", unit)
			fmt.Printf("%-16s%-14s", "User", "Type")
			for _, fraction := range fractions {
				fmt.Printf("%12s", fraction)
			}
			fmt.Println()

			undefined := 0
			for _, up := range productions {
				fmt.Printf("%-16s%-14s", up.User.Username, up.User.Type)
				if !up.Production.Defined {
					undefined++
					fmt.Printf("  no production defined\n")
					continue
				}
				for _, fraction := range fractions {
					fmt.Printf("%12.3f", up.Production.Quantity(fraction))
				}
				fmt.Println()
			}

			if undefined > 0 {
				fmt.Printf("\n%d user(s) have no standard production for their type\n", undefined)
			}
			fmt.Println()

			return nil
		},
	}
}
