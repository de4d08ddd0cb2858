package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/binfill/pkg/core/services"
)

// NearestCmd creates the nearest command
func NearestCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "nearest <username>",
		Short: "Show the nearest container of each waste fraction for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			app.Logger.Debug("nearest command", zap.String("user_id", username))

			user, nearest, err := services.NearestContainers(app.Ctx, app.Source, app.Logger, username)
			if err != nil {
				return err
			}

			fmt.Printf("\nNearest containers for %s (%.5f, %.5f)\n\n", user.Username, user.Location.Lat, user.Location.Lon)
			if len(nearest) == 0 {
				fmt.Println("No containers loaded")
				return nil
			}
			for _, n := range nearest {
				fmt.Printf("  %-12s %-20s %9.1f m\n", n.Fraction, n.Candidate.Name, n.Candidate.Distance)
			}
			fmt.Println()

			return nil
		},
	}
}
