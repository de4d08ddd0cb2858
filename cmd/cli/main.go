package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/binfill/cmd/cli/commands"
	"github.com/jakechorley/binfill/internal/config"
	"github.com/jakechorley/binfill/pkg/core/allocator"
	"github.com/jakechorley/binfill/pkg/utils/logging"
)

var (
	env        string
	configPath string
	verbose    bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &commands.AppContext{Ctx: ctx}

	rootCmd := &cobra.Command{
		Use:   "binfill",
		Short: "Container fill model - distribute waste production over nearby containers",
		Long: `Loads users and waste containers, splits each user's periodic production
across the containers they plausibly walk to and reports container fill levels.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(app)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Source != nil {
				app.Source.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default binfill_config.<env>.yaml or binfill_config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")

	rootCmd.AddCommand(commands.RunCmd(app))
	rootCmd.AddCommand(commands.AllocateCmd(app))
	rootCmd.AddCommand(commands.NearestCmd(app))
	rootCmd.AddCommand(commands.ProductionCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, allocator and record source
func initApp(app *commands.AppContext) error {
	var err error

	logger, logFile, err := logging.InitLogger(env, logging.Options{Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger = logger

	app.Logger.Info("Starting application", zap.String("environment", env), zap.String("log_file", logFile))

	app.Logger.Info("Loading configuration")
	if configPath != "" {
		app.Cfg, err = config.LoadFromPath(configPath)
	} else {
		app.Cfg, err = config.LoadWithEnv(env)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.Float64("will_factor", app.Cfg.WillFactor),
		zap.Float64("threshold1", app.Cfg.ThrowFactor.Threshold1),
		zap.Float64("threshold2", app.Cfg.ThrowFactor.Threshold2),
		zap.Strings("fractions", app.Cfg.Fractions))

	app.Allocator, err = allocator.New(app.Cfg.AllocatorParams())
	if err != nil {
		return fmt.Errorf("invalid allocation parameters: %w", err)
	}

	app.Production, err = app.Cfg.ProductionTable()
	if err != nil {
		return fmt.Errorf("invalid standard production: %w", err)
	}

	app.Logger.Info("Opening record source", zap.String("driver", app.Cfg.Source.Driver))
	app.Source, err = commands.OpenSource(app.Ctx, app.Cfg.Source, env, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to open record source: %w", err)
	}
	app.Logger.Debug("Record source ready")

	return nil
}
