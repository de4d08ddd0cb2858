package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/binfill/internal/config"
	"github.com/jakechorley/binfill/pkg/clients/sheetsclient"
	"github.com/jakechorley/binfill/pkg/csvsource"
	"github.com/jakechorley/binfill/pkg/db"
	"github.com/jakechorley/binfill/pkg/postgres"
	"github.com/jakechorley/binfill/pkg/sheetssource"
	"github.com/jakechorley/binfill/pkg/sqlite"
	"github.com/jakechorley/binfill/pkg/xlsxsource"
)

// OpenSource opens the record source selected by the configuration.
// env selects the stored OAuth token of the sheets driver.
func OpenSource(ctx context.Context, cfg config.Source, env string, logger *zap.Logger) (db.RecordSource, error) {
	switch cfg.Driver {
	case "csv":
		logger.Debug("Using CSV record source",
			zap.String("users_file", cfg.UsersFile),
			zap.String("containers_file", cfg.ContainersFile))
		return csvsource.New(cfg.UsersFile, cfg.ContainersFile, cfg.DelimiterRune(), logger), nil

	case "xlsx":
		logger.Debug("Using workbook record source",
			zap.String("workbook", cfg.Workbook),
			zap.String("users_sheet", cfg.UsersSheet),
			zap.String("containers_sheet", cfg.ContainersSheet))
		return xlsxsource.New(cfg.Workbook, cfg.UsersSheet, cfg.ContainersSheet, logger), nil

	case "sqlite":
		logger.Debug("Opening SQLite record source", zap.String("dsn", cfg.DSN))
		source, err := sqlite.NewDB(cfg.DSN, logger)
		if err != nil {
			return nil, err
		}
		return source, nil

	case "postgres":
		logger.Debug("Connecting to Postgres record source")
		source, err := postgres.NewDB(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return source, nil

	case "sheets":
		oauthCfg, err := config.LoadOAuthClient(cfg, env)
		if err != nil {
			return nil, err
		}
		client, err := sheetsclient.NewClient(ctx, oauthCfg, env, logger)
		if err != nil {
			return nil, err
		}
		logger.Debug("Using sheets record source",
			zap.String("spreadsheet_id", cfg.SpreadsheetID),
			zap.String("users_range", cfg.UsersRange),
			zap.String("containers_range", cfg.ContainersRange))
		return sheetssource.New(client, cfg.SpreadsheetID, cfg.UsersRange, cfg.ContainersRange, logger), nil

	default:
		return nil, fmt.Errorf("unknown record source driver %q", cfg.Driver)
	}
}
