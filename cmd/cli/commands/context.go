package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/binfill/internal/config"
	"github.com/jakechorley/binfill/pkg/core/allocator"
	"github.com/jakechorley/binfill/pkg/core/production"
	"github.com/jakechorley/binfill/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg        *config.Config
	Allocator  *allocator.Allocator
	Production production.Table
	Source     db.RecordSource
	Logger     *zap.Logger
	Ctx        context.Context
}
