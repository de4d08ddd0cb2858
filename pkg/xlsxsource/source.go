package xlsxsource

import (
	"context"
	"fmt"

	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/jakechorley/binfill/pkg/db"
)

const (
	DefaultUsersSheet      = "users"
	DefaultContainersSheet = "containers"
)

// Source reads user and container records from two sheets of an Excel workbook.
// The first row of each sheet holds the column headers.
type Source struct {
	path            string
	usersSheet      string
	containersSheet string
	logger          *zap.Logger
}

// New creates a workbook record source. Empty sheet names select the defaults.
func New(path, usersSheet, containersSheet string, logger *zap.Logger) *Source {
	if usersSheet == "" {
		usersSheet = DefaultUsersSheet
	}
	if containersSheet == "" {
		containersSheet = DefaultContainersSheet
	}
	return &Source{
		path:            path,
		usersSheet:      usersSheet,
		containersSheet: containersSheet,
		logger:          logger,
	}
}

// GetUsers reads all user records, keyed by username
func (s *Source) GetUsers(ctx context.Context) ([]db.UserRecord, error) {
	rows, err := s.readSheet(s.usersSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	records, err := db.TableAs[db.UserRecord]("users", rows, db.UserKeyColumn)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Read user records", zap.String("sheet", s.usersSheet), zap.Int("count", len(records)))
	return db.DedupeUsers(records, s.logger), nil
}

// GetContainers reads all container records, keyed by itemid
func (s *Source) GetContainers(ctx context.Context) ([]db.ContainerRecord, error) {
	rows, err := s.readSheet(s.containersSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read containers: %w", err)
	}

	records, err := db.TableAs[db.ContainerRecord]("containers", rows, db.ContainerKeyColumn)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Read container records", zap.String("sheet", s.containersSheet), zap.Int("count", len(records)))
	return db.DedupeContainers(records, s.logger), nil
}

// Close is a no-op; the workbook is opened per read
func (s *Source) Close() {}

func (s *Source) readSheet(name string) ([][]string, error) {
	f, err := xlsx.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	sheet, ok := f.Sheet[name]
	if !ok {
		return nil, fmt.Errorf("workbook %s has no sheet %q", s.path, name)
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
