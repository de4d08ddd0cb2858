package sheetssource

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/binfill/pkg/db"
)

const (
	DefaultUsersRange      = "users"
	DefaultContainersRange = "containers"
)

// ValueReader reads the cell values of a spreadsheet range
type ValueReader interface {
	GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error)
}

// Source reads user and container records from two tabs of a spreadsheet.
// The first row of each range holds the column headers.
type Source struct {
	client          ValueReader
	spreadsheetID   string
	usersRange      string
	containersRange string
	logger          *zap.Logger
}

// New creates a sheets record source. Empty ranges select the default tabs.
func New(client ValueReader, spreadsheetID, usersRange, containersRange string, logger *zap.Logger) *Source {
	if usersRange == "" {
		usersRange = DefaultUsersRange
	}
	if containersRange == "" {
		containersRange = DefaultContainersRange
	}
	return &Source{
		client:          client,
		spreadsheetID:   spreadsheetID,
		usersRange:      usersRange,
		containersRange: containersRange,
		logger:          logger,
	}
}

// GetUsers reads all user records, keyed by username
func (s *Source) GetUsers(ctx context.Context) ([]db.UserRecord, error) {
	rows, err := s.readRange(ctx, s.usersRange)
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	records, err := db.TableAs[db.UserRecord]("users", rows, db.UserKeyColumn)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Read user records", zap.String("range", s.usersRange), zap.Int("count", len(records)))
	return db.DedupeUsers(records, s.logger), nil
}

// GetContainers reads all container records, keyed by itemid
func (s *Source) GetContainers(ctx context.Context) ([]db.ContainerRecord, error) {
	rows, err := s.readRange(ctx, s.containersRange)
	if err != nil {
		return nil, fmt.Errorf("failed to read containers: %w", err)
	}

	records, err := db.TableAs[db.ContainerRecord]("containers", rows, db.ContainerKeyColumn)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Read container records", zap.String("range", s.containersRange), zap.Int("count", len(records)))
	return db.DedupeContainers(records, s.logger), nil
}

// Close is a no-op; the API client holds no connection
func (s *Source) Close() {}

func (s *Source) readRange(ctx context.Context, sheetRange string) ([][]string, error) {
	values, err := s.client.GetValues(ctx, s.spreadsheetID, sheetRange)
	if err != nil {
		return nil, err
	}
	return cellRows(values), nil
}

// cellRows renders every cell as text; the API omits trailing empty cells
func cellRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			if cell != nil {
				rows[i][j] = fmt.Sprint(cell)
			}
		}
	}
	return rows
}
