package csvsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/jakechorley/binfill/pkg/db"
)

// DefaultDelimiter separates fields in the exported instance files
const DefaultDelimiter = ';'

// Source reads user and container records from delimited text files
type Source struct {
	usersPath      string
	containersPath string
	delimiter      rune
	logger         *zap.Logger
}

// New creates a CSV record source. A zero delimiter selects DefaultDelimiter.
func New(usersPath, containersPath string, delimiter rune, logger *zap.Logger) *Source {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	return &Source{
		usersPath:      usersPath,
		containersPath: containersPath,
		delimiter:      delimiter,
		logger:         logger,
	}
}

// GetUsers reads all user records, keyed by username
func (s *Source) GetUsers(ctx context.Context) ([]db.UserRecord, error) {
	rows, err := s.readFile(s.usersPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	records, err := db.TableAs[db.UserRecord]("users", rows, db.UserKeyColumn)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Read user records", zap.String("path", s.usersPath), zap.Int("count", len(records)))
	return db.DedupeUsers(records, s.logger), nil
}

// GetContainers reads all container records, keyed by itemid
func (s *Source) GetContainers(ctx context.Context) ([]db.ContainerRecord, error) {
	rows, err := s.readFile(s.containersPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read containers: %w", err)
	}

	records, err := db.TableAs[db.ContainerRecord]("containers", rows, db.ContainerKeyColumn)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Read container records", zap.String("path", s.containersPath), zap.Int("count", len(records)))
	return db.DedupeContainers(records, s.logger), nil
}

// Close is a no-op; files are opened per read
func (s *Source) Close() {}

func (s *Source) readFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readRows(f, s.delimiter)
}

func readRows(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse delimited file: %w", err)
	}
	return rows, nil
}
