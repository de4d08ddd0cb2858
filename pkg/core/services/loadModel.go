package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/binfill/pkg/core/allocator"
	"github.com/jakechorley/binfill/pkg/core/model"
	"github.com/jakechorley/binfill/pkg/db"
)

// ModelInput is the hydrated input of a model run
type ModelInput struct {
	Users   []*model.User
	Catalog *allocator.Catalog

	// RecordErrors lists the records skipped during hydration
	RecordErrors []*RecordError
}

// LoadModel reads users and containers from the source concurrently and hydrates them.
// Invalid records are skipped and reported; source failures and an
// inconsistent container set are returned as errors.
func LoadModel(ctx context.Context, source db.RecordSource, logger *zap.Logger) (*ModelInput, error) {
	var containerRecords []db.ContainerRecord
	var userRecords []db.UserRecord

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Debug("Fetching container records")
		records, err := source.GetContainers(gCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch containers: %w", err)
		}
		containerRecords = records
		return nil
	})
	g.Go(func() error {
		logger.Debug("Fetching user records")
		records, err := source.GetUsers(gCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch users: %w", err)
		}
		userRecords = records
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	containers, containerErrs := HydrateContainers(containerRecords)
	users, userErrs := HydrateUsers(userRecords)

	recordErrors := append(containerErrs, userErrs...)
	for _, recErr := range recordErrors {
		logger.Warn("Skipping invalid record",
			zap.String("kind", recErr.Kind),
			zap.String("record_id", recErr.RecordID),
			zap.Error(recErr.Err))
	}

	catalog, err := allocator.NewCatalog(containers)
	if err != nil {
		return nil, fmt.Errorf("failed to build container catalog: %w", err)
	}

	logger.Debug("Loaded model input",
		zap.Int("users", len(users)),
		zap.Int("containers", len(containers)),
		zap.Strings("fractions", catalog.Fractions()),
		zap.Int("skipped_records", len(recordErrors)))

	return &ModelInput{
		Users:        users,
		Catalog:      catalog,
		RecordErrors: recordErrors,
	}, nil
}

// FindUser returns the user with the given username
func (in *ModelInput) FindUser(username string) (*model.User, error) {
	for _, user := range in.Users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUserNotFound, username)
}
