package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/binfill/pkg/core/allocator"
	"github.com/jakechorley/binfill/pkg/core/model"
	"github.com/jakechorley/binfill/pkg/core/production"
	"github.com/jakechorley/binfill/pkg/core/schedule"
)

// ErrUserNotFound is returned when a username is not among the loaded users
var ErrUserNotFound = errors.New("user not found")

// RunRecorder receives the events of a model run
type RunRecorder interface {
	UserProcessed()
	UserFailed(reason string)
	UserWithoutProduction()
	PlausibleSet(fraction string, size int)
	Distributed(fraction string, quantity float64)
	ContainerFill(container *model.Container)
}

// UserFailure records a user whose production could not be distributed
type UserFailure struct {
	UserID string
	Err    error
}

// RunResult represents the outcome of a model run
type RunResult struct {
	RunID   string
	Started time.Time
	Elapsed time.Duration
	Cycles  []schedule.Cycle

	// Processed counts users whose production was distributed (possibly zero)
	Processed int

	// NoProduction lists users whose type has no standard production
	NoProduction []string

	Failures     []UserFailure
	RecordErrors []*RecordError

	// Distributed is the total credited per fraction over all cycles
	Distributed map[string]float64

	Containers []*model.Container
}

// HasFailures reports whether any user or record could not be processed
func (r *RunResult) HasFailures() bool {
	return len(r.Failures) > 0 || len(r.RecordErrors) > 0
}

// RunModel computes the distribution table of every user and distributes
// their production over the containers once per cycle. A user that fails is
// recorded and left out; its containers are not credited and the run
// continues. The returned error is reserved for cancellation.
func RunModel(ctx context.Context, input *ModelInput, alloc *allocator.Allocator, table production.Table, cycles []schedule.Cycle, recorder RunRecorder, logger *zap.Logger) (*RunResult, error) {
	if len(cycles) == 0 {
		return nil, fmt.Errorf("run needs at least one production cycle")
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}

	result := &RunResult{
		RunID:        uuid.New().String(),
		Started:      time.Now(),
		Cycles:       cycles,
		RecordErrors: input.RecordErrors,
		Distributed:  make(map[string]float64),
		Containers:   input.Catalog.Containers(),
	}
	runLogger := logger.With(zap.String("run_id", result.RunID))

	runLogger.Info("Starting model run",
		zap.Int("users", len(input.Users)),
		zap.Int("containers", len(result.Containers)),
		zap.Int("cycles", len(cycles)))

	for _, recErr := range input.RecordErrors {
		if recErr.Kind == "user" {
			recorder.UserFailed("invalid_record")
		}
	}

	for _, user := range input.Users {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("model run interrupted: %w", err)
		}

		userLogger := runLogger.With(zap.String("user_id", user.Username))

		distTable, err := alloc.Allocate(user, input.Catalog)
		if err != nil {
			logUserFailure(userLogger, "Failed to allocate user", err)
			result.Failures = append(result.Failures, UserFailure{UserID: user.Username, Err: err})
			recorder.UserFailed("allocation")
			continue
		}
		for fraction, shares := range distTable {
			recorder.PlausibleSet(fraction, len(shares))
		}

		prod, err := table.For(user.Type, user.DimFactor)
		if err != nil {
			if !errors.Is(err, production.ErrNoProduction) {
				result.Failures = append(result.Failures, UserFailure{UserID: user.Username, Err: err})
				recorder.UserFailed("production")
				continue
			}
			userLogger.Warn("No production defined", zap.String("user_type", user.Type))
			result.NoProduction = append(result.NoProduction, user.Username)
			recorder.UserWithoutProduction()
		}

		if err := distributeCycles(user, distTable, prod, alloc, input.Catalog, cycles, result, recorder, userLogger); err != nil {
			logUserFailure(userLogger, "Failed to distribute user production", err)
			result.Failures = append(result.Failures, UserFailure{UserID: user.Username, Err: err})
			recorder.UserFailed("distribution")
			continue
		}

		result.Processed++
		recorder.UserProcessed()
	}

	for _, container := range result.Containers {
		recorder.ContainerFill(container)
		if container.Overflowing() {
			runLogger.Debug("Container over capacity",
				zap.String("container_id", container.ItemID),
				zap.Float64("filling", container.Filling()),
				zap.Float64("capacity", container.Capacity))
		}
	}

	result.Elapsed = time.Since(result.Started)
	runLogger.Info("Model run complete",
		zap.Int("processed", result.Processed),
		zap.Int("failed", len(result.Failures)),
		zap.Int("no_production", len(result.NoProduction)),
		zap.Duration("elapsed", result.Elapsed))

	return result, nil
}

// distributeCycles distributes one user's production for every cycle. The
// table and production do not change between cycles, so a failure can only
// happen on the first cycle, before any container is credited.
func distributeCycles(user *model.User, distTable model.DistributionTable, prod production.Production, alloc *allocator.Allocator, catalog *allocator.Catalog, cycles []schedule.Cycle, result *RunResult, recorder RunRecorder, logger *zap.Logger) error {
	for _, cycle := range cycles {
		distribution, err := alloc.Distribute(user, distTable, prod, catalog)
		if err != nil {
			return err
		}

		for _, fd := range distribution.Fractions {
			result.Distributed[fd.Fraction] += fd.Credited
			recorder.Distributed(fd.Fraction, fd.Credited)
		}
		for _, fd := range distribution.Undistributed() {
			logger.Warn("No container for fraction",
				zap.String("fraction", fd.Fraction),
				zap.Float64("quantity", fd.Quantity))
		}

		logger.Debug("Distributed production",
			zap.Int("cycle", cycle.Index),
			zap.Float64("credited", distribution.Credited()))
	}
	return nil
}

func logUserFailure(logger *zap.Logger, msg string, err error) {
	fields := []zap.Field{zap.Error(err)}
	var consistencyErr *allocator.ConsistencyError
	if errors.As(err, &consistencyErr) {
		fields = append(fields,
			zap.String("fraction", consistencyErr.Fraction),
			zap.String("container_id", consistencyErr.ContainerID))
	}
	logger.Error(msg, fields...)
}

type nopRecorder struct{}

func (nopRecorder) UserProcessed() {}
func (nopRecorder) UserFailed(string) {}
func (nopRecorder) UserWithoutProduction() {}
func (nopRecorder) PlausibleSet(string, int) {}
func (nopRecorder) Distributed(string, float64) {}
func (nopRecorder) ContainerFill(*model.Container) {}
