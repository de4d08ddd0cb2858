package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/jakechorley/binfill/pkg/core/allocator"
	"github.com/jakechorley/binfill/pkg/core/model"
	"github.com/jakechorley/binfill/pkg/core/production"
	"github.com/jakechorley/binfill/pkg/db"
)

// UserAllocation is one user's distribution table with the quantities it would credit
type UserAllocation struct {
	User       *model.User
	Table      model.DistributionTable
	Production production.Production
}

// AllocateUser computes the distribution table of a single user without
// crediting any container
func AllocateUser(ctx context.Context, source db.RecordSource, alloc *allocator.Allocator, table production.Table, logger *zap.Logger, username string) (*UserAllocation, error) {
	input, err := LoadModel(ctx, source, logger)
	if err != nil {
		return nil, err
	}

	user, err := input.FindUser(username)
	if err != nil {
		return nil, err
	}

	logger.Debug("Allocating user", zap.String("user_id", user.Username), zap.String("user_type", user.Type))

	distTable, err := alloc.Allocate(user, input.Catalog)
	if err != nil {
		return nil, err
	}

	prod, err := table.For(user.Type, user.DimFactor)
	if err != nil && !errors.Is(err, production.ErrNoProduction) {
		return nil, err
	}

	return &UserAllocation{User: user, Table: distTable, Production: prod}, nil
}

// NearestContainer is the nearest container of one fraction
type NearestContainer struct {
	Fraction  string
	Candidate allocator.Candidate
}

// NearestContainers returns the nearest container of every fraction in the
// catalog for the user, in fraction order
func NearestContainers(ctx context.Context, source db.RecordSource, logger *zap.Logger, username string) (*model.User, []NearestContainer, error) {
	input, err := LoadModel(ctx, source, logger)
	if err != nil {
		return nil, nil, err
	}

	user, err := input.FindUser(username)
	if err != nil {
		return nil, nil, err
	}

	var nearest []NearestContainer
	for _, fraction := range input.Catalog.Fractions() {
		candidate, ok := input.Catalog.Nearest(user, fraction)
		if !ok {
			continue
		}
		nearest = append(nearest, NearestContainer{Fraction: fraction, Candidate: candidate})
	}

	return user, nearest, nil
}

// UserProduction pairs a user with its production for one cycle
type UserProduction struct {
	User       *model.User
	Production production.Production
}

// ListProduction returns the production of every loaded user. Users whose
// type has no standard production are included with an undefined production.
func ListProduction(ctx context.Context, source db.RecordSource, table production.Table, logger *zap.Logger) ([]UserProduction, error) {
	input, err := LoadModel(ctx, source, logger)
	if err != nil {
		return nil, err
	}

	result := make([]UserProduction, 0, len(input.Users))
	for _, user := range input.Users {
		prod, err := table.For(user.Type, user.DimFactor)
		if err != nil && !errors.Is(err, production.ErrNoProduction) {
			return nil, err
		}
		result = append(result, UserProduction{User: user, Production: prod})
	}

	return result, nil
}
