package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jakechorley/binfill/pkg/core/model"
	"github.com/jakechorley/binfill/pkg/db"
)

var validate = validator.New()

// RecordError reports a record that could not be turned into a model entity
type RecordError struct {
	// Kind is "user" or "container"
	Kind     string
	RecordID string
	Err      error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.RecordID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// HydrateUsers converts user records to model users. Records that fail
// validation are skipped and returned as errors carrying their identity.
func HydrateUsers(records []db.UserRecord) ([]*model.User, []*RecordError) {
	users := make([]*model.User, 0, len(records))
	var failures []*RecordError

	for _, record := range records {
		user, err := hydrateUser(record)
		if err != nil {
			failures = append(failures, &RecordError{Kind: "user", RecordID: record.Username, Err: err})
			continue
		}
		users = append(users, user)
	}

	return users, failures
}

func hydrateUser(record db.UserRecord) (*model.User, error) {
	if err := validate.Struct(record); err != nil {
		return nil, err
	}

	location, err := model.ParseCoordinate(record.Username, record.Lat, record.Lon)
	if err != nil {
		return nil, err
	}

	dimFactor, err := strconv.ParseFloat(strings.TrimSpace(record.DimFactor), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid dim_factor %q: %w", record.DimFactor, err)
	}
	if dimFactor <= 0 {
		return nil, fmt.Errorf("dim_factor must be positive, got %v", dimFactor)
	}

	return &model.User{
		Username:  record.Username,
		ItemID:    record.ItemID,
		Name:      record.Name,
		Location:  location,
		Type:      record.UserType,
		DimFactor: dimFactor,
	}, nil
}

// HydrateContainers converts container records to model containers, skipping
// and reporting invalid ones
func HydrateContainers(records []db.ContainerRecord) ([]*model.Container, []*RecordError) {
	containers := make([]*model.Container, 0, len(records))
	var failures []*RecordError

	for _, record := range records {
		container, err := hydrateContainer(record)
		if err != nil {
			failures = append(failures, &RecordError{Kind: "container", RecordID: record.ItemID, Err: err})
			continue
		}
		containers = append(containers, container)
	}

	return containers, failures
}

func hydrateContainer(record db.ContainerRecord) (*model.Container, error) {
	if err := validate.Struct(record); err != nil {
		return nil, err
	}

	location, err := model.ParseCoordinate(record.ItemID, record.Lat, record.Lon)
	if err != nil {
		return nil, err
	}

	var capacity float64
	if c := strings.TrimSpace(record.Capacity); c != "" {
		capacity, err = strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid capacity %q: %w", record.Capacity, err)
		}
		if capacity < 0 {
			return nil, fmt.Errorf("capacity must not be negative, got %v", capacity)
		}
	}

	return &model.Container{
		ItemID:   record.ItemID,
		Name:     record.Name,
		Location: location,
		Zone:     record.Parent,
		Fraction: strings.TrimSpace(record.WasteFraction),
		Type:     record.ConType,
		Capacity: capacity,
	}, nil
}
