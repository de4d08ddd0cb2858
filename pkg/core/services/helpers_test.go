package services

import (
	"context"
	"math"
	"strconv"

	"github.com/jakechorley/binfill/pkg/core/allocator"
	"github.com/jakechorley/binfill/pkg/core/geodistance"
	"github.com/jakechorley/binfill/pkg/core/model"
	"github.com/jakechorley/binfill/pkg/core/production"
	"github.com/jakechorley/binfill/pkg/core/schedule"
	"github.com/jakechorley/binfill/pkg/db"
)

// mockRecordSource implements db.RecordSource
type mockRecordSource struct {
	users            []db.UserRecord
	containers       []db.ContainerRecord
	getUsersErr      error
	getContainersErr error
}

func (m *mockRecordSource) GetUsers(ctx context.Context) ([]db.UserRecord, error) {
	if m.getUsersErr != nil {
		return nil, m.getUsersErr
	}
	return m.users, nil
}

func (m *mockRecordSource) GetContainers(ctx context.Context) ([]db.ContainerRecord, error) {
	if m.getContainersErr != nil {
		return nil, m.getContainersErr
	}
	return m.containers, nil
}

func (m *mockRecordSource) Close() {}

// mockRecorder implements RunRecorder by counting events
type mockRecorder struct {
	processed     int
	failed        map[string]int
	noProduction  int
	plausibleSets map[string][]int
	distributed   map[string]float64
	fills         map[string]float64
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{
		failed:        make(map[string]int),
		plausibleSets: make(map[string][]int),
		distributed:   make(map[string]float64),
		fills:         make(map[string]float64),
	}
}

func (m *mockRecorder) UserProcessed() {
	m.processed++
}

func (m *mockRecorder) UserFailed(reason string) {
	m.failed[reason]++
}

func (m *mockRecorder) UserWithoutProduction() {
	m.noProduction++
}

func (m *mockRecorder) PlausibleSet(fraction string, size int) {
	m.plausibleSets[fraction] = append(m.plausibleSets[fraction], size)
}

func (m *mockRecorder) Distributed(fraction string, quantity float64) {
	m.distributed[fraction] += quantity
}

func (m *mockRecorder) ContainerFill(c *model.Container) {
	m.fills[c.ItemID] = c.Filling()
}

// latNorthOfOrigin returns the latitude, as text, of the point the given
// number of meters north of (0, 0)
func latNorthOfOrigin(meters float64) string {
	degrees := meters / geodistance.EarthRadiusMeters * 180 / math.Pi
	return strconv.FormatFloat(degrees, 'f', -1, 64)
}

func glassContainerRecord(id string, meters float64) db.ContainerRecord {
	return db.ContainerRecord{
		ItemID:        id,
		Name:          "CS." + id + ".glass",
		Lat:           latNorthOfOrigin(meters),
		Lon:           "0",
		Parent:        "CS." + id,
		WasteFraction: "glass",
		Capacity:      "2.5",
	}
}

// glassScenarioSource has one user at the origin and glass containers at 100 m,
// 180 m and 250 m
func glassScenarioSource() *mockRecordSource {
	return &mockRecordSource{
		users: []db.UserRecord{
			{Username: "U1", Lat: "0", Lon: "0", UserType: "domestic", DimFactor: "1"},
		},
		containers: []db.ContainerRecord{
			glassContainerRecord("c1", 100),
			glassContainerRecord("c2", 180),
			glassContainerRecord("c3", 250),
		},
	}
}

func glassTable() production.Table {
	return production.Table{
		Fractions: []string{"glass"},
		Units:     map[string][]float64{"domestic": {2}},
	}
}

func earlyAllocator() *allocator.Allocator {
	alloc, err := allocator.New(allocator.Params{WillFactor: 2, Shape: allocator.ShapeEarly})
	if err != nil {
		panic(err)
	}
	return alloc
}

func singleCycle() []schedule.Cycle {
	return []schedule.Cycle{{Index: 0}}
}
