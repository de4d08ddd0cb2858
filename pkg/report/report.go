package report

import (
	"slices"
	"time"

	"github.com/jakechorley/binfill/pkg/core/model"
	"github.com/jakechorley/binfill/pkg/core/services"
)

// Report is the fill state of the containers after a model run
type Report struct {
	RunID        string             `json:"run_id"`
	Started      time.Time          `json:"started"`
	ElapsedMs    int64              `json:"elapsed_ms"`
	Cycles       int                `json:"cycles"`
	Unit         string             `json:"unit"`
	Processed    int                `json:"processed_users"`
	NoProduction []string           `json:"users_without_production"`
	Failures     []Failure          `json:"failures"`
	Distributed  map[string]float64 `json:"distributed"`
	Zones        []ZoneRow          `json:"zones"`
	Containers   []ContainerRow     `json:"containers"`
}

// Failure is a user or record left out of the run
type Failure struct {
	Kind     string `json:"kind"`
	RecordID string `json:"id"`
	Error    string `json:"error"`
}

// ContainerRow is the fill state of one container
type ContainerRow struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Zone        string  `json:"zone"`
	Fraction    string  `json:"fraction"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Filling     float64 `json:"filling"`
	Capacity    float64 `json:"capacity"`
	FillRatio   float64 `json:"fill_ratio"`
	Overflowing bool    `json:"overflowing"`
}

// ZoneRow totals the containers of one zone
type ZoneRow struct {
	ID         string  `json:"id"`
	Containers int     `json:"containers"`
	Filling    float64 `json:"filling"`
	Capacity   float64 `json:"capacity"`
}

// Build assembles the report of a run. Containers keep catalog order.
func Build(result *services.RunResult, unit string) Report {
	r := Report{
		RunID:        result.RunID,
		Started:      result.Started,
		ElapsedMs:    result.Elapsed.Milliseconds(),
		Cycles:       len(result.Cycles),
		Unit:         unit,
		Processed:    result.Processed,
		NoProduction: slices.Clone(result.NoProduction),
		Distributed:  result.Distributed,
		Failures:     []Failure{},
	}
	if r.NoProduction == nil {
		r.NoProduction = []string{}
	}

	for _, recErr := range result.RecordErrors {
		r.Failures = append(r.Failures, Failure{Kind: recErr.Kind, RecordID: recErr.RecordID, Error: recErr.Err.Error()})
	}
	for _, failure := range result.Failures {
		r.Failures = append(r.Failures, Failure{Kind: "user", RecordID: failure.UserID, Error: failure.Err.Error()})
	}

	r.Containers = make([]ContainerRow, 0, len(result.Containers))
	for _, c := range result.Containers {
		r.Containers = append(r.Containers, containerRow(c))
	}

	zones := model.GroupByZone(result.Containers)
	r.Zones = make([]ZoneRow, 0, len(zones))
	for _, z := range zones {
		r.Zones = append(r.Zones, ZoneRow{
			ID:         z.ID,
			Containers: len(z.Containers),
			Filling:    z.Filling(),
			Capacity:   z.Capacity(),
		})
	}

	return r
}

func containerRow(c *model.Container) ContainerRow {
	return ContainerRow{
		ID:          c.ItemID,
		Name:        c.Name,
		Zone:        c.Zone,
		Fraction:    c.Fraction,
		Lat:         c.Location.Lat,
		Lon:         c.Location.Lon,
		Filling:     c.Filling(),
		Capacity:    c.Capacity,
		FillRatio:   c.FillRatio(),
		Overflowing: c.Overflowing(),
	}
}

// Overflowing returns the containers filled beyond their capacity
func (r Report) Overflowing() []ContainerRow {
	var rows []ContainerRow
	for _, row := range r.Containers {
		if row.Overflowing {
			rows = append(rows, row)
		}
	}
	return rows
}
