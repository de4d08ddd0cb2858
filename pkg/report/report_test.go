package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/jakechorley/binfill/pkg/core/model"
	"github.com/jakechorley/binfill/pkg/core/schedule"
	"github.com/jakechorley/binfill/pkg/core/services"
)

func sampleResult() *services.RunResult {
	c1 := &model.Container{ItemID: "20", Name: "CS.20.glass", Zone: "CS.20", Fraction: "glass", Capacity: 2.5,
		Location: model.Coordinate{Lat: 37.8821, Lon: 14.6307}}
	c2 := &model.Container{ItemID: "21", Name: "CS.20.paper", Zone: "CS.20", Fraction: "paper", Capacity: 1,
		Location: model.Coordinate{Lat: 37.8822, Lon: 14.6308}}
	c3 := &model.Container{ItemID: "30", Name: "CS.30.glass", Zone: "CS.30", Fraction: "glass", Capacity: 2.5,
		Location: model.Coordinate{Lat: 37.8839, Lon: 14.6318}}
	c1.AddWaste(1.6)
	c2.AddWaste(1.5)

	return &services.RunResult{
		RunID:        "run-1",
		Started:      time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC),
		Elapsed:      1500 * time.Millisecond,
		Cycles:       []schedule.Cycle{{Index: 0}},
		Processed:    2,
		NoProduction: []string{"C40"},
		Failures:     []services.UserFailure{{UserID: "C99", Err: errors.New("zero-sum normalization")}},
		RecordErrors: []*services.RecordError{{Kind: "container", RecordID: "77", Err: errors.New("bad lat")}},
		Distributed:  map[string]float64{"glass": 1.6, "paper": 1.5},
		Containers:   []*model.Container{c1, c2, c3},
	}
}

func TestBuild(t *testing.T) {
	r := Build(sampleResult(), "m3")

	assert.Equal(t, "run-1", r.RunID)
	assert.Equal(t, int64(1500), r.ElapsedMs)
	assert.Equal(t, 1, r.Cycles)
	assert.Equal(t, "m3", r.Unit)

	require.Len(t, r.Containers, 3)
	assert.Equal(t, "20", r.Containers[0].ID)
	assert.InDelta(t, 0.64, r.Containers[0].FillRatio, 1e-9)
	assert.False(t, r.Containers[0].Overflowing)
	assert.True(t, r.Containers[1].Overflowing)

	require.Len(t, r.Zones, 2)
	assert.Equal(t, "CS.20", r.Zones[0].ID)
	assert.Equal(t, 2, r.Zones[0].Containers)
	assert.InDelta(t, 3.1, r.Zones[0].Filling, 1e-9)
	assert.InDelta(t, 3.5, r.Zones[0].Capacity, 1e-9)
	assert.Equal(t, "CS.30", r.Zones[1].ID)
	assert.Equal(t, 0.0, r.Zones[1].Filling)

	require.Len(t, r.Failures, 2)
	assert.Equal(t, Failure{Kind: "container", RecordID: "77", Error: "bad lat"}, r.Failures[0])
	assert.Equal(t, Failure{Kind: "user", RecordID: "C99", Error: "zero-sum normalization"}, r.Failures[1])

	overflowing := r.Overflowing()
	require.Len(t, overflowing, 1)
	assert.Equal(t, "21", overflowing[0].ID)
}

func TestBuild_EmptyRunHasNonNilLists(t *testing.T) {
	r := Build(&services.RunResult{RunID: "run-2", Distributed: map[string]float64{}}, "m3")

	assert.NotNil(t, r.NoProduction)
	assert.NotNil(t, r.Failures)
	assert.NotNil(t, r.Containers)
	assert.NotNil(t, r.Zones)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Build(sampleResult(), "m3"), TextOptions{}))

	out := buf.String()
	assert.Contains(t, out, "Model run run-1")
	assert.Contains(t, out, "CS.20.glass")
	assert.Contains(t, out, "1.600 m3")
	assert.Contains(t, out, "64%")
	assert.Contains(t, out, "150%")
	assert.Contains(t, out, "1 container(s) over capacity")
	assert.Contains(t, out, "No production defined for 1 user(s): C40")
	assert.Contains(t, out, "user C99: zero-sum normalization")
	assert.NotContains(t, out, colorRed, "no color codes unless asked for")
}

func TestWriteText_Color(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Build(sampleResult(), "m3"), TextOptions{Color: true}))

	assert.Contains(t, buf.String(), colorRed)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Build(sampleResult(), "m3")))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "run-1", decoded["run_id"])
	assert.Equal(t, "m3", decoded["unit"])
	containers, ok := decoded["containers"].([]interface{})
	require.True(t, ok)
	assert.Len(t, containers, 3)
	first := containers[0].(map[string]interface{})
	assert.Equal(t, "CS.20.glass", first["name"])
	assert.Equal(t, 1.6, first["filling"])
}

func TestWriteGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, Build(sampleResult(), "m3")))

	var fc geojson.FeatureCollection
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))

	require.Len(t, fc.Features, 3)
	feature := fc.Features[0]
	assert.Equal(t, "20", feature.ID)

	point, ok := feature.Geometry.(*geom.Point)
	require.True(t, ok)
	assert.Equal(t, 14.6307, point.X(), "x is longitude")
	assert.Equal(t, 37.8821, point.Y(), "y is latitude")

	assert.Equal(t, "glass", feature.Properties["fraction"])
	assert.Equal(t, true, fc.Features[1].Properties["overflowing"])

	require.NotNil(t, fc.BBox)
	assert.Equal(t, 14.6307, fc.BBox.Min(0))
	assert.Equal(t, 37.8839, fc.BBox.Max(1))
}

func TestFeatureCollection_Empty(t *testing.T) {
	fc := FeatureCollection(Report{})

	assert.Empty(t, fc.Features)
	assert.Nil(t, fc.BBox)
}
