package allocator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jakechorley/binfill/pkg/core/geodistance"
	"github.com/jakechorley/binfill/pkg/core/model"
)

// northOfOrigin returns the coordinate that lies the given number of meters north of (0, 0)
func northOfOrigin(meters float64) model.Coordinate {
	return model.Coordinate{Lat: meters / geodistance.EarthRadiusMeters * 180 / math.Pi, Lon: 0}
}

func userAtOrigin(username string) *model.User {
	return &model.User{Username: username, ItemID: username, Name: username, Type: "domestic", DimFactor: 1}
}

func containerAt(id, name, fraction string, meters float64) *model.Container {
	return &model.Container{
		ItemID:   id,
		Name:     name,
		Location: northOfOrigin(meters),
		Zone:     "island-" + id,
		Fraction: fraction,
		Type:     "campana",
		Capacity: 3,
	}
}

func mustCatalog(t *testing.T, containers ...*model.Container) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(containers)
	require.NoError(t, err)
	return catalog
}

func mustAllocator(t *testing.T, willFactor float64, shape Shape) *Allocator {
	t.Helper()
	a, err := New(Params{WillFactor: willFactor, Shape: shape})
	require.NoError(t, err)
	return a
}

// corralesContainers mirrors the sample containers of the Corrales pilot area
func corralesContainers() []*model.Container {
	type row struct {
		id, name       string
		lat, lon       float64
		zone, fraction string
	}
	rows := []row{
		{"CS.20.glass", "cont1", 37.27562032, -6.99163339, "island1", "glass"},
		{"CS.21.glass", "cont2", 37.27688321, -6.99288453, "island2", "glass"},
		{"CS.22.glass", "cont3", 37.27528418, -6.99953553, "island3", "glass"},
		{"CS.20.organic", "cont4", 37.27562032, -6.99153339, "island1", "organic"},
		{"CS.21.organic", "cont5", 37.27688321, -6.99218453, "island2", "organic"},
		{"CS.22.organic", "cont6", 37.27528418, -6.99973553, "island3", "organic"},
		{"CS.20.aluminium", "cont7", 37.27562032, -6.99143339, "island1", "aluminium"},
		{"CS.21.aluminium", "cont8", 37.27688321, -6.99258453, "island2", "aluminium"},
		{"CS.22.aluminium", "cont9", 37.27528418, -6.99923553, "island3", "aluminium"},
	}
	containers := make([]*model.Container, 0, len(rows))
	for _, r := range rows {
		containers = append(containers, &model.Container{
			ItemID:   r.id,
			Name:     r.name,
			Location: model.Coordinate{Lat: r.lat, Lon: r.lon},
			Zone:     r.zone,
			Fraction: r.fraction,
			Type:     "NORD",
			Capacity: 3,
		})
	}
	return containers
}

func corralesUsers() []*model.User {
	return []*model.User{
		{Username: "Corrales.C08", ItemID: "user1", Name: "user1", Location: model.Coordinate{Lat: 37.27696237, Lon: -6.99043453}, Type: "domestic", DimFactor: 1},
		{Username: "Corrales.C11", ItemID: "user2", Name: "user2", Location: model.Coordinate{Lat: 37.27782446, Lon: -6.99183455}, Type: "domestic", DimFactor: 2},
	}
}
