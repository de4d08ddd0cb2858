package csvsource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/binfill/pkg/db"
)

const usersCSV = `username;itemid;instance_name;lat;lon;user_type;dim_factor
C08;108;Utenza C08;37.88050;14.63010;domestic;1
C11;111;Utenza C11;37.88300;14.63300;domestic;2
`

const containersCSV = `itemid;instance_name;lat;lon;parent;waste_fraction;con_type;capacity
20;CS.20.glass;37.88210;14.63070;CS.20;glass;bell;2.5
21;CS.21.glass;37.88390;14.63180;CS.21;glass;bell;2.5
22;CS.22.paper;37.88400;14.63200;CS.22;paper;bin;1.1
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSource_GetUsers(t *testing.T) {
	dir := t.TempDir()
	source := New(writeFile(t, dir, "users.csv", usersCSV), "", 0, zap.NewNop())

	users, err := source.GetUsers(context.Background())
	require.NoError(t, err)

	require.Len(t, users, 2)
	assert.Equal(t, "C08", users[0].Username)
	assert.Equal(t, "108", users[0].ItemID)
	assert.Equal(t, "37.88050", users[0].Lat)
	assert.Equal(t, "domestic", users[0].UserType)
	assert.Equal(t, "2", users[1].DimFactor)
}

func TestSource_GetContainers(t *testing.T) {
	dir := t.TempDir()
	source := New("", writeFile(t, dir, "containers.csv", containersCSV), 0, zap.NewNop())

	containers, err := source.GetContainers(context.Background())
	require.NoError(t, err)

	require.Len(t, containers, 3)
	assert.Equal(t, "20", containers[0].ItemID)
	assert.Equal(t, "CS.20", containers[0].Parent)
	assert.Equal(t, "glass", containers[0].WasteFraction)
	assert.Equal(t, "1.1", containers[2].Capacity)
}

func TestSource_DuplicateKeyKeepsLastRow(t *testing.T) {
	dir := t.TempDir()
	content := usersCSV + "C08;108;Utenza C08 bis;37.88050;14.63010;commercial;3\n"
	source := New(writeFile(t, dir, "users.csv", content), "", 0, zap.NewNop())

	users, err := source.GetUsers(context.Background())
	require.NoError(t, err)

	require.Len(t, users, 2)
	assert.Equal(t, "commercial", users[0].UserType)
	assert.Equal(t, "3", users[0].DimFactor)
}

func TestSource_MissingPrimaryKeyColumn(t *testing.T) {
	dir := t.TempDir()
	content := "itemid;lat;lon\n1;37.8;14.6\n"
	source := New(writeFile(t, dir, "users.csv", content), "", 0, zap.NewNop())

	_, err := source.GetUsers(context.Background())

	var missing *db.MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "username", missing.Column)
}

func TestSource_CustomDelimiter(t *testing.T) {
	dir := t.TempDir()
	content := "username,lat,lon,user_type,dim_factor\nU1,45.1,9.2,domestic,1\n"
	source := New(writeFile(t, dir, "users.csv", content), "", ',', zap.NewNop())

	users, err := source.GetUsers(context.Background())
	require.NoError(t, err)

	require.Len(t, users, 1)
	assert.Equal(t, "45.1", users[0].Lat)
}

func TestSource_MissingFile(t *testing.T) {
	source := New(filepath.Join(t.TempDir(), "absent.csv"), "", 0, zap.NewNop())

	_, err := source.GetUsers(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
