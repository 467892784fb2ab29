package sinan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dqsus/models"
)

func TestParseYear(t *testing.T) {
	testCases := []struct {
		name     string
		year     int
		expected bool
	}{
		{"CHIKBR22.parquet", 2022, true},
		{"DENGBR07.dbc", 2007, true},
		{"ZIKABR16.parquet", 2016, true},
		{"CHIKSP22.parquet", 0, false},
		{"README.txt", 0, false},
	}

	for _, tc := range testCases {
		year, ok := ParseYear(tc.name)
		assert.Equal(t, tc.expected, ok, tc.name)
		assert.Equal(t, tc.year, year, tc.name)
	}
}

func TestMatchFile(t *testing.T) {
	f, ok := matchFile("FINAIS/chikbr23.parquet", models.Chikungunya)
	require.True(t, ok)
	assert.Equal(t, "chikbr23.parquet", f.Name)
	assert.Equal(t, 2023, f.Year)

	_, ok = matchFile("DENGBR23.parquet", models.Chikungunya)
	assert.False(t, ok)

	_, ok = matchFile("CHIKBR23.dbc", models.Chikungunya)
	assert.False(t, ok)
}

func TestYearsAndSelectYears(t *testing.T) {
	files := []File{
		{Name: "CHIKBR23.parquet", Year: 2023},
		{Name: "CHIKBR21.parquet", Year: 2021},
		{Name: "ZIKABR23.parquet", Year: 2023},
	}

	assert.Equal(t, []int{2021, 2023}, Years(files))

	selected := SelectYears(files, []int{2023, 2030})
	require.Len(t, selected, 2)
	assert.Equal(t, "CHIKBR23.parquet", selected[0].Name)
	assert.Empty(t, SelectYears(files, nil))
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CHIKBR23.parquet"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "DENGBR23.parquet"), []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "CHIKBR21.parquet"), 0o750))

	src := NewDirSource(dir, zap.NewNop())
	files, err := src.Files(context.Background(), models.Chikungunya)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, 2021, files[0].Year)
	assert.Equal(t, filepath.Join(dir, "CHIKBR21.parquet", "*.parquet"), files[0].Location)
	assert.Equal(t, 2023, files[1].Year)

	path, err := src.Fetch(context.Background(), files[1])
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "CHIKBR23.parquet"), path)
}

func TestDirSource_MissingDir(t *testing.T) {
	src := NewDirSource(filepath.Join(t.TempDir(), "nada"), zap.NewNop())
	_, err := src.Files(context.Background(), models.Dengue)
	assert.Error(t, err)
}
