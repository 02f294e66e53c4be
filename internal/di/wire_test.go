package di

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/growthmap/internal/config"
	"github.com/aristath/growthmap/internal/dataset"
	"github.com/aristath/growthmap/internal/domain"
	"github.com/aristath/growthmap/internal/modules/explorer"
	testingpkg "github.com/aristath/growthmap/internal/testing"
)

const lossRow = "Loss,Germany,Europe,5,-1,10,8,52.5,13.4"

func testConfig(path string) *config.Config {
	return &config.Config{
		Dataset:            dataset.Options{Path: path},
		Port:               8001,
		CacheMaxEntries:    8,
		HighScoreThreshold: 20,
	}
}

func TestWire(t *testing.T) {
	path := testingpkg.WriteCompaniesCSV(t, testingpkg.NewCompanyFixtures()[:2], lossRow)

	container, err := Wire(context.Background(), testConfig(path), zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, container)

	assert.NotNil(t, container.Explorer)
	assert.NotNil(t, container.Charts)
	assert.NotEmpty(t, container.Presets)
	assert.Equal(t, 2, container.Explorer.CompanyCount())

	status := container.DatasetStatus()
	assert.Equal(t, path, status.Source)
	assert.Equal(t, uint64(1), status.Version)
	assert.Equal(t, dataset.FilterStats{Total: 3, NonPositive: 1, Kept: 2}, status.FilterStats)
	assert.False(t, status.LoadedAt.IsZero())
}

func TestWire_SQLite(t *testing.T) {
	path := testingpkg.NewCompaniesDB(t, "firms", testingpkg.NewCompanyFixtures())

	cfg := testConfig(path)
	cfg.Dataset.Table = "firms"

	container, err := Wire(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 3, container.Explorer.CompanyCount())
	assert.Contains(t, container.DatasetStatus().Source, "firms")
}

func TestWire_MissingDataset(t *testing.T) {
	_, err := Wire(context.Background(), testConfig(filepath.Join(t.TempDir(), "missing.csv")), zerolog.Nop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDataSource))
}

func TestWire_BadPresets(t *testing.T) {
	path := testingpkg.WriteCompaniesCSV(t, testingpkg.NewCompanyFixtures()[:1])

	cfg := testConfig(path)
	cfg.PresetsPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := Wire(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestReloadDataset(t *testing.T) {
	fixtures := testingpkg.NewCompanyFixtures()
	path := testingpkg.WriteCompaniesCSV(t, fixtures[:1])

	container, err := Wire(context.Background(), testConfig(path), zerolog.Nop())
	require.NoError(t, err)

	_, err = container.Explorer.Explore(explorer.Query{Weights: domain.DefaultWeights()})
	require.NoError(t, err)
	assert.Equal(t, 1, container.Explorer.CacheStats().Entries)

	testingpkg.RewriteFile(t, path, testingpkg.CompaniesCSV(fixtures[:2]))
	status, err := container.ReloadDataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), status.Version)
	assert.Equal(t, 2, status.FilterStats.Kept)
	assert.Equal(t, 2, container.Explorer.CompanyCount())
	assert.Equal(t, 0, container.Explorer.CacheStats().Entries)

	t.Run("failed reload keeps current data", func(t *testing.T) {
		testingpkg.RewriteFile(t, path, "Company\nA\n")

		status, err := container.ReloadDataset(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrDataSource))
		assert.Equal(t, uint64(2), status.Version)
		assert.Equal(t, 2, container.Explorer.CompanyCount())
	})
}
