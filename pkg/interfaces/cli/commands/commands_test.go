package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/shiptrack/pkg/config"
	"github.com/vsinha/shiptrack/pkg/infrastructure/repositories/csv"
	testhelpers "github.com/vsinha/shiptrack/pkg/infrastructure/testing"
)

func shopFloorScenario(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "shop_floor")
	require.NoError(t, csv.WriteScenario(dir, testhelpers.ShopFloorItems()))
	return dir
}

func TestStatusCommand_Text(t *testing.T) {
	var out bytes.Buffer
	cmd := NewStatusCommand(StatusConfig{
		Source:  Source{ScenarioDir: shopFloorScenario(t)},
		Format:  "text",
		Verbose: true,
		Out:     &out,
	})

	require.NoError(t, cmd.Execute(context.Background()))
	assert.Contains(t, out.String(), "🚀 Shiptrack Status")
	assert.Contains(t, out.String(), "Items: 4")
	assert.Contains(t, out.String(), "MCC-1")
}

func TestStatusCommand_KindFilter(t *testing.T) {
	var out bytes.Buffer
	cmd := NewStatusCommand(StatusConfig{
		Source: Source{ScenarioDir: shopFloorScenario(t)},
		Kind:   "misc",
		Role:   "edit_access",
		Format: "json",
		Out:    &out,
	})

	require.NoError(t, cmd.Execute(context.Background()))
	assert.Contains(t, out.String(), `"role": "edit_access"`)
	assert.Contains(t, out.String(), testhelpers.SpareFusesID)
	assert.NotContains(t, out.String(), testhelpers.SwitchboardID)
}

func TestStatusCommand_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		config StatusConfig
		want   string
	}{
		{"no_source", StatusConfig{}, "must specify either --scenario directory or --dsn"},
		{"blank_dsn", StatusConfig{Source: Source{Database: config.DatabaseConfig{DSN: "  "}}}, "must specify either --scenario directory or --dsn"},
		{"bad_kind", StatusConfig{Kind: "widget"}, "unknown item kind"},
		{"bad_role", StatusConfig{Role: "root"}, "invalid access role"},
		{"missing_dir", StatusConfig{Source: Source{ScenarioDir: "/does/not/exist"}}, "scenario directory not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Out = &bytes.Buffer{}
			err := NewStatusCommand(tt.config).Execute(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExportCommand_XLSX(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "reports")
	var out bytes.Buffer
	cmd := NewExportCommand(ExportConfig{
		Source:    Source{ScenarioDir: shopFloorScenario(t)},
		Format:    "xlsx",
		OutputDir: outDir,
		Timeout:   time.Minute,
		Verbose:   true,
		Out:       &out,
	})

	path, err := cmd.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, outDir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "Production_Schedule_"))
	assert.Contains(t, out.String(), "Overview=4")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Components")
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestExportCommand_Errors(t *testing.T) {
	_, err := NewExportCommand(ExportConfig{Source: Source{ScenarioDir: shopFloorScenario(t)}, Format: "pdf", Out: &bytes.Buffer{}}).
		Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation error")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outDir := t.TempDir()
	_, err = NewExportCommand(ExportConfig{Source: Source{ScenarioDir: shopFloorScenario(t)}, OutputDir: outDir, Out: &bytes.Buffer{}}).
		Execute(ctx)
	require.Error(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "generated")
	cmd := NewGenerateCommand(GenerateConfig{
		Items:             25,
		MaxPurchaseOrders: 3,
		MaxComponents:     4,
		ReceivedRatio:     0.5,
		StartDate:         "2025-03-01",
		OutputDir:         dir,
		Seed:              42,
		Out:               &bytes.Buffer{},
	})
	require.NoError(t, cmd.Execute(context.Background()))

	items, err := csv.NewLoader().LoadScenario(dir)
	require.NoError(t, err)
	require.Len(t, items, 25)
	for _, item := range items {
		assert.NoError(t, item.Validate())
		assert.LessOrEqual(t, len(item.PurchaseOrders), 3)
	}

	var out bytes.Buffer
	require.NoError(t, NewStatusCommand(StatusConfig{Source: Source{ScenarioDir: dir}, Format: "csv", Out: &out}).
		Execute(context.Background()))
	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 26)
}

func TestGenerateCommand_Reproducible(t *testing.T) {
	generate := func(dir string) []byte {
		cmd := NewGenerateCommand(GenerateConfig{
			Items: 10, MaxPurchaseOrders: 2, MaxComponents: 3, StartDate: "2025-01-06",
			OutputDir: dir, Seed: 7, Out: &bytes.Buffer{},
		})
		require.NoError(t, cmd.Execute(context.Background()))
		data, err := os.ReadFile(filepath.Join(dir, csv.ComponentsFile))
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, generate(t.TempDir()), generate(t.TempDir()))
}

func TestGenerateCommand_Validation(t *testing.T) {
	tests := []GenerateConfig{
		{Items: 0, OutputDir: "x"},
		{Items: 1, MaxComponents: -1, OutputDir: "x"},
		{Items: 1, ReceivedRatio: 1.5, OutputDir: "x"},
		{Items: 1},
		{Items: 1, OutputDir: "x", StartDate: "03/01/2025"},
	}

	for _, cfg := range tests {
		cfg.Out = &bytes.Buffer{}
		err := NewGenerateCommand(cfg).Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation error")
	}
}

func TestMigrateCommand_Validation(t *testing.T) {
	err := NewMigrateCommand(MigrateConfig{Command: "sideways", Database: config.DatabaseConfig{DSN: "postgres://x"}}).
		Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migrate command")

	err = NewMigrateCommand(MigrateConfig{}).Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database DSN is required")
}

func TestSource_Describe(t *testing.T) {
	assert.Equal(t, "scenario examples/shop_floor", Source{ScenarioDir: "examples/shop_floor"}.Describe())
	assert.Equal(t, "postgres", Source{Database: config.DatabaseConfig{DSN: "postgres://x"}}.Describe())
}
