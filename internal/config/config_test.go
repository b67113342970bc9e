package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pig-logistics/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 15, cfg.MaxDay)
	assert.Equal(t, domain.TruckCapacityKg, cfg.TruckCapacityKg)
	assert.Equal(t, domain.CarcassYield, cfg.CarcassYield)
	assert.True(t, cfg.ReadyOnStart)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, SnapshotRandom, cfg.Snapshot.Mode)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, domain.DefaultSlaughterhouse(), cfg.Facility())
	assert.Equal(t, domain.TruckCapacities, cfg.TypeCapacities())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "piglogistics.yaml", `
dataset: s3://sim/resultats.json
listen_addr: ":9000"
shutdown_timeout: 3s
truck_capacities:
  petit: 12000
snapshot:
  mode: fixed
  pigs_ready: 120
slaughterhouse:
  name: Escorxador Nord
  capacity: 500
kafka:
  enabled: true
  brokers: ["k1:9092", "k2:9092"]
  topic: days
`)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "s3://sim/resultats.json", cfg.Dataset)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, SnapshotFixed, cfg.Snapshot.Mode)
	assert.Equal(t, 120, cfg.Snapshot.PigsReady)
	assert.Equal(t, "Escorxador Nord", cfg.Facility().Name)
	assert.Equal(t, 500, cfg.Facility().Capacity)
	assert.Equal(t, "S01", cfg.Facility().ID)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 12000.0, cfg.TypeCapacities()[domain.TruckTypeSmall])
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PIGLOG_LISTEN_ADDR", ":7070")
	t.Setenv("PIGLOG_MAX_DAY", "10")
	t.Setenv("PIGLOG_SNAPSHOT_SEED", "42")
	t.Setenv("PIGLOG_CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, 10, cfg.MaxDay)
	assert.Equal(t, int64(42), cfg.Snapshot.Seed)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Dataset:         "data.json",
			MaxDay:          15,
			TruckCapacityKg: 20000,
			CarcassYield:    0.78,
			Snapshot:        SnapshotConfig{Mode: SnapshotRandom},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no dataset", func(c *Config) { c.Dataset = "" }},
		{"zero max day", func(c *Config) { c.MaxDay = 0 }},
		{"zero capacity", func(c *Config) { c.TruckCapacityKg = 0 }},
		{"yield above one", func(c *Config) { c.CarcassYield = 1.2 }},
		{"zero type capacity", func(c *Config) { c.TruckCapacities = map[string]float64{"petit": 0} }},
		{"unknown snapshot mode", func(c *Config) { c.Snapshot.Mode = "csv" }},
		{"kafka without topic", func(c *Config) { c.Kafka = KafkaConfig{Enabled: true, Brokers: []string{"k:9092"}} }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "PIGLOG_TEST_BASE=base\nPIGLOG_TEST_SHARED=base\n")
	writeFile(t, dir, ".env.local", "PIGLOG_TEST_SHARED=local\n")
	t.Setenv("PIGLOG_TEST_BASE", "")
	os.Unsetenv("PIGLOG_TEST_BASE")
	t.Setenv("PIGLOG_TEST_SHARED", "")
	os.Unsetenv("PIGLOG_TEST_SHARED")

	require.NoError(t, LoadDotEnv(dir))
	assert.Equal(t, "base", os.Getenv("PIGLOG_TEST_BASE"))
	assert.Equal(t, "local", os.Getenv("PIGLOG_TEST_SHARED"))
}

func TestLoadDotEnv_MissingFiles(t *testing.T) {
	assert.NoError(t, LoadDotEnv(t.TempDir()))
}

func TestSnapshotGenerator(t *testing.T) {
	ds := &domain.Dataset{
		Farms: []domain.Farm{{ID: "GRANJA_1"}, {ID: "GRANJA_2"}},
		Activity: []domain.TripRecord{
			{Day: 1, TruckID: "T1", Stops: []string{"GRANJA_1"}, PigsTotal: 60},
		},
	}

	cfg := Config{Snapshot: SnapshotConfig{Mode: SnapshotFixed, Inventory: 1500, PigsReady: 30}}
	snap := cfg.SnapshotGenerator(ds).Generate(ds.Farms)
	assert.Equal(t, 30, snap["GRANJA_2"].PigsReady)
	assert.Equal(t, 1500, snap["GRANJA_2"].Inventory)

	cfg.Snapshot.Mode = SnapshotDemand
	snap = cfg.SnapshotGenerator(ds).Generate(ds.Farms)
	assert.Equal(t, 60, snap["GRANJA_1"].PigsReady)
	assert.Equal(t, 0, snap["GRANJA_2"].PigsReady)

	cfg.Snapshot = SnapshotConfig{Mode: SnapshotRandom, Seed: 7}
	first := cfg.SnapshotGenerator(ds).Generate(ds.Farms)
	second := cfg.SnapshotGenerator(ds).Generate(ds.Farms)
	assert.Equal(t, first, second)
}

func TestSceneParams(t *testing.T) {
	cfg := Config{
		TruckCapacityKg: 18000,
		CarcassYield:    0.8,
		TruckCapacities: map[string]float64{"gran": 22000, "petit": 11000},
		Slaughterhouse:  SlaughterhouseConfig{ID: "S02", Name: "Test", Capacity: 100},
	}
	p := cfg.SceneParams()
	assert.Equal(t, 18000.0, p.TruckCapacityKg)
	assert.Equal(t, map[string]float64{"GRAN": 22000, "PETIT": 11000}, p.TruckCapacities)
	assert.Equal(t, 0.8, p.CarcassYield)
	assert.Equal(t, "S02", p.Origin.ID)
}
