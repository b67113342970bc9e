// Package config loads runtime settings from flags, environment, .env files
// and an optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"pig-logistics/internal/domain"
	"pig-logistics/internal/scene"
	"pig-logistics/internal/snapshot"
)

// EnvPrefix prefixes every environment variable, e.g. PIGLOG_LISTEN_ADDR.
const EnvPrefix = "PIGLOG"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Snapshot modes.
const (
	SnapshotRandom = "random"
	SnapshotDemand = "demand"
	SnapshotFixed  = "fixed"
)

type Config struct {
	Dataset         string             `mapstructure:"dataset"`
	ListenAddr      string             `mapstructure:"listen_addr"`
	MaxDay          int                `mapstructure:"max_day"`
	TruckCapacityKg float64            `mapstructure:"truck_capacity_kg"`
	TruckCapacities map[string]float64 `mapstructure:"truck_capacities"`
	CarcassYield    float64            `mapstructure:"carcass_yield"`
	ReadyOnStart    bool               `mapstructure:"ready_on_start"`
	ShutdownTimeout time.Duration      `mapstructure:"shutdown_timeout"`

	Slaughterhouse SlaughterhouseConfig `mapstructure:"slaughterhouse"`
	Snapshot       SnapshotConfig       `mapstructure:"snapshot"`
	Kafka          KafkaConfig          `mapstructure:"kafka"`
	CORS           CORSConfig           `mapstructure:"cors"`
	S3             S3Config             `mapstructure:"s3"`
}

type SlaughterhouseConfig struct {
	ID       string  `mapstructure:"id"`
	Name     string  `mapstructure:"name"`
	Lat      float64 `mapstructure:"lat"`
	Lon      float64 `mapstructure:"lon"`
	Capacity int     `mapstructure:"capacity"`
}

// SnapshotConfig picks how farm inventory is drawn at session start.
// Seed 0 means a time-based seed.
type SnapshotConfig struct {
	Mode      string `mapstructure:"mode"`
	Seed      int64  `mapstructure:"seed"`
	Inventory int    `mapstructure:"inventory"`
	PigsReady int    `mapstructure:"pigs_ready"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type S3Config struct {
	Region string `mapstructure:"region"`
}

// SetDefaults registers every key so environment overrides are picked up on Unmarshal.
func SetDefaults(v *viper.Viper) {
	facility := domain.DefaultSlaughterhouse()

	v.SetDefault("dataset", "resultats_simulacio.json")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("max_day", domain.MaxDay)
	v.SetDefault("truck_capacity_kg", domain.TruckCapacityKg)
	for truckType, kg := range domain.TruckCapacities {
		v.SetDefault("truck_capacities."+strings.ToLower(truckType), kg)
	}
	v.SetDefault("carcass_yield", domain.CarcassYield)
	v.SetDefault("ready_on_start", true)
	v.SetDefault("shutdown_timeout", "10s")

	v.SetDefault("slaughterhouse.id", facility.ID)
	v.SetDefault("slaughterhouse.name", facility.Name)
	v.SetDefault("slaughterhouse.lat", facility.Lat)
	v.SetDefault("slaughterhouse.lon", facility.Lon)
	v.SetDefault("slaughterhouse.capacity", facility.Capacity)

	v.SetDefault("snapshot.mode", SnapshotRandom)
	v.SetDefault("snapshot.seed", 0)
	v.SetDefault("snapshot.inventory", 2000)
	v.SetDefault("snapshot.pigs_ready", 75)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "pig-logistics.days")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("s3.region", "")
}

// LoadDotEnv loads .env then .env.local from dir. Missing files are ignored;
// .env never overrides the process environment, .env.local does.
func LoadDotEnv(dir string) error {
	base := dir + string(os.PathSeparator) + ".env"
	local := base + ".local"

	if err := godotenv.Load(base); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", base, err)
	}
	if err := godotenv.Overload(local); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", local, err)
	}
	return nil
}

// Load reads cfgFile (if set, otherwise piglogistics.{yaml,json,toml} from the
// working dir or $HOME when present) and the environment into a Config.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("piglogistics")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&cfg, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and required fields.
func (c *Config) Validate() error {
	var problems []string

	if c.Dataset == "" {
		problems = append(problems, "dataset is required")
	}
	if c.MaxDay < domain.MinDay {
		problems = append(problems, fmt.Sprintf("max_day must be >= %d", domain.MinDay))
	}
	if c.TruckCapacityKg <= 0 {
		problems = append(problems, "truck_capacity_kg must be positive")
	}
	for truckType, kg := range c.TruckCapacities {
		if kg <= 0 {
			problems = append(problems, fmt.Sprintf("truck_capacities.%s must be positive", truckType))
		}
	}
	if c.CarcassYield <= 0 || c.CarcassYield > 1 {
		problems = append(problems, "carcass_yield must be in (0, 1]")
	}
	switch c.Snapshot.Mode {
	case SnapshotRandom, SnapshotDemand, SnapshotFixed:
	default:
		problems = append(problems, fmt.Sprintf("snapshot.mode %q is not one of random, demand, fixed", c.Snapshot.Mode))
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		problems = append(problems, "kafka.brokers and kafka.topic are required when kafka is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Facility returns the configured slaughterhouse.
func (c *Config) Facility() domain.Slaughterhouse {
	return domain.Slaughterhouse{
		ID:       c.Slaughterhouse.ID,
		Name:     c.Slaughterhouse.Name,
		Lat:      c.Slaughterhouse.Lat,
		Lon:      c.Slaughterhouse.Lon,
		Capacity: c.Slaughterhouse.Capacity,
	}
}

// TypeCapacities returns truck_capacities keyed by truck type as it appears in
// the dataset. Viper lowercases keys, so they are upper-cased back here.
func (c *Config) TypeCapacities() map[string]float64 {
	out := make(map[string]float64, len(c.TruckCapacities))
	for truckType, kg := range c.TruckCapacities {
		out[strings.ToUpper(truckType)] = kg
	}
	return out
}

// SceneParams returns the fixed per-session inputs.
func (c *Config) SceneParams() scene.Params {
	return scene.Params{
		Origin:          c.Facility(),
		TruckCapacityKg: c.TruckCapacityKg,
		TruckCapacities: c.TypeCapacities(),
		CarcassYield:    c.CarcassYield,
	}
}

// SnapshotGenerator builds the generator for the configured mode. Demand mode
// derives readiness from activity, so it needs the loaded dataset.
func (c *Config) SnapshotGenerator(ds *domain.Dataset) snapshot.Generator {
	switch c.Snapshot.Mode {
	case SnapshotFixed:
		return snapshot.FixedGenerator{
			Default: snapshot.Figures{Inventory: c.Snapshot.Inventory, PigsReady: c.Snapshot.PigsReady},
		}
	case SnapshotDemand:
		var activity []domain.TripRecord
		if ds != nil {
			activity = ds.Activity
		}
		return snapshot.NewDemandGenerator(activity)
	default:
		seed := c.Snapshot.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return snapshot.NewRandomGenerator(seed)
	}
}
